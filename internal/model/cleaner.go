package model

import "time"

// CleanerType is the kind of entity a CleanerRecord tracks.
type CleanerType string

const (
	CleanerFeed  CleanerType = "feed"
	CleanerEntry CleanerType = "entry"
	CleanerList  CleanerType = "list"
	CleanerInbox CleanerType = "inbox"
)

func (t CleanerType) Valid() bool {
	switch t {
	case CleanerFeed, CleanerEntry, CleanerList, CleanerInbox:
		return true
	}
	return false
}

// CleanerRef identifies an entity whose visit should be recorded.
type CleanerRef struct {
	Type CleanerType `json:"type"`
	ID   string      `json:"id"`
}

// CleanerRecord is the access-tracking shadow row used only for eviction.
type CleanerRecord struct {
	RefID     string
	Type      CleanerType
	VisitedAt time.Time
}
