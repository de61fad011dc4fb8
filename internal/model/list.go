package model

type List struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	Title       string       `json:"title"`
	FeedIDs     []string     `json:"feedIds"`
	Description *string      `json:"description,omitempty"`
	View        FeedViewType `json:"view"`
	Image       *string      `json:"image,omitempty"`
	Fee         int          `json:"fee"`
	OwnerUserID *string      `json:"ownerUserId,omitempty"`
}

func (l List) Key() string { return l.ID }

// HasFeed reports whether feedID is a member of the list.
func (l List) HasFeed(feedID string) bool {
	for _, id := range l.FeedIDs {
		if id == feedID {
			return true
		}
	}
	return false
}

// Normalized replaces a nil FeedIDs with an empty slice, matching what storage returns.
func (l List) Normalized() List {
	if l.FeedIDs == nil {
		l.FeedIDs = []string{}
	}
	return l
}
