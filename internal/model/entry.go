package model

import (
	"fmt"
	"time"
)

type Media struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	BlurHash string `json:"blurhash,omitempty"`
}

type Attachment struct {
	URL               string `json:"url"`
	MimeType          string `json:"mime_type,omitempty"`
	Title             string `json:"title,omitempty"`
	SizeInBytes       int64  `json:"size_in_bytes,omitempty"`
	DurationInSeconds int    `json:"duration_in_seconds,omitempty"`
}

// EntrySettings are per-entry reading preferences.
type EntrySettings struct {
	Summary       bool   `json:"summary,omitempty"`
	Translation   string `json:"translation,omitempty"`
	Readability   bool   `json:"readability,omitempty"`
	SourceContent bool   `json:"sourceContent,omitempty"`
}

type Entry struct {
	ID                 string            `json:"id"`
	GUID               string            `json:"guid"`
	Title              *string           `json:"title,omitempty"`
	URL                *string           `json:"url,omitempty"`
	Content            *string           `json:"content,omitempty"`
	ReadabilityContent *string           `json:"readabilityContent,omitempty"`
	Description        *string           `json:"description,omitempty"`
	Author             *string           `json:"author,omitempty"`
	AuthorURL          *string           `json:"authorUrl,omitempty"`
	AuthorAvatar       *string           `json:"authorAvatar,omitempty"`
	PublishedAt        time.Time         `json:"publishedAt"`
	InsertedAt         time.Time         `json:"insertedAt"`
	Media              []Media           `json:"media,omitempty"`
	Categories         []string          `json:"categories,omitempty"`
	Attachments        []Attachment      `json:"attachments,omitempty"`
	Extra              map[string]string `json:"extra,omitempty"`
	FeedID             *string           `json:"feedId,omitempty"`
	InboxHandle        *string           `json:"inboxHandle,omitempty"`
	Read               bool              `json:"read"`
	Starred            bool              `json:"starred"`
	Sources            []string          `json:"sources,omitempty"`
	Settings           *EntrySettings    `json:"settings,omitempty"`
}

func (e Entry) Key() string { return e.ID }

// SourceID returns the feed id or inbox handle the entry belongs to.
func (e Entry) SourceID() string {
	if e.FeedID != nil {
		return *e.FeedID
	}
	if e.InboxHandle != nil {
		return *e.InboxHandle
	}
	return ""
}

// Validate enforces that an entry belongs to exactly one of a feed or an inbox.
func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: entry id is empty", ErrInvalidEntity)
	}
	if (e.FeedID == nil) == (e.InboxHandle == nil) {
		return fmt.Errorf("%w: entry %s must reference exactly one of feed, inbox", ErrInvalidEntity, e.ID)
	}
	return nil
}

// Normalized converts timestamps to UTC without a monotonic reading, which is
// the form they take after a storage round trip.
func (e Entry) Normalized() Entry {
	e.PublishedAt = e.PublishedAt.UTC()
	e.InsertedAt = e.InsertedAt.UTC()
	return e
}
