package model

// Inbox is a pseudo-feed that receives entries out-of-band, e.g. email-to-feed.
type Inbox struct {
	ID    string  `json:"id"`
	Title *string `json:"title,omitempty"`
}

func (i Inbox) Key() string { return i.ID }
