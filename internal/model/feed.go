package model

import "time"

// Feed is shared by every subscription that follows it.
type Feed struct {
	ID           string     `json:"id"`
	Title        *string    `json:"title,omitempty"`
	URL          string     `json:"url"`
	Description  *string    `json:"description,omitempty"`
	Image        *string    `json:"image,omitempty"`
	SiteURL      *string    `json:"siteUrl,omitempty"`
	OwnerUserID  *string    `json:"ownerUserId,omitempty"`
	ErrorAt      *time.Time `json:"errorAt,omitempty"`
	ErrorMessage *string    `json:"errorMessage,omitempty"`
}

func (f Feed) Key() string { return f.ID }

func (f Feed) Normalized() Feed {
	if f.ErrorAt != nil {
		at := f.ErrorAt.UTC()
		f.ErrorAt = &at
	}
	return f
}
