package model

import (
	"fmt"
	"time"
)

type SubscriptionType string

const (
	SubscriptionFeed  SubscriptionType = "feed"
	SubscriptionList  SubscriptionType = "list"
	SubscriptionInbox SubscriptionType = "inbox"
)

// Subscription joins a user to exactly one followable source.
type Subscription struct {
	ID        string           `json:"id"`
	FeedID    *string          `json:"feedId,omitempty"`
	ListID    *string          `json:"listId,omitempty"`
	InboxID   *string          `json:"inboxId,omitempty"`
	UserID    string           `json:"userId"`
	View      FeedViewType     `json:"view"`
	IsPrivate bool             `json:"isPrivate"`
	Title     *string          `json:"title,omitempty"`
	Category  *string          `json:"category,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	Type      SubscriptionType `json:"type"`
}

func (s Subscription) Key() string { return s.ID }

// TargetID returns the id of the followed feed, list or inbox.
func (s Subscription) TargetID() string {
	switch {
	case s.FeedID != nil:
		return *s.FeedID
	case s.ListID != nil:
		return *s.ListID
	case s.InboxID != nil:
		return *s.InboxID
	}
	return ""
}

// Validate checks that exactly one source reference is set and that Type agrees with it.
func (s Subscription) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: subscription id is empty", ErrInvalidEntity)
	}
	set := 0
	var kind SubscriptionType
	if s.FeedID != nil {
		set++
		kind = SubscriptionFeed
	}
	if s.ListID != nil {
		set++
		kind = SubscriptionList
	}
	if s.InboxID != nil {
		set++
		kind = SubscriptionInbox
	}
	if set != 1 {
		return fmt.Errorf("%w: subscription %s must reference exactly one of feed, list, inbox", ErrInvalidEntity, s.ID)
	}
	if s.Type != "" && s.Type != kind {
		return fmt.Errorf("%w: subscription %s has type %q but references a %s", ErrInvalidEntity, s.ID, s.Type, kind)
	}
	return nil
}

// Normalized fills Type from the populated reference and stores CreatedAt in UTC.
func (s Subscription) Normalized() Subscription {
	s.CreatedAt = s.CreatedAt.UTC()
	switch {
	case s.FeedID != nil:
		s.Type = SubscriptionFeed
	case s.ListID != nil:
		s.Type = SubscriptionList
	case s.InboxID != nil:
		s.Type = SubscriptionInbox
	}
	return s
}
