package model

// Unread is keyed by subscription, so one feed followed twice has two counters.
type Unread struct {
	SubscriptionID string `json:"subscriptionId"`
	Count          int    `json:"count"`
}

func (u Unread) Key() string { return u.SubscriptionID }

// Normalized clamps Count at zero.
func (u Unread) Normalized() Unread {
	if u.Count < 0 {
		u.Count = 0
	}
	return u
}
