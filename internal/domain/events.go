package domain

import "time"

// AccountEvent is published when an account is created or selected.
type AccountEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	AccountID  string    `json:"account_id"`
	Username   string    `json:"username"`
	Niche      string    `json:"niche"`
	OccurredAt time.Time `json:"occurred_at"`
}

// VideoGeneratedEvent is published after a video job completes and its
// content has been materialized.
type VideoGeneratedEvent struct {
	EventID     string    `json:"event_id"`
	AccountID   string    `json:"account_id"`
	Niche       string    `json:"niche"`
	AspectRatio string    `json:"aspect_ratio"`
	SizeBytes   int       `json:"size_bytes"`
	OccurredAt  time.Time `json:"occurred_at"`
}
