package notification

import (
	"context"
	"time"
)

type Kind string

const (
	KindChallenge     Kind = "challenge"
	KindMatchFinished Kind = "match_finished"
	KindForfeit       Kind = "forfeit"
)

type Message struct {
	RecipientID string            `json:"recipientId"`
	Kind        Kind              `json:"kind"`
	Text        string            `json:"message"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Sink performs a single delivery attempt.
type Sink interface {
	Deliver(ctx context.Context, msg Message) error
}

// Notifier accepts messages without ever blocking the caller on delivery.
type Notifier interface {
	Notify(ctx context.Context, msg Message)
}
