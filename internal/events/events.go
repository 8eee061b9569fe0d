package events

import (
	"context"
	"time"
)

// TypeDocumentSigned is published after a signed document is persisted.
const TypeDocumentSigned = "document.signed"

// Event is a domain notification for downstream consumers.
type Event struct {
	Type            string    `json:"event_type"`
	DocumentID      string    `json:"document_id"`
	UserID          string    `json:"user_id,omitempty"`
	SignerName      string    `json:"signer_name,omitempty"`
	VerificationURL string    `json:"verification_url,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Publisher delivers events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
