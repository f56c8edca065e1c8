// Package queue defines the allocation event payloads exchanged over
// the message broker and the consumer that turns them into an audit
// trail. Events describe ticket custody changes only; request-ledger
// bookkeeping stays in the database.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Event kinds carried on the allocation.events queue.
const (
	KindTicketAssigned  = "ticket.assigned"
	KindTicketRevoked   = "ticket.revoked"
	KindTicketsReleased = "tickets.released"
)

// AllocationEvent is one custody change. EventID makes redelivered
// messages recognizable; consumers treat events as append-only facts.
type AllocationEvent struct {
	EventID    string `json:"event_id"`
	Kind       string `json:"kind"`
	GamePk     int64  `json:"game_pk,omitempty"`
	TicketID   int64  `json:"game_ticket_id,omitempty"`
	UserID     int64  `json:"user_id,omitempty"`
	Count      int64  `json:"count,omitempty"` // tickets.released only
	ActorEmail string `json:"actor_email,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewEvent stamps a fresh event with id and timestamp.
func NewEvent(kind string) AllocationEvent {
	return AllocationEvent{
		EventID:    uuid.NewString(),
		Kind:       kind,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
