package model

import "time"

// TicketRequest statuses. A request moves pending -> approved when the
// allocation engine grants seats against it, and pending -> withdrawn
// when the member pulls it back. Re-requesting the same game
// reactivates a withdrawn row to pending instead of inserting a
// duplicate; at most one row exists per (user, game).
const (
	RequestPending   = "pending"
	RequestApproved  = "approved"
	RequestWithdrawn = "withdrawn"
)

// Bounds on seats_requested for a single request.
const (
	MinSeatsRequested = 1
	MaxSeatsRequested = 4
)

// TicketRequest is a member's ask for a number of seats to one game.
// SeatsApproved only grows while the request is active and never
// exceeds the tickets actually assigned to the member for that game as
// a consequence of this request.
type TicketRequest struct {
	ID             int64     `json:"id"`              // ticket_requests.id
	UserID         int64     `json:"user_id"`         // ticket_requests.user_id
	GamePk         int64     `json:"game_pk"`         // ticket_requests.game_pk
	SeatsRequested int64     `json:"seats_requested"` // ticket_requests.seats_requested
	SeatsApproved  int64     `json:"seats_approved"`  // ticket_requests.seats_approved
	Status         string    `json:"status"`          // ticket_requests.status
	Notes          *string   `json:"notes"`           // ticket_requests.notes (nullable)
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}
