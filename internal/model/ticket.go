package model

import "time"

// GameTicket statuses. A ticket's assigned_to column is set if and
// only if the status is assigned.
const (
	TicketAvailable = "available"
	TicketAssigned  = "assigned"
)

// GameTicket is the allocatable unit: one seat's right to attend one
// specific home game. Exactly one row exists per (seat, game) pair;
// generation is idempotent.
type GameTicket struct {
	ID         int64     `json:"id"`          // game_tickets.id
	GamePk     int64     `json:"game_pk"`     // game_tickets.game_pk
	SeatID     int64     `json:"seat_id"`     // game_tickets.seat_id
	Status     string    `json:"status"`      // game_tickets.status
	AssignedTo *int64    `json:"assigned_to"` // game_tickets.assigned_to (nullable)
	Notes      *string   `json:"notes"`       // game_tickets.notes (nullable)
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// GameTicketDetail is a ticket joined with its seat's position for
// display. Rows are ordered by (section, row, seat) so lists render
// stably.
type GameTicketDetail struct {
	ID         int64   `json:"id"`
	GamePk     int64   `json:"game_pk"`
	SeatID     int64   `json:"seat_id"`
	Section    string  `json:"section"`
	Row        string  `json:"row"`
	Seat       string  `json:"seat"`
	Status     string  `json:"status"`
	AssignedTo *int64  `json:"assigned_to"`
	Notes      *string `json:"notes"`
}
