// Package allocation implements the ticket allocation engine: binding
// available game tickets to members, linking assignments back to their
// requests, and building the admin summary and detail views. The engine
// holds no locks and no in-memory state; every transition it performs
// is a single conditional write in the store, so concurrent callers are
// arbitrated by the database.
package allocation

import (
	"context"

	"github.com/jdrivas/gtm/internal/model"
)

// TicketStore is the slice of ticket persistence the engine needs.
// Implemented by repository.TicketRepo.
type TicketStore interface {
	// Assign performs the available -> assigned compare-and-set.
	// Exactly one of two racing callers sees true.
	Assign(ctx context.Context, ticketID, userID int64) (bool, error)
	// Revoke performs assigned -> available; false when not assigned.
	Revoke(ctx context.Context, ticketID int64) (bool, error)
	// ReleaseForUser revokes all of one user's tickets in a game.
	ReleaseForUser(ctx context.Context, gamePk, userID int64) (int64, error)
	ListForGame(ctx context.Context, gamePk int64) ([]model.GameTicketDetail, error)
	SummaryRows(ctx context.Context, teamID int64) ([]model.TicketSummaryRow, error)
}

// RequestStore is the slice of the request ledger the engine writes to.
// Implemented by repository.RequestRepo.
type RequestStore interface {
	RecordApproval(ctx context.Context, requestID, seatsGranted int64, status string) (bool, error)
	ListForGame(ctx context.Context, gamePk int64) ([]model.TicketRequest, error)
}

// GameStore resolves games for the detail view. Implemented by
// repository.GameRepo.
type GameStore interface {
	GetByPk(ctx context.Context, gamePk int64) (*model.Game, error)
}

// UserStore supplies the user directory for name decoration.
// Implemented by repository.UserRepo.
type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
}

// Engine orchestrates assignment, revocation and the read-side
// aggregate views over the stores above.
type Engine struct {
	tickets  TicketStore
	requests RequestStore
	games    GameStore
	users    UserStore
	teamID   int64
}

// NewEngine constructs an Engine. All stores must be non-nil.
func NewEngine(tickets TicketStore, requests RequestStore, games GameStore, users UserStore, teamID int64) *Engine {
	if tickets == nil || requests == nil || games == nil || users == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{tickets: tickets, requests: requests, games: games, users: users, teamID: teamID}
}

// Assignment is one entry of an admin allocation batch. RequestID, when
// present, links the assignment to the member's ticket request so the
// approval bookkeeping can follow.
type Assignment struct {
	TicketID  int64  `json:"game_ticket_id"`
	UserID    int64  `json:"user_id"`
	RequestID *int64 `json:"request_id,omitempty"`
}

// Assign binds one available ticket to a user. Returns false when the
// ticket is missing or already assigned — the normal outcome for the
// loser of a concurrent race, retried by the caller against a
// different ticket.
func (e *Engine) Assign(ctx context.Context, ticketID, userID int64) (bool, error) {
	return e.tickets.Assign(ctx, ticketID, userID)
}

// Revoke returns an assigned ticket to the pool. False when the ticket
// was not assigned.
func (e *Engine) Revoke(ctx context.Context, ticketID int64) (bool, error) {
	return e.tickets.Revoke(ctx, ticketID)
}

// ReleaseForUser is the member self-service path: it revokes every
// ticket in the game assigned to that user and nothing else.
func (e *Engine) ReleaseForUser(ctx context.Context, gamePk, userID int64) (int64, error) {
	return e.tickets.ReleaseForUser(ctx, gamePk, userID)
}

// BatchAssign attempts each assignment independently; tickets that are
// no longer available are skipped, not errors. Successful assignments
// carrying a request id accumulate into per-request seat counts which
// are applied once per distinct request after the loop, so a request
// that gains three tickets in one batch sees one additive
// seats_approved += 3 and a single transition to approved. Returns the
// assignments that took effect, in input order.
func (e *Engine) BatchAssign(ctx context.Context, assignments []Assignment) ([]Assignment, error) {
	assigned := make([]Assignment, 0, len(assignments))
	approvals := make(map[int64]int64)

	for _, a := range assignments {
		ok, err := e.tickets.Assign(ctx, a.TicketID, a.UserID)
		if err != nil {
			return assigned, err
		}
		if !ok {
			continue
		}
		assigned = append(assigned, a)
		if a.RequestID != nil {
			approvals[*a.RequestID]++
		}
	}

	for requestID, seats := range approvals {
		if _, err := e.requests.RecordApproval(ctx, requestID, seats, model.RequestApproved); err != nil {
			return assigned, err
		}
	}
	return assigned, nil
}

// SummaryRow is one game's aggregate plus the derived oversubscription
// flag. A game is oversubscribed when pending requested seats exceed
// the tickets still available.
type SummaryRow struct {
	model.TicketSummaryRow
	Oversubscribed bool `json:"oversubscribed"`
}

// Summary returns the per-home-game allocation aggregate.
func (e *Engine) Summary(ctx context.Context) ([]SummaryRow, error) {
	base, err := e.tickets.SummaryRows(ctx, e.teamID)
	if err != nil {
		return nil, err
	}
	rows := make([]SummaryRow, 0, len(base))
	for _, b := range base {
		rows = append(rows, SummaryRow{
			TicketSummaryRow: b,
			Oversubscribed:   b.TotalRequested > b.Available,
		})
	}
	return rows, nil
}

// TicketWithUser decorates a ticket with the assigned member's name
// for the admin detail view.
type TicketWithUser struct {
	model.GameTicketDetail
	AssignedUserName *string `json:"assigned_user_name"`
}

// RequestWithUser decorates a request with the requester's name.
type RequestWithUser struct {
	model.TicketRequest
	UserName string `json:"user_name"`
}

// GameDetail is the admin inspection view for one game: the game row,
// every ticket with its holder, and every request with its requester.
type GameDetail struct {
	Game     *model.Game       `json:"game"`
	Tickets  []TicketWithUser  `json:"tickets"`
	Requests []RequestWithUser `json:"requests"`
}

// Detail assembles the read-only join view for one game. Decoration is
// plain map lookup by user id; a ticket whose holder no longer resolves
// is kept with a nil name rather than dropped — it should not happen
// under the invariants but the view must not break if it does.
// Returns repository.ErrGameNotFound (passed through from the game
// store) when the game does not exist.
func (e *Engine) Detail(ctx context.Context, gamePk int64) (*GameDetail, error) {
	game, err := e.games.GetByPk(ctx, gamePk)
	if err != nil {
		return nil, err
	}
	tickets, err := e.tickets.ListForGame(ctx, gamePk)
	if err != nil {
		return nil, err
	}
	requests, err := e.requests.ListForGame(ctx, gamePk)
	if err != nil {
		return nil, err
	}
	users, err := e.users.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	det := &GameDetail{
		Game:     game,
		Tickets:  make([]TicketWithUser, 0, len(tickets)),
		Requests: make([]RequestWithUser, 0, len(requests)),
	}
	for _, t := range tickets {
		tw := TicketWithUser{GameTicketDetail: t}
		if t.AssignedTo != nil {
			if name, ok := names[*t.AssignedTo]; ok {
				tw.AssignedUserName = &name
			}
		}
		det.Tickets = append(det.Tickets, tw)
	}
	for _, req := range requests {
		det.Requests = append(det.Requests, RequestWithUser{
			TicketRequest: req,
			UserName:      names[req.UserID], // blank when unresolvable
		})
	}
	return det, nil
}
