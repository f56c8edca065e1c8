package repository // repository for ticket request persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jdrivas/gtm/internal/model"
)

// RequestRepo owns the ticket_requests ledger. The table is unique on
// (user_id, game_pk), so a member has at most one row per game;
// repeated requests fold into that row and withdrawn rows are
// reactivated in place rather than duplicated.
//
// State machine: pending --update--> pending, pending --withdraw-->
// withdrawn, withdrawn --create--> pending, pending --RecordApproval-->
// approved. Only the allocation engine calls RecordApproval.
type RequestRepo struct {
	db *sql.DB
}

// NewRequestRepo returns a RequestRepo bound to the given database.
func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{db: db} }

const requestColumns = `id, user_id, game_pk, seats_requested, seats_approved, status, notes, created_at, updated_at`

// CreateOrReactivate records a member's ask for seats to one game. The
// whole upsert is a single statement: a fresh (user, game) pair inserts
// a pending row with seats_approved=0; an existing active row takes the
// new seats_requested/notes in place; a withdrawn row additionally
// flips back to pending. seats_approved survives reactivation. Seat
// counts outside [1,4] and unknown games are rejected with
// ErrValidation before any write.
func (r *RequestRepo) CreateOrReactivate(ctx context.Context, userID, gamePk, seatsRequested int64, notes *string) (*model.TicketRequest, error) {
	if seatsRequested < model.MinSeatsRequested || seatsRequested > model.MaxSeatsRequested {
		return nil, validationf("seats_requested must be %d-%d (got %d for game_pk %d)",
			model.MinSeatsRequested, model.MaxSeatsRequested, seatsRequested, gamePk)
	}
	const q = `INSERT INTO ticket_requests (user_id, game_pk, seats_requested, notes)
	           VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	             seats_requested = VALUES(seats_requested),
	             notes = VALUES(notes),
	             status = IF(status = 'withdrawn', 'pending', status),
	             updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, q, userID, gamePk, seatsRequested, notes); err != nil {
		if isForeignKeyErr(err) {
			return nil, validationf("game %d does not exist", gamePk)
		}
		return nil, err
	}
	return r.getByUserAndGame(ctx, userID, gamePk)
}

// Update changes seats_requested, but only when the request belongs to
// the caller and is still pending. Returns false otherwise so the
// handler can answer not-found without leaking other members' rows.
func (r *RequestRepo) Update(ctx context.Context, requestID, userID, seatsRequested int64) (bool, error) {
	if seatsRequested < model.MinSeatsRequested || seatsRequested > model.MaxSeatsRequested {
		return false, validationf("seats_requested must be %d-%d", model.MinSeatsRequested, model.MaxSeatsRequested)
	}
	const q = `UPDATE ticket_requests
	           SET seats_requested = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND user_id = ? AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, q, seatsRequested, requestID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Withdraw transitions pending -> withdrawn under the same ownership
// guard as Update. Withdrawal stops future consideration only: the
// row keeps its seats_approved and any already-assigned tickets stay
// with the member.
func (r *RequestRepo) Withdraw(ctx context.Context, requestID, userID int64) (bool, error) {
	const q = `UPDATE ticket_requests
	           SET status = 'withdrawn', updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND user_id = ? AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, q, requestID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordApproval adds newly granted seats to a request and forces its
// status to approved. Increments are additive so repeated allocation
// batches against the same request accumulate. Engine use only.
func (r *RequestRepo) RecordApproval(ctx context.Context, requestID, seatsGranted int64, status string) (bool, error) {
	const q = `UPDATE ticket_requests
	           SET seats_approved = seats_approved + ?, status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, seatsGranted, status, requestID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListForUser returns all of a member's requests, newest first.
func (r *RequestRepo) ListForUser(ctx context.Context, userID int64) ([]model.TicketRequest, error) {
	q := `SELECT ` + requestColumns + ` FROM ticket_requests WHERE user_id = ? ORDER BY created_at DESC`
	return r.query(ctx, q, userID)
}

// ListForGame returns every request against one game regardless of
// status; the allocation detail view filters as needed.
func (r *RequestRepo) ListForGame(ctx context.Context, gamePk int64) ([]model.TicketRequest, error) {
	q := `SELECT ` + requestColumns + ` FROM ticket_requests WHERE game_pk = ? ORDER BY created_at`
	return r.query(ctx, q, gamePk)
}

// ListPending returns all pending requests across games for the admin
// queue, oldest first so long-waiting members surface on top.
func (r *RequestRepo) ListPending(ctx context.Context) ([]model.TicketRequest, error) {
	q := `SELECT ` + requestColumns + ` FROM ticket_requests WHERE status = 'pending' ORDER BY created_at`
	return r.query(ctx, q)
}

func (r *RequestRepo) getByUserAndGame(ctx context.Context, userID, gamePk int64) (*model.TicketRequest, error) {
	q := `SELECT ` + requestColumns + ` FROM ticket_requests WHERE user_id = ? AND game_pk = ?`
	var tr model.TicketRequest
	err := r.db.QueryRowContext(ctx, q, userID, gamePk).Scan(
		&tr.ID, &tr.UserID, &tr.GamePk, &tr.SeatsRequested, &tr.SeatsApproved,
		&tr.Status, &tr.Notes, &tr.CreatedAt, &tr.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, validationf("request for user %d game %d not found after upsert", userID, gamePk)
		}
		return nil, err
	}
	return &tr, nil
}

func (r *RequestRepo) query(ctx context.Context, q string, args ...any) ([]model.TicketRequest, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.TicketRequest
	for rows.Next() {
		var tr model.TicketRequest
		if err := rows.Scan(&tr.ID, &tr.UserID, &tr.GamePk, &tr.SeatsRequested, &tr.SeatsApproved,
			&tr.Status, &tr.Notes, &tr.CreatedAt, &tr.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
