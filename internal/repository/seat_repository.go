package repository // repository defines data access for season ticket seats

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jdrivas/gtm/internal/model"
)

// SeatRepo provides methods to work with season ticket seats. Seat
// identity (section, row, seat number) is immutable after creation;
// only notes may change. Deleting a seat removes all of its game
// tickets first, which forcibly revokes any outstanding assignment.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// Add inserts a single seat. Section, row and seat number are required
// and blank values are rejected with ErrValidation. On success the
// returned seat carries its generated ID.
func (r *SeatRepo) Add(ctx context.Context, section, row, seat string, notes *string) (*model.Seat, error) {
	section = strings.TrimSpace(section)
	row = strings.TrimSpace(row)
	seat = strings.TrimSpace(seat)
	if section == "" || row == "" || seat == "" {
		return nil, validationf("section, row and seat are required")
	}
	const q = `INSERT INTO seats (section, row_label, seat_number, notes)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, section, row, seat, notes)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return nil, validationf("seat %s-%s-%s already exists", section, row, seat)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Seat{ID: id, Section: section, Row: row, Seat: seat, Notes: notes}, nil
}

// List retrieves all seats ordered by (section, row, seat) for stable
// display.
func (r *SeatRepo) List(ctx context.Context) ([]model.Seat, error) {
	const q = `SELECT id, section, row_label, seat_number, notes, created_at, updated_at
	           FROM seats
	           ORDER BY section, row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.Section, &s.Row, &s.Seat, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a seat by its id.
func (r *SeatRepo) GetByID(ctx context.Context, id int64) (*model.Seat, error) {
	const q = `SELECT id, section, row_label, seat_number, notes, created_at, updated_at
	           FROM seats WHERE id = ?`
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.Section, &s.Row, &s.Seat, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// UpdateGroupNotes replaces the notes on every seat in a section/row
// group and returns how many rows changed. Zero means no such group.
func (r *SeatRepo) UpdateGroupNotes(ctx context.Context, section, row string, notes *string) (int64, error) {
	const q = `UPDATE seats
	           SET notes = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE section = ? AND row_label = ?`
	res, err := r.db.ExecContext(ctx, q, notes, section, row)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes a seat and, first, every game ticket generated from
// it, regardless of assignment state. Runs in a transaction so a
// half-deleted seat can never be observed. Returns false when the seat
// did not exist.
func (r *SeatRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_tickets WHERE seat_id = ?`, id); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return n > 0, nil
}
