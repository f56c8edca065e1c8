package repository // repository for game ticket persistence

import (
	"context"
	"database/sql"

	"github.com/jdrivas/gtm/internal/model"
)

// TicketRepo encapsulates database operations for game_tickets. Every
// state transition is a single conditional UPDATE keyed on the current
// status, so concurrent callers racing for the same ticket resolve in
// the database: exactly one write matches, the rest observe false.
// Generation uses insert-if-absent so repeated imports never duplicate
// a (seat, game) pair.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo given a DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// GenerateForSeat creates one available ticket for the given seat and
// every game hosted by the managed team, skipping pairs that already
// have one. Returns the number of tickets newly created. Unknown seat
// ids are rejected with ErrValidation. INSERT IGNORE absorbs the race
// where a concurrent generation slips past the NOT EXISTS check: the
// unique (seat_id, game_pk) key drops the duplicate instead of failing
// the whole statement.
func (r *TicketRepo) GenerateForSeat(ctx context.Context, seatID, teamID int64) (int64, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM seats WHERE id = ?)`, seatID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, validationf("seat %d does not exist", seatID)
	}
	const q = `INSERT IGNORE INTO game_tickets (game_pk, seat_id, status)
	           SELECT g.game_pk, ?, 'available'
	           FROM games g
	           WHERE g.home_team_id = ?
	             AND NOT EXISTS (
	               SELECT 1 FROM game_tickets t
	               WHERE t.seat_id = ? AND t.game_pk = g.game_pk)`
	res, err := r.db.ExecContext(ctx, q, seatID, teamID, seatID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GenerateForAllSeats backfills tickets across the full seats × home
// games cross product, typically after a schedule import discovers new
// games. Same idempotence contract as GenerateForSeat.
func (r *TicketRepo) GenerateForAllSeats(ctx context.Context, teamID int64) (int64, error) {
	const q = `INSERT IGNORE INTO game_tickets (game_pk, seat_id, status)
	           SELECT g.game_pk, s.id, 'available'
	           FROM games g
	           CROSS JOIN seats s
	           WHERE g.home_team_id = ?
	             AND NOT EXISTS (
	               SELECT 1 FROM game_tickets t
	               WHERE t.seat_id = s.id AND t.game_pk = g.game_pk)`
	res, err := r.db.ExecContext(ctx, q, teamID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Assign transitions one ticket from available to assigned, binding it
// to the user. The WHERE clause on current status makes the write a
// compare-and-set: the losing side of a concurrent race matches zero
// rows and observes false. Unknown user ids fail the foreign key and
// surface as ErrValidation.
func (r *TicketRepo) Assign(ctx context.Context, ticketID, userID int64) (bool, error) {
	const q = `UPDATE game_tickets
	           SET status = 'assigned', assigned_to = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = 'available'`
	res, err := r.db.ExecContext(ctx, q, userID, ticketID)
	if err != nil {
		if isForeignKeyErr(err) {
			return false, validationf("user %d does not exist", userID)
		}
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Revoke transitions assigned -> available and clears assigned_to.
// Returns false when the ticket was not assigned.
func (r *TicketRepo) Revoke(ctx context.Context, ticketID int64) (bool, error) {
	const q = `UPDATE game_tickets
	           SET status = 'available', assigned_to = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = 'assigned'`
	res, err := r.db.ExecContext(ctx, q, ticketID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReleaseForUser revokes every ticket in the game currently assigned to
// that user and returns how many were released. The assigned_to guard
// keeps the write scoped: other members' tickets are never touched.
func (r *TicketRepo) ReleaseForUser(ctx context.Context, gamePk, userID int64) (int64, error) {
	const q = `UPDATE game_tickets
	           SET status = 'available', assigned_to = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE game_pk = ? AND assigned_to = ? AND status = 'assigned'`
	res, err := r.db.ExecContext(ctx, q, gamePk, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateNotes edits a ticket's free-text notes. Status transitions are
// deliberately not exposed here; they go through Assign/Revoke so the
// assigned_to invariant cannot be broken by a blind write.
func (r *TicketRepo) UpdateNotes(ctx context.Context, ticketID int64, notes *string) (bool, error) {
	const q = `UPDATE game_tickets
	           SET notes = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, notes, ticketID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const ticketDetailColumns = `t.id, t.game_pk, t.seat_id, s.section, s.row_label, s.seat_number,
	t.status, t.assigned_to, t.notes`

// ListForGame retrieves all tickets for a game joined with seat
// positions, ordered by (section, row, seat) for stable display.
func (r *TicketRepo) ListForGame(ctx context.Context, gamePk int64) ([]model.GameTicketDetail, error) {
	q := `SELECT ` + ticketDetailColumns + `
	      FROM game_tickets t
	      JOIN seats s ON s.id = t.seat_id
	      WHERE t.game_pk = ?
	      ORDER BY s.section, s.row_label, s.seat_number`
	return r.queryDetails(ctx, q, gamePk)
}

// ListForUser retrieves every ticket currently assigned to the user
// across all games, ordered by game then seat.
func (r *TicketRepo) ListForUser(ctx context.Context, userID int64) ([]model.GameTicketDetail, error) {
	q := `SELECT ` + ticketDetailColumns + `
	      FROM game_tickets t
	      JOIN seats s ON s.id = t.seat_id
	      JOIN games g ON g.game_pk = t.game_pk
	      WHERE t.assigned_to = ?
	      ORDER BY g.game_date, s.section, s.row_label, s.seat_number`
	return r.queryDetails(ctx, q, userID)
}

func (r *TicketRepo) queryDetails(ctx context.Context, q string, args ...any) ([]model.GameTicketDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.GameTicketDetail
	for rows.Next() {
		var d model.GameTicketDetail
		if err := rows.Scan(&d.ID, &d.GamePk, &d.SeatID, &d.Section, &d.Row, &d.Seat,
			&d.Status, &d.AssignedTo, &d.Notes); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SummaryRows aggregates inventory per home game: total, assigned and
// available ticket counts plus pending requested seats. Games without
// tickets (no seats registered yet) are excluded, matching the display
// contract.
func (r *TicketRepo) SummaryRows(ctx context.Context, teamID int64) ([]model.TicketSummaryRow, error) {
	const q = `SELECT g.game_pk, g.official_date, g.away_team_name,
	             COUNT(t.id),
	             CAST(COALESCE(SUM(t.status = 'assigned'), 0) AS SIGNED),
	             CAST(COALESCE(SUM(t.status = 'available'), 0) AS SIGNED),
	             COALESCE(req.total_requested, 0)
	           FROM games g
	           JOIN game_tickets t ON t.game_pk = g.game_pk
	           LEFT JOIN (
	             SELECT game_pk, CAST(SUM(seats_requested) AS SIGNED) AS total_requested
	             FROM ticket_requests
	             WHERE status = 'pending'
	             GROUP BY game_pk
	           ) req ON req.game_pk = g.game_pk
	           WHERE g.home_team_id = ?
	           GROUP BY g.game_pk, g.official_date, g.away_team_name, g.game_date, req.total_requested
	           ORDER BY g.game_date`
	rows, err := r.db.QueryContext(ctx, q, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.TicketSummaryRow
	for rows.Next() {
		var row model.TicketSummaryRow
		if err := rows.Scan(&row.GamePk, &row.OfficialDate, &row.AwayTeamName,
			&row.TotalSeats, &row.Assigned, &row.Available, &row.TotalRequested); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
