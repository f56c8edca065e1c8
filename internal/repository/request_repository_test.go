package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/jdrivas/gtm/internal/model"
)

// The reactivation contract lives entirely in the upsert SQL, so these
// tests pin the statement itself: one INSERT ... ON DUPLICATE KEY
// UPDATE that folds repeat submissions into the existing row and flips
// only withdrawn rows back to pending.

var requestRows = []string{
	"id", "user_id", "game_pk", "seats_requested", "seats_approved",
	"status", "notes", "created_at", "updated_at",
}

func newRequestRepoMock(t *testing.T) (*RequestRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRequestRepo(db), mock
}

func TestCreateOrReactivateUpsertsInPlace(t *testing.T) {
	repo, mock := newRequestRepoMock(t)
	now := time.Now()

	// The single-statement upsert must carry the withdrawn->pending flip
	// and must not touch seats_approved.
	upsert := regexp.QuoteMeta(`status = IF(status = 'withdrawn', 'pending', status)`)
	mock.ExpectExec(`(?s)INSERT INTO ticket_requests.*ON DUPLICATE KEY UPDATE.*` + upsert).
		WithArgs(int64(7), int64(745001), int64(3), nil).
		WillReturnResult(sqlmock.NewResult(0, 2)) // 2 = existing row updated

	mock.ExpectQuery(`SELECT .* FROM ticket_requests WHERE user_id = \? AND game_pk = \?`).
		WithArgs(int64(7), int64(745001)).
		WillReturnRows(sqlmock.NewRows(requestRows).
			AddRow(42, 7, 745001, 3, 0, model.RequestPending, nil, now, now))

	req, err := repo.CreateOrReactivate(context.Background(), 7, 745001, 3, nil)
	require.NoError(t, err)
	require.Equal(t, int64(42), req.ID)
	require.Equal(t, int64(3), req.SeatsRequested)
	require.Equal(t, model.RequestPending, req.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrReactivatePreservesApprovedSeats(t *testing.T) {
	repo, mock := newRequestRepoMock(t)
	now := time.Now()

	// Withdraw then re-request: the row comes back pending with its
	// accumulated seats_approved intact.
	mock.ExpectExec(`INSERT INTO ticket_requests`).
		WithArgs(int64(7), int64(745001), int64(2), nil).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`SELECT .* FROM ticket_requests WHERE user_id = \? AND game_pk = \?`).
		WithArgs(int64(7), int64(745001)).
		WillReturnRows(sqlmock.NewRows(requestRows).
			AddRow(42, 7, 745001, 2, 3, model.RequestPending, nil, now, now))

	req, err := repo.CreateOrReactivate(context.Background(), 7, 745001, 2, nil)
	require.NoError(t, err)
	require.Equal(t, model.RequestPending, req.Status)
	require.Equal(t, int64(3), req.SeatsApproved, "reactivation must keep accumulated approvals")
	require.Equal(t, int64(2), req.SeatsRequested)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrReactivateRejectsUnknownGame(t *testing.T) {
	repo, mock := newRequestRepoMock(t)

	mock.ExpectExec(`INSERT INTO ticket_requests`).
		WithArgs(int64(7), int64(999), int64(2), nil).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "a foreign key constraint fails"})

	_, err := repo.CreateOrReactivate(context.Background(), 7, 999, 2, nil)
	require.ErrorIs(t, err, ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateForAllSeatsAbsorbsDuplicates(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// INSERT IGNORE keeps a concurrent generation from failing the whole
	// statement when both pass the NOT EXISTS check.
	mock.ExpectExec(`INSERT IGNORE INTO game_tickets`).
		WithArgs(int64(137)).
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, genErr := NewTicketRepo(db).GenerateForAllSeats(context.Background(), 137)
	require.NoError(t, genErr)
	require.Equal(t, int64(5), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
