package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// Validation rejections happen before the first database round trip, so
// repos constructed over a nil handle exercise them safely.

func TestSeatAddRequiresAllPositionFields(t *testing.T) {
	r := NewSeatRepo(nil)
	for _, tc := range [][3]string{
		{"", "11", "3"},
		{"135", "", "3"},
		{"135", "11", ""},
		{"  ", "11", "3"},
	} {
		_, err := r.Add(context.Background(), tc[0], tc[1], tc[2], nil)
		require.ErrorIs(t, err, ErrValidation, "%v", tc)
	}
}

func TestRequestSeatCountRange(t *testing.T) {
	r := NewRequestRepo(nil)
	for _, seats := range []int64{0, -1, 5, 100} {
		_, err := r.CreateOrReactivate(context.Background(), 1, 745001, seats, nil)
		require.ErrorIs(t, err, ErrValidation, "seats=%d", seats)
	}
}

func TestRequestSeatCountErrorNamesGame(t *testing.T) {
	r := NewRequestRepo(nil)
	_, err := r.CreateOrReactivate(context.Background(), 1, 745001, 9, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "745001")
}

func TestRequestUpdateSeatCountRange(t *testing.T) {
	r := NewRequestRepo(nil)
	_, err := r.Update(context.Background(), 1, 1, 0)
	require.ErrorIs(t, err, ErrValidation)
	_, err = r.Update(context.Background(), 1, 1, 5)
	require.ErrorIs(t, err, ErrValidation)
}

func TestUserUpsertRequiresSubject(t *testing.T) {
	r := NewUserRepo(nil)
	_, err := r.Upsert(context.Background(), "  ", "a@b.c", "A B", "member")
	require.ErrorIs(t, err, ErrValidation)
}

func TestGrantRoleRejectsUnknownRole(t *testing.T) {
	r := NewUserRepo(nil)
	_, err := r.GrantRole(context.Background(), "a@b.c", "superuser")
	require.ErrorIs(t, err, ErrValidation)
}

func TestValidationfWrapsSentinel(t *testing.T) {
	err := validationf("seats_requested must be %d-%d", 1, 4)
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), "seats_requested must be 1-4")
}

func TestIsForeignKeyErr(t *testing.T) {
	require.True(t, isForeignKeyErr(errors.New("Error 1452: Cannot add or update a child row")))
	require.False(t, isForeignKeyErr(errors.New("Error 1062: Duplicate entry")))
	require.False(t, isForeignKeyErr(nil))
}
