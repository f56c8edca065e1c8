package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewEventStampsIdentityAndTime(t *testing.T) {
	ev := NewEvent(KindTicketAssigned)
	require.Equal(t, KindTicketAssigned, ev.Kind)

	_, err := uuid.Parse(ev.EventID)
	require.NoError(t, err)

	ts, err := time.Parse(time.RFC3339, ev.OccurredAt)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}

func TestNewEventIDsAreUnique(t *testing.T) {
	a := NewEvent(KindTicketRevoked)
	b := NewEvent(KindTicketRevoked)
	require.NotEqual(t, a.EventID, b.EventID)
}
