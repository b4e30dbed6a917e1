package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{
	StatusPending, StatusConfirmed, StatusProcessing,
	StatusShipped, StatusDelivered, StatusCancelled,
}

func TestCanTransition_Exhaustive(t *testing.T) {
	legal := map[Status]map[Status]bool{
		StatusPending:    {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed:  {StatusProcessing: true, StatusCancelled: true},
		StatusProcessing: {StatusShipped: true},
		StatusShipped:    {StatusDelivered: true},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := legal[from][to]
			assert.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_TerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range []Status{StatusDelivered, StatusCancelled} {
		for _, to := range allStatuses {
			assert.Falsef(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_SameStateIsIllegal(t *testing.T) {
	for _, s := range allStatuses {
		assert.Falsef(t, CanTransition(s, s), "%s -> %s", s, s)
	}
}

func TestValidateTransition_ErrorCarriesBothStatuses(t *testing.T) {
	err := ValidateTransition(StatusConfirmed, StatusShipped)

	var itErr *InvalidTransitionError
	require.ErrorAs(t, err, &itErr)
	assert.Equal(t, StatusConfirmed, itErr.From)
	assert.Equal(t, StatusShipped, itErr.To)
}

func TestValidateTransition_LegalEdge(t *testing.T) {
	require.NoError(t, ValidateTransition(StatusPending, StatusConfirmed))
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus("SHIPPED")
	require.True(t, ok)
	assert.Equal(t, StatusShipped, st)

	_, ok = ParseStatus("shipped")
	assert.False(t, ok)

	_, ok = ParseStatus("UNKNOWN")
	assert.False(t, ok)
}
