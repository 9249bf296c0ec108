package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placePending(t *testing.T, ledger *Ledger) Order {
	t.Helper()
	o, err := ledger.PlaceOnline(context.Background(), "u1", testLines(), dec("349"), dec("24"), dec("300"))
	require.NoError(t, err)
	return o
}

// ============================================
// Lifecycle Graph Tests
// ============================================

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusShipped, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusShipped, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStatus_Predicates(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
	assert.True(t, StatusShipped.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, Status("lost").Valid())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, "strict", p.Name())

	p, err = ParsePolicy("Lenient")
	require.NoError(t, err)
	assert.Equal(t, "lenient", p.Name())

	_, err = ParsePolicy("chaotic")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

// ============================================
// Advance Tests (strict)
// ============================================

func TestLedger_Advance_HappyPath(t *testing.T) {
	ledger, es := newTestLedger()
	ctx := context.Background()
	o := placePending(t, ledger)

	for _, next := range []Status{StatusProcessing, StatusShipped, StatusDelivered} {
		updated, _, err := ledger.Advance(ctx, o.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	assert.Equal(t, []string{EventOrderPlaced, EventOrderStatusChanged, EventOrderStatusChanged, EventOrderStatusChanged}, es.EventTypes())
	last, _ := es.LastCall()
	data := last.Data.(OrderStatusChanged)
	assert.Equal(t, StatusShipped, data.From)
	assert.Equal(t, StatusDelivered, data.To)
	assert.False(t, data.Forced)
}

func TestLedger_Advance_ReturnsPrevious(t *testing.T) {
	ledger, _ := newTestLedger()
	o := placePending(t, ledger)

	_, prev, err := ledger.Advance(context.Background(), o.ID, StatusCancelled)

	require.NoError(t, err)
	assert.Equal(t, StatusPending, prev)
}

func TestLedger_Advance_StrictRejectsSkip(t *testing.T) {
	ledger, es := newTestLedger()
	o := placePending(t, ledger)

	_, _, err := ledger.Advance(context.Background(), o.ID, StatusDelivered)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	stored, _ := ledger.Get(o.ID)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Len(t, es.AppendCalls, 1)
}

func TestLedger_Advance_StrictRejectsLeavingTerminal(t *testing.T) {
	ledger, _ := newTestLedger()
	ctx := context.Background()
	o := placePending(t, ledger)
	_, _, err := ledger.Advance(ctx, o.ID, StatusCancelled)
	require.NoError(t, err)

	_, _, err = ledger.Advance(ctx, o.ID, StatusPending)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLedger_Advance_UnknownStatus(t *testing.T) {
	ledger, _ := newTestLedger()
	o := placePending(t, ledger)

	_, _, err := ledger.Advance(context.Background(), o.ID, Status("lost"))

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestLedger_Advance_NotFound(t *testing.T) {
	ledger, _ := newTestLedger()

	_, _, err := ledger.Advance(context.Background(), "#NV0000", StatusProcessing)

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// ============================================
// Advance Tests (lenient)
// ============================================

func TestLedger_Advance_LenientFlagsForced(t *testing.T) {
	ledger, es := newTestLedger(WithPolicy(LenientPolicy{}))
	ctx := context.Background()
	o := placePending(t, ledger)

	updated, prev, err := ledger.Advance(ctx, o.ID, StatusDelivered)

	require.NoError(t, err)
	assert.Equal(t, StatusPending, prev)
	assert.Equal(t, StatusDelivered, updated.Status)
	last, _ := es.LastCall()
	assert.True(t, last.Data.(OrderStatusChanged).Forced)
}

func TestLedger_Advance_LenientLegalNotForced(t *testing.T) {
	ledger, es := newTestLedger(WithPolicy(LenientPolicy{}))
	o := placePending(t, ledger)

	_, _, err := ledger.Advance(context.Background(), o.ID, StatusProcessing)

	require.NoError(t, err)
	last, _ := es.LastCall()
	assert.False(t, last.Data.(OrderStatusChanged).Forced)
}

func TestLedger_Advance_OnlyStatusChanges(t *testing.T) {
	ledger, _ := newTestLedger(WithPolicy(LenientPolicy{}))
	o := placePending(t, ledger)

	updated, _, err := ledger.Advance(context.Background(), o.ID, StatusShipped)
	require.NoError(t, err)

	assert.Equal(t, o.ID, updated.ID)
	assert.True(t, o.Total.Equal(updated.Total))
	assert.Equal(t, o.Items, updated.Items)
	assert.Equal(t, o.Date, updated.Date)
}
