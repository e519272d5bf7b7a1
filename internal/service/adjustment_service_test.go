package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/apperror"
)

func TestAdjustmentApproveAppliesDelta(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	item := h.seedItem(t, "FEED-001", 50)

	created, err := h.adjustments.Create(ctx, h.staff, service.CreateAdjustmentInput{
		ItemID:         item.ID.String(),
		AdjustmentType: "decrease",
		Quantity:       20,
		Reason:         "damage",
		Notes:          "water damage in storage",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, 50, h.itemQuantity(t, item.ID), "quantity must not move before approval")

	approved, err := h.adjustments.Approve(ctx, h.manager, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, 30, h.itemQuantity(t, item.ID))

	logs := h.auditEntries(t, service.EntityStockAdjustment)
	require.Len(t, logs, 2)
	assert.Equal(t, model.AuditActionCreate, logs[0].Action)
	assert.Equal(t, model.AuditActionAdjust, logs[1].Action)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(logs[1].Details), &details))
	assert.EqualValues(t, -20, details["delta"])
	assert.EqualValues(t, 50, details["before"])
	assert.EqualValues(t, 30, details["after"])
}

func TestAdjustmentInsufficientStockLeavesPending(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	item := h.seedItem(t, "FEED-002", 10)

	created, err := h.adjustments.Create(ctx, h.staff, service.CreateAdjustmentInput{
		ItemID:         item.ID.String(),
		AdjustmentType: "decrease",
		Quantity:       25,
		Reason:         "loss",
	})
	require.NoError(t, err)

	_, err = h.adjustments.Approve(ctx, h.admin, created.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.Equal(t, "insufficient_stock", apperror.From(err).Code)

	// The whole approval rolled back: quantity untouched, adjustment still
	// pending, and no adjust entry in the trail.
	assert.Equal(t, 10, h.itemQuantity(t, item.ID))

	listed, _, err := h.adjustments.List(ctx, "pending", 1, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	for _, l := range h.auditEntries(t, service.EntityStockAdjustment) {
		assert.NotEqual(t, model.AuditActionAdjust, l.Action)
	}

	// The same adjustment can still be decided after stock arrives.
	increase, err := h.adjustments.Create(ctx, h.staff, service.CreateAdjustmentInput{
		ItemID:         item.ID.String(),
		AdjustmentType: "increase",
		Quantity:       30,
		Reason:         "found",
	})
	require.NoError(t, err)
	_, err = h.adjustments.Approve(ctx, h.admin, increase.ID)
	require.NoError(t, err)

	_, err = h.adjustments.Approve(ctx, h.admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, h.itemQuantity(t, item.ID))
}

func TestAdjustmentSequentialApprovalsAccumulate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	item := h.seedItem(t, "FEED-003", 50)

	first, err := h.adjustments.Create(ctx, h.staff, service.CreateAdjustmentInput{
		ItemID:         item.ID.String(),
		AdjustmentType: "decrease",
		Quantity:       10,
		Reason:         "expired",
	})
	require.NoError(t, err)
	second, err := h.adjustments.Create(ctx, h.staff, service.CreateAdjustmentInput{
		ItemID:         item.ID.String(),
		AdjustmentType: "decrease",
		Quantity:       10,
		Reason:         "expired",
	})
	require.NoError(t, err)

	_, err = h.adjustments.Approve(ctx, h.admin, first.ID)
	require.NoError(t, err)
	_, err = h.adjustments.Approve(ctx, h.manager, second.ID)
	require.NoError(t, err)

	// Both deltas applied against the database value, neither lost.
	assert.Equal(t, 30, h.itemQuantity(t, item.ID))
}

func TestAdjustmentConcurrentApprovalsSameItem(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	item := h.seedItem(t, "FEED-009", 100)

	first, err := h.adjustments.Create(ctx, h.staff, service.CreateAdjustmentInput{
		ItemID:         item.ID.String(),
		AdjustmentType: "decrease",
		Quantity:       30,
		Reason:         "expired",
	})
	require.NoError(t, err)
	second, err := h.adjustments.Create(ctx, h.staff, service.CreateAdjustmentInput{
		ItemID:         item.ID.String(),
		AdjustmentType: "decrease",
		Quantity:       40,
		Reason:         "damage",
	})
	require.NoError(t, err)

	// Two deciders race on the same item. The delta is computed inside the
	// database, so whichever transaction lands second still sees the first
	// one's write.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = h.adjustments.Approve(ctx, h.admin, first.ID)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = h.adjustments.Approve(ctx, h.manager, second.ID)
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 30, h.itemQuantity(t, item.ID))

	listed, _, err := h.adjustments.List(ctx, "approved", 1, 10)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestAdjustmentDecidedAtMostOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	item := h.seedItem(t, "FEED-004", 40)

	created, err := h.adjustments.Create(ctx, h.staff, service.CreateAdjustmentInput{
		ItemID:         item.ID.String(),
		AdjustmentType: "increase",
		Quantity:       5,
		Reason:         "physical_count",
	})
	require.NoError(t, err)

	_, err = h.adjustments.Approve(ctx, h.admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, h.itemQuantity(t, item.ID))

	// A second approve must not double-apply the delta.
	_, err = h.adjustments.Approve(ctx, h.manager, created.ID)
	require.Error(t, err)
	assert.Equal(t, "already_decided", apperror.From(err).Code)
	assert.Equal(t, 45, h.itemQuantity(t, item.ID))

	_, err = h.adjustments.Reject(ctx, h.manager, created.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestAdjustmentRejectNeverTouchesQuantity(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	item := h.seedItem(t, "FEED-005", 12)

	created, err := h.adjustments.Create(ctx, h.staff, service.CreateAdjustmentInput{
		ItemID:         item.ID.String(),
		AdjustmentType: "increase",
		Quantity:       100,
		Reason:         "other",
	})
	require.NoError(t, err)

	rejected, err := h.adjustments.Reject(ctx, h.manager, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)
	assert.Equal(t, 12, h.itemQuantity(t, item.ID))
}

func TestAdjustmentCreateValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	item := h.seedItem(t, "FEED-006", 10)

	cases := []struct {
		name  string
		input service.CreateAdjustmentInput
		code  string
	}{
		{
			name:  "malformed item id",
			input: service.CreateAdjustmentInput{ItemID: "not-a-uuid", AdjustmentType: "increase", Quantity: 1, Reason: "other"},
			code:  "invalid_item_id",
		},
		{
			name:  "unknown direction",
			input: service.CreateAdjustmentInput{ItemID: item.ID.String(), AdjustmentType: "recount", Quantity: 1, Reason: "other"},
			code:  "invalid_adjustment_type",
		},
		{
			name:  "zero quantity",
			input: service.CreateAdjustmentInput{ItemID: item.ID.String(), AdjustmentType: "increase", Quantity: 0, Reason: "other"},
			code:  "invalid_quantity",
		},
		{
			name:  "negative quantity",
			input: service.CreateAdjustmentInput{ItemID: item.ID.String(), AdjustmentType: "decrease", Quantity: -3, Reason: "other"},
			code:  "invalid_quantity",
		},
		{
			name:  "unknown reason",
			input: service.CreateAdjustmentInput{ItemID: item.ID.String(), AdjustmentType: "increase", Quantity: 1, Reason: "vibes"},
			code:  "invalid_reason",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.adjustments.Create(ctx, h.staff, tc.input)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation))
			assert.Equal(t, tc.code, apperror.From(err).Code)
		})
	}

	// Referencing a missing item is rejected up front, not at approval.
	_, err := h.adjustments.Create(ctx, h.staff, service.CreateAdjustmentInput{
		ItemID:         "11111111-2222-3333-4444-555555555555",
		AdjustmentType: "increase",
		Quantity:       1,
		Reason:         "other",
	})
	require.Error(t, err)
	assert.Equal(t, "item_not_found", apperror.From(err).Code)
}

func TestAdjustmentStats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	item := h.seedItem(t, "FEED-007", 100)

	mk := func(direction string, qty int) service.StockAdjustmentResponse {
		created, err := h.adjustments.Create(ctx, h.staff, service.CreateAdjustmentInput{
			ItemID:         item.ID.String(),
			AdjustmentType: direction,
			Quantity:       qty,
			Reason:         "physical_count",
		})
		require.NoError(t, err)
		return created
	}

	a := mk("increase", 5)
	mk("increase", 3)
	mk("decrease", 2)

	_, err := h.adjustments.Approve(ctx, h.admin, a.ID)
	require.NoError(t, err)

	stats, err := h.adjustments.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Pending)
	assert.EqualValues(t, 3, stats.Today)
	assert.EqualValues(t, 2, stats.Increases)
	assert.EqualValues(t, 1, stats.Decreases)
}

func TestAdjustmentDeleteKeepsAppliedDelta(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	item := h.seedItem(t, "FEED-008", 20)

	created, err := h.adjustments.Create(ctx, h.staff, service.CreateAdjustmentInput{
		ItemID:         item.ID.String(),
		AdjustmentType: "increase",
		Quantity:       10,
		Reason:         "found",
	})
	require.NoError(t, err)
	_, err = h.adjustments.Approve(ctx, h.admin, created.ID)
	require.NoError(t, err)
	require.Equal(t, 30, h.itemQuantity(t, item.ID))

	// Deleting the record does not unwind an already-applied delta; the
	// audit trail keeps both the application and the deletion.
	require.NoError(t, h.adjustments.Delete(ctx, h.admin, created.ID))
	assert.Equal(t, 30, h.itemQuantity(t, item.ID))

	logs := h.auditEntries(t, service.EntityStockAdjustment)
	require.Len(t, logs, 3)
	assert.Equal(t, model.AuditActionDelete, logs[2].Action)
}
