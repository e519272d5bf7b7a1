package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/model"
	"backend/internal/service"
)

func TestAuditQueryFilters(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	entries := []struct {
		action model.AuditAction
		entity string
	}{
		{model.AuditActionCreate, "item"},
		{model.AuditActionApprove, "approval_request"},
		{model.AuditActionDelete, "item"},
		{model.AuditActionCreate, "approval_request"},
	}
	for i, e := range entries {
		require.NoError(t, h.audit.Record(ctx, h.admin.ID.String(), e.action, e.entity, "entity-id", map[string]interface{}{"seq": i}))
		time.Sleep(5 * time.Millisecond)
	}

	all, err := h.audit.Query(ctx, service.AuditQuery{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	// Newest first.
	assert.Equal(t, string(model.AuditActionCreate), all[0].Action)
	assert.Equal(t, "approval_request", all[0].EntityType)

	byAction, err := h.audit.Query(ctx, service.AuditQuery{Action: "create"})
	require.NoError(t, err)
	assert.Len(t, byAction, 2)

	byEntity, err := h.audit.Query(ctx, service.AuditQuery{EntityType: "item"})
	require.NoError(t, err)
	assert.Len(t, byEntity, 2)

	both, err := h.audit.Query(ctx, service.AuditQuery{Action: "delete", EntityType: "item"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, string(model.AuditActionDelete), both[0].Action)

	limited, err := h.audit.Query(ctx, service.AuditQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestAuditRecordDefaultsToSystemActor(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.audit.Record(ctx, "", model.AuditActionCreate, "item", "x", nil))

	logs, err := h.audit.Query(ctx, service.AuditQuery{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.ActorSystem, logs[0].Actor)
	assert.Empty(t, logs[0].Details)
}

func TestAuditRecordRollsBackWithCaller(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := h.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if recErr := h.audit.Record(txCtx, h.admin.ID.String(), model.AuditActionCreate, "item", "x", nil); recErr != nil {
			return recErr
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	logs, err := h.audit.Query(ctx, service.AuditQuery{})
	require.NoError(t, err)
	assert.Empty(t, logs, "audit entry must roll back with the failing operation")
}

func TestAuditStats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.audit.Record(ctx, h.admin.ID.String(), model.AuditActionCreate, "item", "a", nil))
	require.NoError(t, h.audit.Record(ctx, h.admin.ID.String(), model.AuditActionDelete, "item", "a", nil))
	require.NoError(t, h.audit.Record(ctx, h.staff.ID.String(), model.AuditActionCreate, "item", "b", nil))

	stats, err := h.audit.Stats(ctx, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalLogs)
	assert.EqualValues(t, 2, stats.DistinctActorCount)
	assert.EqualValues(t, 2, stats.DistinctActionCount)
}
