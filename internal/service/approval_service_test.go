package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/apperror"
)

func TestApprovalCreateAndApprove(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	amount := decimal.NewFromInt(1200)
	created, err := h.approvals.Create(ctx, h.staff, service.CreateApprovalRequestInput{
		RequestType: "purchase",
		Title:       "New feed silo",
		Description: "Replace the cracked silo in barn 2",
		Amount:      &amount,
		Priority:    "high",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, h.staff.ID.String(), created.RequestedBy)
	assert.Nil(t, created.DecidedBy)

	decided, err := h.approvals.Approve(ctx, h.admin, created.ID, "budget confirmed")
	require.NoError(t, err)
	assert.Equal(t, "approved", decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, h.admin.ID.String(), *decided.DecidedBy)
	assert.Equal(t, "budget confirmed", decided.DecisionNotes)
	assert.NotNil(t, decided.DecidedAt)

	logs := h.auditEntries(t, service.EntityApprovalRequest)
	require.Len(t, logs, 2)
	assert.Equal(t, model.AuditActionCreate, logs[0].Action)
	assert.Equal(t, h.staff.ID.String(), logs[0].Actor)
	assert.Equal(t, model.AuditActionApprove, logs[1].Action)
	assert.Equal(t, h.admin.ID.String(), logs[1].Actor)
	assert.Equal(t, created.ID, logs[1].EntityID)
}

func TestApprovalCreateValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input service.CreateApprovalRequestInput
		code  string
	}{
		{
			name:  "unknown request type",
			input: service.CreateApprovalRequestInput{RequestType: "upgrade", Title: "x"},
			code:  "invalid_request_type",
		},
		{
			name:  "blank title",
			input: service.CreateApprovalRequestInput{RequestType: "purchase", Title: "   "},
			code:  "title_required",
		},
		{
			name: "negative amount",
			input: service.CreateApprovalRequestInput{
				RequestType: "purchase",
				Title:       "x",
				Amount:      decimalPtr(t, "-5"),
			},
			code: "invalid_amount",
		},
		{
			name:  "unknown priority",
			input: service.CreateApprovalRequestInput{RequestType: "purchase", Title: "x", Priority: "urgent"},
			code:  "invalid_priority",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.approvals.Create(ctx, h.staff, tc.input)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation))
			assert.Equal(t, tc.code, apperror.From(err).Code)
		})
	}

	// No audit rows may survive a failed create.
	assert.Empty(t, h.auditEntries(t, service.EntityApprovalRequest))
}

func TestApprovalCreateRejectsUnresolvedRequester(t *testing.T) {
	h := newHarness(t)

	ghost := authz.Actor{ID: uuid.Nil, Role: model.RoleStaff}
	_, err := h.approvals.Create(context.Background(), ghost, service.CreateApprovalRequestInput{
		RequestType: "other",
		Title:       "anything",
	})
	require.Error(t, err)
	assert.Equal(t, "requester_unresolved", apperror.From(err).Code)
}

func TestApprovalRejectRequiresNotes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.approvals.Create(ctx, h.staff, service.CreateApprovalRequestInput{
		RequestType: "maintenance",
		Title:       "Fix fence",
	})
	require.NoError(t, err)

	_, err = h.approvals.Reject(ctx, h.manager, created.ID, "   ")
	require.Error(t, err)
	assert.Equal(t, "reason_required", apperror.From(err).Code)

	rejected, err := h.approvals.Reject(ctx, h.manager, created.ID, "no budget this quarter")
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)
}

func TestApprovalDecidedAtMostOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.approvals.Create(ctx, h.staff, service.CreateApprovalRequestInput{
		RequestType: "reservation",
		Title:       "Tractor slot",
	})
	require.NoError(t, err)

	_, err = h.approvals.Approve(ctx, h.admin, created.ID, "")
	require.NoError(t, err)

	// Both a second approve and a late reject must fail.
	_, err = h.approvals.Approve(ctx, h.manager, created.ID, "")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.Equal(t, "already_decided", apperror.From(err).Code)

	_, err = h.approvals.Reject(ctx, h.manager, created.ID, "changed my mind")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	// Exactly one decision row in the audit trail.
	decisions := 0
	for _, l := range h.auditEntries(t, service.EntityApprovalRequest) {
		if l.Action == model.AuditActionApprove || l.Action == model.AuditActionReject {
			decisions++
		}
	}
	assert.Equal(t, 1, decisions)
}

func TestApprovalStaffCannotDecide(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.approvals.Create(ctx, h.staff, service.CreateApprovalRequestInput{
		RequestType: "assignment",
		Title:       "Move heifers to pasture 3",
	})
	require.NoError(t, err)

	_, err = h.approvals.Approve(ctx, h.staff, created.ID, "")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAuthorization))

	_, err = h.approvals.Reject(ctx, h.staff, created.ID, "nope")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAuthorization))

	// The request is untouched.
	pending, _, err := h.approvals.ListPending(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, created.ID, pending[0].ID)
}

func TestApprovalListOrdering(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	titles := []string{"first", "second", "third"}
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		created, err := h.approvals.Create(ctx, h.staff, service.CreateApprovalRequestInput{
			RequestType: "other",
			Title:       title,
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
		time.Sleep(5 * time.Millisecond)
	}

	// Pending queue is oldest first.
	pending, total, err := h.approvals.ListPending(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, pending, 3)
	assert.Equal(t, ids[0], pending[0].ID)
	assert.Equal(t, ids[2], pending[2].ID)

	// Full history is newest first.
	all, _, err := h.approvals.ListAll(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)

	// Decided requests drop out of the pending queue only.
	_, err = h.approvals.Approve(ctx, h.admin, ids[0], "")
	require.NoError(t, err)

	pending, _, err = h.approvals.ListPending(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	all, _, err = h.approvals.ListAll(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestApprovalDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.approvals.Create(ctx, h.staff, service.CreateApprovalRequestInput{
		RequestType: "other",
		Title:       "obsolete",
	})
	require.NoError(t, err)

	err = h.approvals.Delete(ctx, h.staff, created.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAuthorization))

	require.NoError(t, h.approvals.Delete(ctx, h.admin, created.ID))

	err = h.approvals.Delete(ctx, h.admin, created.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	logs := h.auditEntries(t, service.EntityApprovalRequest)
	require.Len(t, logs, 2)
	assert.Equal(t, model.AuditActionDelete, logs[1].Action)
}

func decimalPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}
