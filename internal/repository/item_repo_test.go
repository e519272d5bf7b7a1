package repository_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backend/internal/model"
	"backend/internal/repository"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("repo_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })

	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Item{}, &model.ApprovalRequest{}, &model.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedItem(t *testing.T, db *gorm.DB, sku string, qty, min int) *model.Item {
	t.Helper()
	item := model.Item{SKU: sku, Name: "Item " + sku, Quantity: qty, MinimumLevel: min}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func TestApplyQuantityDelta(t *testing.T) {
	db := openDB(t)
	repo := repository.NewItemRepository(db)
	ctx := context.Background()

	item := seedItem(t, db, "SKU-1", 10, 0)

	applied, err := repo.ApplyQuantityDelta(ctx, item.ID, -4)
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)

	// Down to exactly zero is allowed.
	applied, err = repo.ApplyQuantityDelta(ctx, item.ID, -6)
	require.NoError(t, err)
	assert.True(t, applied)

	// Past zero is refused and the row is untouched.
	applied, err = repo.ApplyQuantityDelta(ctx, item.ID, -1)
	require.NoError(t, err)
	assert.False(t, applied)

	got, err = repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func TestApplyQuantityDeltaUnknownItem(t *testing.T) {
	db := openDB(t)
	repo := repository.NewItemRepository(db)

	item := seedItem(t, db, "SKU-2", 5, 0)
	_, err := repo.Delete(context.Background(), item.ID)
	require.NoError(t, err)

	applied, err := repo.ApplyQuantityDelta(context.Background(), item.ID, 3)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestListLowStock(t *testing.T) {
	db := openDB(t)
	repo := repository.NewItemRepository(db)
	ctx := context.Background()

	seedItem(t, db, "OK", 50, 10)
	atLevel := seedItem(t, db, "AT", 10, 10)
	below := seedItem(t, db, "LOW", 2, 10)

	low, err := repo.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	// Lowest quantity first.
	assert.Equal(t, below.ID, low[0].ID)
	assert.Equal(t, atLevel.ID, low[1].ID)
}

func TestApprovalDecideIsConditional(t *testing.T) {
	db := openDB(t)
	repo := repository.NewApprovalRepository(db)
	ctx := context.Background()

	user := model.User{Username: "decider", Email: "d@example.com", Password: "x", Role: model.RoleAdmin}
	require.NoError(t, db.Create(&user).Error)

	req := model.ApprovalRequest{
		RequestType: model.RequestTypePurchase,
		Title:       "pallet jack",
		Priority:    model.PriorityMedium,
		Status:      model.ApprovalPending,
		RequestedBy: user.ID,
	}
	require.NoError(t, repo.Create(ctx, &req))

	now := time.Now()
	decided, err := repo.Decide(ctx, req.ID, model.ApprovalApproved, user.ID, "ok", now)
	require.NoError(t, err)
	assert.True(t, decided)

	// Status is no longer pending, so the second write matches nothing.
	decided, err = repo.Decide(ctx, req.ID, model.ApprovalRejected, user.ID, "late", now)
	require.NoError(t, err)
	assert.False(t, decided)

	got, err := repo.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalApproved, got.Status)
	assert.Equal(t, "ok", got.DecisionNotes)
}
