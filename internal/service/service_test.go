package service_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
)

// newTestDB opens a temp file sqlite database so every connection in a test
// sees the same tables. The pragmas ride on the DSN so they apply to every
// pooled connection, and _txlock=immediate makes write transactions take the
// write lock at BEGIN instead of failing the snapshot upgrade with
// SQLITE_BUSY when two of them overlap.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("svc_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })

	dsn := tmpFile + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Location{},
		&model.Supplier{},
		&model.Item{},
		&model.Livestock{},
		&model.Feed{},
		&model.ApprovalRequest{},
		&model.StockAdjustment{},
		&model.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type harness struct {
	db *gorm.DB

	itemRepo  repository.ItemRepository
	txManager repository.TransactionManager

	audit       service.AuditService
	approvals   service.ApprovalService
	adjustments service.AdjustmentService

	admin   authz.Actor
	manager authz.Actor
	staff   authz.Actor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := newTestDB(t)

	txManager := repository.NewTransactionManager(db)
	itemRepo := repository.NewItemRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	adjustmentRepo := repository.NewAdjustmentRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditService := service.NewAuditService(auditRepo)

	h := &harness{
		db:          db,
		itemRepo:    itemRepo,
		txManager:   txManager,
		audit:       auditService,
		approvals:   service.NewApprovalService(approvalRepo, auditService, txManager, nil),
		adjustments: service.NewAdjustmentService(adjustmentRepo, itemRepo, auditService, txManager, nil),
	}

	h.admin = h.seedUser(t, "admin-user", model.RoleAdmin)
	h.manager = h.seedUser(t, "manager-user", model.RoleManager)
	h.staff = h.seedUser(t, "staff-user", model.RoleStaff)

	return h
}

func (h *harness) seedUser(t *testing.T, username, role string) authz.Actor {
	t.Helper()
	user := model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(t, h.db.Create(&user).Error)
	return authz.Actor{ID: user.ID, Role: role}
}

func (h *harness) seedItem(t *testing.T, sku string, quantity int) *model.Item {
	t.Helper()
	item := model.Item{
		SKU:          sku,
		Name:         "Item " + sku,
		Category:     "feed",
		Unit:         "bag",
		Quantity:     quantity,
		MinimumLevel: 5,
	}
	require.NoError(t, h.db.Create(&item).Error)
	return &item
}

func (h *harness) itemQuantity(t *testing.T, id uuid.UUID) int {
	t.Helper()
	item, err := h.itemRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return item.Quantity
}

// auditEntries returns all audit rows for one entity type, oldest first.
func (h *harness) auditEntries(t *testing.T, entityType string) []model.AuditLog {
	t.Helper()
	var logs []model.AuditLog
	require.NoError(t, h.db.
		Where("entity_type = ?", entityType).
		Order("created_at ASC").
		Find(&logs).Error)
	return logs
}
