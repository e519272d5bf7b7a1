package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalRepository interface {
	Create(ctx context.Context, req *model.ApprovalRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ApprovalRequest, error)
	ListAll(ctx context.Context, page, limit int) ([]model.ApprovalRequest, int64, error)
	ListPending(ctx context.Context, page, limit int) ([]model.ApprovalRequest, int64, error)
	Decide(ctx context.Context, id uuid.UUID, to model.ApprovalStatus, decidedBy uuid.UUID, notes string, decidedAt time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type approvalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(ctx context.Context, req *model.ApprovalRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *approvalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ApprovalRequest, error) {
	var req model.ApprovalRequest
	if err := GetDB(ctx, r.db).Preload("Requester").Preload("Decider").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListAll returns every request newest-first for triage and audit views.
func (r *approvalRepository) ListAll(ctx context.Context, page, limit int) ([]model.ApprovalRequest, int64, error) {
	return r.list(ctx, "", "created_at DESC", page, limit)
}

// ListPending returns pending requests oldest-first. FIFO keeps long-waiting
// requests from starving behind newly created ones.
func (r *approvalRepository) ListPending(ctx context.Context, page, limit int) ([]model.ApprovalRequest, int64, error) {
	return r.list(ctx, model.ApprovalPending, "created_at ASC", page, limit)
}

func (r *approvalRepository) list(ctx context.Context, status model.ApprovalStatus, order string, page, limit int) ([]model.ApprovalRequest, int64, error) {
	var requests []model.ApprovalRequest
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.ApprovalRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetchQuery := db.Preload("Requester").Preload("Decider")
	if status != "" {
		fetchQuery = fetchQuery.Where("status = ?", status)
	}
	if err := fetchQuery.Order(order).Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// Decide flips a pending request to a terminal status with one conditional
// update. Returns false when the request was already decided (or missing), so
// two concurrent decisions can never both succeed.
func (r *approvalRepository) Decide(ctx context.Context, id uuid.UUID, to model.ApprovalStatus, decidedBy uuid.UUID, notes string, decidedAt time.Time) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.ApprovalRequest{}).
		Where("id = ? AND status = ?", id, model.ApprovalPending).
		Updates(map[string]interface{}{
			"status":         to,
			"decided_by":     decidedBy,
			"decision_notes": notes,
			"decided_at":     decidedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *approvalRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ApprovalRequest{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
