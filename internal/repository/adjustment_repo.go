package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdjustmentStats are derived on demand by aggregation over stored
// adjustments; nothing here is a persisted counter.
type AdjustmentStats struct {
	Pending   int64 `json:"pending"`
	Today     int64 `json:"today"`
	Increases int64 `json:"increases"`
	Decreases int64 `json:"decreases"`
}

type AdjustmentRepository interface {
	Create(ctx context.Context, adj *model.StockAdjustment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockAdjustment, error)
	List(ctx context.Context, status model.AdjustmentStatus, page, limit int) ([]model.StockAdjustment, int64, error)
	Decide(ctx context.Context, id uuid.UUID, to model.AdjustmentStatus, decidedBy uuid.UUID, decidedAt time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Stats(ctx context.Context, todayStart time.Time) (AdjustmentStats, error)
}

type adjustmentRepository struct {
	db *gorm.DB
}

func NewAdjustmentRepository(db *gorm.DB) AdjustmentRepository {
	return &adjustmentRepository{db: db}
}

func (r *adjustmentRepository) Create(ctx context.Context, adj *model.StockAdjustment) error {
	return GetDB(ctx, r.db).Create(adj).Error
}

func (r *adjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.StockAdjustment, error) {
	var adj model.StockAdjustment
	if err := GetDB(ctx, r.db).Preload("Item").Preload("Creator").Preload("Decider").First(&adj, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &adj, nil
}

func (r *adjustmentRepository) List(ctx context.Context, status model.AdjustmentStatus, page, limit int) ([]model.StockAdjustment, int64, error) {
	var adjustments []model.StockAdjustment
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.StockAdjustment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetchQuery := db.Preload("Item").Preload("Creator").Preload("Decider")
	if status != "" {
		fetchQuery = fetchQuery.Where("status = ?", status)
	}
	if err := fetchQuery.Order("created_at DESC").Offset(offset).Limit(limit).Find(&adjustments).Error; err != nil {
		return nil, 0, err
	}

	return adjustments, total, nil
}

// Decide flips a pending adjustment to a terminal status with one conditional
// update keyed on the current status. Returns false when nothing was pending
// under that id.
func (r *adjustmentRepository) Decide(ctx context.Context, id uuid.UUID, to model.AdjustmentStatus, decidedBy uuid.UUID, decidedAt time.Time) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.StockAdjustment{}).
		Where("id = ? AND status = ?", id, model.AdjustmentPending).
		Updates(map[string]interface{}{
			"status":     to,
			"decided_by": decidedBy,
			"decided_at": decidedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *adjustmentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.StockAdjustment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *adjustmentRepository) Stats(ctx context.Context, todayStart time.Time) (AdjustmentStats, error) {
	var stats AdjustmentStats
	db := GetDB(ctx, r.db)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Pending, db.Model(&model.StockAdjustment{}).Where("status = ?", model.AdjustmentPending)},
		{&stats.Today, db.Model(&model.StockAdjustment{}).Where("created_at >= ?", todayStart)},
		{&stats.Increases, db.Model(&model.StockAdjustment{}).Where("adjustment_type = ?", model.AdjustmentIncrease)},
		{&stats.Decreases, db.Model(&model.StockAdjustment{}).Where("adjustment_type = ?", model.AdjustmentDecrease)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return AdjustmentStats{}, err
		}
	}

	return stats, nil
}
