package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

// AuditFilter narrows an audit query. Zero values mean "no filter".
type AuditFilter struct {
	Action     model.AuditAction
	EntityType string
	Limit      int
}

// AuditStats aggregates over a time window.
type AuditStats struct {
	TotalLogs           int64 `json:"total_logs"`
	DistinctActorCount  int64 `json:"distinct_actor_count"`
	DistinctActionCount int64 `json:"distinct_action_count"`
}

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	Query(ctx context.Context, filter AuditFilter) ([]model.AuditLog, error)
	Stats(ctx context.Context, since time.Time) (AuditStats, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Log appends one entry. It participates in the caller's ambient transaction,
// so a failed audit write rolls back the operation that triggered it.
func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) Query(ctx context.Context, filter AuditFilter) ([]model.AuditLog, error) {
	db := GetDB(ctx, r.db)
	query := db.Model(&model.AuditLog{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	var logs []model.AuditLog
	if err := query.Order("created_at DESC").Limit(filter.Limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditRepository) Stats(ctx context.Context, since time.Time) (AuditStats, error) {
	var stats AuditStats
	db := GetDB(ctx, r.db)

	base := db.Model(&model.AuditLog{}).Where("created_at >= ?", since)
	if err := base.Count(&stats.TotalLogs).Error; err != nil {
		return AuditStats{}, err
	}
	if err := db.Model(&model.AuditLog{}).Where("created_at >= ?", since).
		Distinct("actor").Count(&stats.DistinctActorCount).Error; err != nil {
		return AuditStats{}, err
	}
	if err := db.Model(&model.AuditLog{}).Where("created_at >= ?", since).
		Distinct("action").Count(&stats.DistinctActionCount).Error; err != nil {
		return AuditStats{}, err
	}

	return stats, nil
}
