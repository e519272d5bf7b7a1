package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LivestockRepository interface {
	Create(ctx context.Context, l *model.Livestock) error
	Update(ctx context.Context, l *model.Livestock) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Livestock, error)
	List(ctx context.Context, species string, page, limit int) ([]model.Livestock, int64, error)
}

type livestockRepository struct {
	db *gorm.DB
}

func NewLivestockRepository(db *gorm.DB) LivestockRepository {
	return &livestockRepository{db: db}
}

func (r *livestockRepository) Create(ctx context.Context, l *model.Livestock) error {
	return GetDB(ctx, r.db).Create(l).Error
}

func (r *livestockRepository) Update(ctx context.Context, l *model.Livestock) error {
	return GetDB(ctx, r.db).Save(l).Error
}

func (r *livestockRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Livestock{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *livestockRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Livestock, error) {
	var l model.Livestock
	if err := GetDB(ctx, r.db).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *livestockRepository) List(ctx context.Context, species string, page, limit int) ([]model.Livestock, int64, error) {
	var livestock []model.Livestock
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Livestock{})
	if species != "" {
		query = query.Where("species = ?", species)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&livestock).Error; err != nil {
		return nil, 0, err
	}
	return livestock, total, nil
}

type FeedRepository interface {
	Create(ctx context.Context, f *model.Feed) error
	Update(ctx context.Context, f *model.Feed) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Feed, error)
	List(ctx context.Context, feedType string, page, limit int) ([]model.Feed, int64, error)
}

type feedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) Create(ctx context.Context, f *model.Feed) error {
	return GetDB(ctx, r.db).Create(f).Error
}

func (r *feedRepository) Update(ctx context.Context, f *model.Feed) error {
	return GetDB(ctx, r.db).Save(f).Error
}

func (r *feedRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Feed{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *feedRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Feed, error) {
	var f model.Feed
	if err := GetDB(ctx, r.db).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *feedRepository) List(ctx context.Context, feedType string, page, limit int) ([]model.Feed, int64, error) {
	var feeds []model.Feed
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Feed{})
	if feedType != "" {
		query = query.Where("feed_type = ?", feedType)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&feeds).Error; err != nil {
		return nil, 0, err
	}
	return feeds, total, nil
}
