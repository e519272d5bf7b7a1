package service

import (
	"context"
	"errors"
	"strings"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EntityLivestock = "livestock"
	EntityFeed      = "feed"
)

type LivestockInput struct {
	TagNumber  string `json:"tag_number" binding:"required"`
	Species    string `json:"species" binding:"required"`
	Breed      string `json:"breed"`
	Headcount  int    `json:"headcount"`
	LocationID string `json:"location_id"`
	Notes      string `json:"notes"`
}

type FeedInput struct {
	Name       string  `json:"name" binding:"required"`
	FeedType   string  `json:"feed_type"`
	QuantityKg float64 `json:"quantity_kg"`
	SupplierID string  `json:"supplier_id"`
}

type LivestockService interface {
	List(ctx context.Context, species string, page, limit int) ([]model.Livestock, int64, error)
	Get(ctx context.Context, id string) (*model.Livestock, error)
	Create(ctx context.Context, actor authz.Actor, input LivestockInput) (*model.Livestock, error)
	Update(ctx context.Context, actor authz.Actor, id string, input LivestockInput) (*model.Livestock, error)
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type livestockService struct {
	repo      repository.LivestockRepository
	audit     AuditService
	txManager repository.TransactionManager
}

func NewLivestockService(repo repository.LivestockRepository, audit AuditService, txManager repository.TransactionManager) LivestockService {
	return &livestockService{repo: repo, audit: audit, txManager: txManager}
}

func (s *livestockService) List(ctx context.Context, species string, page, limit int) ([]model.Livestock, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	livestock, total, err := s.repo.List(ctx, species, page, limit)
	if err != nil {
		return nil, 0, apperror.Persistence("failed to list livestock", err)
	}
	return livestock, total, nil
}

func (s *livestockService) Get(ctx context.Context, id string) (*model.Livestock, error) {
	lsID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid_id", "invalid livestock id")
	}
	l, err := s.repo.FindByID(ctx, lsID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("livestock_not_found", "livestock not found")
		}
		return nil, apperror.Persistence("failed to load livestock", err)
	}
	return l, nil
}

func (s *livestockService) Create(ctx context.Context, actor authz.Actor, input LivestockInput) (*model.Livestock, error) {
	if strings.TrimSpace(input.TagNumber) == "" || strings.TrimSpace(input.Species) == "" {
		return nil, apperror.Validation("missing_fields", "tag_number and species are required")
	}
	headcount := input.Headcount
	if headcount <= 0 {
		headcount = 1
	}

	l := &model.Livestock{
		TagNumber: strings.TrimSpace(input.TagNumber),
		Species:   strings.TrimSpace(input.Species),
		Breed:     input.Breed,
		Headcount: headcount,
		Notes:     input.Notes,
	}
	if input.LocationID != "" {
		parsed, parseErr := uuid.Parse(input.LocationID)
		if parseErr != nil {
			return nil, apperror.Validation("invalid_location_id", "invalid location id")
		}
		l.LocationID = &parsed
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.repo.Create(txCtx, l); createErr != nil {
			return apperror.Persistence("failed to create livestock", createErr)
		}
		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionCreate, EntityLivestock, l.ID.String(), map[string]interface{}{
			"tag_number": l.TagNumber,
			"species":    l.Species,
		})
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *livestockService) Update(ctx context.Context, actor authz.Actor, id string, input LivestockInput) (*model.Livestock, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Species) != "" {
		l.Species = strings.TrimSpace(input.Species)
	}
	if input.Breed != "" {
		l.Breed = input.Breed
	}
	if input.Headcount > 0 {
		l.Headcount = input.Headcount
	}
	if input.Notes != "" {
		l.Notes = input.Notes
	}
	if input.LocationID != "" {
		parsed, parseErr := uuid.Parse(input.LocationID)
		if parseErr != nil {
			return nil, apperror.Validation("invalid_location_id", "invalid location id")
		}
		l.LocationID = &parsed
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, apperror.Persistence("failed to update livestock", err)
	}
	return l, nil
}

func (s *livestockService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor, authz.ActionDelete); err != nil {
		return err
	}
	lsID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid_id", "invalid livestock id")
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, delErr := s.repo.Delete(txCtx, lsID)
		if delErr != nil {
			return apperror.Persistence("failed to delete livestock", delErr)
		}
		if !deleted {
			return apperror.NotFound("livestock_not_found", "livestock not found")
		}
		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionDelete, EntityLivestock, lsID.String(), nil)
	})
}

type FeedService interface {
	List(ctx context.Context, feedType string, page, limit int) ([]model.Feed, int64, error)
	Get(ctx context.Context, id string) (*model.Feed, error)
	Create(ctx context.Context, actor authz.Actor, input FeedInput) (*model.Feed, error)
	Update(ctx context.Context, actor authz.Actor, id string, input FeedInput) (*model.Feed, error)
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type feedService struct {
	repo      repository.FeedRepository
	audit     AuditService
	txManager repository.TransactionManager
}

func NewFeedService(repo repository.FeedRepository, audit AuditService, txManager repository.TransactionManager) FeedService {
	return &feedService{repo: repo, audit: audit, txManager: txManager}
}

func (s *feedService) List(ctx context.Context, feedType string, page, limit int) ([]model.Feed, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	feeds, total, err := s.repo.List(ctx, feedType, page, limit)
	if err != nil {
		return nil, 0, apperror.Persistence("failed to list feeds", err)
	}
	return feeds, total, nil
}

func (s *feedService) Get(ctx context.Context, id string) (*model.Feed, error) {
	feedID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid_id", "invalid feed id")
	}
	f, err := s.repo.FindByID(ctx, feedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("feed_not_found", "feed not found")
		}
		return nil, apperror.Persistence("failed to load feed", err)
	}
	return f, nil
}

func (s *feedService) Create(ctx context.Context, actor authz.Actor, input FeedInput) (*model.Feed, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.Validation("name_required", "name must not be empty")
	}
	if input.QuantityKg < 0 {
		return nil, apperror.Validation("invalid_quantity", "quantity_kg must not be negative")
	}

	f := &model.Feed{
		Name:       strings.TrimSpace(input.Name),
		FeedType:   input.FeedType,
		QuantityKg: input.QuantityKg,
	}
	if input.SupplierID != "" {
		parsed, parseErr := uuid.Parse(input.SupplierID)
		if parseErr != nil {
			return nil, apperror.Validation("invalid_supplier_id", "invalid supplier id")
		}
		f.SupplierID = &parsed
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.repo.Create(txCtx, f); createErr != nil {
			return apperror.Persistence("failed to create feed", createErr)
		}
		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionCreate, EntityFeed, f.ID.String(), map[string]interface{}{"name": f.Name})
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *feedService) Update(ctx context.Context, actor authz.Actor, id string, input FeedInput) (*model.Feed, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) != "" {
		f.Name = strings.TrimSpace(input.Name)
	}
	if input.FeedType != "" {
		f.FeedType = input.FeedType
	}
	if input.QuantityKg > 0 {
		f.QuantityKg = input.QuantityKg
	}
	if input.SupplierID != "" {
		parsed, parseErr := uuid.Parse(input.SupplierID)
		if parseErr != nil {
			return nil, apperror.Validation("invalid_supplier_id", "invalid supplier id")
		}
		f.SupplierID = &parsed
	}
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, apperror.Persistence("failed to update feed", err)
	}
	return f, nil
}

func (s *feedService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor, authz.ActionDelete); err != nil {
		return err
	}
	feedID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid_id", "invalid feed id")
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, delErr := s.repo.Delete(txCtx, feedID)
		if delErr != nil {
			return apperror.Persistence("failed to delete feed", delErr)
		}
		if !deleted {
			return apperror.NotFound("feed_not_found", "feed not found")
		}
		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionDelete, EntityFeed, feedID.String(), nil)
	})
}
