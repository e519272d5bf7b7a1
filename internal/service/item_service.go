package service

import (
	"context"
	"errors"
	"strings"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/notification"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type CreateItemRequest struct {
	SKU          string `json:"sku" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category"`
	Unit         string `json:"unit"`
	Quantity     int    `json:"quantity"`
	MinimumLevel int    `json:"minimum_level"`
	LocationID   string `json:"location_id"`
	SupplierID   string `json:"supplier_id"`
}

type UpdateItemRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Unit         string `json:"unit"`
	MinimumLevel *int   `json:"minimum_level"`
	LocationID   string `json:"location_id"`
	SupplierID   string `json:"supplier_id"`
}

type ItemResponse struct {
	ID           string `json:"id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Unit         string `json:"unit"`
	Quantity     int    `json:"quantity"`
	MinimumLevel int    `json:"minimum_level"`
	LowStock     bool   `json:"low_stock"`
}

// ItemService is plain CRUD over items. Quantity is set once at creation and
// afterwards mutated only through approved stock adjustments.
type ItemService interface {
	List(ctx context.Context, category, search string, page, limit int) ([]ItemResponse, int64, error)
	ListLowStock(ctx context.Context) ([]ItemResponse, error)
	Get(ctx context.Context, id string) (ItemResponse, error)
	Create(ctx context.Context, actor authz.Actor, req CreateItemRequest) (ItemResponse, error)
	Update(ctx context.Context, actor authz.Actor, id string, req UpdateItemRequest) (ItemResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type itemService struct {
	itemRepo   repository.ItemRepository
	audit      AuditService
	txManager  repository.TransactionManager
	dispatcher *notification.Dispatcher
}

func NewItemService(itemRepo repository.ItemRepository, audit AuditService, txManager repository.TransactionManager, dispatcher *notification.Dispatcher) ItemService {
	return &itemService{itemRepo: itemRepo, audit: audit, txManager: txManager, dispatcher: dispatcher}
}

func (s *itemService) List(ctx context.Context, category, search string, page, limit int) ([]ItemResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	items, total, err := s.itemRepo.List(ctx, category, search, page, limit)
	if err != nil {
		return nil, 0, apperror.Persistence("failed to list items", err)
	}
	return toItemResponses(items), total, nil
}

func (s *itemService) ListLowStock(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.itemRepo.ListLowStock(ctx)
	if err != nil {
		return nil, apperror.Persistence("failed to list low-stock items", err)
	}
	return toItemResponses(items), nil
}

func (s *itemService) Get(ctx context.Context, id string) (ItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return ItemResponse{}, apperror.Validation("invalid_id", "invalid item id")
	}
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemResponse{}, apperror.NotFound("item_not_found", "item not found")
		}
		return ItemResponse{}, apperror.Persistence("failed to load item", err)
	}
	return toItemResponse(*item), nil
}

func (s *itemService) Create(ctx context.Context, actor authz.Actor, req CreateItemRequest) (ItemResponse, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.SKU) == "" {
		return ItemResponse{}, apperror.Validation("missing_fields", "sku and name are required")
	}
	if req.Quantity < 0 || req.MinimumLevel < 0 {
		return ItemResponse{}, apperror.Validation("invalid_quantity", "quantity and minimum_level must not be negative")
	}

	item := model.Item{
		SKU:          strings.TrimSpace(req.SKU),
		Name:         strings.TrimSpace(req.Name),
		Category:     req.Category,
		Unit:         req.Unit,
		Quantity:     req.Quantity,
		MinimumLevel: req.MinimumLevel,
	}
	if req.LocationID != "" {
		parsed, parseErr := uuid.Parse(req.LocationID)
		if parseErr != nil {
			return ItemResponse{}, apperror.Validation("invalid_location_id", "invalid location id")
		}
		item.LocationID = &parsed
	}
	if req.SupplierID != "" {
		parsed, parseErr := uuid.Parse(req.SupplierID)
		if parseErr != nil {
			return ItemResponse{}, apperror.Validation("invalid_supplier_id", "invalid supplier id")
		}
		item.SupplierID = &parsed
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.itemRepo.Create(txCtx, &item); createErr != nil {
			return apperror.Persistence("failed to create item", createErr)
		}
		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionCreate, EntityItem, item.ID.String(), map[string]interface{}{
			"sku":  item.SKU,
			"name": item.Name,
		})
	})
	if err != nil {
		return ItemResponse{}, err
	}

	// An item opened at or below its minimum is already an alert.
	if item.Quantity <= item.MinimumLevel {
		s.dispatcher.Publish(notification.EventLowStock, map[string]interface{}{
			"item_id":       item.ID.String(),
			"sku":           item.SKU,
			"quantity":      item.Quantity,
			"minimum_level": item.MinimumLevel,
		})
	}

	return toItemResponse(item), nil
}

func (s *itemService) Update(ctx context.Context, actor authz.Actor, id string, req UpdateItemRequest) (ItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return ItemResponse{}, apperror.Validation("invalid_id", "invalid item id")
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemResponse{}, apperror.NotFound("item_not_found", "item not found")
		}
		return ItemResponse{}, apperror.Persistence("failed to load item", err)
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	if req.MinimumLevel != nil {
		if *req.MinimumLevel < 0 {
			return ItemResponse{}, apperror.Validation("invalid_quantity", "minimum_level must not be negative")
		}
		item.MinimumLevel = *req.MinimumLevel
	}
	if req.LocationID != "" {
		parsed, parseErr := uuid.Parse(req.LocationID)
		if parseErr != nil {
			return ItemResponse{}, apperror.Validation("invalid_location_id", "invalid location id")
		}
		item.LocationID = &parsed
	}
	if req.SupplierID != "" {
		parsed, parseErr := uuid.Parse(req.SupplierID)
		if parseErr != nil {
			return ItemResponse{}, apperror.Validation("invalid_supplier_id", "invalid supplier id")
		}
		item.SupplierID = &parsed
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return ItemResponse{}, apperror.Persistence("failed to update item", err)
	}

	return toItemResponse(*item), nil
}

func (s *itemService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor, authz.ActionDelete); err != nil {
		return err
	}

	itemID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid_id", "invalid item id")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, delErr := s.itemRepo.Delete(txCtx, itemID)
		if delErr != nil {
			return apperror.Persistence("failed to delete item", delErr)
		}
		if !deleted {
			return apperror.NotFound("item_not_found", "item not found")
		}
		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionDelete, EntityItem, itemID.String(), nil)
	})
}

func toItemResponses(items []model.Item) []ItemResponse {
	res := make([]ItemResponse, 0, len(items))
	for _, i := range items {
		res = append(res, toItemResponse(i))
	}
	return res
}

func toItemResponse(i model.Item) ItemResponse {
	return ItemResponse{
		ID:           i.ID.String(),
		SKU:          i.SKU,
		Name:         i.Name,
		Category:     i.Category,
		Unit:         i.Unit,
		Quantity:     i.Quantity,
		MinimumLevel: i.MinimumLevel,
		LowStock:     i.Quantity <= i.MinimumLevel,
	}
}
