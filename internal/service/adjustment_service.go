package service

import (
	"context"
	"errors"
	"time"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/notification"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateAdjustmentInput struct {
	ItemID         string `json:"item_id" binding:"required"`
	AdjustmentType string `json:"adjustment_type" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required"`
	Reason         string `json:"reason" binding:"required"`
	LocationID     string `json:"location_id"`
	Notes          string `json:"notes"`
}

type StockAdjustmentResponse struct {
	ID             string  `json:"id"`
	ItemID         string  `json:"item_id"`
	ItemName       string  `json:"item_name,omitempty"`
	AdjustmentType string  `json:"adjustment_type"`
	Quantity       int     `json:"quantity"`
	Reason         string  `json:"reason"`
	LocationID     *string `json:"location_id"`
	Notes          string  `json:"notes"`
	Status         string  `json:"status"`
	CreatedBy      string  `json:"created_by"`
	CreatorName    string  `json:"creator_name,omitempty"`
	DecidedBy      *string `json:"decided_by"`
	DeciderName    string  `json:"decider_name,omitempty"`
	DecidedAt      *string `json:"decided_at"`
	CreatedAt      string  `json:"created_at"`
}

// --- Interface ---

// AdjustmentService creates stock adjustments and applies them to items. The
// quantity delta lands exactly once, at approval time, inside one transaction
// together with the status flip and the audit entry. An approval that would
// drive the item negative fails with a conflict and leaves the adjustment
// pending: the decision goes back to a human instead of being auto-rejected.
type AdjustmentService interface {
	Create(ctx context.Context, actor authz.Actor, input CreateAdjustmentInput) (StockAdjustmentResponse, error)
	List(ctx context.Context, status string, page, limit int) ([]StockAdjustmentResponse, int64, error)
	Stats(ctx context.Context) (repository.AdjustmentStats, error)
	Approve(ctx context.Context, actor authz.Actor, id string) (StockAdjustmentResponse, error)
	Reject(ctx context.Context, actor authz.Actor, id string) (StockAdjustmentResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type adjustmentService struct {
	adjustmentRepo repository.AdjustmentRepository
	itemRepo       repository.ItemRepository
	audit          AuditService
	txManager      repository.TransactionManager
	dispatcher     *notification.Dispatcher
}

func NewAdjustmentService(
	adjustmentRepo repository.AdjustmentRepository,
	itemRepo repository.ItemRepository,
	audit AuditService,
	txManager repository.TransactionManager,
	dispatcher *notification.Dispatcher,
) AdjustmentService {
	return &adjustmentService{
		adjustmentRepo: adjustmentRepo,
		itemRepo:       itemRepo,
		audit:          audit,
		txManager:      txManager,
		dispatcher:     dispatcher,
	}
}

// --- Implementation ---

func (s *adjustmentService) Create(ctx context.Context, actor authz.Actor, input CreateAdjustmentInput) (StockAdjustmentResponse, error) {
	if err := authz.Require(actor, authz.ActionCreateAdjustment); err != nil {
		return StockAdjustmentResponse{}, err
	}
	if actor.ID == uuid.Nil {
		return StockAdjustmentResponse{}, apperror.Validation("requester_unresolved", "requester could not be resolved to a user")
	}

	itemID, err := uuid.Parse(input.ItemID)
	if err != nil {
		return StockAdjustmentResponse{}, apperror.Validation("invalid_item_id", "invalid item id")
	}
	adjType := model.AdjustmentType(input.AdjustmentType)
	if !adjType.IsValid() {
		return StockAdjustmentResponse{}, apperror.Validation("invalid_adjustment_type", "adjustment_type must be increase or decrease")
	}
	if input.Quantity <= 0 {
		return StockAdjustmentResponse{}, apperror.Validation("invalid_quantity", "quantity must be greater than zero")
	}
	reason := model.AdjustmentReason(input.Reason)
	if !reason.IsValid() {
		return StockAdjustmentResponse{}, apperror.Validation("invalid_reason", "unknown adjustment reason")
	}

	var locationID *uuid.UUID
	if input.LocationID != "" {
		parsed, parseErr := uuid.Parse(input.LocationID)
		if parseErr != nil {
			return StockAdjustmentResponse{}, apperror.Validation("invalid_location_id", "invalid location id")
		}
		locationID = &parsed
	}

	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StockAdjustmentResponse{}, apperror.Validation("item_not_found", "item does not exist")
		}
		return StockAdjustmentResponse{}, apperror.Persistence("failed to load item", err)
	}

	adj := model.StockAdjustment{
		ItemID:         itemID,
		AdjustmentType: adjType,
		Quantity:       input.Quantity,
		Reason:         reason,
		LocationID:     locationID,
		Notes:          input.Notes,
		Status:         model.AdjustmentPending,
		CreatedBy:      actor.ID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.adjustmentRepo.Create(txCtx, &adj); createErr != nil {
			return apperror.Persistence("failed to create stock adjustment", createErr)
		}
		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionCreate, EntityStockAdjustment, adj.ID.String(), map[string]interface{}{
			"item_id":         itemID.String(),
			"adjustment_type": string(adjType),
			"quantity":        input.Quantity,
			"reason":          string(reason),
		})
	})
	if err != nil {
		return StockAdjustmentResponse{}, err
	}

	s.dispatcher.Publish(notification.EventAdjustmentCreated, map[string]interface{}{
		"id":      adj.ID.String(),
		"item_id": itemID.String(),
	})

	return toAdjustmentResponse(adj), nil
}

func (s *adjustmentService) List(ctx context.Context, status string, page, limit int) ([]StockAdjustmentResponse, int64, error) {
	adjustments, total, err := s.adjustmentRepo.List(ctx, model.AdjustmentStatus(status), page, limit)
	if err != nil {
		return nil, 0, apperror.Persistence("failed to list stock adjustments", err)
	}

	result := make([]StockAdjustmentResponse, 0, len(adjustments))
	for _, a := range adjustments {
		result = append(result, toAdjustmentResponse(a))
	}
	return result, total, nil
}

func (s *adjustmentService) Stats(ctx context.Context) (repository.AdjustmentStats, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	stats, err := s.adjustmentRepo.Stats(ctx, todayStart)
	if err != nil {
		return repository.AdjustmentStats{}, apperror.Persistence("failed to aggregate adjustment stats", err)
	}
	return stats, nil
}

// Approve applies the adjustment: status flip, item quantity change, and
// audit entry happen in one transaction. Any failure rolls back all three.
func (s *adjustmentService) Approve(ctx context.Context, actor authz.Actor, id string) (StockAdjustmentResponse, error) {
	if err := authz.Require(actor, authz.ActionApprove); err != nil {
		return StockAdjustmentResponse{}, err
	}

	adjID, err := uuid.Parse(id)
	if err != nil {
		return StockAdjustmentResponse{}, apperror.Validation("invalid_id", "invalid stock adjustment id")
	}

	var adj *model.StockAdjustment
	var itemAfter *model.Item
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, findErr := s.adjustmentRepo.FindByID(txCtx, adjID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperror.NotFound("adjustment_not_found", "stock adjustment not found")
			}
			return apperror.Persistence("failed to load stock adjustment", findErr)
		}
		if existing.Status != model.AdjustmentPending {
			return apperror.Conflict("already_decided", "stock adjustment is already "+string(existing.Status))
		}

		now := time.Now()
		decided, decideErr := s.adjustmentRepo.Decide(txCtx, adjID, model.AdjustmentApproved, actor.ID, now)
		if decideErr != nil {
			return apperror.Persistence("failed to update stock adjustment", decideErr)
		}
		if !decided {
			return apperror.Conflict("already_decided", "stock adjustment was decided concurrently")
		}

		delta := existing.Delta()
		applied, applyErr := s.itemRepo.ApplyQuantityDelta(txCtx, existing.ItemID, delta)
		if applyErr != nil {
			return apperror.Persistence("failed to update item quantity", applyErr)
		}
		if !applied {
			// The guard did not match: either the item is gone or the
			// decrease would go negative. Rolling back leaves the
			// adjustment pending so a human decides what happens next.
			if _, itemErr := s.itemRepo.FindByID(txCtx, existing.ItemID); itemErr != nil {
				return apperror.NotFound("item_not_found", "item no longer exists")
			}
			return apperror.Conflict("insufficient_stock", "approving this adjustment would drive the item quantity negative")
		}

		item, itemErr := s.itemRepo.FindByID(txCtx, existing.ItemID)
		if itemErr != nil {
			return apperror.Persistence("failed to reload item", itemErr)
		}

		existing.Status = model.AdjustmentApproved
		existing.DecidedBy = &actor.ID
		existing.DecidedAt = &now
		adj = existing
		itemAfter = item

		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionAdjust, EntityStockAdjustment, adjID.String(), map[string]interface{}{
			"item_id": existing.ItemID.String(),
			"delta":   delta,
			"before":  item.Quantity - delta,
			"after":   item.Quantity,
		})
	})
	if err != nil {
		return StockAdjustmentResponse{}, err
	}

	s.dispatcher.Publish(notification.EventAdjustmentApplied, map[string]interface{}{
		"id":      adjID.String(),
		"item_id": adj.ItemID.String(),
		"delta":   adj.Delta(),
	})
	if itemAfter.Quantity <= itemAfter.MinimumLevel {
		s.dispatcher.Publish(notification.EventLowStock, map[string]interface{}{
			"item_id":       itemAfter.ID.String(),
			"sku":           itemAfter.SKU,
			"quantity":      itemAfter.Quantity,
			"minimum_level": itemAfter.MinimumLevel,
		})
	}

	return toAdjustmentResponse(*adj), nil
}

func (s *adjustmentService) Reject(ctx context.Context, actor authz.Actor, id string) (StockAdjustmentResponse, error) {
	if err := authz.Require(actor, authz.ActionReject); err != nil {
		return StockAdjustmentResponse{}, err
	}

	adjID, err := uuid.Parse(id)
	if err != nil {
		return StockAdjustmentResponse{}, apperror.Validation("invalid_id", "invalid stock adjustment id")
	}

	var adj *model.StockAdjustment
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, findErr := s.adjustmentRepo.FindByID(txCtx, adjID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperror.NotFound("adjustment_not_found", "stock adjustment not found")
			}
			return apperror.Persistence("failed to load stock adjustment", findErr)
		}
		if existing.Status != model.AdjustmentPending {
			return apperror.Conflict("already_decided", "stock adjustment is already "+string(existing.Status))
		}

		now := time.Now()
		decided, decideErr := s.adjustmentRepo.Decide(txCtx, adjID, model.AdjustmentRejected, actor.ID, now)
		if decideErr != nil {
			return apperror.Persistence("failed to update stock adjustment", decideErr)
		}
		if !decided {
			return apperror.Conflict("already_decided", "stock adjustment was decided concurrently")
		}

		existing.Status = model.AdjustmentRejected
		existing.DecidedBy = &actor.ID
		existing.DecidedAt = &now
		adj = existing

		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionReject, EntityStockAdjustment, adjID.String(), map[string]interface{}{
			"item_id": existing.ItemID.String(),
		})
	})
	if err != nil {
		return StockAdjustmentResponse{}, err
	}

	s.dispatcher.Publish(notification.EventAdjustmentRejected, map[string]interface{}{
		"id": adjID.String(),
	})

	return toAdjustmentResponse(*adj), nil
}

// Delete removes the record in any status. An already-applied quantity delta
// is NOT reversed; the audit trail keeps both the application and the
// deletion. See DESIGN.md for the open product question on reversal.
func (s *adjustmentService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor, authz.ActionDelete); err != nil {
		return err
	}

	adjID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid_id", "invalid stock adjustment id")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, delErr := s.adjustmentRepo.Delete(txCtx, adjID)
		if delErr != nil {
			return apperror.Persistence("failed to delete stock adjustment", delErr)
		}
		if !deleted {
			return apperror.NotFound("adjustment_not_found", "stock adjustment not found")
		}
		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionDelete, EntityStockAdjustment, adjID.String(), nil)
	})
}

// --- Helpers ---

func toAdjustmentResponse(a model.StockAdjustment) StockAdjustmentResponse {
	resp := StockAdjustmentResponse{
		ID:             a.ID.String(),
		ItemID:         a.ItemID.String(),
		AdjustmentType: string(a.AdjustmentType),
		Quantity:       a.Quantity,
		Reason:         string(a.Reason),
		Notes:          a.Notes,
		Status:         string(a.Status),
		CreatedBy:      a.CreatedBy.String(),
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
	}

	if a.Item != nil {
		resp.ItemName = a.Item.Name
	}
	if a.LocationID != nil {
		s := a.LocationID.String()
		resp.LocationID = &s
	}
	if a.Creator != nil {
		resp.CreatorName = a.Creator.Username
	}
	if a.DecidedBy != nil {
		s := a.DecidedBy.String()
		resp.DecidedBy = &s
	}
	if a.Decider != nil {
		resp.DeciderName = a.Decider.Username
	}
	if a.DecidedAt != nil {
		s := a.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &s
	}

	return resp
}
