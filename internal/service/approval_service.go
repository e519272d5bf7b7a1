package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/notification"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Audit entity type tags.
const (
	EntityApprovalRequest = "approval_request"
	EntityStockAdjustment = "stock_adjustment"
	EntityItem            = "item"
	EntityUser            = "user"
)

// --- DTOs ---

type CreateApprovalRequestInput struct {
	RequestType string           `json:"request_type" binding:"required"`
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Priority    string           `json:"priority"`
}

type ApprovalRequestResponse struct {
	ID            string  `json:"id"`
	RequestType   string  `json:"request_type"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Amount        *string `json:"amount"`
	Priority      string  `json:"priority"`
	Status        string  `json:"status"`
	RequestedBy   string  `json:"requested_by"`
	RequesterName string  `json:"requester_name,omitempty"`
	DecidedBy     *string `json:"decided_by"`
	DeciderName   string  `json:"decider_name,omitempty"`
	DecisionNotes string  `json:"decision_notes"`
	DecidedAt     *string `json:"decided_at"`
	CreatedAt     string  `json:"created_at"`
}

// --- Interface ---

// ApprovalService is the request registry plus the pending→approved/rejected
// state machine. Decisions are single conditional writes: a request can be
// decided at most once, no matter how the calls race.
type ApprovalService interface {
	Create(ctx context.Context, actor authz.Actor, input CreateApprovalRequestInput) (ApprovalRequestResponse, error)
	ListAll(ctx context.Context, page, limit int) ([]ApprovalRequestResponse, int64, error)
	ListPending(ctx context.Context, page, limit int) ([]ApprovalRequestResponse, int64, error)
	Approve(ctx context.Context, actor authz.Actor, id string, notes string) (ApprovalRequestResponse, error)
	Reject(ctx context.Context, actor authz.Actor, id string, notes string) (ApprovalRequestResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type approvalService struct {
	approvalRepo repository.ApprovalRepository
	audit        AuditService
	txManager    repository.TransactionManager
	dispatcher   *notification.Dispatcher
}

func NewApprovalService(
	approvalRepo repository.ApprovalRepository,
	audit AuditService,
	txManager repository.TransactionManager,
	dispatcher *notification.Dispatcher,
) ApprovalService {
	return &approvalService{
		approvalRepo: approvalRepo,
		audit:        audit,
		txManager:    txManager,
		dispatcher:   dispatcher,
	}
}

// --- Implementation ---

func (s *approvalService) Create(ctx context.Context, actor authz.Actor, input CreateApprovalRequestInput) (ApprovalRequestResponse, error) {
	if err := authz.Require(actor, authz.ActionCreateRequest); err != nil {
		return ApprovalRequestResponse{}, err
	}
	if actor.ID == uuid.Nil {
		// Guards against the recurring bug of an unauthenticated create
		// slipping through with a zero requester.
		return ApprovalRequestResponse{}, apperror.Validation("requester_unresolved", "requester could not be resolved to a user")
	}

	reqType := model.RequestType(input.RequestType)
	if !reqType.IsValid() {
		return ApprovalRequestResponse{}, apperror.Validation("invalid_request_type", "request_type must be one of assignment, purchase, maintenance, reservation, other")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return ApprovalRequestResponse{}, apperror.Validation("title_required", "title must not be empty")
	}
	if input.Amount != nil && input.Amount.IsNegative() {
		return ApprovalRequestResponse{}, apperror.Validation("invalid_amount", "amount must not be negative")
	}

	priority := model.PriorityMedium
	if input.Priority != "" {
		priority = model.Priority(input.Priority)
		if !priority.IsValid() {
			return ApprovalRequestResponse{}, apperror.Validation("invalid_priority", "priority must be one of low, medium, high")
		}
	}

	approval := model.ApprovalRequest{
		RequestType: reqType,
		Title:       title,
		Description: input.Description,
		Amount:      input.Amount,
		Priority:    priority,
		Status:      model.ApprovalPending,
		RequestedBy: actor.ID,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.approvalRepo.Create(txCtx, &approval); createErr != nil {
			return apperror.Persistence("failed to create approval request", createErr)
		}
		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionCreate, EntityApprovalRequest, approval.ID.String(), map[string]interface{}{
			"request_type": string(reqType),
			"title":        title,
			"priority":     string(priority),
		})
	})
	if err != nil {
		return ApprovalRequestResponse{}, err
	}

	s.dispatcher.Publish(notification.EventApprovalCreated, map[string]interface{}{
		"id":           approval.ID.String(),
		"request_type": string(reqType),
		"priority":     string(priority),
	})

	return toApprovalResponse(approval), nil
}

func (s *approvalService) ListAll(ctx context.Context, page, limit int) ([]ApprovalRequestResponse, int64, error) {
	requests, total, err := s.approvalRepo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, apperror.Persistence("failed to list approval requests", err)
	}
	return toApprovalResponses(requests), total, nil
}

func (s *approvalService) ListPending(ctx context.Context, page, limit int) ([]ApprovalRequestResponse, int64, error) {
	requests, total, err := s.approvalRepo.ListPending(ctx, page, limit)
	if err != nil {
		return nil, 0, apperror.Persistence("failed to list pending approval requests", err)
	}
	return toApprovalResponses(requests), total, nil
}

func (s *approvalService) Approve(ctx context.Context, actor authz.Actor, id string, notes string) (ApprovalRequestResponse, error) {
	return s.decide(ctx, actor, id, model.ApprovalApproved, notes)
}

func (s *approvalService) Reject(ctx context.Context, actor authz.Actor, id string, notes string) (ApprovalRequestResponse, error) {
	if strings.TrimSpace(notes) == "" {
		return ApprovalRequestResponse{}, apperror.Validation("reason_required", "decision notes are required when rejecting")
	}
	return s.decide(ctx, actor, id, model.ApprovalRejected, notes)
}

func (s *approvalService) decide(ctx context.Context, actor authz.Actor, id string, to model.ApprovalStatus, notes string) (ApprovalRequestResponse, error) {
	action := authz.ActionApprove
	auditAction := model.AuditActionApprove
	event := notification.EventApprovalApproved
	if to == model.ApprovalRejected {
		action = authz.ActionReject
		auditAction = model.AuditActionReject
		event = notification.EventApprovalRejected
	}
	if err := authz.Require(actor, action); err != nil {
		return ApprovalRequestResponse{}, err
	}

	approvalID, err := uuid.Parse(id)
	if err != nil {
		return ApprovalRequestResponse{}, apperror.Validation("invalid_id", "invalid approval request id")
	}

	var approval *model.ApprovalRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, findErr := s.approvalRepo.FindByID(txCtx, approvalID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperror.NotFound("approval_not_found", "approval request not found")
			}
			return apperror.Persistence("failed to load approval request", findErr)
		}
		if existing.Status != model.ApprovalPending {
			return apperror.Conflict("already_decided", "approval request is already "+string(existing.Status))
		}

		now := time.Now()
		decided, decideErr := s.approvalRepo.Decide(txCtx, approvalID, to, actor.ID, notes, now)
		if decideErr != nil {
			return apperror.Persistence("failed to update approval request", decideErr)
		}
		if !decided {
			// Lost the race against a concurrent decision.
			return apperror.Conflict("already_decided", "approval request was decided concurrently")
		}

		existing.Status = to
		existing.DecidedBy = &actor.ID
		existing.DecisionNotes = notes
		existing.DecidedAt = &now
		approval = existing

		return s.audit.Record(txCtx, actorString(actor.ID), auditAction, EntityApprovalRequest, approvalID.String(), map[string]interface{}{
			"request_type": string(existing.RequestType),
			"title":        existing.Title,
			"notes":        notes,
		})
	})
	if err != nil {
		return ApprovalRequestResponse{}, err
	}

	s.dispatcher.Publish(event, map[string]interface{}{
		"id":         approvalID.String(),
		"decided_by": actor.ID.String(),
	})

	return toApprovalResponse(*approval), nil
}

func (s *approvalService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor, authz.ActionDelete); err != nil {
		return err
	}

	approvalID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid_id", "invalid approval request id")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, delErr := s.approvalRepo.Delete(txCtx, approvalID)
		if delErr != nil {
			return apperror.Persistence("failed to delete approval request", delErr)
		}
		if !deleted {
			return apperror.NotFound("approval_not_found", "approval request not found")
		}
		return s.audit.Record(txCtx, actorString(actor.ID), model.AuditActionDelete, EntityApprovalRequest, approvalID.String(), nil)
	})
}

// --- Helpers ---

func toApprovalResponses(requests []model.ApprovalRequest) []ApprovalRequestResponse {
	result := make([]ApprovalRequestResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, toApprovalResponse(r))
	}
	return result
}

func toApprovalResponse(a model.ApprovalRequest) ApprovalRequestResponse {
	resp := ApprovalRequestResponse{
		ID:            a.ID.String(),
		RequestType:   string(a.RequestType),
		Title:         a.Title,
		Description:   a.Description,
		Priority:      string(a.Priority),
		Status:        string(a.Status),
		RequestedBy:   a.RequestedBy.String(),
		DecisionNotes: a.DecisionNotes,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}

	if a.Amount != nil {
		s := a.Amount.StringFixed(2)
		resp.Amount = &s
	}
	if a.Requester != nil {
		resp.RequesterName = a.Requester.Username
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
