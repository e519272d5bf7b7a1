package service

import (
	"context"
	"encoding/json"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	Actor      string `json:"actor"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditQuery struct {
	Action     string
	EntityType string
	Limit      int
}

// AuditService is the append-only audit trail. Record runs inside whatever
// transaction the caller's context carries, so the triggering operation and
// its audit entry commit or roll back together.
type AuditService interface {
	Record(ctx context.Context, actor string, action model.AuditAction, entityType, entityID string, details interface{}) error
	Query(ctx context.Context, q AuditQuery) ([]AuditLogResponse, error)
	Stats(ctx context.Context, windowDays int) (repository.AuditStats, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) Record(ctx context.Context, actor string, action model.AuditAction, entityType, entityID string, details interface{}) error {
	if actor == "" {
		actor = model.ActorSystem
	}

	payload := ""
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return apperror.Persistence("failed to serialize audit details", err)
		}
		payload = string(raw)
	}

	entry := &model.AuditLog{
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    payload,
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return apperror.Persistence("failed to write audit log", err)
	}
	return nil
}

func (s *auditService) Query(ctx context.Context, q AuditQuery) ([]AuditLogResponse, error) {
	filter := repository.AuditFilter{
		Action:     model.AuditAction(q.Action),
		EntityType: q.EntityType,
		Limit:      q.Limit,
	}

	logs, err := s.auditRepo.Query(ctx, filter)
	if err != nil {
		return nil, apperror.Persistence("failed to query audit logs", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			Actor:      l.Actor,
			Action:     string(l.Action),
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		})
	}
	return res, nil
}

func (s *auditService) Stats(ctx context.Context, windowDays int) (repository.AuditStats, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	since := time.Now().AddDate(0, 0, -windowDays)
	stats, err := s.auditRepo.Stats(ctx, since)
	if err != nil {
		return repository.AuditStats{}, apperror.Persistence("failed to aggregate audit stats", err)
	}
	return stats, nil
}

// actorString renders a user id for the audit actor column.
func actorString(id uuid.UUID) string {
	if id == uuid.Nil {
		return model.ActorSystem
	}
	return id.String()
}
