package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction is the closed set of recorded actions.
type AuditAction string

const (
	AuditActionCreate  AuditAction = "create"
	AuditActionApprove AuditAction = "approve"
	AuditActionReject  AuditAction = "reject"
	AuditActionDelete  AuditAction = "delete"
	AuditActionLogin   AuditAction = "login"
	AuditActionLogout  AuditAction = "logout"
	AuditActionAdjust  AuditAction = "adjust"
)

// ActorSystem is the actor recorded when no authenticated user triggered the
// action (migrations, bots).
const ActorSystem = "system"

// AuditLog tracks who did what and when. Entries are append-only: nothing in
// this codebase updates or deletes them.
type AuditLog struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Actor      string      `gorm:"type:varchar(64);not null;index" json:"actor"` // user id or "system"
	Action     AuditAction `gorm:"type:varchar(20);not null;index" json:"action"`
	EntityType string      `gorm:"type:varchar(50);not null;index" json:"entity_type"`
	EntityID   string      `gorm:"type:varchar(64);index" json:"entity_id"`
	Details    string      `gorm:"type:jsonb" json:"details"` // serialized JSON payload
	CreatedAt  time.Time   `gorm:"index" json:"created_at"`
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
