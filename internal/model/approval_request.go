package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RequestType is the closed set of things an approval request can ask for.
type RequestType string

const (
	RequestTypeAssignment  RequestType = "assignment"
	RequestTypePurchase    RequestType = "purchase"
	RequestTypeMaintenance RequestType = "maintenance"
	RequestTypeReservation RequestType = "reservation"
	RequestTypeOther       RequestType = "other"
)

func (t RequestType) IsValid() bool {
	switch t {
	case RequestTypeAssignment, RequestTypePurchase, RequestTypeMaintenance,
		RequestTypeReservation, RequestTypeOther:
		return true
	}
	return false
}

// ApprovalStatus is the request lifecycle state. Pending is the only
// non-terminal state; approved and rejected are final.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Priority of an approval request, used by triage views only.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ApprovalRequest is a generic typed request waiting for an admin or manager
// decision. Once decided it is immutable.
type ApprovalRequest struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RequestType   RequestType      `gorm:"type:varchar(30);not null;index" json:"request_type"`
	Title         string           `gorm:"type:varchar(255);not null" json:"title"`
	Description   string           `gorm:"type:text" json:"description"`
	Amount        *decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	Priority      Priority         `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Status        ApprovalStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RequestedBy   uuid.UUID        `gorm:"type:uuid;not null;index" json:"requested_by"`
	Requester     *User            `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
	DecidedBy     *uuid.UUID       `gorm:"type:uuid" json:"decided_by"`
	Decider       *User            `gorm:"foreignKey:DecidedBy" json:"decider,omitempty"`
	DecisionNotes string           `gorm:"type:text" json:"decision_notes"`
	DecidedAt     *time.Time       `json:"decided_at"`
	CreatedAt     time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// BeforeCreate assigns the UUID in application code so the same models run
// against Postgres and the sqlite test harness.
func (a *ApprovalRequest) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
