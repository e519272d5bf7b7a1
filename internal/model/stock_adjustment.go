package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdjustmentType is the direction of a manual stock correction.
type AdjustmentType string

const (
	AdjustmentIncrease AdjustmentType = "increase"
	AdjustmentDecrease AdjustmentType = "decrease"
)

func (t AdjustmentType) IsValid() bool {
	return t == AdjustmentIncrease || t == AdjustmentDecrease
}

// AdjustmentReason is the closed set of accepted correction reasons.
type AdjustmentReason string

const (
	ReasonDamage        AdjustmentReason = "damage"
	ReasonTheft         AdjustmentReason = "theft"
	ReasonLoss          AdjustmentReason = "loss"
	ReasonFound         AdjustmentReason = "found"
	ReasonExpired       AdjustmentReason = "expired"
	ReasonQualityIssue  AdjustmentReason = "quality_issue"
	ReasonPhysicalCount AdjustmentReason = "physical_count"
	ReasonOther         AdjustmentReason = "other"
)

func (r AdjustmentReason) IsValid() bool {
	switch r {
	case ReasonDamage, ReasonTheft, ReasonLoss, ReasonFound, ReasonExpired,
		ReasonQualityIssue, ReasonPhysicalCount, ReasonOther:
		return true
	}
	return false
}

// AdjustmentStatus mirrors ApprovalStatus for stock adjustments.
type AdjustmentStatus string

const (
	AdjustmentPending  AdjustmentStatus = "pending"
	AdjustmentApproved AdjustmentStatus = "approved"
	AdjustmentRejected AdjustmentStatus = "rejected"
)

// StockAdjustment is a manual quantity correction against an Item. The
// quantity delta is applied exactly once, at the moment of approval.
type StockAdjustment struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"item_id"`
	Item           *Item            `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	AdjustmentType AdjustmentType   `gorm:"type:varchar(10);not null" json:"adjustment_type"`
	Quantity       int              `gorm:"type:int;not null" json:"quantity"`
	Reason         AdjustmentReason `gorm:"type:varchar(20);not null" json:"reason"`
	LocationID     *uuid.UUID       `gorm:"type:uuid;index" json:"location_id"`
	Notes          string           `gorm:"type:text" json:"notes"`
	Status         AdjustmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedBy      uuid.UUID        `gorm:"type:uuid;not null;index" json:"created_by"`
	Creator        *User            `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	DecidedBy      *uuid.UUID       `gorm:"type:uuid" json:"decided_by"`
	Decider        *User            `gorm:"foreignKey:DecidedBy" json:"decider,omitempty"`
	DecidedAt      *time.Time       `json:"decided_at"`
	CreatedAt      time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (s *StockAdjustment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Delta is the signed quantity effect this adjustment has on its item.
func (s *StockAdjustment) Delta() int {
	if s.AdjustmentType == AdjustmentDecrease {
		return -s.Quantity
	}
	return s.Quantity
}
