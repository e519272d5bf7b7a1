package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Livestock represents a group of animals tracked by headcount.
type Livestock struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TagNumber  string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"tag_number"`
	Species    string         `gorm:"type:varchar(100);not null" json:"species"`
	Breed      string         `gorm:"type:varchar(100)" json:"breed"`
	Headcount  int            `gorm:"type:int;not null;default:1" json:"headcount"`
	LocationID *uuid.UUID     `gorm:"type:uuid;index" json:"location_id"`
	Notes      string         `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (l *Livestock) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Feed represents a feed stock line (hay, grain, supplements).
type Feed struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	FeedType   string         `gorm:"type:varchar(100);index" json:"feed_type"`
	QuantityKg float64        `gorm:"type:decimal(12,2);not null;default:0" json:"quantity_kg"`
	SupplierID *uuid.UUID     `gorm:"type:uuid;index" json:"supplier_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (f *Feed) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
