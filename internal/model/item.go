package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item represents a tracked inventory item. Quantity is only ever mutated by
// an approved StockAdjustment; everything else is plain CRUD.
type Item struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SKU          string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Category     string         `gorm:"type:varchar(100);index" json:"category"`
	Unit         string         `gorm:"type:varchar(50)" json:"unit"`
	Quantity     int            `gorm:"type:int;not null;default:0" json:"quantity"`
	MinimumLevel int            `gorm:"type:int;not null;default:0" json:"minimum_level"`
	LocationID   *uuid.UUID     `gorm:"type:uuid;index" json:"location_id"`
	SupplierID   *uuid.UUID     `gorm:"type:uuid;index" json:"supplier_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
