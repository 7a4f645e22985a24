package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/harvestbox/subscriptions/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions
// This is the anti-corruption layer between domain and database
type SubscriptionModel struct {
	ID               uint           `gorm:"primarykey"`
	UserID           uint           `gorm:"not null;index:idx_user_subscription"`
	ProductID        uint           `gorm:"not null;index:idx_product_subscription"`
	Frequency        string         `gorm:"not null;size:20"`
	Quantity         int            `gorm:"not null;default:1"`
	DiscountPercent  float64        `gorm:"not null;default:0"`
	Status           string         `gorm:"not null;size:20;index:idx_status_next_delivery,priority:1"`
	StartDate        datatypes.Date `gorm:"not null"`
	NextDeliveryDate datatypes.Date `gorm:"not null;index:idx_status_next_delivery,priority:2"`
	PauseUntil       *datatypes.Date
	Version          int `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

// BeforeCreate hook for GORM
func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
