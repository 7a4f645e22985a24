package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/harvestbox/subscriptions/internal/shared/constants"
)

// ConfirmationModel stores one reminder token. CycleKey is non-null only
// while the token is unprocessed and unexpired; its unique index is what
// keeps a delivery cycle down to a single active token.
type ConfirmationModel struct {
	ID                    uint           `gorm:"primarykey"`
	SubscriptionID        uint           `gorm:"not null;index:idx_confirmation_subscription"`
	Token                 string         `gorm:"uniqueIndex;not null;size:64"`
	CycleKey              *string        `gorm:"uniqueIndex;size:40"`
	ScheduledDeliveryDate datatypes.Date `gorm:"not null"`
	ExpiresAt             time.Time      `gorm:"not null;index:idx_confirmation_expires"`
	ProcessedAt           *time.Time
	Action                *string `gorm:"size:20;index:idx_confirmation_action"`
	NotifiedAt            *time.Time
	DispatchAttempts      int       `gorm:"not null;default:0"`
	LastDispatchError     string    `gorm:"size:500"`
	CreatedAt             time.Time `gorm:"index:idx_confirmation_created"`
}

// TableName specifies the table name for GORM
func (ConfirmationModel) TableName() string {
	return constants.TableConfirmations
}
