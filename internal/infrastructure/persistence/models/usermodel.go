package models

import (
	"time"

	"github.com/harvestbox/subscriptions/internal/shared/constants"
)

// UserModel is a read model over the accounts owned by the user module.
type UserModel struct {
	ID        uint   `gorm:"primarykey"`
	Email     string `gorm:"uniqueIndex;not null;size:255"`
	Name      string `gorm:"not null;size:100"`
	Role      string `gorm:"not null;size:20;default:user"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}
