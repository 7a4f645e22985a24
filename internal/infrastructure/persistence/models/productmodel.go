package models

import (
	"time"

	"github.com/harvestbox/subscriptions/internal/shared/constants"
)

// ProductModel is a read model over the catalog owned by the product module.
type ProductModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"not null;size:200"`
	ImageURL  string `gorm:"size:500"`
	Price     int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (ProductModel) TableName() string {
	return constants.TableProducts
}
