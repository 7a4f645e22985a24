package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/harvestbox/subscriptions/internal/application/subscription/usecases"
	"github.com/harvestbox/subscriptions/internal/infrastructure/persistence/models"
	"github.com/harvestbox/subscriptions/internal/shared/db"
)

// CustomerDirectoryAdapter implements usecases.CustomerDirectory over the
// users table.
type CustomerDirectoryAdapter struct {
	db *gorm.DB
}

func NewCustomerDirectoryAdapter(db *gorm.DB) *CustomerDirectoryAdapter {
	return &CustomerDirectoryAdapter{db: db}
}

func (a *CustomerDirectoryAdapter) GetCustomer(ctx context.Context, userID uint) (*usecases.CustomerContact, error) {
	var model models.UserModel
	err := db.GetTxFromContext(ctx, a.db).
		Select("id", "email", "name").
		First(&model, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	return &usecases.CustomerContact{
		ID:    model.ID,
		Email: model.Email,
		Name:  model.Name,
	}, nil
}
