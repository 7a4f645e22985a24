// Package adapters provides infrastructure adapters.
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

// ProductCatalogAdapter implements usecases.ProductCatalog over the
// products table owned by the catalog module.
type ProductCatalogAdapter struct {
	db *gorm.DB
}

// NewProductCatalogAdapter creates a new ProductCatalogAdapter
func NewProductCatalogAdapter(db *gorm.DB) *ProductCatalogAdapter {
	return &ProductCatalogAdapter{db: db}
}

func (a *ProductCatalogAdapter) GetProduct(ctx context.Context, productID uint) (*usecases.ProductSnapshot, error) {
	var model models.ProductModel
	err := db.GetTxFromContext(ctx, a.db).
		Select("id", "name", "image_url").
		First(&model, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}

	return &usecases.ProductSnapshot{
		ID:       model.ID,
		Name:     model.Name,
		ImageURL: model.ImageURL,
	}, nil
}
