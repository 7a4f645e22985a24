package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	"github.com/harvestbox/subscriptions/internal/infrastructure/persistence/mappers"
	"github.com/harvestbox/subscriptions/internal/infrastructure/persistence/models"
	"github.com/harvestbox/subscriptions/internal/shared/db"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
	"github.com/harvestbox/subscriptions/internal/shared/query"
)

// allowedSubscriptionSortByFields maps API sort keys onto columns. Anything
// else falls back to the default order.
var allowedSubscriptionSortByFields = map[string]string{
	"id":                 "id",
	"status":             "status",
	"next_delivery_date": "next_delivery_date",
	"start_date":         "start_date",
	"created_at":         "created_at",
	"updated_at":         "updated_at",
}

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(
	db *gorm.DB,
	logger logger.Interface,
) *SubscriptionRepositoryImpl {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscriptionEntity *subscription.Subscription) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription in database", "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := subscriptionEntity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set subscription ID", "error", err)
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	r.logger.Infow("subscription created successfully", "id", model.ID, "user_id", model.UserID, "product_id", model.ProductID)
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map subscription model to entity", "id", id, "error", err)
		return nil, fmt.Errorf("failed to map subscription: %w", err)
	}

	return entity, nil
}

// Update writes the aggregate back if nobody else changed the row since it
// was loaded. Every aggregate mutation bumps the version by one, so the
// stored row must still hold Version()-1.
func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscriptionEntity *subscription.Subscription) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "id", subscriptionEntity.ID(), "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.SubscriptionModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"quantity":           model.Quantity,
			"discount_percent":   model.DiscountPercent,
			"status":             model.Status,
			"next_delivery_date": model.NextDeliveryDate,
			"pause_until":        model.PauseUntil,
			"version":            model.Version,
			"updated_at":         model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Warnw("subscription version conflict", "id", model.ID, "version", model.Version)
		return subscription.ErrSubscriptionConflict
	}

	r.logger.Infow("subscription updated successfully", "id", model.ID, "status", model.Status)
	return nil
}

// FindDueForReminder returns active subscriptions whose next delivery falls
// within [from, to], both inclusive. A row that fails to map is logged and
// reported by id so one corrupt record cannot hold back the whole sweep.
func (r *SubscriptionRepositoryImpl) FindDueForReminder(ctx context.Context, from, to time.Time) (*subscription.DueSubscriptions, error) {
	var modelList []*models.SubscriptionModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Where("status = ?", vo.StatusActive.String()).
		Where("next_delivery_date >= ? AND next_delivery_date <= ?", datatypes.Date(from), datatypes.Date(to)).
		Order("next_delivery_date ASC, id ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to find subscriptions due for reminder", "error", err)
		return nil, fmt.Errorf("failed to find due subscriptions: %w", err)
	}

	due := &subscription.DueSubscriptions{
		Subscriptions: make([]*subscription.Subscription, 0, len(modelList)),
	}
	for _, model := range modelList {
		entity, err := r.mapper.ToEntity(model)
		if err != nil {
			r.logger.Errorw("skipping unreadable subscription row", "subscription_id", model.ID, "error", err)
			due.UnreadableIDs = append(due.UnreadableIDs, model.ID)
			continue
		}
		due.Subscriptions = append(due.Subscriptions, entity)
	}

	return due, nil
}

func (r *SubscriptionRepositoryImpl) List(ctx context.Context, filter subscription.SubscriptionFilter) ([]*subscription.Subscription, int64, error) {
	var modelList []*models.SubscriptionModel
	var total int64

	q := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{})

	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", filter.Status.String())
	}

	if err := q.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count subscriptions", "error", err)
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	sort := query.SortFilter{SortBy: filter.SortBy}
	if filter.SortDesc {
		sort.SortOrder = "desc"
	}
	page := query.PageFilter{Page: filter.Page, PageSize: filter.PageSize}

	if err := q.
		Order(sort.OrderClause(allowedSubscriptionSortByFields, "created_at DESC")).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list subscriptions", "error", err)
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		r.logger.Errorw("failed to map subscription models to entities", "error", err)
		return nil, 0, fmt.Errorf("failed to map subscriptions: %w", err)
	}

	return entities, total, nil
}

func (r *SubscriptionRepositoryImpl) CountByStatus(ctx context.Context, status vo.SubscriptionStatus) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{}).
		Where("status = ?", status.String()).
		Count(&count).Error; err != nil {
		r.logger.Errorw("failed to count subscriptions by status", "status", status.String(), "error", err)
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}
