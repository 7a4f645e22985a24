package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	"github.com/harvestbox/subscriptions/internal/infrastructure/persistence/mappers"
	"github.com/harvestbox/subscriptions/internal/infrastructure/persistence/models"
	"github.com/harvestbox/subscriptions/internal/shared/db"
	apperrors "github.com/harvestbox/subscriptions/internal/shared/errors"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

type ConfirmationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ConfirmationMapper
	logger logger.Interface
}

func NewConfirmationRepository(db *gorm.DB, logger logger.Interface) *ConfirmationRepositoryImpl {
	return &ConfirmationRepositoryImpl{
		db:     db,
		mapper: mappers.NewConfirmationMapper(),
		logger: logger,
	}
}

// Create inserts the confirmation. The unique index on cycle_key turns a
// concurrent second issue for the same cycle into ErrActiveConfirmationExists.
func (r *ConfirmationRepositoryImpl) Create(ctx context.Context, confirmation *subscription.Confirmation) error {
	model, err := r.mapper.ToModel(confirmation)
	if err != nil {
		return fmt.Errorf("failed to map confirmation entity: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			r.logger.Infow("active confirmation already exists for cycle",
				"subscription_id", model.SubscriptionID,
				"cycle_key", confirmation.CycleKey(),
			)
			return subscription.ErrActiveConfirmationExists
		}
		r.logger.Errorw("failed to create confirmation", "subscription_id", model.SubscriptionID, "error", err)
		return fmt.Errorf("failed to create confirmation: %w", err)
	}

	if err := confirmation.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set confirmation ID: %w", err)
	}
	return nil
}

func (r *ConfirmationRepositoryImpl) GetByToken(ctx context.Context, token string) (*subscription.Confirmation, error) {
	var model models.ConfirmationModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("token = ?", token).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get confirmation by token", "error", err)
		return nil, fmt.Errorf("failed to get confirmation: %w", err)
	}

	return r.toEntity(&model)
}

func (r *ConfirmationRepositoryImpl) FindActiveForCycle(ctx context.Context, subscriptionID uint, scheduledDeliveryDate time.Time, now time.Time) (*subscription.Confirmation, error) {
	var model models.ConfirmationModel

	tx := db.GetTxFromContext(ctx, r.db)
	err := tx.
		Where("cycle_key = ?", subscription.CycleKey(subscriptionID, scheduledDeliveryDate)).
		Where("processed_at IS NULL AND expires_at > ?", now).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to find active confirmation", "subscription_id", subscriptionID, "error", err)
		return nil, fmt.Errorf("failed to find active confirmation: %w", err)
	}

	return r.toEntity(&model)
}

func (r *ConfirmationRepositoryImpl) ReleaseExpiredCycle(ctx context.Context, subscriptionID uint, scheduledDeliveryDate time.Time, now time.Time) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.ConfirmationModel{}).
		Where("cycle_key = ? AND expires_at <= ?", subscription.CycleKey(subscriptionID, scheduledDeliveryDate), now).
		Update("cycle_key", nil)
	if result.Error != nil {
		r.logger.Errorw("failed to release expired confirmation", "subscription_id", subscriptionID, "error", result.Error)
		return fmt.Errorf("failed to release expired confirmation: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		r.logger.Debugw("released expired confirmation slot", "subscription_id", subscriptionID)
	}
	return nil
}

func (r *ConfirmationRepositoryImpl) UpdateDispatch(ctx context.Context, confirmation *subscription.Confirmation) error {
	tx := db.GetTxFromContext(ctx, r.db)
	err := tx.Model(&models.ConfirmationModel{}).
		Where("id = ?", confirmation.ID()).
		Updates(map[string]interface{}{
			"notified_at":         confirmation.NotifiedAt(),
			"dispatch_attempts":   confirmation.DispatchAttempts(),
			"last_dispatch_error": confirmation.LastDispatchError(),
		}).Error
	if err != nil {
		r.logger.Errorw("failed to update confirmation dispatch state", "id", confirmation.ID(), "error", err)
		return fmt.Errorf("failed to update confirmation: %w", err)
	}
	return nil
}

// MarkProcessed only touches rows that are still unprocessed, so of two
// racing requests exactly one sees RowsAffected == 1.
func (r *ConfirmationRepositoryImpl) MarkProcessed(ctx context.Context, confirmation *subscription.Confirmation) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.ConfirmationModel{}).
		Where("id = ? AND processed_at IS NULL", confirmation.ID()).
		Updates(map[string]interface{}{
			"processed_at": confirmation.ProcessedAt(),
			"action":       confirmation.Action().String(),
			"cycle_key":    nil,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to mark confirmation processed", "id", confirmation.ID(), "error", result.Error)
		return fmt.Errorf("failed to mark confirmation processed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrConfirmationAlreadyProcessed
	}
	return nil
}

func (r *ConfirmationRepositoryImpl) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.ConfirmationModel{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count confirmations: %w", err)
	}
	return count, nil
}

func (r *ConfirmationRepositoryImpl) CountPending(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.ConfirmationModel{}).
		Where("processed_at IS NULL AND expires_at > ?", now).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count pending confirmations: %w", err)
	}
	return count, nil
}

type actionCount struct {
	Action string
	Total  int64
}

func (r *ConfirmationRepositoryImpl) CountByAction(ctx context.Context) (map[vo.ActionKind]int64, error) {
	var rows []actionCount
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.ConfirmationModel{}).
		Select("action, COUNT(*) AS total").
		Where("action IS NOT NULL").
		Group("action").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count confirmation actions: %w", err)
	}

	counts := make(map[vo.ActionKind]int64, len(vo.AllActionKinds))
	for _, row := range rows {
		kind, err := vo.ParseActionKind(row.Action)
		if err != nil {
			r.logger.Warnw("ignoring unknown confirmation action", "action", row.Action)
			continue
		}
		counts[kind] = row.Total
	}
	return counts, nil
}

func (r *ConfirmationRepositoryImpl) toEntity(model *models.ConfirmationModel) (*subscription.Confirmation, error) {
	entity, err := r.mapper.ToEntity(model)
	if err != nil {
		r.logger.Errorw("failed to map confirmation model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map confirmation: %w", err)
	}
	return entity, nil
}
