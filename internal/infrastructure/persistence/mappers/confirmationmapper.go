package mappers

import (
	"fmt"
	"time"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	"github.com/harvestbox/subscriptions/internal/infrastructure/persistence/models"
)

type ConfirmationMapper interface {
	ToEntity(model *models.ConfirmationModel) (*subscription.Confirmation, error)
	ToModel(entity *subscription.Confirmation) (*models.ConfirmationModel, error)
}

type ConfirmationMapperImpl struct{}

func NewConfirmationMapper() ConfirmationMapper {
	return &ConfirmationMapperImpl{}
}

func (m *ConfirmationMapperImpl) ToEntity(model *models.ConfirmationModel) (*subscription.Confirmation, error) {
	if model == nil {
		return nil, nil
	}

	action := vo.ActionUnknown
	if model.Action != nil && *model.Action != "" {
		parsed, err := vo.ParseActionKind(*model.Action)
		if err != nil {
			return nil, fmt.Errorf("invalid confirmation action: %s", *model.Action)
		}
		action = parsed
	}

	entity, err := subscription.ReconstructConfirmationWithParams(subscription.ConfirmationReconstructParams{
		ID:                    model.ID,
		SubscriptionID:        model.SubscriptionID,
		Token:                 model.Token,
		ScheduledDeliveryDate: fromDate(model.ScheduledDeliveryDate),
		ExpiresAt:             model.ExpiresAt.UTC(),
		CreatedAt:             model.CreatedAt.UTC(),
		ProcessedAt:           utcPtr(model.ProcessedAt),
		Action:                action,
		NotifiedAt:            utcPtr(model.NotifiedAt),
		DispatchAttempts:      model.DispatchAttempts,
		LastDispatchError:     model.LastDispatchError,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct confirmation entity: %w", err)
	}

	return entity, nil
}

// ToModel fills CycleKey only for unprocessed tokens, matching the column's
// role as the active-token slot.
func (m *ConfirmationMapperImpl) ToModel(entity *subscription.Confirmation) (*models.ConfirmationModel, error) {
	if entity == nil {
		return nil, nil
	}

	model := &models.ConfirmationModel{
		ID:                    entity.ID(),
		SubscriptionID:        entity.SubscriptionID(),
		Token:                 entity.Token(),
		ScheduledDeliveryDate: toDate(entity.ScheduledDeliveryDate()),
		ExpiresAt:             entity.ExpiresAt(),
		ProcessedAt:           entity.ProcessedAt(),
		NotifiedAt:            entity.NotifiedAt(),
		DispatchAttempts:      entity.DispatchAttempts(),
		LastDispatchError:     entity.LastDispatchError(),
		CreatedAt:             entity.CreatedAt(),
	}
	if !entity.IsProcessed() {
		key := entity.CycleKey()
		model.CycleKey = &key
	}
	if entity.Action() != vo.ActionUnknown {
		action := entity.Action().String()
		model.Action = &action
	}

	return model, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
