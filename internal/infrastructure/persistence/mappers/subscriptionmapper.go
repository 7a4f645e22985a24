package mappers

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	"github.com/harvestbox/subscriptions/internal/infrastructure/persistence/models"
	"github.com/harvestbox/subscriptions/internal/shared/biztime"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error)
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	status, err := vo.ParseSubscriptionStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid subscription status: %s", model.Status)
	}
	frequency, err := vo.ParseFrequency(model.Frequency)
	if err != nil {
		return nil, fmt.Errorf("invalid subscription frequency: %s", model.Frequency)
	}

	entity, err := subscription.ReconstructSubscriptionWithParams(subscription.SubscriptionReconstructParams{
		ID:               model.ID,
		UserID:           model.UserID,
		ProductID:        model.ProductID,
		Frequency:        frequency,
		Quantity:         model.Quantity,
		DiscountPercent:  model.DiscountPercent,
		Status:           status,
		StartDate:        fromDate(model.StartDate),
		NextDeliveryDate: fromDate(model.NextDeliveryDate),
		PauseUntil:       fromOptionalDate(model.PauseUntil),
		Version:          model.Version,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.SubscriptionModel{
		ID:               entity.ID(),
		UserID:           entity.UserID(),
		ProductID:        entity.ProductID(),
		Frequency:        entity.Frequency().String(),
		Quantity:         entity.Quantity(),
		DiscountPercent:  entity.DiscountPercent(),
		Status:           entity.Status().String(),
		StartDate:        toDate(entity.StartDate()),
		NextDeliveryDate: toDate(entity.NextDeliveryDate()),
		PauseUntil:       toOptionalDate(entity.PauseUntil()),
		Version:          entity.Version(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}, nil
}

func (m *SubscriptionMapperImpl) ToEntities(modelList []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	entities := make([]*subscription.Subscription, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("subscription %d: %w", model.ID, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// Drivers hand back DATE columns in the connection's location; the domain
// expects UTC midnight of the calendar day.
func fromDate(d datatypes.Date) time.Time {
	return biztime.NormalizeDate(time.Time(d))
}

func fromOptionalDate(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := fromDate(*d)
	return &t
}

func toDate(t time.Time) datatypes.Date {
	return datatypes.Date(biztime.NormalizeDate(t))
}

func toOptionalDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := toDate(*t)
	return &d
}
