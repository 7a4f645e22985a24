package subscription

import (
	"fmt"
	"time"

	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	"github.com/harvestbox/subscriptions/internal/shared/biztime"
)

// Subscription represents a recurring delivery of one product.
// Dates (startDate, nextDeliveryDate, pauseUntil) are calendar dates.
type Subscription struct {
	id               uint
	userID           uint
	productID        uint
	frequency        vo.Frequency
	quantity         int
	discountPercent  float64
	status           vo.SubscriptionStatus
	startDate        time.Time
	nextDeliveryDate time.Time
	pauseUntil       *time.Time
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

// NewSubscription creates an active subscription whose first delivery is
// one cadence after startDate.
func NewSubscription(
	userID, productID uint,
	frequency vo.Frequency,
	quantity int,
	discountPercent float64,
	startDate time.Time,
	now time.Time,
) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user ID is required", ErrInvalidSubscription)
	}
	if productID == 0 {
		return nil, fmt.Errorf("%w: product ID is required", ErrInvalidSubscription)
	}
	if !frequency.IsValid() {
		return nil, fmt.Errorf("%w: frequency is required", ErrInvalidSubscription)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidSubscription)
	}
	if discountPercent < 0 || discountPercent > 100 {
		return nil, fmt.Errorf("%w: discount percent must be between 0 and 100", ErrInvalidSubscription)
	}
	if startDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalidSubscription)
	}

	startDate = biztime.NormalizeDate(startDate)
	return &Subscription{
		userID:           userID,
		productID:        productID,
		frequency:        frequency,
		quantity:         quantity,
		discountPercent:  discountPercent,
		status:           vo.StatusActive,
		startDate:        startDate,
		nextDeliveryDate: frequency.NextDeliveryDate(startDate),
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// SubscriptionReconstructParams carries persisted state back into the aggregate.
type SubscriptionReconstructParams struct {
	ID               uint
	UserID           uint
	ProductID        uint
	Frequency        vo.Frequency
	Quantity         int
	DiscountPercent  float64
	Status           vo.SubscriptionStatus
	StartDate        time.Time
	NextDeliveryDate time.Time
	PauseUntil       *time.Time
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReconstructSubscriptionWithParams rebuilds a subscription from persistence
func ReconstructSubscriptionWithParams(p SubscriptionReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	if !p.Frequency.IsValid() {
		return nil, fmt.Errorf("invalid subscription frequency: %s", p.Frequency)
	}

	return &Subscription{
		id:               p.ID,
		userID:           p.UserID,
		productID:        p.ProductID,
		frequency:        p.Frequency,
		quantity:         p.Quantity,
		discountPercent:  p.DiscountPercent,
		status:           p.Status,
		startDate:        p.StartDate,
		nextDeliveryDate: p.NextDeliveryDate,
		pauseUntil:       p.PauseUntil,
		version:          p.Version,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint {
	return s.id
}

func (s *Subscription) UserID() uint {
	return s.userID
}

func (s *Subscription) ProductID() uint {
	return s.productID
}

func (s *Subscription) Frequency() vo.Frequency {
	return s.frequency
}

func (s *Subscription) Quantity() int {
	return s.quantity
}

func (s *Subscription) DiscountPercent() float64 {
	return s.discountPercent
}

func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

func (s *Subscription) StartDate() time.Time {
	return s.startDate
}

func (s *Subscription) NextDeliveryDate() time.Time {
	return s.nextDeliveryDate
}

func (s *Subscription) PauseUntil() *time.Time {
	return s.pauseUntil
}

func (s *Subscription) Version() int {
	return s.version
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

func (s *Subscription) IsActive() bool {
	return s.status == vo.StatusActive
}

func (s *Subscription) IsOwnedBy(userID uint) bool {
	return s.userID == userID
}

// SetID sets the subscription ID (only for persistence layer use)
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// Pause suspends deliveries until the given date, which must fall after
// the business day containing now.
func (s *Subscription) Pause(until time.Time, now time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusPaused) {
		return ErrInvalidTransition(s.status, vo.StatusPaused)
	}
	until = biztime.NormalizeDate(until)
	if !until.After(biztime.DateOf(now)) {
		return ErrPauseUntilNotInFuture
	}

	s.status = vo.StatusPaused
	s.pauseUntil = &until
	s.touch(now)
	return nil
}

// Resume reactivates a paused subscription. nextDeliveryDate is left as is,
// even when it now lies in the past.
func (s *Subscription) Resume(now time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusActive) {
		return ErrInvalidTransition(s.status, vo.StatusActive)
	}

	s.status = vo.StatusActive
	s.pauseUntil = nil
	s.touch(now)
	return nil
}

// Cancel moves the subscription into its terminal state.
func (s *Subscription) Cancel(now time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusCancelled) {
		return ErrInvalidTransition(s.status, vo.StatusCancelled)
	}

	s.status = vo.StatusCancelled
	s.pauseUntil = nil
	s.touch(now)
	return nil
}

// ApplyConfirmation applies a customer's reminder response. Continue never
// changes the subscription, whatever its status; only the token is consumed.
func (s *Subscription) ApplyConfirmation(action vo.ConfirmationAction, now time.Time) error {
	switch action.Kind() {
	case vo.ActionContinue:
		return nil
	case vo.ActionPause:
		return s.Pause(action.PauseUntil(), now)
	case vo.ActionCancel:
		return s.Cancel(now)
	default:
		return ErrInvalidAction
	}
}

func (s *Subscription) touch(now time.Time) {
	s.updatedAt = now
	s.version++
}
