package subscription

import (
	"fmt"
	"time"

	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	"github.com/harvestbox/subscriptions/internal/shared/biztime"
)

const maxDispatchErrorLength = 500

// Confirmation is one reminder issued for a subscription's delivery date.
// Its token lets the customer continue, pause or cancel exactly once before
// expiresAt.
type Confirmation struct {
	id                    uint
	subscriptionID        uint
	token                 string
	scheduledDeliveryDate time.Time
	expiresAt             time.Time
	createdAt             time.Time
	processedAt           *time.Time
	action                vo.ActionKind
	notifiedAt            *time.Time
	dispatchAttempts      int
	lastDispatchError     string
}

func NewConfirmation(subscriptionID uint, token string, scheduledDeliveryDate time.Time, now time.Time, validity time.Duration) (*Confirmation, error) {
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if token == "" {
		return nil, fmt.Errorf("token is required")
	}
	if validity <= 0 {
		return nil, fmt.Errorf("validity must be positive")
	}

	return &Confirmation{
		subscriptionID:        subscriptionID,
		token:                 token,
		scheduledDeliveryDate: biztime.NormalizeDate(scheduledDeliveryDate),
		expiresAt:             now.Add(validity),
		createdAt:             now,
	}, nil
}

// ConfirmationReconstructParams carries persisted state back into the aggregate.
type ConfirmationReconstructParams struct {
	ID                    uint
	SubscriptionID        uint
	Token                 string
	ScheduledDeliveryDate time.Time
	ExpiresAt             time.Time
	CreatedAt             time.Time
	ProcessedAt           *time.Time
	Action                vo.ActionKind
	NotifiedAt            *time.Time
	DispatchAttempts      int
	LastDispatchError     string
}

// ReconstructConfirmationWithParams rebuilds a confirmation from persistence
func ReconstructConfirmationWithParams(p ConfirmationReconstructParams) (*Confirmation, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("confirmation ID cannot be zero")
	}
	if p.Token == "" {
		return nil, fmt.Errorf("confirmation token cannot be empty")
	}

	return &Confirmation{
		id:                    p.ID,
		subscriptionID:        p.SubscriptionID,
		token:                 p.Token,
		scheduledDeliveryDate: p.ScheduledDeliveryDate,
		expiresAt:             p.ExpiresAt,
		createdAt:             p.CreatedAt,
		processedAt:           p.ProcessedAt,
		action:                p.Action,
		notifiedAt:            p.NotifiedAt,
		dispatchAttempts:      p.DispatchAttempts,
		lastDispatchError:     p.LastDispatchError,
	}, nil
}

// CycleKey identifies a delivery cycle. At most one active confirmation
// holds a given key.
func CycleKey(subscriptionID uint, scheduledDeliveryDate time.Time) string {
	return fmt.Sprintf("%d:%s", subscriptionID, biztime.FormatDate(scheduledDeliveryDate))
}

func (c *Confirmation) ID() uint {
	return c.id
}

func (c *Confirmation) SubscriptionID() uint {
	return c.subscriptionID
}

func (c *Confirmation) Token() string {
	return c.token
}

func (c *Confirmation) ScheduledDeliveryDate() time.Time {
	return c.scheduledDeliveryDate
}

func (c *Confirmation) ExpiresAt() time.Time {
	return c.expiresAt
}

func (c *Confirmation) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Confirmation) ProcessedAt() *time.Time {
	return c.processedAt
}

// Action is ActionUnknown until the confirmation is processed.
func (c *Confirmation) Action() vo.ActionKind {
	return c.action
}

func (c *Confirmation) NotifiedAt() *time.Time {
	return c.notifiedAt
}

func (c *Confirmation) DispatchAttempts() int {
	return c.dispatchAttempts
}

func (c *Confirmation) LastDispatchError() string {
	return c.lastDispatchError
}

func (c *Confirmation) CycleKey() string {
	return CycleKey(c.subscriptionID, c.scheduledDeliveryDate)
}

// SetID sets the confirmation ID (only for persistence layer use)
func (c *Confirmation) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("confirmation ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("confirmation ID cannot be zero")
	}
	c.id = id
	return nil
}

func (c *Confirmation) IsExpired(now time.Time) bool {
	return now.After(c.expiresAt)
}

func (c *Confirmation) IsProcessed() bool {
	return c.processedAt != nil
}

// IsActive reports whether the token can still be reused or redeemed.
func (c *Confirmation) IsActive(now time.Time) bool {
	return !c.IsProcessed() && c.expiresAt.After(now)
}

// NeedsDispatch is true until one reminder email went out successfully.
func (c *Confirmation) NeedsDispatch() bool {
	return c.notifiedAt == nil
}

func (c *Confirmation) RecordDispatchSuccess(now time.Time) {
	c.dispatchAttempts++
	c.notifiedAt = &now
	c.lastDispatchError = ""
}

func (c *Confirmation) RecordDispatchFailure(err error) {
	c.dispatchAttempts++
	msg := err.Error()
	if len(msg) > maxDispatchErrorLength {
		msg = msg[:maxDispatchErrorLength]
	}
	c.lastDispatchError = msg
}

// MarkProcessed consumes the token. Expiry is checked before prior
// processing, so an old consumed token reports as expired.
func (c *Confirmation) MarkProcessed(action vo.ActionKind, now time.Time) error {
	if c.IsExpired(now) {
		return ErrConfirmationExpired
	}
	if c.IsProcessed() {
		return ErrConfirmationAlreadyProcessed
	}

	c.processedAt = &now
	c.action = action
	return nil
}
