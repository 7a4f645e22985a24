package subscription

import (
	"context"
	"time"

	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
)

// SubscriptionRepository persists subscriptions. Getters return (nil, nil)
// when no row matches.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	// Update fails with ErrSubscriptionConflict when the stored version is
	// not the one the aggregate was loaded with.
	Update(ctx context.Context, subscription *Subscription) error
	// FindDueForReminder skips rows that cannot be rebuilt into a valid
	// subscription and reports their ids in DueSubscriptions.UnreadableIDs.
	FindDueForReminder(ctx context.Context, from, to time.Time) (*DueSubscriptions, error)
	List(ctx context.Context, filter SubscriptionFilter) ([]*Subscription, int64, error)
	CountByStatus(ctx context.Context, status vo.SubscriptionStatus) (int64, error)
}

// DueSubscriptions is the candidate set of one reminder sweep.
type DueSubscriptions struct {
	Subscriptions []*Subscription
	UnreadableIDs []uint
}

type SubscriptionFilter struct {
	UserID   *uint
	Status   *vo.SubscriptionStatus
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}

// ConfirmationRepository persists confirmations and enforces that at most
// one active confirmation exists per delivery cycle.
type ConfirmationRepository interface {
	// Create fails with ErrActiveConfirmationExists when another active
	// confirmation already holds the cycle.
	Create(ctx context.Context, confirmation *Confirmation) error
	GetByToken(ctx context.Context, token string) (*Confirmation, error)
	FindActiveForCycle(ctx context.Context, subscriptionID uint, scheduledDeliveryDate time.Time, now time.Time) (*Confirmation, error)
	// ReleaseExpiredCycle frees the cycle slot held by an expired token.
	ReleaseExpiredCycle(ctx context.Context, subscriptionID uint, scheduledDeliveryDate time.Time, now time.Time) error
	UpdateDispatch(ctx context.Context, confirmation *Confirmation) error
	// MarkProcessed persists a processed confirmation with a compare-and-set
	// on processed_at. The loser of a race gets ErrConfirmationAlreadyProcessed.
	MarkProcessed(ctx context.Context, confirmation *Confirmation) error

	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountPending(ctx context.Context, now time.Time) (int64, error)
	CountByAction(ctx context.Context) (map[vo.ActionKind]int64, error)
}
