package usecases

import (
	"context"
	"time"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
)

// TokenGenerator mints opaque confirmation tokens.
type TokenGenerator interface {
	Generate() (string, error)
}

// ReminderMessage is everything the notifier needs to render one reminder.
type ReminderMessage struct {
	RecipientEmail    string
	RecipientName     string
	ProductName       string
	ScheduledDate     time.Time
	Token             string
	CustomMessageHTML string
}

// ReminderNotifier delivers reminder emails. SendReminder blocks until the
// message is handed to the transport.
type ReminderNotifier interface {
	SendReminder(ctx context.Context, msg ReminderMessage) error
}

type ProductSnapshot struct {
	ID       uint
	Name     string
	ImageURL string
}

// ProductCatalog is the read side of the product module. GetProduct returns
// (nil, nil) for unknown products.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID uint) (*ProductSnapshot, error)
}

type CustomerContact struct {
	ID    uint
	Email string
	Name  string
}

// CustomerDirectory is the read side of the user module. GetCustomer returns
// (nil, nil) for unknown users.
type CustomerDirectory interface {
	GetCustomer(ctx context.Context, userID uint) (*CustomerContact, error)
}

// EventPublisher forwards domain events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, event subscription.Event) error
}

type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SweepLock keeps scheduled sweeps on different replicas from overlapping.
// TryAcquire reports false when another holder owns the lock.
type SweepLock interface {
	TryAcquire(ctx context.Context, ttl time.Duration) (release func(), acquired bool, err error)
}

// MessageRenderer turns an operator supplied markdown note into safe HTML.
type MessageRenderer interface {
	ToSafeHTML(markdown string) (string, error)
}
