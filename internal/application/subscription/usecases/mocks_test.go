package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

// =====================================================================
// Repositories
// =====================================================================

type mockSubscriptionRepository struct {
	CreateFunc             func(ctx context.Context, s *subscription.Subscription) error
	GetByIDFunc            func(ctx context.Context, id uint) (*subscription.Subscription, error)
	UpdateFunc             func(ctx context.Context, s *subscription.Subscription) error
	FindDueForReminderFunc func(ctx context.Context, from, to time.Time) (*subscription.DueSubscriptions, error)
	ListFunc               func(ctx context.Context, filter subscription.SubscriptionFilter) ([]*subscription.Subscription, int64, error)
	CountByStatusFunc      func(ctx context.Context, status vo.SubscriptionStatus) (int64, error)
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return nil
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, s)
	}
	return nil
}

func (m *mockSubscriptionRepository) FindDueForReminder(ctx context.Context, from, to time.Time) (*subscription.DueSubscriptions, error) {
	if m.FindDueForReminderFunc != nil {
		return m.FindDueForReminderFunc(ctx, from, to)
	}
	return &subscription.DueSubscriptions{}, nil
}

func (m *mockSubscriptionRepository) List(ctx context.Context, filter subscription.SubscriptionFilter) ([]*subscription.Subscription, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockSubscriptionRepository) CountByStatus(ctx context.Context, status vo.SubscriptionStatus) (int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, status)
	}
	return 0, nil
}

type mockConfirmationRepository struct {
	CreateFunc              func(ctx context.Context, c *subscription.Confirmation) error
	GetByTokenFunc          func(ctx context.Context, token string) (*subscription.Confirmation, error)
	FindActiveForCycleFunc  func(ctx context.Context, subscriptionID uint, date, now time.Time) (*subscription.Confirmation, error)
	ReleaseExpiredCycleFunc func(ctx context.Context, subscriptionID uint, date, now time.Time) error
	UpdateDispatchFunc      func(ctx context.Context, c *subscription.Confirmation) error
	MarkProcessedFunc       func(ctx context.Context, c *subscription.Confirmation) error
	CountCreatedSinceFunc   func(ctx context.Context, since time.Time) (int64, error)
	CountPendingFunc        func(ctx context.Context, now time.Time) (int64, error)
	CountByActionFunc       func(ctx context.Context) (map[vo.ActionKind]int64, error)
}

func (m *mockConfirmationRepository) Create(ctx context.Context, c *subscription.Confirmation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *mockConfirmationRepository) GetByToken(ctx context.Context, token string) (*subscription.Confirmation, error) {
	if m.GetByTokenFunc != nil {
		return m.GetByTokenFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockConfirmationRepository) FindActiveForCycle(ctx context.Context, subscriptionID uint, date, now time.Time) (*subscription.Confirmation, error) {
	if m.FindActiveForCycleFunc != nil {
		return m.FindActiveForCycleFunc(ctx, subscriptionID, date, now)
	}
	return nil, nil
}

func (m *mockConfirmationRepository) ReleaseExpiredCycle(ctx context.Context, subscriptionID uint, date, now time.Time) error {
	if m.ReleaseExpiredCycleFunc != nil {
		return m.ReleaseExpiredCycleFunc(ctx, subscriptionID, date, now)
	}
	return nil
}

func (m *mockConfirmationRepository) UpdateDispatch(ctx context.Context, c *subscription.Confirmation) error {
	if m.UpdateDispatchFunc != nil {
		return m.UpdateDispatchFunc(ctx, c)
	}
	return nil
}

func (m *mockConfirmationRepository) MarkProcessed(ctx context.Context, c *subscription.Confirmation) error {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, c)
	}
	return nil
}

func (m *mockConfirmationRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	if m.CountCreatedSinceFunc != nil {
		return m.CountCreatedSinceFunc(ctx, since)
	}
	return 0, nil
}

func (m *mockConfirmationRepository) CountPending(ctx context.Context, now time.Time) (int64, error) {
	if m.CountPendingFunc != nil {
		return m.CountPendingFunc(ctx, now)
	}
	return 0, nil
}

func (m *mockConfirmationRepository) CountByAction(ctx context.Context) (map[vo.ActionKind]int64, error) {
	if m.CountByActionFunc != nil {
		return m.CountByActionFunc(ctx)
	}
	return map[vo.ActionKind]int64{}, nil
}

// confirmationStore backs a mockConfirmationRepository with a slice so
// issuance scenarios can observe reuse across calls.
type confirmationStore struct {
	mu     sync.Mutex
	rows   []*subscription.Confirmation
	nextID uint
}

func (s *confirmationStore) repo() *mockConfirmationRepository {
	return &mockConfirmationRepository{
		CreateFunc: func(ctx context.Context, c *subscription.Confirmation) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			for _, row := range s.rows {
				if row.CycleKey() == c.CycleKey() && row.IsActive(c.CreatedAt()) {
					return subscription.ErrActiveConfirmationExists
				}
			}
			s.nextID++
			_ = c.SetID(s.nextID)
			s.rows = append(s.rows, c)
			return nil
		},
		FindActiveForCycleFunc: func(ctx context.Context, subscriptionID uint, date, now time.Time) (*subscription.Confirmation, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			key := subscription.CycleKey(subscriptionID, date)
			for _, row := range s.rows {
				if row.CycleKey() == key && row.IsActive(now) {
					return row, nil
				}
			}
			return nil, nil
		},
		GetByTokenFunc: func(ctx context.Context, token string) (*subscription.Confirmation, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			for _, row := range s.rows {
				if row.Token() == token {
					return row, nil
				}
			}
			return nil, nil
		},
	}
}

func (s *confirmationStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// =====================================================================
// Collaborators
// =====================================================================

// mockTxManager runs the callback inline; rollback is not simulated.
type mockTxManager struct {
	calls int
}

func (m *mockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type sequenceTokenGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
	err    error
}

func (g *sequenceTokenGenerator) Generate() (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return g.prefix + string(rune('a'+g.n-1)), nil
}

type mockNotifier struct {
	mu             sync.Mutex
	SendReminderFn func(ctx context.Context, msg ReminderMessage) error
	sent           []ReminderMessage
}

func (m *mockNotifier) SendReminder(ctx context.Context, msg ReminderMessage) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	if m.SendReminderFn != nil {
		return m.SendReminderFn(ctx, msg)
	}
	return nil
}

func (m *mockNotifier) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type mockCatalog struct {
	GetProductFunc func(ctx context.Context, productID uint) (*ProductSnapshot, error)
}

func (m *mockCatalog) GetProduct(ctx context.Context, productID uint) (*ProductSnapshot, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, productID)
	}
	return &ProductSnapshot{ID: productID, Name: "Organic Veggie Box", ImageURL: "https://cdn.example.com/veggie.jpg"}, nil
}

type mockCustomers struct {
	GetCustomerFunc func(ctx context.Context, userID uint) (*CustomerContact, error)
}

func (m *mockCustomers) GetCustomer(ctx context.Context, userID uint) (*CustomerContact, error) {
	if m.GetCustomerFunc != nil {
		return m.GetCustomerFunc(ctx, userID)
	}
	return &CustomerContact{ID: userID, Email: "customer@example.com", Name: "Lan Nguyen"}, nil
}

type mockPublisher struct {
	mu     sync.Mutex
	err    error
	events []subscription.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event subscription.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.err
}

type mockSweepLock struct {
	acquired bool
	err      error
	released int
}

func (m *mockSweepLock) TryAcquire(ctx context.Context, ttl time.Duration) (func(), bool, error) {
	if m.err != nil || !m.acquired {
		return nil, false, m.err
	}
	return func() { m.released++ }, true, nil
}

type mockRenderer struct {
	ToSafeHTMLFunc func(markdown string) (string, error)
}

func (m *mockRenderer) ToSafeHTML(markdown string) (string, error) {
	if m.ToSafeHTMLFunc != nil {
		return m.ToSafeHTMLFunc(markdown)
	}
	if markdown == "" {
		return "", nil
	}
	return "<p>" + markdown + "</p>", nil
}

// =====================================================================
// Logger
// =====================================================================

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)      {}
func (m *mockLogger) Info(msg string, args ...any)       {}
func (m *mockLogger) Warn(msg string, args ...any)       {}
func (m *mockLogger) Error(msg string, args ...any)      {}
func (m *mockLogger) With(args ...any) logger.Interface  { return m }
func (m *mockLogger) Named(name string) logger.Interface { return m }
func (m *mockLogger) Debugw(msg string, kv ...any)       {}
func (m *mockLogger) Infow(msg string, kv ...any)        {}
func (m *mockLogger) Warnw(msg string, kv ...any)        {}
func (m *mockLogger) Errorw(msg string, kv ...any)       {}
