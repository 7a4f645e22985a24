package usecases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
)

const tokenValidity = 7 * 24 * time.Hour

// fixedNow is 2025-01-18 19:00 in the default business timezone.
var fixedNow = time.Date(2025, 1, 18, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newSubscription(t *testing.T, id uint, status vo.SubscriptionStatus, next time.Time) *subscription.Subscription {
	t.Helper()
	var pauseUntil *time.Time
	if status == vo.StatusPaused {
		until := date(2025, 3, 1)
		pauseUntil = &until
	}
	sub, err := subscription.ReconstructSubscriptionWithParams(subscription.SubscriptionReconstructParams{
		ID:               id,
		UserID:           10,
		ProductID:        100,
		Frequency:        vo.FrequencyWeekly,
		Quantity:         1,
		Status:           status,
		StartDate:        date(2025, 1, 6),
		NextDeliveryDate: next,
		PauseUntil:       pauseUntil,
		Version:          1,
		CreatedAt:        date(2025, 1, 6),
		UpdatedAt:        date(2025, 1, 6),
	})
	require.NoError(t, err)
	return sub
}

func newConfirmation(t *testing.T, id, subscriptionID uint, token string, createdAt time.Time) *subscription.Confirmation {
	t.Helper()
	c, err := subscription.ReconstructConfirmationWithParams(subscription.ConfirmationReconstructParams{
		ID:                    id,
		SubscriptionID:        subscriptionID,
		Token:                 token,
		ScheduledDeliveryDate: date(2025, 1, 20),
		ExpiresAt:             createdAt.Add(tokenValidity),
		CreatedAt:             createdAt,
	})
	require.NoError(t, err)
	return c
}

type issuerDeps struct {
	store     *confirmationStore
	confRepo  *mockConfirmationRepository
	tokens    *sequenceTokenGenerator
	notifier  *mockNotifier
	catalog   *mockCatalog
	customers *mockCustomers
	publisher *mockPublisher
	tx        *mockTxManager
}

func newIssuer(subRepo *mockSubscriptionRepository) (*ReminderIssuer, *issuerDeps) {
	store := &confirmationStore{}
	deps := &issuerDeps{
		store:     store,
		confRepo:  store.repo(),
		tokens:    &sequenceTokenGenerator{prefix: "tok-"},
		notifier:  &mockNotifier{},
		catalog:   &mockCatalog{},
		customers: &mockCustomers{},
		publisher: &mockPublisher{},
		tx:        &mockTxManager{},
	}
	issuer := NewReminderIssuer(subRepo, deps.confRepo, deps.tx, deps.tokens, deps.notifier,
		deps.catalog, deps.customers, deps.publisher, tokenValidity, &mockLogger{})
	issuer.now = clock
	return issuer, deps
}
