package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/harvestbox/subscriptions/internal/application/subscription/dto"
	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	"github.com/harvestbox/subscriptions/internal/shared/biztime"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

// SendDueRemindersUseCase is the scheduled sweep: every active subscription
// whose next delivery falls within the reminder window gets a reminder.
type SendDueRemindersUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	issuer           *ReminderIssuer
	lock             SweepLock
	windowDays       int
	lockTTL          time.Duration
	logger           logger.Interface
	now              func() time.Time
}

// NewSendDueRemindersUseCase creates the sweep. lock may be nil, in which
// case overlapping sweeps rely solely on storage idempotency.
func NewSendDueRemindersUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	issuer *ReminderIssuer,
	lock SweepLock,
	windowDays int,
	lockTTL time.Duration,
	logger logger.Interface,
) *SendDueRemindersUseCase {
	return &SendDueRemindersUseCase{
		subscriptionRepo: subscriptionRepo,
		issuer:           issuer,
		lock:             lock,
		windowDays:       windowDays,
		lockTTL:          lockTTL,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

// Execute runs one sweep and returns how many reminders were sent. It
// satisfies the scheduler's batch job contract.
func (uc *SendDueRemindersUseCase) Execute(ctx context.Context) (int, error) {
	result, err := uc.Sweep(ctx)
	if err != nil {
		return 0, err
	}
	return result.SentCount, nil
}

// Sweep runs one pass over the due subscriptions. Per-item failures are
// logged and counted; only failing to load the candidates aborts the pass.
func (uc *SendDueRemindersUseCase) Sweep(ctx context.Context) (*dto.SweepResultDTO, error) {
	if uc.lock != nil {
		release, acquired, err := uc.lock.TryAcquire(ctx, uc.lockTTL)
		if err != nil {
			// Storage uniqueness still protects the cycle, so carry on.
			uc.logger.Warnw("sweep lock unavailable, running unlocked", "error", err)
		} else if !acquired {
			uc.logger.Infow("reminder sweep already running elsewhere, skipping")
			return &dto.SweepResultDTO{Skipped: true}, nil
		} else {
			defer release()
		}
	}

	today := biztime.DateOf(uc.now())
	windowEnd := biztime.AddDays(today, uc.windowDays)

	due, err := uc.subscriptionRepo.FindDueForReminder(ctx, today, windowEnd)
	if err != nil {
		uc.logger.Errorw("failed to load subscriptions due for reminder", "error", err)
		return nil, fmt.Errorf("failed to load due subscriptions: %w", err)
	}

	result := &dto.SweepResultDTO{
		Candidates:  len(due.Subscriptions) + len(due.UnreadableIDs),
		FailedCount: len(due.UnreadableIDs),
	}
	for _, id := range due.UnreadableIDs {
		uc.logger.Warnw("failed to issue reminder", "subscription_id", id, "error", "unreadable subscription record")
	}

	for _, sub := range due.Subscriptions {
		if ctx.Err() != nil {
			uc.logger.Warnw("reminder sweep interrupted",
				"processed", result.SentCount+result.FailedCount,
				"candidates", result.Candidates,
			)
			return result, ctx.Err()
		}

		issued, err := uc.issuer.Issue(ctx, sub, "")
		if err != nil {
			result.FailedCount++
			uc.logger.Warnw("failed to issue reminder",
				"subscription_id", sub.ID(),
				"error", err,
			)
			continue
		}
		if issued.Dispatched {
			result.SentCount++
		}
	}

	uc.logger.Infow("reminder sweep completed",
		"window_start", biztime.FormatDate(today),
		"window_end", biztime.FormatDate(windowEnd),
		"candidates", result.Candidates,
		"sent", result.SentCount,
		"failed", result.FailedCount,
	)
	return result, nil
}
