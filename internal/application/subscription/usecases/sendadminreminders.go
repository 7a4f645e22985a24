package usecases

import (
	"context"
	"fmt"

	"github.com/harvestbox/subscriptions/internal/application/subscription/dto"
	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	"github.com/harvestbox/subscriptions/internal/shared/errors"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

const maxAdminReminderBatch = 500

type SendAdminRemindersCommand struct {
	SubscriptionIDs []uint
	CustomMessage   string
}

// SendAdminRemindersUseCase issues reminders for an explicit list of
// subscriptions. Each id is handled independently; partial success is a
// normal outcome reported through the result counts.
type SendAdminRemindersUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	issuer           *ReminderIssuer
	renderer         MessageRenderer
	logger           logger.Interface
}

func NewSendAdminRemindersUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	issuer *ReminderIssuer,
	renderer MessageRenderer,
	logger logger.Interface,
) *SendAdminRemindersUseCase {
	return &SendAdminRemindersUseCase{
		subscriptionRepo: subscriptionRepo,
		issuer:           issuer,
		renderer:         renderer,
		logger:           logger,
	}
}

func (uc *SendAdminRemindersUseCase) Execute(ctx context.Context, cmd SendAdminRemindersCommand) (*dto.AdminReminderResultDTO, error) {
	ids := uniqueIDs(cmd.SubscriptionIDs)
	if len(ids) == 0 {
		return nil, errors.NewValidationError("subscriptionIds must not be empty")
	}
	if len(ids) > maxAdminReminderBatch {
		return nil, errors.NewValidationError(fmt.Sprintf("at most %d subscriptions per request", maxAdminReminderBatch))
	}

	customHTML, err := uc.renderer.ToSafeHTML(cmd.CustomMessage)
	if err != nil {
		return nil, errors.NewValidationError("customMessage could not be rendered", err.Error())
	}

	result := &dto.AdminReminderResultDTO{Errors: []string{}, AlreadyNotifiedIDs: []uint{}}
	for _, id := range ids {
		dispatched, err := uc.issueOne(ctx, id, customHTML)
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("subscription %d: %s", id, err))
			continue
		}
		result.SuccessCount++
		if !dispatched {
			result.AlreadyNotifiedIDs = append(result.AlreadyNotifiedIDs, id)
		}
	}

	result.Message = adminBatchMessage(result, customHTML != "")

	uc.logger.Infow("admin reminder batch completed",
		"requested", len(ids),
		"success", result.SuccessCount,
		"already_notified", len(result.AlreadyNotifiedIDs),
		"failed", result.FailedCount,
	)
	return result, nil
}

// adminBatchMessage separates reminders emailed by this batch from reused
// tokens whose email went out earlier. Those are not re-sent, so a custom
// message never reaches them.
func adminBatchMessage(result *dto.AdminReminderResultDTO, hasCustomMessage bool) string {
	already := len(result.AlreadyNotifiedIDs)
	if already == 0 {
		return fmt.Sprintf("Sent %d reminder(s), %d failed", result.SuccessCount, result.FailedCount)
	}

	msg := fmt.Sprintf("Sent %d reminder(s), %d already notified, %d failed",
		result.SuccessCount-already, already, result.FailedCount)
	if hasCustomMessage {
		msg += "; custom message not delivered to already notified subscriptions"
	}
	return msg
}

// issueOne reports whether an email went out for id.
func (uc *SendAdminRemindersUseCase) issueOne(ctx context.Context, id uint, customHTML string) (bool, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to load subscription for reminder", "subscription_id", id, "error", err)
		return false, fmt.Errorf("could not load subscription")
	}
	if sub == nil {
		return false, subscription.ErrSubscriptionNotFound
	}

	issued, err := uc.issuer.Issue(ctx, sub, customHTML)
	if err != nil {
		uc.logger.Warnw("admin reminder failed", "subscription_id", id, "error", err)
		return false, err
	}
	if !issued.Dispatched {
		uc.logger.Infow("reminder already delivered for this cycle, not re-sent", "subscription_id", id)
	}
	return issued.Dispatched, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
