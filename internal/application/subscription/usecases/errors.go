package usecases

import (
	stderrors "errors"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	"github.com/harvestbox/subscriptions/internal/shared/errors"
)

// toAppError translates domain sentinels into AppErrors, keeping the
// original error as the cause. Unknown errors pass through unchanged and
// surface as internal errors.
func toAppError(err error) error {
	if err == nil || errors.IsAppError(err) {
		return err
	}

	switch {
	case stderrors.Is(err, subscription.ErrSubscriptionNotFound):
		return errors.NewNotFoundError("Subscription not found").WithCause(err)
	case stderrors.Is(err, subscription.ErrConfirmationNotFound):
		return errors.NewNotFoundError("Confirmation link not found").WithCause(err)
	case stderrors.Is(err, subscription.ErrConfirmationExpired):
		return errors.NewExpiredError("This confirmation link has expired").WithCause(err)
	case stderrors.Is(err, subscription.ErrConfirmationAlreadyProcessed):
		return errors.NewConflictError("This confirmation link has already been used").WithCause(err)
	case stderrors.Is(err, subscription.ErrInvalidAction):
		return errors.NewValidationError("action must be one of continue, pause, cancel").WithCause(err)
	case stderrors.Is(err, subscription.ErrPauseUntilRequired):
		return errors.NewValidationError("pauseUntil is required when pausing").WithCause(err)
	case stderrors.Is(err, subscription.ErrPauseUntilNotInFuture):
		return errors.NewValidationError("pauseUntil must be a future date").WithCause(err)
	case stderrors.Is(err, subscription.ErrInvalidSubscription):
		return errors.NewValidationError("Invalid subscription", err.Error()).WithCause(err)
	case stderrors.Is(err, subscription.ErrInvalidStatusTransition):
		return errors.NewConflictError("This change is not allowed for the subscription's current status").WithCause(err)
	case stderrors.Is(err, subscription.ErrSubscriptionNotActive):
		return errors.NewConflictError("Subscription is not active").WithCause(err)
	case stderrors.Is(err, subscription.ErrSubscriptionConflict):
		return errors.NewConflictError("Subscription was changed by another request, please retry").WithCause(err)
	case stderrors.Is(err, subscription.ErrReminderDispatchFailed):
		return errors.NewDependencyError("Reminder could not be delivered").WithCause(err)
	default:
		return err
	}
}
