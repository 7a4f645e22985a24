package subscription

import (
	"errors"
	"fmt"

	vo "github.com/harvestbox/subscriptions/internal/domain/subscription/valueobjects"
)

var (
	ErrSubscriptionNotFound         = errors.New("subscription not found")
	ErrSubscriptionNotActive        = errors.New("subscription is not active")
	ErrSubscriptionConflict         = errors.New("subscription was modified concurrently")
	ErrInvalidSubscription          = errors.New("invalid subscription")
	ErrInvalidStatusTransition      = errors.New("invalid status transition")
	ErrPauseUntilNotInFuture        = errors.New("pauseUntil must be after today")
	ErrConfirmationNotFound         = errors.New("confirmation not found")
	ErrConfirmationExpired          = errors.New("confirmation expired")
	ErrConfirmationAlreadyProcessed = errors.New("confirmation already processed")
	ErrActiveConfirmationExists     = errors.New("an active confirmation already exists for this delivery")
	ErrReminderDispatchFailed       = errors.New("reminder dispatch failed")

	ErrInvalidAction      = vo.ErrInvalidAction
	ErrPauseUntilRequired = vo.ErrPauseUntilRequired
)

func ErrInvalidTransition(from, to vo.SubscriptionStatus) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
