package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/harvestbox/subscriptions/internal/application/subscription/usecases"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

// ErrMailTransportUnavailable is returned while the breaker is open.
var ErrMailTransportUnavailable = errors.New("mail transport unavailable")

type BreakerConfig struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// BreakerNotifier stops hammering an SMTP server that keeps failing. While
// open, sends fail fast and the reminders stay pending for the next sweep.
type BreakerNotifier struct {
	next    usecases.ReminderNotifier
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewBreakerNotifier(next usecases.ReminderNotifier, cfg BreakerConfig, log logger.Interface) *BreakerNotifier {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("mail circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerNotifier{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

func (n *BreakerNotifier) SendReminder(ctx context.Context, msg usecases.ReminderMessage) error {
	_, err := n.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, n.next.SendReminder(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrMailTransportUnavailable, err)
	}
	return err
}

// State reports the breaker state for diagnostics.
func (n *BreakerNotifier) State() string {
	return n.breaker.State().String()
}
