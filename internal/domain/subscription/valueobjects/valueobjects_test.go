package valueobjects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFrequency_NextDeliveryDate(t *testing.T) {
	tests := []struct {
		name string
		freq Frequency
		from time.Time
		want time.Time
	}{
		{"weekly", FrequencyWeekly, date(2025, 1, 20), date(2025, 1, 27)},
		{"biweekly crosses month", FrequencyBiweekly, date(2025, 1, 25), date(2025, 2, 8)},
		{"monthly plain", FrequencyMonthly, date(2025, 3, 15), date(2025, 4, 15)},
		{"monthly clamps to february", FrequencyMonthly, date(2025, 1, 31), date(2025, 2, 28)},
		{"monthly clamps to leap february", FrequencyMonthly, date(2024, 1, 31), date(2024, 2, 29)},
		{"monthly clamps to 30 day month", FrequencyMonthly, date(2025, 3, 31), date(2025, 4, 30)},
		{"monthly rolls year", FrequencyMonthly, date(2025, 12, 31), date(2026, 1, 31)},
		{"time of day dropped", FrequencyWeekly, time.Date(2025, 1, 20, 18, 30, 0, 0, time.UTC), date(2025, 1, 27)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.freq.NextDeliveryDate(tt.from))
		})
	}
}

func TestFrequency_NextDeliveryDateAlwaysLater(t *testing.T) {
	start := date(2023, 1, 1)
	for _, f := range []Frequency{FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly} {
		for d := start; d.Before(date(2025, 1, 1)); d = d.AddDate(0, 0, 1) {
			require.True(t, f.NextDeliveryDate(d).After(d), "%s from %s", f, d.Format("2006-01-02"))
		}
	}
}

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency("biweekly")
	require.NoError(t, err)
	assert.Equal(t, FrequencyBiweekly, f)
	assert.Equal(t, "biweekly", f.String())

	_, err = ParseFrequency("daily")
	assert.Error(t, err)
}

func TestSubscriptionStatus_Transitions(t *testing.T) {
	assert.True(t, StatusActive.CanTransitionTo(StatusPaused))
	assert.True(t, StatusActive.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusPaused.CanTransitionTo(StatusActive))
	assert.True(t, StatusPaused.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusActive.CanTransitionTo(StatusActive))

	for _, target := range []SubscriptionStatus{StatusActive, StatusPaused, StatusCancelled} {
		assert.False(t, StatusCancelled.CanTransitionTo(target))
	}
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestParseSubscriptionStatus(t *testing.T) {
	for _, wire := range []string{"active", "paused", "cancelled"} {
		s, err := ParseSubscriptionStatus(wire)
		require.NoError(t, err)
		assert.Equal(t, wire, s.String())
	}
	_, err := ParseSubscriptionStatus("expired")
	assert.Error(t, err)
}

func TestParseConfirmationAction(t *testing.T) {
	until := date(2025, 3, 1)

	a, err := ParseConfirmationAction("pause", &until)
	require.NoError(t, err)
	assert.Equal(t, ActionPause, a.Kind())
	assert.Equal(t, until, a.PauseUntil())

	_, err = ParseConfirmationAction("pause", nil)
	assert.ErrorIs(t, err, ErrPauseUntilRequired)

	a, err = ParseConfirmationAction("continue", &until)
	require.NoError(t, err)
	assert.Equal(t, ActionContinue, a.Kind())
	assert.True(t, a.PauseUntil().IsZero())

	a, err = ParseConfirmationAction("cancel", nil)
	require.NoError(t, err)
	assert.Equal(t, ActionCancel, a.Kind())

	_, err = ParseConfirmationAction("skip", nil)
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = ParseConfirmationAction("", nil)
	assert.ErrorIs(t, err, ErrInvalidAction)
}
