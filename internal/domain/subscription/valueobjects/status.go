package valueobjects

import "fmt"

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus uint8

const (
	StatusUnknown SubscriptionStatus = iota
	StatusActive
	StatusPaused
	StatusCancelled
)

// statusWireV1 is the persisted and JSON representation of each status.
// Values must never be renamed; add a new table version instead.
var statusWireV1 = map[SubscriptionStatus]string{
	StatusActive:    "active",
	StatusPaused:    "paused",
	StatusCancelled: "cancelled",
}

var statusTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	StatusActive:    {StatusPaused, StatusCancelled},
	StatusPaused:    {StatusActive, StatusCancelled},
	StatusCancelled: {},
}

func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	for status, wire := range statusWireV1 {
		if wire == s {
			return status, nil
		}
	}
	return StatusUnknown, fmt.Errorf("invalid subscription status: %q", s)
}

func (s SubscriptionStatus) String() string {
	if wire, ok := statusWireV1[s]; ok {
		return wire
	}
	return "unknown"
}

func (s SubscriptionStatus) IsValid() bool {
	_, ok := statusWireV1[s]
	return ok
}

func (s SubscriptionStatus) IsTerminal() bool {
	return s == StatusCancelled
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
