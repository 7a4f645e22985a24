package valueobjects

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidAction      = errors.New("invalid confirmation action")
	ErrPauseUntilRequired = errors.New("pauseUntil is required for pause")
)

// ActionKind is the customer response carried by a confirmation.
type ActionKind uint8

const (
	ActionUnknown ActionKind = iota
	ActionContinue
	ActionPause
	ActionCancel
)

var actionWireV1 = map[ActionKind]string{
	ActionContinue: "continue",
	ActionPause:    "pause",
	ActionCancel:   "cancel",
}

// AllActionKinds lists the valid kinds in wire order.
var AllActionKinds = []ActionKind{ActionContinue, ActionPause, ActionCancel}

func ParseActionKind(s string) (ActionKind, error) {
	for k, wire := range actionWireV1 {
		if wire == s {
			return k, nil
		}
	}
	return ActionUnknown, fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

func (k ActionKind) String() string {
	if wire, ok := actionWireV1[k]; ok {
		return wire
	}
	return "unknown"
}

// ConfirmationAction is Continue, Pause{until} or Cancel. The zero value is
// not a valid action; build one with the constructors or ParseConfirmationAction.
type ConfirmationAction struct {
	kind       ActionKind
	pauseUntil time.Time
}

func ContinueAction() ConfirmationAction {
	return ConfirmationAction{kind: ActionContinue}
}

func PauseAction(until time.Time) ConfirmationAction {
	return ConfirmationAction{kind: ActionPause, pauseUntil: until}
}

func CancelAction() ConfirmationAction {
	return ConfirmationAction{kind: ActionCancel}
}

// ParseConfirmationAction validates the raw action string and the optional
// pause date. pauseUntil is ignored for actions other than pause.
func ParseConfirmationAction(action string, pauseUntil *time.Time) (ConfirmationAction, error) {
	kind, err := ParseActionKind(action)
	if err != nil {
		return ConfirmationAction{}, err
	}

	switch kind {
	case ActionPause:
		if pauseUntil == nil || pauseUntil.IsZero() {
			return ConfirmationAction{}, ErrPauseUntilRequired
		}
		return PauseAction(*pauseUntil), nil
	case ActionCancel:
		return CancelAction(), nil
	default:
		return ContinueAction(), nil
	}
}

func (a ConfirmationAction) Kind() ActionKind {
	return a.kind
}

// PauseUntil is only meaningful when Kind is ActionPause.
func (a ConfirmationAction) PauseUntil() time.Time {
	return a.pauseUntil
}

func (a ConfirmationAction) String() string {
	return a.kind.String()
}
