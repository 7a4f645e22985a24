package subscription

import "time"

// Event is published to the message broker after the owning transaction
// commits.
type Event interface {
	GetEventType() string
	GetTimestamp() time.Time
	GetAggregateID() uint
}

// ReminderIssuedEvent records that a reminder email went out for a cycle.
type ReminderIssuedEvent struct {
	SubscriptionID        uint      `json:"subscription_id"`
	ConfirmationID        uint      `json:"confirmation_id"`
	ScheduledDeliveryDate string    `json:"scheduled_delivery_date"`
	Reused                bool      `json:"reused"`
	Timestamp             time.Time `json:"timestamp"`
}

func NewReminderIssuedEvent(c *Confirmation, reused bool, now time.Time) *ReminderIssuedEvent {
	return &ReminderIssuedEvent{
		SubscriptionID:        c.SubscriptionID(),
		ConfirmationID:        c.ID(),
		ScheduledDeliveryDate: c.ScheduledDeliveryDate().Format("2006-01-02"),
		Reused:                reused,
		Timestamp:             now,
	}
}

func (e *ReminderIssuedEvent) GetEventType() string {
	return "reminder.issued"
}

func (e *ReminderIssuedEvent) GetTimestamp() time.Time {
	return e.Timestamp
}

func (e *ReminderIssuedEvent) GetAggregateID() uint {
	return e.SubscriptionID
}

// ConfirmationProcessedEvent records a customer's response to a reminder.
type ConfirmationProcessedEvent struct {
	SubscriptionID uint      `json:"subscription_id"`
	ConfirmationID uint      `json:"confirmation_id"`
	Action         string    `json:"action"`
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewConfirmationProcessedEvent(c *Confirmation, s *Subscription, now time.Time) *ConfirmationProcessedEvent {
	return &ConfirmationProcessedEvent{
		SubscriptionID: s.ID(),
		ConfirmationID: c.ID(),
		Action:         c.Action().String(),
		Status:         s.Status().String(),
		Timestamp:      now,
	}
}

func (e *ConfirmationProcessedEvent) GetEventType() string {
	return "confirmation.processed"
}

func (e *ConfirmationProcessedEvent) GetTimestamp() time.Time {
	return e.Timestamp
}

func (e *ConfirmationProcessedEvent) GetAggregateID() uint {
	return e.SubscriptionID
}
