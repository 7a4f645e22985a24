package dto

import (
	"time"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	"github.com/harvestbox/subscriptions/internal/shared/biztime"
)

type SubscriptionDTO struct {
	ID               uint      `json:"id"`
	UserID           uint      `json:"userId"`
	ProductID        uint      `json:"productId"`
	Frequency        string    `json:"frequency"`
	Quantity         int       `json:"quantity"`
	DiscountPercent  float64   `json:"discountPercent"`
	Status           string    `json:"status"`
	StartDate        string    `json:"startDate"`
	NextDeliveryDate string    `json:"nextDeliveryDate"`
	PauseUntil       *string   `json:"pauseUntil,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ConfirmationDetailsDTO is what the customer sees when opening a reminder link.
type ConfirmationDetailsDTO struct {
	Token                 string     `json:"token"`
	SubscriptionID        uint       `json:"subscriptionId"`
	ProductID             uint       `json:"productId"`
	ProductName           string     `json:"productName"`
	ProductImage          string     `json:"productImage,omitempty"`
	Quantity              int        `json:"quantity"`
	Frequency             string     `json:"frequency"`
	SubscriptionStatus    string     `json:"subscriptionStatus"`
	ScheduledDeliveryDate string     `json:"scheduledDeliveryDate"`
	FollowingDeliveryDate string     `json:"followingDeliveryDate"`
	ExpiresAt             time.Time  `json:"expiresAt"`
	IsExpired             bool       `json:"isExpired"`
	IsAlreadyProcessed    bool       `json:"isAlreadyProcessed"`
	ProcessedAt           *time.Time `json:"processedAt,omitempty"`
	Action                string     `json:"action,omitempty"`
}

type ConfirmationResultDTO struct {
	Action             string  `json:"action"`
	SubscriptionID     uint    `json:"subscriptionId"`
	SubscriptionStatus string  `json:"subscriptionStatus"`
	PauseUntil         *string `json:"pauseUntil,omitempty"`
	Message            string  `json:"message"`
}

type SweepResultDTO struct {
	Candidates  int  `json:"candidates"`
	SentCount   int  `json:"sentCount"`
	FailedCount int  `json:"failedCount"`
	Skipped     bool `json:"skipped"`
}

// AdminReminderResultDTO counts already-notified subscriptions as successes;
// AlreadyNotifiedIDs lists the ones for which no email was sent.
type AdminReminderResultDTO struct {
	SuccessCount       int      `json:"successCount"`
	FailedCount        int      `json:"failedCount"`
	Errors             []string `json:"errors"`
	AlreadyNotifiedIDs []uint   `json:"alreadyNotifiedIds"`
	Message            string   `json:"message"`
}

type ReminderStatsDTO struct {
	ActiveSubscriptions  int64 `json:"activeSubscriptions"`
	RemindersSentToday   int64 `json:"remindersSentToday"`
	PendingConfirmations int64 `json:"pendingConfirmations"`
	ContinueCount        int64 `json:"continueCount"`
	PauseCount           int64 `json:"pauseCount"`
	CancelCount          int64 `json:"cancelCount"`
}

func ToSubscriptionDTO(s *subscription.Subscription) *SubscriptionDTO {
	if s == nil {
		return nil
	}
	return &SubscriptionDTO{
		ID:               s.ID(),
		UserID:           s.UserID(),
		ProductID:        s.ProductID(),
		Frequency:        s.Frequency().String(),
		Quantity:         s.Quantity(),
		DiscountPercent:  s.DiscountPercent(),
		Status:           s.Status().String(),
		StartDate:        biztime.FormatDate(s.StartDate()),
		NextDeliveryDate: biztime.FormatDate(s.NextDeliveryDate()),
		PauseUntil:       FormatOptionalDate(s.PauseUntil()),
		CreatedAt:        s.CreatedAt(),
		UpdatedAt:        s.UpdatedAt(),
	}
}

func ToSubscriptionDTOs(subs []*subscription.Subscription) []*SubscriptionDTO {
	out := make([]*SubscriptionDTO, 0, len(subs))
	for _, s := range subs {
		out = append(out, ToSubscriptionDTO(s))
	}
	return out
}

func FormatOptionalDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := biztime.FormatDate(*d)
	return &s
}
