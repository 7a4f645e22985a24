package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	subdto "github.com/harvestbox/subscriptions/internal/application/subscription/dto"
	"github.com/harvestbox/subscriptions/internal/application/subscription/usecases"
	"github.com/harvestbox/subscriptions/internal/shared/errors"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
	"github.com/harvestbox/subscriptions/internal/shared/utils"
)

// ReminderHandler serves the reminder sweep, the public confirmation links
// and the admin reminder tools.
type ReminderHandler struct {
	sweepUseCase   reminderSweepUseCase
	detailsUseCase getConfirmationDetailsUseCase
	confirmUseCase processConfirmationUseCase
	statsUseCase   getReminderStatsUseCase
	adminUseCase   sendAdminRemindersUseCase
	logger         logger.Interface
}

func NewReminderHandler(
	sweepUC reminderSweepUseCase,
	detailsUC getConfirmationDetailsUseCase,
	confirmUC processConfirmationUseCase,
	statsUC getReminderStatsUseCase,
	adminUC sendAdminRemindersUseCase,
	logger logger.Interface,
) *ReminderHandler {
	return &ReminderHandler{
		sweepUseCase:   sweepUC,
		detailsUseCase: detailsUC,
		confirmUseCase: confirmUC,
		statsUseCase:   statsUC,
		adminUseCase:   adminUC,
		logger:         logger,
	}
}

// SendRemindersResponse is the body of a manually triggered sweep.
type SendRemindersResponse struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message"`
	SentCount int                    `json:"sentCount"`
	Data      *subdto.SweepResultDTO `json:"data,omitempty"`
}

// ConfirmRequest is the customer's answer to a reminder. PauseUntil is
// YYYY-MM-DD and only read for the pause action.
type ConfirmRequest struct {
	Token      string `json:"token" binding:"required"`
	Action     string `json:"action" binding:"required"`
	PauseUntil string `json:"pauseUntil"`
}

// ConfirmResponse is returned for a processed confirmation.
type ConfirmResponse struct {
	Success bool                          `json:"success"`
	Message string                        `json:"message"`
	Action  string                        `json:"action"`
	Data    *subdto.ConfirmationResultDTO `json:"data,omitempty"`
}

// AdminSendRemindersRequest targets specific subscriptions. CustomMessage
// is markdown appended to the email.
type AdminSendRemindersRequest struct {
	SubscriptionIDs []uint `json:"subscriptionIds"`
	CustomMessage   string `json:"customMessage"`
}

// SendReminders handles POST /subscription-reminders/send
func (h *ReminderHandler) SendReminders(c *gin.Context) {
	result, err := h.sweepUseCase.Sweep(c.Request.Context())
	if err != nil {
		h.logger.Errorw("manual reminder sweep failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	message := fmt.Sprintf("Sent %d reminder(s)", result.SentCount)
	if result.Skipped {
		message = "A reminder sweep is already running"
	} else if result.FailedCount > 0 {
		message = fmt.Sprintf("Sent %d reminder(s), %d failed", result.SentCount, result.FailedCount)
	}

	c.JSON(http.StatusOK, SendRemindersResponse{
		Success:   true,
		Message:   message,
		SentCount: result.SentCount,
		Data:      result,
	})
}

// GetConfirmation handles GET /subscription-reminders/confirm?token=
func (h *ReminderHandler) GetConfirmation(c *gin.Context) {
	details, err := h.detailsUseCase.Execute(c.Request.Context(), c.Query("token"))
	if err != nil {
		if !errors.IsAppError(err) {
			h.logger.Errorw("failed to load confirmation details", "error", err)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", details)
}

// Confirm handles POST /subscription-reminders/confirm. Malformed input is
// a 400; business outcomes such as an expired or used link are reported
// as {success:false} with 200 so the customer page can show the message.
func (h *ReminderHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("token and action are required"))
		return
	}

	pauseUntil, err := parseOptionalDate(req.PauseUntil)
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("pauseUntil must be YYYY-MM-DD"))
		return
	}

	result, err := h.confirmUseCase.Execute(c.Request.Context(), usecases.ProcessConfirmationCommand{
		Token:      req.Token,
		Action:     req.Action,
		PauseUntil: pauseUntil,
	})
	if err != nil {
		appErr := errors.GetAppError(err)
		switch {
		case appErr == nil:
			h.logger.Errorw("failed to process confirmation", "error", err)
			utils.ErrorResponseWithError(c, err)
		case appErr.Type == errors.ErrorTypeValidation:
			utils.ErrorResponseWithError(c, err)
		default:
			h.logger.Infow("confirmation rejected", "reason", appErr.Message)
			utils.OutcomeResponse(c, false, appErr.Message)
		}
		return
	}

	c.JSON(http.StatusOK, ConfirmResponse{
		Success: true,
		Message: result.Message,
		Action:  result.Action,
		Data:    result,
	})
}

// GetStatistics handles GET /subscription-reminders/statistics
func (h *ReminderHandler) GetStatistics(c *gin.Context) {
	stats, err := h.statsUseCase.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to compute reminder statistics", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", stats)
}

// AdminSendReminders handles POST /admin/subscriptions/send-reminders
func (h *ReminderHandler) AdminSendReminders(c *gin.Context) {
	var req AdminSendRemindersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err, "invalid request body"))
		return
	}

	result, err := h.adminUseCase.Execute(c.Request.Context(), usecases.SendAdminRemindersCommand{
		SubscriptionIDs: req.SubscriptionIDs,
		CustomMessage:   req.CustomMessage,
	})
	if err != nil {
		h.logger.Warnw("admin reminder batch rejected", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result.Message, result)
}
