// Package handlers implements the HTTP endpoints of the subscription service.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harvestbox/subscriptions/internal/application/subscription/usecases"
	"github.com/harvestbox/subscriptions/internal/shared/biztime"
	"github.com/harvestbox/subscriptions/internal/shared/constants"
	"github.com/harvestbox/subscriptions/internal/shared/errors"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
	"github.com/harvestbox/subscriptions/internal/shared/utils"
)

// SubscriptionHandler handles the owner's own subscriptions
type SubscriptionHandler struct {
	createUseCase   createSubscriptionUseCase
	getUseCase      getSubscriptionUseCase
	listUserUseCase listUserSubscriptionsUseCase
	pauseUseCase    pauseSubscriptionUseCase
	resumeUseCase   resumeSubscriptionUseCase
	cancelUseCase   cancelSubscriptionUseCase
	logger          logger.Interface
}

// NewSubscriptionHandler creates a new user subscription handler
func NewSubscriptionHandler(
	createUC createSubscriptionUseCase,
	getUC getSubscriptionUseCase,
	listUserUC listUserSubscriptionsUseCase,
	pauseUC pauseSubscriptionUseCase,
	resumeUC resumeSubscriptionUseCase,
	cancelUC cancelSubscriptionUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		createUseCase:   createUC,
		getUseCase:      getUC,
		listUserUseCase: listUserUC,
		pauseUseCase:    pauseUC,
		resumeUseCase:   resumeUC,
		cancelUseCase:   cancelUC,
		logger:          logger,
	}
}

// CreateSubscriptionRequest represents the request to subscribe to a product.
// StartDate is YYYY-MM-DD and defaults to today.
type CreateSubscriptionRequest struct {
	ProductID       uint    `json:"productId" binding:"required"`
	Frequency       string  `json:"frequency" binding:"required,oneof=weekly biweekly monthly"`
	Quantity        int     `json:"quantity" binding:"required,min=1"`
	DiscountPercent float64 `json:"discountPercent" binding:"min=0,max=100"`
	StartDate       string  `json:"startDate"`
}

func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create subscription", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err, "invalid request body"))
		return
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("startDate must be YYYY-MM-DD"))
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), usecases.CreateSubscriptionCommand{
		UserID:          userID,
		ProductID:       req.ProductID,
		Frequency:       req.Frequency,
		Quantity:        req.Quantity,
		DiscountPercent: req.DiscountPercent,
		StartDate:       startDate,
	})
	if err != nil {
		h.logger.Errorw("failed to create subscription", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Subscription created successfully")
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	subscriptionID, err := parseSubscriptionID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), usecases.GetSubscriptionQuery{
		SubscriptionID: subscriptionID,
		UserID:         userID,
	})
	if err != nil {
		h.logger.Warnw("failed to get subscription", "error", err, "subscription_id", subscriptionID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *SubscriptionHandler) ListUserSubscriptions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	pagination := utils.ParsePagination(c)

	result, err := h.listUserUseCase.Execute(c.Request.Context(), usecases.ListUserSubscriptionsQuery{
		UserID:   userID,
		Status:   c.Query("status"),
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	})
	if err != nil {
		h.logger.Errorw("failed to list subscriptions", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Subscriptions, result.Total, pagination.Page, pagination.PageSize)
}

// PauseSubscription handles PUT /subscriptions/:id/pause?pauseUntil=YYYY-MM-DD
func (h *SubscriptionHandler) PauseSubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	subscriptionID, err := parseSubscriptionID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	pauseUntil, err := parseOptionalDate(c.Query("pauseUntil"))
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("pauseUntil must be YYYY-MM-DD"))
		return
	}

	err = h.pauseUseCase.Execute(c.Request.Context(), usecases.PauseSubscriptionCommand{
		SubscriptionID: subscriptionID,
		UserID:         userID,
		PauseUntil:     pauseUntil,
	})
	if err != nil {
		h.logger.Warnw("failed to pause subscription", "error", err, "subscription_id", subscriptionID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *SubscriptionHandler) ResumeSubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	subscriptionID, err := parseSubscriptionID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	err = h.resumeUseCase.Execute(c.Request.Context(), usecases.ResumeSubscriptionCommand{
		SubscriptionID: subscriptionID,
		UserID:         userID,
	})
	if err != nil {
		h.logger.Warnw("failed to resume subscription", "error", err, "subscription_id", subscriptionID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	subscriptionID, err := parseSubscriptionID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	err = h.cancelUseCase.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		SubscriptionID: subscriptionID,
		UserID:         userID,
	})
	if err != nil {
		h.logger.Warnw("failed to cancel subscription", "error", err, "subscription_id", subscriptionID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok && userID != 0
}

func parseSubscriptionID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("invalid subscription ID")
	}
	return uint(id), nil
}

// parseOptionalDate returns nil for an empty string.
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := biztime.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
