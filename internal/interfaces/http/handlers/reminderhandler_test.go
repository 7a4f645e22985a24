package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	subdto "github.com/harvestbox/subscriptions/internal/application/subscription/dto"
	"github.com/harvestbox/subscriptions/internal/application/subscription/usecases"
	"github.com/harvestbox/subscriptions/internal/interfaces/http/handlers/testutil"
	"github.com/harvestbox/subscriptions/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockReminderSweepUC struct {
	result *subdto.SweepResultDTO
	err    error
}

func (m *mockReminderSweepUC) Sweep(ctx context.Context) (*subdto.SweepResultDTO, error) {
	return m.result, m.err
}

type mockConfirmationDetailsUC struct {
	result *subdto.ConfirmationDetailsDTO
	err    error
	token  string
}

func (m *mockConfirmationDetailsUC) Execute(ctx context.Context, token string) (*subdto.ConfirmationDetailsDTO, error) {
	m.token = token
	return m.result, m.err
}

type mockProcessConfirmationUC struct {
	result *subdto.ConfirmationResultDTO
	err    error
	cmd    usecases.ProcessConfirmationCommand
}

func (m *mockProcessConfirmationUC) Execute(ctx context.Context, cmd usecases.ProcessConfirmationCommand) (*subdto.ConfirmationResultDTO, error) {
	m.cmd = cmd
	return m.result, m.err
}

type mockReminderStatsUC struct {
	result *subdto.ReminderStatsDTO
	err    error
}

func (m *mockReminderStatsUC) Execute(ctx context.Context) (*subdto.ReminderStatsDTO, error) {
	return m.result, m.err
}

type mockAdminRemindersUC struct {
	result *subdto.AdminReminderResultDTO
	err    error
	cmd    usecases.SendAdminRemindersCommand
}

func (m *mockAdminRemindersUC) Execute(ctx context.Context, cmd usecases.SendAdminRemindersCommand) (*subdto.AdminReminderResultDTO, error) {
	m.cmd = cmd
	return m.result, m.err
}

// =====================================================================
// Test helpers
// =====================================================================

type reminderHandlerMocks struct {
	sweep   *mockReminderSweepUC
	details *mockConfirmationDetailsUC
	confirm *mockProcessConfirmationUC
	stats   *mockReminderStatsUC
	admin   *mockAdminRemindersUC
}

func newTestReminderHandler() (*ReminderHandler, *reminderHandlerMocks) {
	m := &reminderHandlerMocks{
		sweep:   &mockReminderSweepUC{},
		details: &mockConfirmationDetailsUC{},
		confirm: &mockProcessConfirmationUC{},
		stats:   &mockReminderStatsUC{},
		admin:   &mockAdminRemindersUC{},
	}
	h := NewReminderHandler(m.sweep, m.details, m.confirm, m.stats, m.admin, testutil.NewMockLogger())
	return h, m
}

// =====================================================================
// SendReminders
// =====================================================================

func TestReminderHandler_SendReminders_Success(t *testing.T) {
	h, m := newTestReminderHandler()
	m.sweep.result = &subdto.SweepResultDTO{Candidates: 3, SentCount: 2, FailedCount: 1}

	c, w := testutil.NewTestContext(http.MethodPost, "/subscription-reminders/send", nil)
	testutil.SetAdminContext(c, 1)

	h.SendReminders(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp SendRemindersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.SentCount)
	assert.Contains(t, resp.Message, "1 failed")
}

func TestReminderHandler_SendReminders_AlreadyRunning(t *testing.T) {
	h, m := newTestReminderHandler()
	m.sweep.result = &subdto.SweepResultDTO{Skipped: true}

	c, w := testutil.NewTestContext(http.MethodPost, "/subscription-reminders/send", nil)

	h.SendReminders(c)

	var resp SendRemindersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Zero(t, resp.SentCount)
	assert.Contains(t, resp.Message, "already running")
}

func TestReminderHandler_SendReminders_Failure(t *testing.T) {
	h, m := newTestReminderHandler()
	m.sweep.err = stderrors.New("query failed")

	c, w := testutil.NewTestContext(http.MethodPost, "/subscription-reminders/send", nil)

	h.SendReminders(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "query failed")
}

// =====================================================================
// GetConfirmation
// =====================================================================

func TestReminderHandler_GetConfirmation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "found", wantStatus: http.StatusOK},
		{name: "unknown token", err: errors.NewNotFoundError("confirmation not found"), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestReminderHandler()
			m.details.result = &subdto.ConfirmationDetailsDTO{Token: "abc", ProductName: "Coffee beans", IsExpired: true}
			m.details.err = tt.err

			c, w := testutil.NewTestContext(http.MethodGet, "/subscription-reminders/confirm?token=abc", nil)

			h.GetConfirmation(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "abc", m.details.token)
			if tt.err == nil {
				var resp testutil.APIResponse
				require.NoError(t, testutil.ParseResponse(w, &resp))

				var details subdto.ConfirmationDetailsDTO
				require.NoError(t, json.Unmarshal(resp.Data, &details))
				assert.True(t, details.IsExpired)
			}
		})
	}
}

// =====================================================================
// Confirm
// =====================================================================

func TestReminderHandler_Confirm_Success(t *testing.T) {
	h, m := newTestReminderHandler()
	until := "2099-02-01"
	m.confirm.result = &subdto.ConfirmationResultDTO{
		Action:             "pause",
		SubscriptionID:     7,
		SubscriptionStatus: "paused",
		PauseUntil:         &until,
		Message:            "Your subscription is paused",
	}

	c, w := testutil.NewTestContext(http.MethodPost, "/subscription-reminders/confirm", ConfirmRequest{
		Token: "abc", Action: "pause", PauseUntil: until,
	})

	h.Confirm(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", m.confirm.cmd.Token)
	require.NotNil(t, m.confirm.cmd.PauseUntil)
	assert.Equal(t, until, m.confirm.cmd.PauseUntil.Format("2006-01-02"))

	var resp ConfirmResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "pause", resp.Action)
	assert.Equal(t, "paused", resp.Data.SubscriptionStatus)
}

func TestReminderHandler_Confirm_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantSuccess bool
	}{
		{name: "expired token", err: errors.NewExpiredError("confirmation link has expired"), wantStatus: http.StatusOK},
		{name: "already used", err: errors.NewConflictError("confirmation already processed"), wantStatus: http.StatusOK},
		{name: "unknown token", err: errors.NewNotFoundError("confirmation not found"), wantStatus: http.StatusOK},
		{name: "bad action", err: errors.NewValidationError("invalid confirmation action"), wantStatus: http.StatusBadRequest},
		{name: "store failure", err: stderrors.New("deadlock"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestReminderHandler()
			m.confirm.err = tt.err

			c, w := testutil.NewTestContext(http.MethodPost, "/subscription-reminders/confirm", ConfirmRequest{Token: "abc", Action: "continue"})

			h.Confirm(c)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.False(t, resp.Success)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, errors.GetAppError(tt.err).Message, resp.Message)
			}
		})
	}
}

func TestReminderHandler_Confirm_BadInput(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		h, _ := newTestReminderHandler()
		c, w := testutil.NewRawTestContext(http.MethodPost, "/subscription-reminders/confirm", "{")

		h.Confirm(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing action", func(t *testing.T) {
		h, _ := newTestReminderHandler()
		c, w := testutil.NewTestContext(http.MethodPost, "/subscription-reminders/confirm", map[string]string{"token": "abc"})

		h.Confirm(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed pause date", func(t *testing.T) {
		h, _ := newTestReminderHandler()
		c, w := testutil.NewTestContext(http.MethodPost, "/subscription-reminders/confirm", ConfirmRequest{
			Token: "abc", Action: "pause", PauseUntil: "next week",
		})

		h.Confirm(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =====================================================================
// GetStatistics / AdminSendReminders
// =====================================================================

func TestReminderHandler_GetStatistics(t *testing.T) {
	h, m := newTestReminderHandler()
	m.stats.result = &subdto.ReminderStatsDTO{ActiveSubscriptions: 10, PendingConfirmations: 4, PauseCount: 1}

	c, w := testutil.NewTestContext(http.MethodGet, "/subscription-reminders/statistics", nil)

	h.GetStatistics(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))

	var stats subdto.ReminderStatsDTO
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, int64(10), stats.ActiveSubscriptions)
	assert.Equal(t, int64(4), stats.PendingConfirmations)
}

func TestReminderHandler_AdminSendReminders(t *testing.T) {
	h, m := newTestReminderHandler()
	m.admin.result = &subdto.AdminReminderResultDTO{
		SuccessCount: 1,
		FailedCount:  1,
		Errors:       []string{"subscription 9: subscription not found"},
		Message:      "Sent 1 reminder(s), 1 failed",
	}

	c, w := testutil.NewTestContext(http.MethodPost, "/admin/subscriptions/send-reminders", AdminSendRemindersRequest{
		SubscriptionIDs: []uint{7, 9},
		CustomMessage:   "**Spring sale** this week",
	})
	testutil.SetAdminContext(c, 1)

	h.AdminSendReminders(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{7, 9}, m.admin.cmd.SubscriptionIDs)
	assert.Equal(t, "**Spring sale** this week", m.admin.cmd.CustomMessage)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))

	var result subdto.AdminReminderResultDTO
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 1, result.FailedCount)
	assert.Len(t, result.Errors, 1)
}

func TestReminderHandler_AdminSendReminders_EmptyList(t *testing.T) {
	h, m := newTestReminderHandler()
	m.admin.err = errors.NewValidationError("subscriptionIds must not be empty")

	c, w := testutil.NewTestContext(http.MethodPost, "/admin/subscriptions/send-reminders", AdminSendRemindersRequest{})

	h.AdminSendReminders(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
