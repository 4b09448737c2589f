package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"prelaunch/internal/mail"
	"prelaunch/internal/mail/mocks"
	"prelaunch/internal/platform/config"
	"prelaunch/internal/platform/metrics"
)

const (
	siteName   = "Mokumoku React"
	adminEmail = "owner@example.com"
)

func newTestRouter(t *testing.T, mailer mail.Mailer, sendgrid config.SendGrid) http.Handler {
	t.Helper()
	h := New(mailer, siteName, sendgrid, slog.New(slog.DiscardHandler), metrics.NewWith(prometheus.NewRegistry()))
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func configuredSendGrid() config.SendGrid {
	return config.SendGrid{
		APIKey:     "sg-key",
		FromEmail:  "noreply@example.com",
		AdminEmail: adminEmail,
	}
}

func postReservation(t *testing.T, router http.Handler, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/reservation", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validPayload() map[string]any {
	return map[string]any{
		"name":      "Taro",
		"email":     "taro@example.com",
		"interests": []string{"habit", "work"},
	}
}

func TestCreateSendsBothEmails(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := mocks.NewMockMailer(ctrl)

	var sent []mail.Message
	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, msg mail.Message) error {
			sent = append(sent, msg)
			return nil
		})

	router := newTestRouter(t, mailer, configuredSendGrid())
	rec := postReservation(t, router, validPayload())

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string `json:"message"`
		Data    struct {
			Name      string   `json:"name"`
			Email     string   `json:"email"`
			Interests []string `json:"interests"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Reservation successful and confirmation email sent", resp.Message)
	assert.Equal(t, "Taro", resp.Data.Name)

	require.Len(t, sent, 2)
	assert.Equal(t, "taro@example.com", sent[0].To, "confirmation goes to the registrant")
	assert.Contains(t, sent[0].Text, "Hello Taro!")
	assert.Contains(t, sent[0].Text, "Habit-building program", "interest ids are resolved to labels")

	assert.Equal(t, adminEmail, sent[1].To, "notification goes to the operator")
	assert.Contains(t, sent[1].Text, "taro@example.com")
	assert.Contains(t, sent[1].Text, "Chrome", "admin email carries the browser summary")
}

func TestCreateValidationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := mocks.NewMockMailer(ctrl) // no Send expected

	router := newTestRouter(t, mailer, configuredSendGrid())
	rec := postReservation(t, router, map[string]any{
		"name":      "T",
		"email":     "not-an-email",
		"interests": []string{},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Contains(t, resp.Details, "name")
	assert.Contains(t, resp.Details, "email")
	assert.Contains(t, resp.Details, "interests")
}

func TestCreateMalformedBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestRouter(t, mocks.NewMockMailer(ctrl), configuredSendGrid())

	req := httptest.NewRequest(http.MethodPost, "/api/reservation", bytes.NewReader([]byte("{nope")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateMissingSendGridConfig(t *testing.T) {
	ctrl := gomock.NewController(t)

	tests := []struct {
		name      string
		sendgrid  config.SendGrid
		wantError string
	}{
		{"missing api key", config.SendGrid{FromEmail: "noreply@example.com"}, "SendGrid API key is not configured"},
		{"missing from email", config.SendGrid{APIKey: "sg-key"}, "SendGrid from email is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, mocks.NewMockMailer(ctrl), tt.sendgrid)
			rec := postReservation(t, router, validPayload())

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			var resp map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantError, resp["error"])
		})
	}
}

func TestCreateConfirmationDeliveryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := mocks.NewMockMailer(ctrl)
	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("sendgrid: 401"))

	router := newTestRouter(t, mailer, configuredSendGrid())
	rec := postReservation(t, router, validPayload())

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Failed to send confirmation email", resp["error"])
}

func TestCreateAdminEmailFailureIsBestEffort(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := mocks.NewMockMailer(ctrl)
	gomock.InOrder(
		mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil),
		mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("mailbox full")),
	)

	router := newTestRouter(t, mailer, configuredSendGrid())
	rec := postReservation(t, router, validPayload())

	assert.Equal(t, http.StatusOK, rec.Code, "operator email failure must not fail the registration")
}

func TestCreateSkipsAdminEmailWhenUnconfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := mocks.NewMockMailer(ctrl)
	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil) // confirmation only

	sendgrid := configuredSendGrid()
	sendgrid.AdminEmail = ""

	router := newTestRouter(t, mailer, sendgrid)
	rec := postReservation(t, router, validPayload())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBrowserSummary(t *testing.T) {
	summary := browserSummary("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	assert.Contains(t, summary, "Chrome")
	assert.Contains(t, summary, "on")

	assert.Empty(t, browserSummary(""))
}
