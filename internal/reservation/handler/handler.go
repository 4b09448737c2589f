package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mssola/useragent"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"prelaunch/internal/mail"
	"prelaunch/internal/platform/config"
	"prelaunch/internal/platform/metrics"
	"prelaunch/internal/reservation"
)

// Handler serves the public registration endpoint. It validates the
// submission against the shared schema, emails a confirmation to the
// registrant and a best-effort notification to the site operator. It holds no
// state of its own; the client surfaces own the persisted records.
type Handler struct {
	mailer   mail.Mailer
	siteName string
	sendgrid config.SendGrid
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

func New(mailer mail.Mailer, siteName string, sendgrid config.SendGrid, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		mailer:   mailer,
		siteName: siteName,
		sendgrid: sendgrid,
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer("prelaunch/reservation"),
		now:      time.Now,
	}
}

// Register mounts the endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/reservation", h.create)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.sendgrid.APIKey == "" {
		h.logger.ErrorContext(ctx, "SENDGRID_API_KEY is not set")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "SendGrid API key is not configured",
		})
		return
	}
	if h.sendgrid.FromEmail == "" {
		h.logger.ErrorContext(ctx, "SENDGRID_FROM_EMAIL is not set")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "SendGrid from email is not configured",
		})
		return
	}

	var form reservation.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "invalid request body",
		})
		return
	}

	if errs := reservation.ValidateForm(form); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Validation failed",
			"details": errs,
		})
		return
	}

	labels := make([]string, 0, len(form.Interests))
	for _, id := range form.Interests {
		labels = append(labels, reservation.InterestLabel(id))
	}

	ctx, span := h.tracer.Start(ctx, "reservation.deliver_emails")
	defer span.End()

	confirmation := mail.Confirmation(h.siteName, form.Name, labels)
	confirmation.To = form.Email
	if err := h.mailer.Send(ctx, confirmation); err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "confirmation email failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Failed to send confirmation email",
		})
		return
	}
	h.metrics.ConfirmationEmailsSent.Inc()

	// Operator notification is best-effort: a failure here must not fail the
	// registration that already got its confirmation.
	if h.sendgrid.AdminEmail != "" {
		notice := mail.AdminNotification(h.siteName, form.Name, form.Email, labels, h.now(), browserSummary(r.UserAgent()))
		notice.To = h.sendgrid.AdminEmail
		if err := h.mailer.Send(ctx, notice); err != nil {
			span.RecordError(err)
			h.metrics.AdminEmailFailures.Inc()
			h.logger.WarnContext(ctx, "admin notification email failed", "error", err)
		}
	}

	h.metrics.RegistrationsCreated.Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Reservation successful and confirmation email sent",
		"data": map[string]any{
			"name":      form.Name,
			"email":     form.Email,
			"interests": form.Interests,
		},
	})
}

// browserSummary condenses a User-Agent header into "Browser ver on OS" for
// the operator email. Empty when the header is absent.
func browserSummary(ua string) string {
	if ua == "" {
		return ""
	}
	parsed := useragent.New(ua)
	name, version := parsed.Browser()
	if name == "" {
		return ""
	}
	summary := name
	if version != "" {
		summary = fmt.Sprintf("%s %s", name, version)
	}
	if os := parsed.OS(); os != "" {
		summary = fmt.Sprintf("%s on %s", summary, os)
	}
	return summary
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
