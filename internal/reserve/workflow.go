// Package reserve orchestrates a registration submission end to end:
// validate, call the remote endpoint, mirror the result into the local
// stores, surface feedback through the banner and move the user to the
// confirmation view. Failures of any kind leave the stores untouched.
package reserve

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"prelaunch/internal/banner"
	"prelaunch/internal/notification"
	"prelaunch/internal/reservation"
)

// DefaultNavigateDelay keeps the success banner on screen briefly before the
// confirmation view interrupts the page.
const DefaultNavigateDelay = 500 * time.Millisecond

// ConfirmationPath is where a successful submission navigates to.
const ConfirmationPath = "/confirmation"

// Outcome reports how a submission ended.
type Outcome int

const (
	// OutcomeRejected means field validation failed; nothing left the process.
	OutcomeRejected Outcome = iota
	// OutcomeFailed means the remote call failed; stores are untouched and an
	// error banner explains why.
	OutcomeFailed
	// OutcomeSubmitted means the registration was accepted; the form owner
	// should reset its fields.
	OutcomeSubmitted
)

// Config wires a Submitter's collaborators.
type Config struct {
	Endpoint      string
	Client        *http.Client
	Reservations  *reservation.Store
	Notifications *notification.Store
	Banner        *banner.Store
	Navigate      func(path string)
	Logger        *slog.Logger
}

// Option adjusts a Submitter at construction.
type Option func(*Submitter)

// WithNavigateDelay overrides the post-success navigation delay.
func WithNavigateDelay(d time.Duration) Option {
	return func(s *Submitter) { s.navigateDelay = d }
}

// WithAfterFunc substitutes the timer primitive for deterministic tests.
func WithAfterFunc(after func(d time.Duration, f func())) Option {
	return func(s *Submitter) { s.after = after }
}

// Submitter runs the submission workflow. One submission may be in flight at
// a time; Submitting lets a form surface disable its controls.
type Submitter struct {
	endpoint      string
	client        *http.Client
	reservations  *reservation.Store
	notifications *notification.Store
	banner        *banner.Store
	navigate      func(path string)
	navigateDelay time.Duration
	after         func(d time.Duration, f func())
	logger        *slog.Logger
	submitting    atomic.Bool
}

func NewSubmitter(cfg Config, opts ...Option) *Submitter {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	s := &Submitter{
		endpoint:      cfg.Endpoint,
		client:        client,
		reservations:  cfg.Reservations,
		notifications: cfg.Notifications,
		banner:        cfg.Banner,
		navigate:      cfg.Navigate,
		navigateDelay: DefaultNavigateDelay,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		logger: cfg.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submitting reports whether a submission is in flight.
func (s *Submitter) Submitting() bool {
	return s.submitting.Load()
}

// Submit runs the workflow for one form. Field validation errors are returned
// for inline display and never reach the network; every other failure is
// surfaced through the banner store.
func (s *Submitter) Submit(ctx context.Context, form reservation.Form) (outcome Outcome, fieldErrs map[string]string) {
	if errs := reservation.ValidateForm(form); len(errs) > 0 {
		return OutcomeRejected, errs
	}

	if !s.submitting.CompareAndSwap(false, true) {
		// A submission is already in flight; the form surface should have
		// disabled itself, so drop the duplicate.
		return OutcomeRejected, nil
	}
	defer s.submitting.Store(false)

	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "submission panicked", "panic", r)
			s.banner.ShowError("Unexpected error", "Please try again later")
			outcome = OutcomeFailed
		}
	}()

	body, err := json.Marshal(form)
	if err != nil {
		s.logger.ErrorContext(ctx, "submission encode failed", "error", err)
		s.banner.ShowError("Unexpected error", "Please try again later")
		return OutcomeFailed, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		s.logger.ErrorContext(ctx, "submission request build failed", "error", err)
		s.banner.ShowError("Unexpected error", "Please try again later")
		return OutcomeFailed, nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		// The request never completed; connectivity guidance, not retry-later.
		s.logger.WarnContext(ctx, "submission network failure", "error", err)
		s.banner.ShowError("Network error", "Please check your internet connection")
		return OutcomeFailed, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail := errorDetail(resp)
		s.logger.WarnContext(ctx, "submission rejected", "status", resp.StatusCode, "detail", detail)
		s.banner.ShowError("Registration failed", detail)
		return OutcomeFailed, nil
	}

	s.reservations.Add(ctx, reservation.Fields{
		Name:      form.Name,
		Email:     form.Email,
		Interests: form.Interests,
	})
	s.notifications.Add(ctx, notification.Fields{
		Type:    notification.TypeNewRegistration,
		Title:   "New registration",
		Message: form.Name + " has registered",
	})

	s.banner.ShowSuccess("Registration complete!", "Please check your confirmation email")

	s.after(s.navigateDelay, func() { s.navigate(ConfirmationPath) })

	return OutcomeSubmitted, nil
}

// errorDetail extracts a server-provided message from a failure response,
// falling back to a generic message for the status class when the body is
// not parseable.
func errorDetail(resp *http.Response) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return "There is a problem with the request"
	default:
		return "A server error occurred"
	}
}
