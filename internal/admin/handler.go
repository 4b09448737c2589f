package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"prelaunch/internal/storage"
)

// Handler exposes the dashboard over JSON plus a server-sent-events feed of
// store changes, so a second open admin surface sees mutations without a
// reload. Routes are expected to be mounted behind the admin token
// middleware.
type Handler struct {
	dashboard *Dashboard
	bus       *storage.Broadcaster
	logger    *slog.Logger
	now       func() time.Time
}

func NewHandler(dashboard *Dashboard, bus *storage.Broadcaster, logger *slog.Logger) *Handler {
	return &Handler{
		dashboard: dashboard,
		bus:       bus,
		logger:    logger,
		now:       time.Now,
	}
}

// Register mounts the admin routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/dashboard", h.getDashboard)
	r.Get("/admin/notifications", h.listNotifications)
	r.Post("/admin/notifications/{id}/read", h.markRead)
	r.Post("/admin/notifications/read-all", h.markAllRead)
	r.Get("/admin/events", h.streamEvents)
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":        h.dashboard.Stats(h.now()),
		"page":         page,
		"totalPages":   h.dashboard.TotalPages(),
		"reservations": h.dashboard.Page(page),
		"unreadCount":  h.dashboard.UnreadCount(),
	})
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": h.dashboard.Notifications(),
		"unreadCount":   h.dashboard.UnreadCount(),
	})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.dashboard.MarkNotificationRead(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	h.dashboard.MarkAllNotificationsRead(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// streamEvents bridges the store broadcaster onto an SSE response until the
// client goes away.
func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, cancel := h.bus.Subscribe(16)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				h.logger.WarnContext(ctx, "event marshal failed", "error", err)
				continue
			}
			if _, err := w.Write([]byte("event: change\ndata: " + string(data) + "\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
