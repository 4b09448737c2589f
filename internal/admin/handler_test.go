package admin

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prelaunch/internal/notification"
	"prelaunch/internal/platform/middleware"
	"prelaunch/internal/reservation"
	"prelaunch/internal/storage"
)

const adminToken = "secret-token"

type handlerFixture struct {
	router        http.Handler
	bus           *storage.Broadcaster
	reservations  *reservation.Store
	notifications *notification.Store
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	bus := storage.NewBroadcaster()
	ctx := context.Background()

	reservations := reservation.NewStore(ctx, storage.NewMemorySlot(), bus, log)
	notifications := notification.NewStore(ctx, storage.NewMemorySlot(), bus, log)

	h := NewHandler(NewDashboard(reservations, notifications), bus, log)
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RequireAdminToken(adminToken, log))
		h.Register(gr)
	})

	return &handlerFixture{
		router:        r,
		bus:           bus,
		reservations:  reservations,
		notifications: notifications,
	}
}

func (f *handlerFixture) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAdminTokenRequired(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req.Header.Set("X-Admin-Token", "wrong")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetDashboard(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		f.reservations.Add(ctx, reservation.Fields{
			Name:      "guest",
			Email:     "guest@example.com",
			Interests: []string{"habit"},
		})
	}
	f.notifications.Add(ctx, notification.Fields{Type: notification.TypeNewRegistration, Title: "New registration", Message: "guest has registered"})

	rec := f.do(t, http.MethodGet, "/admin/dashboard?page=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Stats        Stats                     `json:"stats"`
		Page         int                       `json:"page"`
		TotalPages   int                       `json:"totalPages"`
		Reservations []reservation.Reservation `json:"reservations"`
		UnreadCount  int                       `json:"unreadCount"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, 12, body.Stats.Total)
	assert.Equal(t, "habit", body.Stats.MostPopularInterest)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 2, body.TotalPages)
	assert.Len(t, body.Reservations, 2)
	assert.Equal(t, 1, body.UnreadCount)
}

func TestNotificationActions(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	a := f.notifications.Add(ctx, notification.Fields{Type: notification.TypeNewRegistration, Title: "New registration", Message: "a"})
	f.notifications.Add(ctx, notification.Fields{Type: notification.TypeNewRegistration, Title: "New registration", Message: "b"})

	rec := f.do(t, http.MethodPost, "/admin/notifications/"+a.ID+"/read")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, f.notifications.UnreadCount())

	rec = f.do(t, http.MethodGet, "/admin/notifications")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Notifications []notification.Notification `json:"notifications"`
		UnreadCount   int                         `json:"unreadCount"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, "b", list.Notifications[0].Message, "most recent first")
	assert.Equal(t, 1, list.UnreadCount)

	rec = f.do(t, http.MethodPost, "/admin/notifications/read-all")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, f.notifications.UnreadCount())
}

func TestEventStream(t *testing.T) {
	f := newHandlerFixture(t)

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/admin/events", nil)
	require.NoError(t, err)
	req.Header.Set("X-Admin-Token", adminToken)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// The subscription races the request; keep publishing until the stream
	// yields an event.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				f.bus.Publish(storage.Event{Slot: storage.SlotNotifications, Op: storage.OpAdd})
			}
		}
	}()

	scanner := bufio.NewScanner(resp.Body)
	var data string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	require.NotEmpty(t, data)

	var ev storage.Event
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	assert.Equal(t, storage.SlotNotifications, ev.Slot)
	assert.Equal(t, storage.OpAdd, ev.Op)
}
