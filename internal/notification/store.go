package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"prelaunch/internal/storage"
)

// Store keeps notifications most-recent-first and mirrors every mutation into
// its durable slot. Read state only moves from unread to read, never back.
// Like the reservation store, a failed slot write is logged and swallowed so
// callers are never blocked on persistence.
type Store struct {
	mu      sync.RWMutex
	slot    storage.Slot
	bus     *storage.Broadcaster
	logger  *slog.Logger
	records []Notification

	now   func() time.Time
	newID func() string
}

// NewStore hydrates the store from its slot; missing or corrupt slots start
// empty.
func NewStore(ctx context.Context, slot storage.Slot, bus *storage.Broadcaster, logger *slog.Logger) *Store {
	s := &Store{
		slot:   slot,
		bus:    bus,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.Must(uuid.NewV7()).String() },
	}

	data, ok, err := slot.Load(ctx)
	if err != nil {
		logger.Warn("notification slot read failed, starting empty", "error", err)
		return s
	}
	if !ok {
		return s
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		logger.Warn("notification slot corrupt, starting empty", "error", err)
		s.records = nil
	}
	return s
}

// Add prepends an unread notification with a fresh id and creation time,
// persists the collection and announces the change.
func (s *Store) Add(ctx context.Context, fields Fields) Notification {
	s.mu.Lock()
	rec := Notification{
		ID:        s.newID(),
		Type:      fields.Type,
		Title:     fields.Title,
		Message:   fields.Message,
		IsRead:    false,
		CreatedAt: s.now().UTC(),
	}
	s.records = append([]Notification{rec}, s.records...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(storage.OpAdd)
	return rec
}

// MarkRead flips the matching notification to read. Already-read or unknown
// ids are a no-op.
func (s *Store) MarkRead(ctx context.Context, id string) {
	s.mu.Lock()
	changed := false
	for i := range s.records {
		if s.records[i].ID == id {
			if !s.records[i].IsRead {
				s.records[i].IsRead = true
				changed = true
			}
			break
		}
	}
	if changed {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if changed {
		s.publish(storage.OpUpdate)
	}
}

// MarkAllRead flips every notification to read. Idempotent; persists only
// when at least one record actually changed.
func (s *Store) MarkAllRead(ctx context.Context) {
	s.mu.Lock()
	changed := false
	for i := range s.records {
		if !s.records[i].IsRead {
			s.records[i].IsRead = true
			changed = true
		}
	}
	if changed {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if changed {
		s.publish(storage.OpUpdate)
	}
}

// Delete removes the notification with the given id. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	changed := false
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			changed = true
			break
		}
	}
	if changed {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if changed {
		s.publish(storage.OpDelete)
	}
}

// GetByID returns the notification with the given id, or storage.ErrNotFound.
func (s *Store) GetByID(id string) (Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Notification{}, storage.ErrNotFound
}

// All returns the collection, most recent first.
func (s *Store) All() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notification(nil), s.records...)
}

// Unread filters the unread notifications, computed on demand.
func (s *Store) Unread() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Notification
	for _, rec := range s.records {
		if !rec.IsRead {
			out = append(out, rec)
		}
	}
	return out
}

// UnreadCount reports how many notifications are unread.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, rec := range s.records {
		if !rec.IsRead {
			count++
		}
	}
	return count
}

func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.records)
	if err != nil {
		s.logger.Warn("notification collection marshal failed", "error", err)
		return
	}
	if err := s.slot.Save(ctx, data); err != nil {
		s.logger.Warn("notification slot write failed", "slot", storage.SlotNotifications, "error", err)
	}
}

func (s *Store) publish(op storage.Op) {
	if s.bus != nil {
		s.bus.Publish(storage.Event{Slot: storage.SlotNotifications, Op: op})
	}
}
