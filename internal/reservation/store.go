package reservation

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"prelaunch/internal/storage"
)

// Store keeps pre-registrations in insertion order (oldest first) and mirrors
// every mutation into its durable slot. A failed slot write never fails the
// caller: the in-memory state still updates so the UI is not blocked by
// storage trouble, and the failure is logged.
type Store struct {
	mu      sync.RWMutex
	slot    storage.Slot
	bus     *storage.Broadcaster
	logger  *slog.Logger
	records []Reservation

	now   func() time.Time
	newID func() string
}

// NewStore hydrates the store from its slot. A missing slot starts empty; a
// corrupt one is logged and treated as empty rather than refusing to start.
func NewStore(ctx context.Context, slot storage.Slot, bus *storage.Broadcaster, logger *slog.Logger) *Store {
	s := &Store{
		slot:   slot,
		bus:    bus,
		logger: logger,
		now:    time.Now,
		newID:  newRecordID,
	}

	data, ok, err := slot.Load(ctx)
	if err != nil {
		logger.Warn("reservation slot read failed, starting empty", "error", err)
		return s
	}
	if !ok {
		return s
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		logger.Warn("reservation slot corrupt, starting empty", "error", err)
		s.records = nil
	}
	return s
}

// newRecordID returns a time-ordered unique id for a fresh record.
func newRecordID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Add appends a reservation with a fresh id and creation time, persists the
// collection and announces the change.
func (s *Store) Add(ctx context.Context, fields Fields) Reservation {
	s.mu.Lock()
	rec := Reservation{
		ID:        s.newID(),
		Name:      fields.Name,
		Email:     fields.Email,
		Interests: append([]string(nil), fields.Interests...),
		CreatedAt: s.now().UTC(),
	}
	s.records = append(s.records, rec)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(storage.OpAdd)
	return rec
}

// Update merges partial fields into the record with the given id. Unknown ids
// are a no-op.
func (s *Store) Update(ctx context.Context, id string, partial Partial) {
	s.mu.Lock()
	changed := false
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		if partial.Name != nil {
			s.records[i].Name = *partial.Name
		}
		if partial.Email != nil {
			s.records[i].Email = *partial.Email
		}
		if partial.Interests != nil {
			s.records[i].Interests = append([]string(nil), partial.Interests...)
		}
		changed = true
		break
	}
	if changed {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if changed {
		s.publish(storage.OpUpdate)
	}
}

// Delete removes the record with the given id. Unknown ids are a no-op.
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

// GetByID returns the record with the given id, or storage.ErrNotFound.
func (s *Store) GetByID(id string) (Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Reservation{}, storage.ErrNotFound
}

// All returns the collection in insertion order.
func (s *Store) All() []Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Reservation(nil), s.records...)
}

// Len reports the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.records)
	if err != nil {
		s.logger.Warn("reservation collection marshal failed", "error", err)
		return
	}
	if err := s.slot.Save(ctx, data); err != nil {
		s.logger.Warn("reservation slot write failed", "slot", storage.SlotReservations, "error", err)
	}
}

func (s *Store) publish(op storage.Op) {
	if s.bus != nil {
		s.bus.Publish(storage.Event{Slot: storage.SlotReservations, Op: op})
	}
}
