// Package banner holds the transient single-slot feedback banner. State is
// process-memory only and resets with the surface that owns it.
//
// Lifecycle: Empty -> Visible(closing=false) -> Visible(closing=true) -> Empty.
// Show replaces any current banner, including one mid-dismiss; Hide starts the
// exit animation and clears the slot after a grace delay. Every timer carries
// the id of the banner it was scheduled for and re-checks it at fire time, so
// a timer left over from a replaced banner never clears its successor.
package banner

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a banner for the display surface.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

const (
	// DefaultDismissAfter is how long a banner stays up before auto-dismiss.
	DefaultDismissAfter = 5 * time.Second
	// DefaultRemoveAfter is the exit-animation grace before the slot clears.
	DefaultRemoveAfter = 300 * time.Millisecond
)

// Banner is the single feedback message a surface may be showing.
type Banner struct {
	ID          string
	Kind        Kind
	Message     string
	Description string
	IsClosing   bool
}

// Store owns at most one live banner at a time.
type Store struct {
	mu           sync.Mutex
	banner       *Banner
	dismissAfter time.Duration
	removeAfter  time.Duration
	after        func(d time.Duration, f func())
}

// Option adjusts a Store at construction.
type Option func(*Store)

// WithDelays overrides the auto-dismiss and grace delays.
func WithDelays(dismissAfter, removeAfter time.Duration) Option {
	return func(s *Store) {
		s.dismissAfter = dismissAfter
		s.removeAfter = removeAfter
	}
}

// WithAfterFunc substitutes the timer primitive; tests inject a manual
// scheduler to drive the lifecycle deterministically.
func WithAfterFunc(after func(d time.Duration, f func())) Option {
	return func(s *Store) { s.after = after }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		dismissAfter: DefaultDismissAfter,
		removeAfter:  DefaultRemoveAfter,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Show replaces whatever is currently showing with a fresh banner and
// schedules its auto-dismiss. The replaced banner's pending timers become
// no-ops because they target the old id.
func (s *Store) Show(kind Kind, message, description string) {
	s.mu.Lock()
	b := &Banner{
		ID:          uuid.NewString(),
		Kind:        kind,
		Message:     message,
		Description: description,
	}
	s.banner = b
	id := b.ID
	s.mu.Unlock()

	s.after(s.dismissAfter, func() { s.hideID(id) })
}

// ShowSuccess shows a success banner.
func (s *Store) ShowSuccess(message, description string) {
	s.Show(KindSuccess, message, description)
}

// ShowError shows an error banner.
func (s *Store) ShowError(message, description string) {
	s.Show(KindError, message, description)
}

// Hide starts dismissing the current banner. No-op when nothing is showing or
// the banner is already closing.
func (s *Store) Hide() {
	s.mu.Lock()
	if s.banner == nil || s.banner.IsClosing {
		s.mu.Unlock()
		return
	}
	id := s.banner.ID
	s.mu.Unlock()

	s.hideID(id)
}

// Current returns a copy of the live banner, if any.
func (s *Store) Current() (Banner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.banner == nil {
		return Banner{}, false
	}
	return *s.banner, true
}

// hideID transitions the banner with the given id into its closing state and
// schedules the final removal. Stale ids fall through silently.
func (s *Store) hideID(id string) {
	s.mu.Lock()
	if s.banner == nil || s.banner.ID != id || s.banner.IsClosing {
		s.mu.Unlock()
		return
	}
	s.banner.IsClosing = true
	s.mu.Unlock()

	s.after(s.removeAfter, func() { s.clearID(id) })
}

func (s *Store) clearID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.banner != nil && s.banner.ID == id {
		s.banner = nil
	}
}
