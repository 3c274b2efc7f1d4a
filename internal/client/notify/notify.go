// Package notify is the application-wide snackbar. One message is visible
// at a time; showing another replaces it.
package notify

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/wikied/internal/client/timer"
)

type Severity string

const (
	Fail    Severity = "fail"
	Success Severity = "success"
	Info    Severity = "info"
)

// DefaultAutoHide is how long ordinary messages stay up.
const DefaultAutoHide = 3 * time.Second

// Message is the snackbar state. ID grows with every Show.
type Message struct {
	ID       uint64
	Text     string
	Severity Severity
	Open     bool
	AutoHide time.Duration
}

type Service struct {
	mu       sync.Mutex
	clock    timer.Clock
	current  Message
	stopHide func()

	subs    map[int]func(Message)
	nextSub int
}

// New builds a Service. A nil clock means the wall clock.
func New(clock timer.Clock) *Service {
	if clock == nil {
		clock = timer.System
	}
	return &Service{clock: clock, subs: make(map[int]func(Message))}
}

// Show replaces the visible message. A positive autoHide closes it after
// that long unless something newer has been shown by then; zero keeps it
// until Dismiss.
func (s *Service) Show(text string, severity Severity, autoHide time.Duration) {
	s.mu.Lock()
	s.cancelHide()
	s.current = Message{
		ID:       s.current.ID + 1,
		Text:     text,
		Severity: severity,
		Open:     true,
		AutoHide: autoHide,
	}
	if autoHide > 0 {
		id := s.current.ID
		s.stopHide = s.clock.AfterFunc(autoHide, func() { s.hide(id) })
	}
	msg := s.current
	s.mu.Unlock()

	s.publish(msg)
}

func (s *Service) Dismiss() {
	s.mu.Lock()
	if !s.current.Open {
		s.mu.Unlock()
		return
	}
	s.hideLocked()
	msg := s.current
	s.mu.Unlock()

	s.publish(msg)
}

func (s *Service) hide(id uint64) {
	s.mu.Lock()
	if s.current.ID != id || !s.current.Open {
		s.mu.Unlock()
		return
	}
	s.stopHide = nil
	s.hideLocked()
	msg := s.current
	s.mu.Unlock()

	s.publish(msg)
}

func (s *Service) hideLocked() {
	s.cancelHide()
	s.current.Open = false
}

func (s *Service) cancelHide() {
	if s.stopHide != nil {
		s.stopHide()
		s.stopHide = nil
	}
}

// Current returns the latest message; check Open to see if it is visible.
func (s *Service) Current() Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe calls fn with every change. The returned func unregisters it.
func (s *Service) Subscribe(fn func(Message)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Service) publish(msg Message) {
	s.mu.Lock()
	fns := make([]func(Message), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(msg)
	}
}

// Close stops a pending auto-hide.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelHide()
}
