package notify

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/wikied/internal/client/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*Service, *timer.FakeClock) {
	clock := timer.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(clock), clock
}

func TestShow_LastWriteWins(t *testing.T) {
	s, _ := newService()

	s.Show("first", Fail, DefaultAutoHide)
	s.Show("second", Success, DefaultAutoHide)

	cur := s.Current()
	assert.True(t, cur.Open)
	assert.Equal(t, "second", cur.Text)
	assert.Equal(t, Success, cur.Severity)
}

func TestShow_StaleTimerDoesNotHideNewer(t *testing.T) {
	s, clock := newService()

	s.Show("first", Fail, 2*time.Second)
	clock.Advance(time.Second)
	s.Show("second", Info, 5*time.Second)

	// first's deadline passes
	clock.Advance(2 * time.Second)
	cur := s.Current()
	require.True(t, cur.Open)
	assert.Equal(t, "second", cur.Text)

	clock.Advance(3 * time.Second)
	assert.False(t, s.Current().Open)
	assert.Equal(t, "second", s.Current().Text)
}

func TestShow_StaleTimerRaced(t *testing.T) {
	s, _ := newService()

	s.Show("first", Fail, time.Second)
	staleID := s.Current().ID
	s.Show("second", Success, time.Minute)

	// a timer that fired before it could be stopped
	s.hide(staleID)
	assert.True(t, s.Current().Open)
}

func TestShow_ZeroAutoHideStays(t *testing.T) {
	s, clock := newService()

	s.Show("sticky", Info, 0)
	clock.Advance(24 * time.Hour)
	assert.True(t, s.Current().Open)
	assert.Equal(t, 0, clock.Pending())
}

func TestDismiss(t *testing.T) {
	s, clock := newService()

	var seen []Message
	unsubscribe := s.Subscribe(func(m Message) { seen = append(seen, m) })
	defer unsubscribe()

	s.Show("hello", Info, time.Minute)
	s.Dismiss()
	s.Dismiss()

	assert.False(t, s.Current().Open)
	assert.Equal(t, 0, clock.Pending())
	require.Len(t, seen, 2)
	assert.True(t, seen[0].Open)
	assert.False(t, seen[1].Open)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	s, clock := newService()

	count := 0
	unsubscribe := s.Subscribe(func(Message) { count++ })

	s.Show("a", Info, time.Second)
	clock.Advance(time.Second)
	assert.Equal(t, 2, count)

	unsubscribe()
	s.Show("b", Info, 0)
	assert.Equal(t, 2, count)
}

func TestClose_StopsAutoHide(t *testing.T) {
	s, clock := newService()
	s.Show("a", Info, time.Second)
	s.Close()
	assert.Equal(t, 0, clock.Pending())
}
