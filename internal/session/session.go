// Package session drives a single study session through its states:
// showing the front of a card, revealing the back, rating it, and moving
// on to the next card until the queue is exhausted.
package session

import (
	"errors"
	"time"

	"github.com/conorfennell/leitbox/internal/domain"
	"github.com/conorfennell/leitbox/internal/queue"
	"github.com/conorfennell/leitbox/internal/scheduler"
)

// Phase is the session's position in the reveal/rate cycle.
type Phase int

const (
	ShowingFront Phase = iota + 1
	ShowingBack
	Done // queue exhausted; terminal, not an error
)

var (
	// ErrNotRevealed is returned when a card is rated before its back
	// has been shown.
	ErrNotRevealed = errors.New("card not revealed yet")
	// ErrDone is returned for reveal/rate on an exhausted session.
	ErrDone = errors.New("session is finished")
)

// Session walks a fixed queue of cards. It mutates nothing outside
// itself: Rate returns the rescheduled card and the caller persists it.
type Session struct {
	cards []domain.Card
	phase Phase
}

// New builds a session over the queue selected from cards for the given
// mode. An empty selection starts (and stays) in the Done phase.
func New(cards []domain.Card, mode queue.Mode, limit int, today domain.Date) *Session {
	q := queue.Select(cards, mode, limit, today)
	s := &Session{cards: q, phase: ShowingFront}
	if len(q) == 0 {
		s.phase = Done
	}
	return s
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Remaining returns how many cards are left, including the current one.
func (s *Session) Remaining() int { return len(s.cards) }

// Current returns the card at the head of the queue.
func (s *Session) Current() (domain.Card, bool) {
	if len(s.cards) == 0 {
		return domain.Card{}, false
	}
	return s.cards[0], true
}

// Reveal flips the current card from front to back. It has no data
// effect; revealing twice is a no-op.
func (s *Session) Reveal() error {
	if s.phase == Done {
		return ErrDone
	}
	s.phase = ShowingBack
	return nil
}

// Rate applies the rating to the current card via the scheduler, pops it
// from the queue and returns the updated card for the caller to persist.
// The session moves to the next card's front, or to Done.
func (s *Session) Rate(r domain.Rating, now time.Time) (domain.Card, error) {
	switch s.phase {
	case Done:
		return domain.Card{}, ErrDone
	case ShowingFront:
		return domain.Card{}, ErrNotRevealed
	}

	updated := scheduler.Next(s.cards[0], r, now)
	s.cards = s.cards[1:]
	if len(s.cards) == 0 {
		s.phase = Done
	} else {
		s.phase = ShowingFront
	}
	return updated, nil
}
