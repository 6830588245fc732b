package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/leitbox/internal/domain"
	"github.com/conorfennell/leitbox/internal/queue"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func dueCards(n int) []domain.Card {
	today := domain.DateOf(now)
	var cards []domain.Card
	for i := 0; i < n; i++ {
		cards = append(cards, domain.Card{
			ID:     string(rune('a' + i)),
			Term:   "term",
			Bucket: 2,
			Due:    today.AddDays(-1),
		})
	}
	return cards
}

func TestEmptyQueueStartsDone(t *testing.T) {
	s := New(nil, queue.Review, 10, domain.DateOf(now))

	assert.Equal(t, Done, s.Phase())
	_, ok := s.Current()
	assert.False(t, ok)
	assert.ErrorIs(t, s.Reveal(), ErrDone)
	_, err := s.Rate(domain.Good, now)
	assert.ErrorIs(t, err, ErrDone)
}

func TestRateRequiresReveal(t *testing.T) {
	s := New(dueCards(1), queue.Review, 10, domain.DateOf(now))

	require.Equal(t, ShowingFront, s.Phase())
	_, err := s.Rate(domain.Good, now)
	assert.ErrorIs(t, err, ErrNotRevealed)
}

func TestRevealHasNoDataEffect(t *testing.T) {
	s := New(dueCards(2), queue.Review, 10, domain.DateOf(now))
	before, _ := s.Current()

	require.NoError(t, s.Reveal())
	assert.Equal(t, ShowingBack, s.Phase())

	after, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, before, after)
	assert.Equal(t, 2, s.Remaining())
}

func TestFullCycle(t *testing.T) {
	s := New(dueCards(2), queue.Review, 10, domain.DateOf(now))

	// First card: reveal, rate, back to the next card's front.
	first, _ := s.Current()
	require.NoError(t, s.Reveal())
	updated, err := s.Rate(domain.Good, now)
	require.NoError(t, err)

	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, domain.Bucket(3), updated.Bucket)
	assert.Len(t, updated.History, 1)
	assert.Equal(t, ShowingFront, s.Phase())
	assert.Equal(t, 1, s.Remaining())

	next, ok := s.Current()
	require.True(t, ok)
	assert.NotEqual(t, first.ID, next.ID)

	// Second card exhausts the queue.
	require.NoError(t, s.Reveal())
	_, err = s.Rate(domain.Again, now)
	require.NoError(t, err)
	assert.Equal(t, Done, s.Phase())
	assert.Equal(t, 0, s.Remaining())
}

func TestLearnSessionUsesUnseenCards(t *testing.T) {
	today := domain.DateOf(now)
	cards := []domain.Card{
		{ID: "active", Bucket: 2, Due: today},
		{ID: "new", Bucket: domain.Unseen, Due: today},
	}

	s := New(cards, queue.Learn, 10, today)

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "new", current.ID)
	assert.Equal(t, 1, s.Remaining())
}
