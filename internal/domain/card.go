package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bucket is the Leitner level of a card. Unseen (0) is reserved for cards
// that have never been rated; active cards live in buckets 1 through 5.
type Bucket int

const (
	Unseen    Bucket = 0
	MinActive Bucket = 1
	MaxActive Bucket = 5
)

// IsValid reports whether b is Unseen or an active level.
func (b Bucket) IsValid() bool {
	return b >= Unseen && b <= MaxActive
}

// Review records a single rating event for a card.
type Review struct {
	At     time.Time `json:"at"`
	Rating Rating    `json:"rating"`
}

// Card represents a single term-definition entry together with its
// scheduling state and rating history.
//
// History is append-only: entries are added by the scheduler and never
// removed or reordered. Bucket is Unseen exactly when History is empty.
type Card struct {
	ID         string   `json:"id"`
	Term       string   `json:"term"`
	Definition string   `json:"definition"`
	Tags       []string `json:"tags,omitempty"`
	Source     string   `json:"source,omitempty"`
	Bucket     Bucket   `json:"bucket"`
	Due        Date     `json:"due"`
	History    []Review `json:"history,omitempty"`
}

// NewCard creates a fresh card: unseen, due today, empty history.
func NewCard(term, definition string, tags []string, source string, today Date) Card {
	return Card{
		ID:         uuid.NewString(),
		Term:       term,
		Definition: definition,
		Tags:       tags,
		Source:     source,
		Bucket:     Unseen,
		Due:        today,
	}
}
