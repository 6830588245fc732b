// Package queue selects which cards to present in a study session.
package queue

import (
	"fmt"
	"sort"
	"strings"

	"github.com/conorfennell/leitbox/internal/domain"
)

// Mode determines which cards a queue holds.
type Mode int

const (
	Review Mode = iota + 1 // due active cards, earliest due first
	Learn                  // unseen cards, original order
	Browse                 // no queue; browse filters the full set instead
)

// MinLimit is the smallest queue size the selector will produce. Callers
// asking for less are coerced up, not rejected.
const MinLimit = 5

// ParseMode maps a mode name to its Mode value.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "review":
		return Review, nil
	case "learn":
		return Learn, nil
	case "browse":
		return Browse, nil
	}
	return 0, fmt.Errorf("invalid mode %q", s)
}

// Select computes the ordered, size-bounded queue for a mode. The result
// is a fresh slice recomputed on every call; it shares no backing array
// with cards.
//
// Review mode returns active cards due on or before today, ascending by
// due date with ties kept in original set order. Learn mode returns
// unseen cards in original order. Browse mode always returns nil: browsing
// operates on Search, not on a queue.
func Select(cards []domain.Card, mode Mode, limit int, today domain.Date) []domain.Card {
	if limit < MinLimit {
		limit = MinLimit
	}

	var out []domain.Card
	switch mode {
	case Review:
		for _, c := range cards {
			if c.Bucket > domain.Unseen && !c.Due.After(today) {
				out = append(out, c)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Due.Before(out[j].Due)
		})
	case Learn:
		for _, c := range cards {
			if c.Bucket == domain.Unseen {
				out = append(out, c)
			}
		}
	case Browse:
		return nil
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Search filters the full set by case-insensitive substring match over
// term, definition and tags. An empty query matches everything.
func Search(cards []domain.Card, query string) []domain.Card {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		out := make([]domain.Card, len(cards))
		copy(out, cards)
		return out
	}

	var out []domain.Card
	for _, c := range cards {
		if matches(c, q) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c domain.Card, q string) bool {
	if strings.Contains(strings.ToLower(c.Term), q) ||
		strings.Contains(strings.ToLower(c.Definition), q) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
