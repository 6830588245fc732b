// Package scheduler implements the Leitner bucket transition that decides,
// given a rating, where a card goes next and when it is due again.
package scheduler

import (
	"time"

	"github.com/conorfennell/leitbox/internal/domain"
)

// intervals maps a bucket to its review interval in days. Index 0 exists
// only so the table lines up with bucket numbers; a rated card is never
// in bucket 0.
var intervals = [...]int{0, 1, 3, 7, 14, 30}

// Interval returns the review interval in days for a bucket.
func Interval(b domain.Bucket) int {
	return intervals[b]
}

// Next applies a rating to a card and returns the updated card: new
// bucket, new due date, one appended history entry. It is pure; the input
// card is not modified and its history slice is not aliased.
//
// An unseen card enters the active levels at bucket 1 before the
// transition table is applied, so the first rating behaves exactly like a
// rating from the lowest level.
func Next(c domain.Card, r domain.Rating, now time.Time) domain.Card {
	b := c.Bucket
	if b == domain.Unseen {
		b = domain.MinActive
	}

	switch r {
	case domain.Again:
		b = max(domain.MinActive, b-1)
	case domain.Hard:
		// Existing behavior: hard keeps the bucket, it does not demote.
		b = max(domain.MinActive, b)
	case domain.Good:
		b = clamp(b+1, domain.MinActive, domain.MaxActive)
	case domain.Easy:
		// Floor of 2 so an easy card always skips the shortest interval.
		b = clamp(b+2, domain.MinActive+1, domain.MaxActive)
	}

	history := make([]domain.Review, len(c.History), len(c.History)+1)
	copy(history, c.History)
	history = append(history, domain.Review{At: now, Rating: r})

	c.Bucket = b
	c.Due = domain.DateOf(now).AddDays(intervals[b])
	c.History = history
	return c
}

func clamp(b, lo, hi domain.Bucket) domain.Bucket {
	return min(max(b, lo), hi)
}
