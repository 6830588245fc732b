package scheduler

import (
	"testing"
	"time"

	"github.com/conorfennell/leitbox/internal/domain"
)

var now = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func mkCard(bucket domain.Bucket, history ...domain.Review) domain.Card {
	return domain.Card{
		ID:      "card-1",
		Term:    "ephemeral",
		Bucket:  bucket,
		Due:     domain.DateOf(now),
		History: history,
	}
}

func TestBucketTransitions(t *testing.T) {
	testCases := []struct {
		name   string
		bucket domain.Bucket
		rating domain.Rating
		want   domain.Bucket
	}{
		{"again demotes", 3, domain.Again, 2},
		{"again from bucket 1 stays", 1, domain.Again, 1},
		{"again from top", 5, domain.Again, 4},
		{"hard keeps bucket", 2, domain.Hard, 2},
		{"hard from bucket 1 stays", 1, domain.Hard, 1},
		{"good promotes", 3, domain.Good, 4},
		{"good from bucket 1", 1, domain.Good, 2},
		{"good at ceiling stays", 5, domain.Good, 5},
		{"easy skips a level", 2, domain.Easy, 4},
		{"easy floor from bucket 1", 1, domain.Easy, 3},
		{"easy clamped near ceiling", 4, domain.Easy, 5},
		{"easy at ceiling stays", 5, domain.Easy, 5},
		{"unseen enters at 1 before again", 0, domain.Again, 1},
		{"unseen enters at 1 before good", 0, domain.Good, 2},
		{"unseen enters at 1 before easy", 0, domain.Easy, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Next(mkCard(tc.bucket), tc.rating, now)
			if got.Bucket != tc.want {
				t.Errorf("Next(bucket=%d, %s): expected bucket %d, got %d",
					tc.bucket, tc.rating, tc.want, got.Bucket)
			}
		})
	}
}

func TestAgainNeverDropsBelowOne(t *testing.T) {
	for b := domain.MinActive; b <= domain.MaxActive; b++ {
		got := Next(mkCard(b), domain.Again, now)
		want := b - 1
		if want < domain.MinActive {
			want = domain.MinActive
		}
		if got.Bucket != want {
			t.Errorf("again from bucket %d: expected %d, got %d", b, want, got.Bucket)
		}
	}
}

func TestDueDates(t *testing.T) {
	testCases := []struct {
		name     string
		bucket   domain.Bucket
		rating   domain.Rating
		wantDays int
	}{
		{"easy from 1 lands in bucket 3", 1, domain.Easy, 7},
		{"good from 3 lands in bucket 4", 3, domain.Good, 14},
		{"good at ceiling", 5, domain.Good, 30},
		{"again resets to a day", 2, domain.Again, 1},
		{"hard from 2 keeps three days", 2, domain.Hard, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Next(mkCard(tc.bucket), tc.rating, now)
			want := domain.DateOf(now).AddDays(tc.wantDays)
			if !got.Due.Equal(want) {
				t.Errorf("expected due %s, got %s", want, got.Due)
			}
		})
	}
}

func TestIntervalTable(t *testing.T) {
	want := []int{0, 1, 3, 7, 14, 30}
	for b, days := range want {
		if got := Interval(domain.Bucket(b)); got != days {
			t.Errorf("Interval(%d): expected %d, got %d", b, days, got)
		}
	}
}

func TestHistoryAppendsExactlyOne(t *testing.T) {
	first := domain.Review{At: now.AddDate(0, 0, -3), Rating: domain.Good}
	card := mkCard(2, first)

	got := Next(card, domain.Hard, now)

	if len(got.History) != 2 {
		t.Fatalf("expected history length 2, got %d", len(got.History))
	}
	if got.History[0] != first {
		t.Errorf("prior history entry changed: %+v", got.History[0])
	}
	last := got.History[1]
	if !last.At.Equal(now) || last.Rating != domain.Hard {
		t.Errorf("expected appended entry {%v hard}, got %+v", now, last)
	}
}

func TestNextDoesNotMutateInput(t *testing.T) {
	first := domain.Review{At: now.AddDate(0, 0, -3), Rating: domain.Good}
	card := mkCard(2, first)
	before := card.Due

	got := Next(card, domain.Good, now)

	if card.Bucket != 2 || !card.Due.Equal(before) || len(card.History) != 1 {
		t.Errorf("input card was mutated: %+v", card)
	}
	// The returned history must not share a backing array with the input.
	got.History[0].Rating = domain.Again
	if card.History[0].Rating != domain.Good {
		t.Error("returned history aliases the input card's history")
	}
}
