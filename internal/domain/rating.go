package domain

import (
	"encoding"
	"fmt"
)

// Rating is the user's assessment of how well a card was recalled.
// It is a closed enumeration; anything else must be rejected at the
// boundary (HTTP handler, CLI) before it reaches the scheduler.
type Rating int

const (
	Again Rating = iota + 1 // failed to recall
	Hard                    // recalled with difficulty
	Good                    // recalled with some effort
	Easy                    // recalled effortlessly
)

var ratingNames = [...]string{Again: "again", Hard: "hard", Good: "good", Easy: "easy"}

var ratingByName = map[string]Rating{
	"again": Again,
	"hard":  Hard,
	"good":  Good,
	"easy":  Easy,
}

var (
	_ fmt.Stringer             = Rating(0)
	_ encoding.TextMarshaler   = Rating(0)
	_ encoding.TextUnmarshaler = (*Rating)(nil)
)

// IsValid reports whether r is one of the four defined ratings.
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

// String returns the lowercase name of the rating, or "rating(n)" for
// invalid values.
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("rating(%d)", int(r))
}

// ParseRating maps a lowercase rating name to its Rating value.
func ParseRating(s string) (Rating, error) {
	r, ok := ratingByName[s]
	if !ok {
		return 0, fmt.Errorf("invalid rating %q", s)
	}
	return r, nil
}

// MarshalText implements encoding.TextMarshaler. Ratings serialize as
// their lowercase names, so JSON history entries read "again" not 1.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid rating %d", int(r))
	}
	return []byte(ratingNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rating) UnmarshalText(text []byte) error {
	v, err := ParseRating(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
