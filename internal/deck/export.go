package deck

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/conorfennell/leitbox/internal/domain"
)

// Export writes the full collection as indented JSON, scheduling state
// and history included, suitable for backup and later Restore.
func Export(w io.Writer, cards []domain.Card) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cards); err != nil {
		return fmt.Errorf("failed to export deck: %w", err)
	}
	return nil
}

// Restore reads a collection previously written by Export. Unlike the
// CSV importer it preserves bucket, due date and history verbatim.
func Restore(r io.Reader) ([]domain.Card, error) {
	var cards []domain.Card
	if err := json.NewDecoder(r).Decode(&cards); err != nil {
		return nil, fmt.Errorf("failed to parse deck backup: %w", err)
	}
	for i, c := range cards {
		if !c.Bucket.IsValid() {
			return nil, fmt.Errorf("card %d: invalid bucket %d", i, int(c.Bucket))
		}
	}
	return cards, nil
}
