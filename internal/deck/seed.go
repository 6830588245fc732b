package deck

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/conorfennell/leitbox/internal/domain"
)

//go:embed seed.yaml
var seedFile []byte

type seedEntry struct {
	Term       string   `yaml:"term"`
	Definition string   `yaml:"definition"`
	Tags       []string `yaml:"tags"`
}

// Seed materializes the embedded starter deck: every card unseen, due
// today. It is used on first run and whenever stored data turns out to
// be unreadable.
func Seed(today domain.Date) ([]domain.Card, error) {
	var entries []seedEntry
	if err := yaml.Unmarshal(seedFile, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse seed deck: %w", err)
	}

	cards := make([]domain.Card, 0, len(entries))
	for _, e := range entries {
		cards = append(cards, domain.NewCard(e.Term, e.Definition, e.Tags, "seed", today))
	}
	return cards, nil
}
