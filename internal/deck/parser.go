// Package deck handles how card collections enter and leave the system:
// CSV/TSV import, JSON export/restore, and the embedded seed deck.
package deck

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/leitbox/internal/domain"
)

// ParseFile reads a CSV/TSV deck file from the given path.
func ParseFile(path string, today domain.Date) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file, path, today)
}

// Parse reads a deck from r. Each non-empty line is one card with fields
// separated by ';' or tab: term, definition, comma-separated tags. Lines
// without both a term and a definition are skipped, not reported; a
// malformed line loses one card, never the import. Every parsed card
// starts unseen and due today.
func Parse(r io.Reader, source string, today domain.Date) ([]domain.Card, error) {
	scanner := bufio.NewScanner(r)
	var cards []domain.Card

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		term, definition, tags, ok := splitLine(line)
		if !ok {
			continue
		}
		cards = append(cards, domain.NewCard(term, definition, tags, source, today))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

// splitLine splits one import line into its fields. Tab wins over ';'
// when both appear, so semicolons inside TSV definitions survive.
func splitLine(line string) (term, definition string, tags []string, ok bool) {
	sep := ";"
	if strings.Contains(line, "\t") {
		sep = "\t"
	}

	fields := strings.Split(line, sep)
	if len(fields) < 2 {
		return "", "", nil, false
	}

	term = strings.TrimSpace(fields[0])
	definition = strings.TrimSpace(fields[1])
	if term == "" || definition == "" {
		return "", "", nil, false
	}

	if len(fields) > 2 {
		for _, t := range strings.Split(fields[2], ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return term, definition, tags, true
}
