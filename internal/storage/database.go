package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/conorfennell/leitbox/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// LoadAll returns every card in original set order, history attached in
// chronological order. A card whose stored bucket or due date no longer
// parses is dropped rather than failing the load; the caller decides
// whether what remains is usable (see EnsureSeeded).
func (db *DB) LoadAll() ([]domain.Card, error) {
	rows, err := db.conn.Query(`
		SELECT id, term, definition, tags, source, bucket, due
		FROM cards ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var c domain.Card
		var tags, due string
		if err := rows.Scan(&c.ID, &c.Term, &c.Definition, &tags, &c.Source, &c.Bucket, &due); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		d, err := domain.ParseDate(due)
		if err != nil || !c.Bucket.IsValid() {
			continue
		}
		c.Due = d
		c.Tags = splitTags(tags)
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card rows: %w", err)
	}

	if err := db.attachHistory(cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (db *DB) attachHistory(cards []domain.Card) error {
	if len(cards) == 0 {
		return nil
	}

	rows, err := db.conn.Query(`
		SELECT card_id, reviewed_at, rating
		FROM reviews ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("failed to load review history: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.Card, len(cards))
	for i := range cards {
		byID[cards[i].ID] = &cards[i]
	}

	for rows.Next() {
		var cardID, rating string
		var at time.Time
		if err := rows.Scan(&cardID, &at, &rating); err != nil {
			return fmt.Errorf("failed to scan review row: %w", err)
		}
		c, found := byID[cardID]
		if !found {
			continue
		}
		r, err := domain.ParseRating(rating)
		if err != nil {
			continue
		}
		c.History = append(c.History, domain.Review{At: at, Rating: r})
	}
	return rows.Err()
}

// InsertCard appends a new card at the end of the set order.
func (db *DB) InsertCard(c domain.Card) error {
	_, err := db.conn.Exec(`
		INSERT INTO cards (id, term, definition, tags, source, bucket, due, position)
		VALUES (?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM cards))
	`,
		c.ID,
		c.Term,
		c.Definition,
		joinTags(c.Tags),
		c.Source,
		c.Bucket,
		c.Due.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert card %s: %w", c.ID, err)
	}
	return nil
}

// CommitReview persists one scheduler result: the card's new bucket and
// due date plus the single history entry the scheduler appended, in one
// transaction.
func (db *DB) CommitReview(c domain.Card) error {
	if len(c.History) == 0 {
		return fmt.Errorf("card %s has no review to commit", c.ID)
	}
	last := c.History[len(c.History)-1]

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE cards SET bucket = ?, due = ? WHERE id = ?
	`, c.Bucket, c.Due.String(), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update card %s: %w", c.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("card %s not found", c.ID)
	}

	if _, err := tx.Exec(`
		INSERT INTO reviews (card_id, reviewed_at, rating)
		VALUES (?, ?, ?)
	`, c.ID, last.At, last.Rating.String()); err != nil {
		return fmt.Errorf("failed to append review for card %s: %w", c.ID, err)
	}

	return tx.Commit()
}

// DeleteCard removes a card and its history permanently. Deleting an
// unknown id is a no-op. The reviews are deleted explicitly rather than
// by cascade: a foreign-key pragma set on one pooled connection does not
// apply to the others.
func (db *DB) DeleteCard(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reviews WHERE card_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete history for card %s: %w", id, err)
	}
	if _, err := tx.Exec(`DELETE FROM cards WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete card %s: %w", id, err)
	}
	return tx.Commit()
}

// ReplaceAll swaps the entire stored collection for cards in a single
// transaction. This is the import semantic: full replace, no merge.
// History entries already present on the cards (a backup restore) are
// written back too.
func (db *DB) ReplaceAll(cards []domain.Card) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reviews`); err != nil {
		return fmt.Errorf("failed to clear reviews: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM cards`); err != nil {
		return fmt.Errorf("failed to clear cards: %w", err)
	}

	for i, c := range cards {
		if _, err := tx.Exec(`
			INSERT INTO cards (id, term, definition, tags, source, bucket, due, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, c.ID, c.Term, c.Definition, joinTags(c.Tags), c.Source, c.Bucket, c.Due.String(), i); err != nil {
			return fmt.Errorf("failed to insert card %s: %w", c.ID, err)
		}
		for _, rev := range c.History {
			if _, err := tx.Exec(`
				INSERT INTO reviews (card_id, reviewed_at, rating)
				VALUES (?, ?, ?)
			`, c.ID, rev.At, rev.Rating.String()); err != nil {
				return fmt.Errorf("failed to insert history for card %s: %w", c.ID, err)
			}
		}
	}

	return tx.Commit()
}

// Count returns the number of stored cards.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}

// EnsureSeeded replaces the collection with seed when nothing readable is
// stored. Malformed persisted data is recovered, never surfaced: whatever
// parse failures LoadAll swallowed, an empty result means we start over
// from the default deck.
func (db *DB) EnsureSeeded(seed []domain.Card) (seeded bool, err error) {
	cards, err := db.LoadAll()
	if err != nil {
		return false, err
	}
	if len(cards) > 0 {
		return false, nil
	}
	if err := db.ReplaceAll(seed); err != nil {
		return false, err
	}
	return true, nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
