package storage

const schema = `
-- The 'cards' table holds each flashcard with its scheduling state.
-- 'position' preserves the original set order; it drives tie-breaking in
-- the review queue and the order of the learn queue.
CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    term TEXT NOT NULL,
    definition TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT '',
    bucket INTEGER NOT NULL DEFAULT 0,
    due TEXT NOT NULL,
    position INTEGER NOT NULL
);

-- The 'reviews' table is the append-only rating history, one row per
-- rating event, in insertion order.
CREATE TABLE IF NOT EXISTS reviews (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    card_id TEXT NOT NULL,
    reviewed_at DATETIME NOT NULL,
    rating TEXT NOT NULL,

    FOREIGN KEY(card_id) REFERENCES cards(id)
);
`
