package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	// A multi-statement Exec runs in one implicit transaction.
	ddl := `
CREATE TABLE IF NOT EXISTS catalog (
    id           SMALLINT PRIMARY KEY CHECK (id = 1),
    version      INTEGER NOT NULL,
    sources      JSONB NOT NULL DEFAULT '[]',
    content_hash TEXT NOT NULL DEFAULT '',
    published_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS regions (
    id            TEXT PRIMARY KEY,
    position      INTEGER NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    theme_color   TEXT NOT NULL DEFAULT '',
    coord_top     TEXT NOT NULL DEFAULT '',
    coord_left    TEXT NOT NULL DEFAULT '',
    budget        INTEGER NOT NULL,
    context_cards JSONB NOT NULL DEFAULT '[]',
    takeaways     JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS letters (
    region_id     TEXT NOT NULL REFERENCES regions(id) ON DELETE CASCADE,
    id            TEXT NOT NULL,
    position      INTEGER NOT NULL,
    day           TEXT NOT NULL DEFAULT '',
    sender        TEXT NOT NULL DEFAULT '',
    content       TEXT NOT NULL DEFAULT '',
    has_wallet    BOOLEAN NOT NULL DEFAULT FALSE,
    wallet_prompt TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (region_id, id)
);

CREATE TABLE IF NOT EXISTS choices (
    region_id     TEXT NOT NULL,
    letter_id     TEXT NOT NULL,
    id            TEXT NOT NULL,
    position      INTEGER NOT NULL,
    text          TEXT NOT NULL DEFAULT '',
    type          TEXT NOT NULL DEFAULT '',
    cost          INTEGER NOT NULL DEFAULT 0,
    warmth        INTEGER NOT NULL DEFAULT 0,
    reliability   INTEGER NOT NULL DEFAULT 0,
    affordability INTEGER NOT NULL DEFAULT 0,
    agency        INTEGER NOT NULL DEFAULT 0,
    next_id       TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (region_id, letter_id, id),
    FOREIGN KEY (region_id, letter_id) REFERENCES letters(region_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS wallet_options (
    region_id     TEXT NOT NULL,
    letter_id     TEXT NOT NULL,
    id            TEXT NOT NULL,
    position      INTEGER NOT NULL,
    label         TEXT NOT NULL DEFAULT '',
    cost_label    TEXT NOT NULL DEFAULT '',
    cost          INTEGER NOT NULL DEFAULT 0,
    warmth        INTEGER NOT NULL DEFAULT 0,
    reliability   INTEGER NOT NULL DEFAULT 0,
    affordability INTEGER NOT NULL DEFAULT 0,
    agency        INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (region_id, letter_id, id),
    FOREIGN KEY (region_id, letter_id) REFERENCES letters(region_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_letters_region ON letters (region_id, position);
CREATE INDEX IF NOT EXISTS idx_choices_letter ON choices (region_id, letter_id, position);
CREATE INDEX IF NOT EXISTS idx_choices_next ON choices (region_id, next_id);
CREATE INDEX IF NOT EXISTS idx_wallet_options_letter ON wallet_options (region_id, letter_id, position);
`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
