package sqlite

import (
	"context"
	"fmt"
	"strings"
)

const ddl = `
CREATE TABLE IF NOT EXISTS catalog (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	version      INTEGER NOT NULL,
	sources      TEXT NOT NULL DEFAULT '[]',
	content_hash TEXT NOT NULL DEFAULT '',
	published_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS regions (
	id            TEXT PRIMARY KEY,
	position      INTEGER NOT NULL,
	name          TEXT NOT NULL DEFAULT '',
	theme_color   TEXT NOT NULL DEFAULT '',
	coord_top     TEXT NOT NULL DEFAULT '',
	coord_left    TEXT NOT NULL DEFAULT '',
	budget        INTEGER NOT NULL,
	context_cards TEXT NOT NULL DEFAULT '[]',
	takeaways     TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS letters (
	region_id     TEXT NOT NULL REFERENCES regions(id) ON DELETE CASCADE,
	id            TEXT NOT NULL,
	position      INTEGER NOT NULL,
	day           TEXT NOT NULL DEFAULT '',
	sender        TEXT NOT NULL DEFAULT '',
	content       TEXT NOT NULL DEFAULT '',
	has_wallet    INTEGER NOT NULL DEFAULT 0,
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

func (c *Client) EnsureSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}
	return statements
}
