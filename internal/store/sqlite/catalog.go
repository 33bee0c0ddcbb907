package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"penpals/internal/store"
	"penpals/internal/story"
)

func (c *Client) ReplaceCatalog(ctx context.Context, cat *story.Catalog) (store.Counts, error) {
	snap, err := store.Flatten(cat)
	if err != nil {
		return store.Counts{}, err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Counts{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"wallet_options", "choices", "letters", "regions", "catalog"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return store.Counts{}, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO catalog (id, version, sources, content_hash, published_at) VALUES (1, ?, ?, ?, datetime('now'))`,
		snap.Catalog.Version, snap.Catalog.Sources, snap.Catalog.Hash,
	); err != nil {
		return store.Counts{}, fmt.Errorf("inserting catalog: %w", err)
	}

	for _, r := range snap.Regions {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO regions (id, position, name, theme_color, coord_top, coord_left, budget, context_cards, takeaways)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(r.ID), r.Position, r.Name, r.ThemeColor, r.CoordTop, r.CoordLeft, r.Budget, r.ContextCards, r.Takeaways,
		); err != nil {
			return store.Counts{}, fmt.Errorf("inserting region %s: %w", r.ID, err)
		}
	}

	for _, l := range snap.Letters {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO letters (region_id, id, position, day, sender, content, has_wallet, wallet_prompt)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			string(l.RegionID), l.ID, l.Position, l.Day, l.Sender, l.Content, boolToInt(l.HasWallet), l.WalletPrompt,
		); err != nil {
			return store.Counts{}, fmt.Errorf("inserting letter %s/%s: %w", l.RegionID, l.ID, err)
		}
	}

	for _, ch := range snap.Choices {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO choices (region_id, letter_id, id, position, text, type, cost, warmth, reliability, affordability, agency, next_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(ch.RegionID), ch.LetterID, ch.ID, ch.Position, ch.Text, ch.Type, ch.Cost,
			ch.Impact.Warmth, ch.Impact.Reliability, ch.Impact.Affordability, ch.Impact.Agency, ch.NextID,
		); err != nil {
			return store.Counts{}, fmt.Errorf("inserting choice %s/%s/%s: %w", ch.RegionID, ch.LetterID, ch.ID, err)
		}
	}

	for _, o := range snap.WalletOptions {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO wallet_options (region_id, letter_id, id, position, label, cost_label, cost, warmth, reliability, affordability, agency)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(o.RegionID), o.LetterID, o.ID, o.Position, o.Label, o.CostLabel, o.Cost,
			o.Impact.Warmth, o.Impact.Reliability, o.Impact.Affordability, o.Impact.Agency,
		); err != nil {
			return store.Counts{}, fmt.Errorf("inserting wallet option %s/%s/%s: %w", o.RegionID, o.LetterID, o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return store.Counts{}, fmt.Errorf("committing catalog: %w", err)
	}
	return snap.Counts(), nil
}

func (c *Client) LoadCatalog(ctx context.Context) (*story.Catalog, error) {
	var snap store.Snapshot

	err := c.db.QueryRowContext(ctx, `SELECT version, sources, content_hash FROM catalog WHERE id = 1`).
		Scan(&snap.Catalog.Version, &snap.Catalog.Sources, &snap.Catalog.Hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNoCatalog
	}
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, `
SELECT id, position, name, theme_color, coord_top, coord_left, budget, context_cards, takeaways
FROM regions`)
	if err != nil {
		return nil, fmt.Errorf("loading regions: %w", err)
	}
	for rows.Next() {
		var r store.RegionRow
		var id string
		if err := rows.Scan(&id, &r.Position, &r.Name, &r.ThemeColor, &r.CoordTop, &r.CoordLeft, &r.Budget, &r.ContextCards, &r.Takeaways); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning region: %w", err)
		}
		r.ID = story.RegionID(id)
		snap.Regions = append(snap.Regions, r)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("iterating regions: %w", err)
	}

	rows, err = c.db.QueryContext(ctx, `
SELECT region_id, id, position, day, sender, content, has_wallet, wallet_prompt
FROM letters`)
	if err != nil {
		return nil, fmt.Errorf("loading letters: %w", err)
	}
	for rows.Next() {
		var l store.LetterRow
		var region string
		var hasWallet int
		if err := rows.Scan(&region, &l.ID, &l.Position, &l.Day, &l.Sender, &l.Content, &hasWallet, &l.WalletPrompt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning letter: %w", err)
		}
		l.RegionID = story.RegionID(region)
		l.HasWallet = hasWallet != 0
		snap.Letters = append(snap.Letters, l)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("iterating letters: %w", err)
	}

	rows, err = c.db.QueryContext(ctx, `
SELECT region_id, letter_id, id, position, text, type, cost, warmth, reliability, affordability, agency, next_id
FROM choices`)
	if err != nil {
		return nil, fmt.Errorf("loading choices: %w", err)
	}
	for rows.Next() {
		var ch store.ChoiceRow
		var region string
		if err := rows.Scan(&region, &ch.LetterID, &ch.ID, &ch.Position, &ch.Text, &ch.Type, &ch.Cost,
			&ch.Impact.Warmth, &ch.Impact.Reliability, &ch.Impact.Affordability, &ch.Impact.Agency, &ch.NextID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning choice: %w", err)
		}
		ch.RegionID = story.RegionID(region)
		snap.Choices = append(snap.Choices, ch)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("iterating choices: %w", err)
	}

	rows, err = c.db.QueryContext(ctx, `
SELECT region_id, letter_id, id, position, label, cost_label, cost, warmth, reliability, affordability, agency
FROM wallet_options`)
	if err != nil {
		return nil, fmt.Errorf("loading wallet options: %w", err)
	}
	for rows.Next() {
		var o store.WalletOptionRow
		var region string
		if err := rows.Scan(&region, &o.LetterID, &o.ID, &o.Position, &o.Label, &o.CostLabel, &o.Cost,
			&o.Impact.Warmth, &o.Impact.Reliability, &o.Impact.Affordability, &o.Impact.Agency); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning wallet option: %w", err)
		}
		o.RegionID = story.RegionID(region)
		snap.WalletOptions = append(snap.WalletOptions, o)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("iterating wallet options: %w", err)
	}

	return store.Assemble(&snap)
}

func (c *Client) PublishedHash(ctx context.Context) (string, error) {
	var hash string
	err := c.db.QueryRowContext(ctx, `SELECT content_hash FROM catalog WHERE id = 1`).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading published hash: %w", err)
	}
	return hash, nil
}

func (c *Client) ListRegions(ctx context.Context) ([]store.RegionSummary, error) {
	rows, err := c.db.QueryContext(ctx, `
SELECT r.id, r.name, r.position, r.budget,
       (SELECT COUNT(*) FROM letters l WHERE l.region_id = r.id),
       (SELECT COUNT(*) FROM choices ch WHERE ch.region_id = r.id)
FROM regions r
ORDER BY r.position`)
	if err != nil {
		return nil, fmt.Errorf("listing regions: %w", err)
	}
	defer rows.Close()

	var out []store.RegionSummary
	for rows.Next() {
		var s store.RegionSummary
		var id string
		if err := rows.Scan(&id, &s.Name, &s.Position, &s.Budget, &s.Letters, &s.Choices); err != nil {
			return nil, fmt.Errorf("scanning region summary: %w", err)
		}
		s.ID = story.RegionID(id)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating region summaries: %w", err)
	}
	return out, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
