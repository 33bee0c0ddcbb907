package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"penpals/internal/store"
	"penpals/internal/story"
)

func (c *Client) ReplaceCatalog(ctx context.Context, cat *story.Catalog) (store.Counts, error) {
	snap, err := store.Flatten(cat)
	if err != nil {
		return store.Counts{}, err
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return store.Counts{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	batch.Queue(`TRUNCATE wallet_options, choices, letters, regions, catalog`)
	batch.Queue(`INSERT INTO catalog (id, version, sources, content_hash, published_at) VALUES (1, $1, $2::jsonb, $3, now())`,
		snap.Catalog.Version, snap.Catalog.Sources, snap.Catalog.Hash)

	for _, r := range snap.Regions {
		batch.Queue(`
INSERT INTO regions (id, position, name, theme_color, coord_top, coord_left, budget, context_cards, takeaways)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb)`,
			string(r.ID), r.Position, r.Name, r.ThemeColor, r.CoordTop, r.CoordLeft, r.Budget, r.ContextCards, r.Takeaways)
	}
	for _, l := range snap.Letters {
		batch.Queue(`
INSERT INTO letters (region_id, id, position, day, sender, content, has_wallet, wallet_prompt)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			string(l.RegionID), l.ID, l.Position, l.Day, l.Sender, l.Content, l.HasWallet, l.WalletPrompt)
	}
	for _, ch := range snap.Choices {
		batch.Queue(`
INSERT INTO choices (region_id, letter_id, id, position, text, type, cost, warmth, reliability, affordability, agency, next_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			string(ch.RegionID), ch.LetterID, ch.ID, ch.Position, ch.Text, ch.Type, ch.Cost,
			ch.Impact.Warmth, ch.Impact.Reliability, ch.Impact.Affordability, ch.Impact.Agency, ch.NextID)
	}
	for _, o := range snap.WalletOptions {
		batch.Queue(`
INSERT INTO wallet_options (region_id, letter_id, id, position, label, cost_label, cost, warmth, reliability, affordability, agency)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			string(o.RegionID), o.LetterID, o.ID, o.Position, o.Label, o.CostLabel, o.Cost,
			o.Impact.Warmth, o.Impact.Reliability, o.Impact.Affordability, o.Impact.Agency)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return store.Counts{}, fmt.Errorf("publishing catalog: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return store.Counts{}, fmt.Errorf("committing catalog: %w", err)
	}
	return snap.Counts(), nil
}

func (c *Client) LoadCatalog(ctx context.Context) (*story.Catalog, error) {
	var snap store.Snapshot

	err := c.pool.QueryRow(ctx, `SELECT version, sources::text, content_hash FROM catalog WHERE id = 1`).
		Scan(&snap.Catalog.Version, &snap.Catalog.Sources, &snap.Catalog.Hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNoCatalog
	}
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	rows, err := c.pool.Query(ctx, `
SELECT id, position, name, theme_color, coord_top, coord_left, budget, context_cards::text, takeaways::text
FROM regions`)
	if err != nil {
		return nil, fmt.Errorf("loading regions: %w", err)
	}
	snap.Regions, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.RegionRow, error) {
		var r store.RegionRow
		var id string
		err := row.Scan(&id, &r.Position, &r.Name, &r.ThemeColor, &r.CoordTop, &r.CoordLeft, &r.Budget, &r.ContextCards, &r.Takeaways)
		r.ID = story.RegionID(id)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning regions: %w", err)
	}

	rows, err = c.pool.Query(ctx, `
SELECT region_id, id, position, day, sender, content, has_wallet, wallet_prompt
FROM letters`)
	if err != nil {
		return nil, fmt.Errorf("loading letters: %w", err)
	}
	snap.Letters, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.LetterRow, error) {
		var l store.LetterRow
		var region string
		err := row.Scan(&region, &l.ID, &l.Position, &l.Day, &l.Sender, &l.Content, &l.HasWallet, &l.WalletPrompt)
		l.RegionID = story.RegionID(region)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning letters: %w", err)
	}

	rows, err = c.pool.Query(ctx, `
SELECT region_id, letter_id, id, position, text, type, cost, warmth, reliability, affordability, agency, next_id
FROM choices`)
	if err != nil {
		return nil, fmt.Errorf("loading choices: %w", err)
	}
	snap.Choices, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.ChoiceRow, error) {
		var ch store.ChoiceRow
		var region string
		err := row.Scan(&region, &ch.LetterID, &ch.ID, &ch.Position, &ch.Text, &ch.Type, &ch.Cost,
			&ch.Impact.Warmth, &ch.Impact.Reliability, &ch.Impact.Affordability, &ch.Impact.Agency, &ch.NextID)
		ch.RegionID = story.RegionID(region)
		return ch, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning choices: %w", err)
	}

	rows, err = c.pool.Query(ctx, `
SELECT region_id, letter_id, id, position, label, cost_label, cost, warmth, reliability, affordability, agency
FROM wallet_options`)
	if err != nil {
		return nil, fmt.Errorf("loading wallet options: %w", err)
	}
	snap.WalletOptions, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.WalletOptionRow, error) {
		var o store.WalletOptionRow
		var region string
		err := row.Scan(&region, &o.LetterID, &o.ID, &o.Position, &o.Label, &o.CostLabel, &o.Cost,
			&o.Impact.Warmth, &o.Impact.Reliability, &o.Impact.Affordability, &o.Impact.Agency)
		o.RegionID = story.RegionID(region)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning wallet options: %w", err)
	}

	return store.Assemble(&snap)
}

func (c *Client) PublishedHash(ctx context.Context) (string, error) {
	var hash string
	err := c.pool.QueryRow(ctx, `SELECT content_hash FROM catalog WHERE id = 1`).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading published hash: %w", err)
	}
	return hash, nil
}

func (c *Client) ListRegions(ctx context.Context) ([]store.RegionSummary, error) {
	rows, err := c.pool.Query(ctx, `
SELECT r.id, r.name, r.position, r.budget,
       (SELECT COUNT(*) FROM letters l WHERE l.region_id = r.id)::int,
       (SELECT COUNT(*) FROM choices ch WHERE ch.region_id = r.id)::int
FROM regions r
ORDER BY r.position`)
	if err != nil {
		return nil, fmt.Errorf("listing regions: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.RegionSummary, error) {
		var s store.RegionSummary
		var id string
		err := row.Scan(&id, &s.Name, &s.Position, &s.Budget, &s.Letters, &s.Choices)
		s.ID = story.RegionID(id)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning region summaries: %w", err)
	}
	return out, nil
}
