package ingest

import (
	"context"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"penpals/internal/config"
	"penpals/internal/store"
	"penpals/internal/story"
	"penpals/internal/validate"
)

// Publisher is the part of store.Store that ingestion writes through.
type Publisher interface {
	EnsureSchema(ctx context.Context) error
	PublishedHash(ctx context.Context) (string, error)
	ReplaceCatalog(ctx context.Context, cat *story.Catalog) (store.Counts, error)
}

type Options struct {
	// Full republishes even when the content hash is unchanged.
	Full   bool
	Logger *zap.Logger
}

type Result struct {
	Counts   store.Counts
	Hash     string
	Skipped  bool
	Warnings []validate.Issue
}

// Run loads the content tree, refuses to publish it when validation reports
// errors, and replaces the published catalog otherwise. A nil fsys selects the
// content configured in cfg.
func Run(ctx context.Context, cfg *config.ProjectConfig, fsys fs.FS, db Publisher, options Options) (*Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if fsys == nil {
		fsys = cfg.Content.FS()
	}

	cat, err := story.Load(fsys)
	if err != nil {
		return nil, err
	}

	report := validate.Run(cat)
	if err := report.Err(); err != nil {
		return nil, err
	}
	result := &Result{Warnings: report.Warnings()}
	for _, issue := range result.Warnings {
		logger.Warn("content warning", zap.String("issue", issue.String()))
	}

	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	hash, err := store.Fingerprint(cat)
	if err != nil {
		return nil, err
	}
	result.Hash = hash

	if !options.Full {
		published, err := db.PublishedHash(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading published hash: %w", err)
		}
		if published == hash {
			result.Skipped = true
			logger.Info("content unchanged, skipping publish", zap.String("project", cfg.Project), zap.String("hash", hash))
			return result, nil
		}
	}

	counts, err := db.ReplaceCatalog(ctx, cat)
	if err != nil {
		return nil, fmt.Errorf("publishing catalog: %w", err)
	}
	result.Counts = counts
	logger.Info("content published",
		zap.String("project", cfg.Project),
		zap.String("hash", hash),
		zap.Int("regions", counts.Regions),
		zap.Int("letters", counts.Letters),
		zap.Int("choices", counts.Choices),
		zap.Int("wallet_options", counts.WalletOptions),
	)
	return result, nil
}
