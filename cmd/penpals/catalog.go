package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"penpals/internal/config"
	"penpals/internal/story"
	"penpals/internal/validate"
)

// loadCatalog returns the content a session should play: the configured
// content tree, or the release published to the database when fromDB is set.
// Content with validation errors is refused.
func loadCatalog(ctx context.Context, cfg *config.ProjectConfig, fromDB bool, logger *zap.Logger) (*story.Catalog, error) {
	var cat *story.Catalog
	if fromDB {
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer db.Close(ctx)

		cat, err = db.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		cat, err = story.Load(cfg.Content.FS())
		if err != nil {
			return nil, err
		}
	}

	report := validate.Run(cat)
	if report.HasErrors() {
		printReport(os.Stderr, report)
		return nil, report.Err()
	}
	for _, issue := range report.Warnings() {
		logger.Warn("content warning", zap.String("issue", issue.String()))
	}
	logger.Info("catalog loaded",
		zap.Bool("from_db", fromDB),
		zap.Int("regions", cat.Len()),
		zap.Int("version", cat.Version),
	)
	return cat, nil
}

func describeSource(cfg *config.ProjectConfig) string {
	if cfg.Content.Path == "" {
		return "embedded content"
	}
	return fmt.Sprintf("content at %s", cfg.Content.Path)
}
