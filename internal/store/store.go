package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"penpals/internal/story"
)

var ErrNoCatalog = errors.New("no catalog has been published")

// Store holds one published content release. Publishing replaces the
// previous release as a whole.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	ReplaceCatalog(ctx context.Context, cat *story.Catalog) (Counts, error)
	LoadCatalog(ctx context.Context) (*story.Catalog, error)
	// PublishedHash returns "" when nothing has been published yet.
	PublishedHash(ctx context.Context) (string, error)
	ListRegions(ctx context.Context) ([]RegionSummary, error)

	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

const (
	SchemeSQLite   = "sqlite"
	SchemePostgres = "postgres"
)

// Scheme returns the driver a DSN selects.
func Scheme(dsn string) (string, error) {
	scheme, _, ok := strings.Cut(dsn, "://")
	if !ok {
		return "", fmt.Errorf("invalid database DSN %q: missing scheme", dsn)
	}
	switch scheme {
	case "sqlite":
		return SchemeSQLite, nil
	case "postgres", "postgresql":
		return SchemePostgres, nil
	default:
		return "", fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// PositionalArgs orders params keyed "1", "2", ... into a positional slice.
// Missing keys end the list.
func PositionalArgs(params map[string]any) []any {
	args := make([]any, 0, len(params))
	for i := 1; i <= len(params); i++ {
		val, ok := params[strconv.Itoa(i)]
		if !ok {
			break
		}
		args = append(args, val)
	}
	return args
}
