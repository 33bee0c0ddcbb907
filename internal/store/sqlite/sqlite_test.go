package sqlite

import (
	"context"
	"errors"
	"testing"

	"penpals/content"
	"penpals/internal/store"
	"penpals/internal/story"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		want    string
		wantErr bool
	}{
		{name: "memory", dsn: "sqlite://:memory:", want: ":memory:"},
		{name: "relative", dsn: "sqlite://./penpals.db", want: "./penpals.db"},
		{name: "bare relative", dsn: "sqlite://penpals.db", want: "./penpals.db"},
		{name: "parent", dsn: "sqlite://../data/penpals.db", want: "../data/penpals.db"},
		{name: "absolute", dsn: "sqlite:///var/lib/penpals.db", want: "/var/lib/penpals.db"},
		{name: "escaped", dsn: "sqlite://my%20data.db", want: "./my data.db"},
		{name: "query", dsn: "sqlite://penpals.db?_pragma=busy_timeout(5000)", want: "./penpals.db?_pragma=busy_timeout(5000)"},
		{name: "wrong scheme", dsn: "postgres://localhost/db", wantErr: true},
		{name: "empty path", dsn: "sqlite://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDSN(tt.dsn)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parseDSN(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}

func openMemory(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	client, err := New(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { client.Close(ctx) })
	if err := client.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := client.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema twice: %v", err)
	}
	return client
}

func TestLoadCatalogEmpty(t *testing.T) {
	client := openMemory(t)
	_, err := client.LoadCatalog(context.Background())
	if !errors.Is(err, store.ErrNoCatalog) {
		t.Fatalf("expected ErrNoCatalog, got %v", err)
	}
	hash, err := client.PublishedHash(context.Background())
	if err != nil || hash != "" {
		t.Fatalf("expected empty hash, got %q, %v", hash, err)
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := openMemory(t)

	cat, err := story.Load(content.FS)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	counts, err := client.ReplaceCatalog(ctx, cat)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if counts.Regions != 4 || counts.Letters != 12 || counts.Choices == 0 || counts.WalletOptions == 0 {
		t.Fatalf("unexpected counts: %#v", counts)
	}

	// publishing twice replaces rather than duplicates
	if _, err := client.ReplaceCatalog(ctx, cat); err != nil {
		t.Fatalf("replace again: %v", err)
	}

	loaded, err := client.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	want, _ := store.Flatten(cat)
	got, _ := store.Flatten(loaded)
	if len(got.Regions) != len(want.Regions) {
		t.Fatalf("expected %d regions, got %d", len(want.Regions), len(got.Regions))
	}
	for i := range want.Regions {
		if got.Regions[i] != want.Regions[i] {
			t.Fatalf("region %d differs:\n got %#v\nwant %#v", i, got.Regions[i], want.Regions[i])
		}
	}
	for i := range want.Letters {
		if got.Letters[i] != want.Letters[i] {
			t.Fatalf("letter %d differs", i)
		}
	}
	for i := range want.Choices {
		if got.Choices[i] != want.Choices[i] {
			t.Fatalf("choice %d differs:\n got %#v\nwant %#v", i, got.Choices[i], want.Choices[i])
		}
	}
	for i := range want.WalletOptions {
		if got.WalletOptions[i] != want.WalletOptions[i] {
			t.Fatalf("wallet option %d differs", i)
		}
	}
	if got.Catalog != want.Catalog {
		t.Fatalf("catalog row differs")
	}
	hash, err := client.PublishedHash(ctx)
	if err != nil {
		t.Fatalf("published hash: %v", err)
	}
	if hash == "" || hash != want.Catalog.Hash {
		t.Fatalf("expected published hash %q, got %q", want.Catalog.Hash, hash)
	}

	regions, err := client.ListRegions(ctx)
	if err != nil {
		t.Fatalf("list regions: %v", err)
	}
	if len(regions) != 4 || regions[0].ID != "north" || regions[0].Letters != 3 || regions[0].Budget != 500 {
		t.Fatalf("unexpected regions: %#v", regions)
	}

	rows, err := client.RunSQL(ctx, "SELECT id, budget FROM regions WHERE budget > ? ORDER BY position", map[string]any{"1": 800})
	if err != nil {
		t.Fatalf("run sql: %v", err)
	}
	if len(rows) != 2 || rows[0]["id"] != "rural" || rows[1]["id"] != "city" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}
