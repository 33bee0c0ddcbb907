package ingest

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"penpals/internal/config"
	"penpals/internal/store"
	"penpals/internal/story"
	"penpals/internal/validate"
)

type mockPublisher struct {
	ensureCalled bool
	hash         string
	published    []*story.Catalog
	failPublish  bool
}

func (m *mockPublisher) EnsureSchema(ctx context.Context) error {
	m.ensureCalled = true
	return nil
}

func (m *mockPublisher) PublishedHash(ctx context.Context) (string, error) {
	return m.hash, nil
}

func (m *mockPublisher) ReplaceCatalog(ctx context.Context, cat *story.Catalog) (store.Counts, error) {
	if m.failPublish {
		return store.Counts{}, errors.New("forced error")
	}
	m.published = append(m.published, cat)
	hash, err := store.Fingerprint(cat)
	if err != nil {
		return store.Counts{}, err
	}
	m.hash = hash
	snap, err := store.Flatten(cat)
	if err != nil {
		return store.Counts{}, err
	}
	return snap.Counts(), nil
}

func TestRun_PublishesEmbeddedContent(t *testing.T) {
	cfg := config.Default()
	db := &mockPublisher{}

	result, err := Run(context.Background(), cfg, nil, db, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !db.ensureCalled {
		t.Fatalf("expected EnsureSchema to be called")
	}
	if result.Skipped {
		t.Fatalf("expected first run to publish")
	}
	if result.Counts.Regions != 4 || result.Counts.Letters != 12 {
		t.Fatalf("unexpected counts: %#v", result.Counts)
	}
	if result.Hash == "" || result.Hash != db.hash {
		t.Fatalf("expected hash %q to be recorded, got %q", result.Hash, db.hash)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", result.Warnings)
	}
}

func TestRun_SkipsUnchangedContent(t *testing.T) {
	cfg := config.Default()
	db := &mockPublisher{}

	if _, err := Run(context.Background(), cfg, nil, db, Options{}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	result, err := Run(context.Background(), cfg, nil, db, Options{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !result.Skipped || len(db.published) != 1 {
		t.Fatalf("expected unchanged content to be skipped, published %d times", len(db.published))
	}

	result, err = Run(context.Background(), cfg, nil, db, Options{Full: true})
	if err != nil {
		t.Fatalf("full run: %v", err)
	}
	if result.Skipped || len(db.published) != 2 {
		t.Fatalf("expected full run to republish")
	}
}

func TestRun_InvalidContentIsNotPublished(t *testing.T) {
	fsys := fstest.MapFS{
		"catalog.yaml":      {Data: []byte("version: 1\nregions: [north]\n")},
		"north/region.yaml": {Data: []byte("name: North\nbudget: 100\nletters: [n1]\n")},
		"north/n1.md":       {Data: []byte("---\nid: n1\nsender: Lusa\nchoices:\n  - { id: c1, text: go, next: n7 }\n---\nbody\n")},
	}
	db := &mockPublisher{}

	_, err := Run(context.Background(), config.Default(), fsys, db, Options{})
	if !errors.Is(err, validate.ErrInvalidContent) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(db.published) != 0 || db.ensureCalled {
		t.Fatalf("expected nothing to be written")
	}
}

func TestRun_WarningsAreReported(t *testing.T) {
	fsys := fstest.MapFS{
		"catalog.yaml":      {Data: []byte("version: 1\nregions: [north]\n")},
		"north/region.yaml": {Data: []byte("name: North\nbudget: 100\nletters: [n1]\n")},
		"north/n1.md":       {Data: []byte("---\nid: n1\nchoices:\n  - { id: c1, text: end }\n---\nbody\n")},
	}
	db := &mockPublisher{}

	result, err := Run(context.Background(), config.Default(), fsys, db, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Code != "missing_sender" {
		t.Fatalf("expected missing_sender warning, got %v", result.Warnings)
	}
	if len(db.published) != 1 {
		t.Fatalf("expected catalog to be published")
	}
}

func TestRun_LoadAndPublishErrors(t *testing.T) {
	t.Run("load error", func(t *testing.T) {
		_, err := Run(context.Background(), config.Default(), fstest.MapFS{}, &mockPublisher{}, Options{})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("publish error", func(t *testing.T) {
		_, err := Run(context.Background(), config.Default(), nil, &mockPublisher{failPublish: true}, Options{})
		if err == nil {
			t.Fatalf("expected error")
		}
	})
}
