package main

import (
	"os"
	"path/filepath"
	"testing"

	"penpals/internal/config"
	"penpals/internal/story"
	"penpals/internal/validate"
)

func TestRunInit(t *testing.T) {
	dir := t.TempDir()

	if err := runInit(dir, "my-penpals", true); err != nil {
		t.Fatalf("init: %v", err)
	}

	cfg, err := config.LoadProjectConfig(filepath.Join(dir, "penpals.yaml"))
	if err != nil {
		t.Fatalf("load generated config: %v", err)
	}
	if cfg.Project != "my-penpals" || cfg.Content.Path != "./content" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	cat, err := story.Load(os.DirFS(filepath.Join(dir, "content")))
	if err != nil {
		t.Fatalf("load copied content: %v", err)
	}
	if report := validate.Run(cat); report.HasErrors() {
		t.Fatalf("copied content has errors: %v", report.Err())
	}

	if err := runInit(dir, "again", false); err == nil {
		t.Fatalf("expected existing config to be refused")
	}
}

func TestRunInit_WithoutContent(t *testing.T) {
	dir := t.TempDir()

	if err := runInit(dir, "bare", false); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := config.LoadProjectConfig(filepath.Join(dir, "penpals.yaml"))
	if err != nil {
		t.Fatalf("load generated config: %v", err)
	}
	if cfg.Content.Path != "" {
		t.Fatalf("expected embedded content, got path %q", cfg.Content.Path)
	}
	if _, err := os.Stat(filepath.Join(dir, "content")); !os.IsNotExist(err) {
		t.Fatalf("expected no content directory")
	}
}
