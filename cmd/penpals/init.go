package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"penpals/content"
)

func initCmd() *cobra.Command {
	var projectName string
	var withContent bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new penpals project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(".", projectName, withContent)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().BoolVar(&withContent, "with-content", false, "Copy the built-in content into ./content for editing")
	return cmd
}

func runInit(dir, projectName string, withContent bool) error {
	configPath := filepath.Join(dir, "penpals.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	contentPath := ""
	if withContent {
		contentPath = "./content"
		target := filepath.Join(dir, "content")
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%s already exists", target)
		}
		if err := copyContent(target); err != nil {
			return err
		}
	}

	configContents := fmt.Sprintf("project: %s\nversion: 1\n\ncontent:\n  path: %q\n\ndatabase:\n  dsn: sqlite://./penpals.db\n\nserver:\n  addr: \":8080\"\n\nlog:\n  level: info\n  encoding: console\n", projectName, contentPath)
	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	return nil
}

func copyContent(target string) error {
	return fs.WalkDir(content.FS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		dest := filepath.Join(target, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}
		data, err := fs.ReadFile(content.FS, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
		return nil
	})
}
