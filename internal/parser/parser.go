package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a letter file: YAML frontmatter between "---" markers followed
// by the letter's rich-text body.
type Document struct {
	Frontmatter map[string]any
	ID          string
	Body        string
	SourceFile  string

	raw []byte
}

var (
	ErrNoFrontmatter = errors.New("no frontmatter found")
	ErrInvalidYAML   = errors.New("invalid YAML in frontmatter")
	ErrMissingID     = errors.New("frontmatter missing required 'id' field")
)

func ParseFile(fsys fs.FS, path string) (*Document, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.SourceFile = path
	return doc, nil
}

func Parse(content []byte) (*Document, error) {
	trimmed := bytes.TrimLeft(content, "\ufeff\n\r\t ")
	trimmed = bytes.ReplaceAll(trimmed, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(trimmed, []byte("---\n")) {
		return nil, ErrNoFrontmatter
	}

	rest := trimmed[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---\n"))
	if end == -1 {
		if !bytes.HasSuffix(rest, []byte("\n---")) {
			return nil, ErrNoFrontmatter
		}
		end = len(rest) - len("\n---")
	}

	yamlBytes := rest[:end]
	body := ""
	if bodyStart := end + len("\n---\n"); bodyStart <= len(rest) {
		body = string(rest[bodyStart:])
	}

	var frontmatter map[string]any
	if err := yaml.Unmarshal(yamlBytes, &frontmatter); err != nil {
		return nil, ErrInvalidYAML
	}

	id, ok := frontmatter["id"].(string)
	if !ok || strings.TrimSpace(id) == "" {
		return nil, ErrMissingID
	}

	return &Document{
		Frontmatter: frontmatter,
		ID:          strings.TrimSpace(id),
		Body:        strings.TrimSpace(body),
		raw:         yamlBytes,
	}, nil
}

// Decode unmarshals the frontmatter into v.
func (d *Document) Decode(v any) error {
	if err := yaml.Unmarshal(d.raw, v); err != nil {
		return fmt.Errorf("decoding frontmatter: %w", err)
	}
	return nil
}
