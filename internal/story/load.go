package story

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"penpals/internal/parser"
)

const (
	catalogFile = "catalog.yaml"
	regionFile  = "region.yaml"
	letterExt   = ".md"
)

type catalogManifest struct {
	Version int        `yaml:"version"`
	Regions []RegionID `yaml:"regions"`
	Sources []Source   `yaml:"sources"`
}

type regionManifest struct {
	Region  `yaml:",inline"`
	Letters []string `yaml:"letters"`
}

// Load reads an authored content tree:
//
//	catalog.yaml            version, region order, global sources
//	<region>/region.yaml    region metadata and ordered letter ids
//	<region>/<letter>.md    letter frontmatter and body
//
// Load only decodes. Graph integrity is checked by the validate package.
func Load(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, catalogFile)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	var manifest catalogManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	if manifest.Version != 1 {
		return nil, fmt.Errorf("loading catalog: unsupported version: %d", manifest.Version)
	}

	var errs []error
	regions := make([]Region, 0, len(manifest.Regions))
	for _, id := range manifest.Regions {
		region, err := loadRegion(fsys, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		regions = append(regions, *region)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("loading catalog: %w", errors.Join(errs...))
	}

	return NewCatalog(manifest.Version, manifest.Sources, regions), nil
}

func loadRegion(fsys fs.FS, id RegionID) (*Region, error) {
	dir := string(id)
	data, err := fs.ReadFile(fsys, path.Join(dir, regionFile))
	if err != nil {
		return nil, fmt.Errorf("region %s: %w", id, err)
	}

	var manifest regionManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("region %s: %w", id, err)
	}
	region := manifest.Region
	if region.ID == "" {
		region.ID = id
	}
	if region.ID != id {
		return nil, fmt.Errorf("region %s: region.yaml declares id %q", id, region.ID)
	}

	listed := make(map[string]struct{}, len(manifest.Letters))
	for _, letterID := range manifest.Letters {
		listed[letterID] = struct{}{}
		letter, err := loadLetter(fsys, dir, letterID)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", id, err)
		}
		region.Letters = append(region.Letters, *letter)
	}

	files, err := fs.Glob(fsys, path.Join(dir, "*"+letterExt))
	if err != nil {
		return nil, fmt.Errorf("region %s: %w", id, err)
	}
	sort.Strings(files)
	for _, file := range files {
		letterID := strings.TrimSuffix(path.Base(file), letterExt)
		if _, ok := listed[letterID]; !ok {
			return nil, fmt.Errorf("region %s: letter file %s is not listed in %s", id, file, regionFile)
		}
	}

	return &region, nil
}

func loadLetter(fsys fs.FS, dir, id string) (*Letter, error) {
	doc, err := parser.ParseFile(fsys, path.Join(dir, id+letterExt))
	if err != nil {
		return nil, fmt.Errorf("letter %s: %w", id, err)
	}
	if doc.ID != id {
		return nil, fmt.Errorf("letter %s: frontmatter declares id %q", id, doc.ID)
	}

	var letter Letter
	if err := doc.Decode(&letter); err != nil {
		return nil, fmt.Errorf("letter %s: %w", id, err)
	}
	letter.Content = doc.Body
	return &letter, nil
}
