// Copyright 2024 Chainguard, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package manifest

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ArchetypeManifestFileName is the conventional archetype manifest
// filename within an archetype's source directory.
const ArchetypeManifestFileName = "archetype.yaml"

// CatalogManifestFileName is the conventional catalog manifest filename
// within a catalog's source directory.
const CatalogManifestFileName = "catalog.yaml"

// Manifest is the union of the two manifest kinds a directory can hold.
// Exactly one of Archetype or Catalog is non-nil, discriminated by
// IsCatalog.
type Manifest struct {
	IsCatalog bool
	Archetype *ArchetypeManifest
	Catalog   *CatalogManifest
}

// LoadArchetypeManifest parses dir/archetype.yaml.
func LoadArchetypeManifest(dir string) (*ArchetypeManifest, error) {
	path := filepath.Join(dir, ArchetypeManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, notFound(path, err)
	}
	var m ArchetypeManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, malformed(path, err)
	}
	return &m, nil
}

// LoadCatalogManifest parses dir/catalog.yaml.
func LoadCatalogManifest(dir string) (*CatalogManifest, error) {
	path := filepath.Join(dir, CatalogManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, notFound(path, err)
	}
	var raw catalogYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, malformed(path, err)
	}
	actions, err := convertEntries(raw.Entries)
	if err != nil {
		return nil, malformed(path, err)
	}
	return &CatalogManifest{Description: raw.Description, Actions: actions}, nil
}

// Detect determines whether dir holds an archetype manifest, a catalog
// manifest, or neither, by which manifest file exists: archetype.yaml
// alone loads an archetype, catalog.yaml alone loads a catalog, both
// is ErrAmbiguousKind and neither is ErrNotFound. The file contents are
// not inspected to decide the kind.
func Detect(dir string) (*Manifest, error) {
	archetypePath := filepath.Join(dir, ArchetypeManifestFileName)
	catalogPath := filepath.Join(dir, CatalogManifestFileName)

	_, archetypeErr := os.Stat(archetypePath)
	_, catalogErr := os.Stat(catalogPath)

	hasArchetype := archetypeErr == nil
	hasCatalog := catalogErr == nil

	switch {
	case hasArchetype && !hasCatalog:
		am, err := LoadArchetypeManifest(dir)
		if err != nil {
			return nil, err
		}
		return &Manifest{Archetype: am}, nil
	case hasCatalog && !hasArchetype:
		cm, err := LoadCatalogManifest(dir)
		if err != nil {
			return nil, err
		}
		return &Manifest{IsCatalog: true, Catalog: cm}, nil
	case hasArchetype && hasCatalog:
		return nil, ambiguousKind(dir)
	default:
		return nil, notFound(dir, nil)
	}
}
