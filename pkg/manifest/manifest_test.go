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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleArchetype = `
description: A minimal example archetype
authors:
  - Jane Doe
tags:
  - example
templating:
  content_directory: contents
  templates_directory: templates
requires:
  archetect: ">=2.0.0"
  script_engine: ">=1.0.0"
`

const exampleCatalog = `
description: Example catalog
entries:
  - description: Render the example
    archetype: git@github.com:acme/example.git
  - description: A nested group
    group:
      - description: Another catalog
        catalog: git@github.com:acme/sub-catalog.git
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadArchetypeManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ArchetypeManifestFileName, exampleArchetype)

	m, err := LoadArchetypeManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, "A minimal example archetype", m.Description)
	assert.Equal(t, "contents", m.ContentDirectory())
	assert.Equal(t, "templates", m.TemplatesDirectory())
	assert.Equal(t, ">=2.0.0", m.Requires.Archetect)
}

func TestLoadArchetypeManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ArchetypeManifestFileName, "description: no templating section\n")

	m, err := LoadArchetypeManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, "contents", m.ContentDirectory())
	assert.Equal(t, "templates", m.TemplatesDirectory())
	assert.Equal(t, "archetype.script", m.ScriptPath())
}

func TestLoadCatalogManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, CatalogManifestFileName, exampleCatalog)

	cm, err := LoadCatalogManifest(dir)
	require.NoError(t, err)
	require.Len(t, cm.Actions, 2)
	assert.Equal(t, ActionRenderArchetype, cm.Actions[0].Kind)
	assert.Equal(t, ActionRenderGroup, cm.Actions[1].Kind)
	require.Len(t, cm.Actions[1].Actions, 1)
	assert.Equal(t, ActionRenderCatalog, cm.Actions[1].Actions[0].Kind)
}

func TestLoadCatalogManifestRejectsAmbiguousEntry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, CatalogManifestFileName, `
description: bad
entries:
  - description: both set
    archetype: git@github.com:acme/a.git
    catalog: git@github.com:acme/b.git
`)
	_, err := LoadCatalogManifest(dir)
	require.Error(t, err)
}

func TestDetectArchetype(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ArchetypeManifestFileName, exampleArchetype)

	m, err := Detect(dir)
	require.NoError(t, err)
	assert.False(t, m.IsCatalog)
	require.NotNil(t, m.Archetype)
}

func TestDetectCatalog(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, CatalogManifestFileName, exampleCatalog)

	m, err := Detect(dir)
	require.NoError(t, err)
	assert.True(t, m.IsCatalog)
	require.NotNil(t, m.Catalog)
}

func TestDetectAmbiguous(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ArchetypeManifestFileName, exampleArchetype)
	writeFile(t, dir, CatalogManifestFileName, exampleCatalog)

	_, err := Detect(dir)
	require.Error(t, err)
	var mErr *Error
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, ErrAmbiguousKind, mErr.Kind)
}

func TestDetectNeither(t *testing.T) {
	dir := t.TempDir()
	_, err := Detect(dir)
	require.Error(t, err)
	var mErr *Error
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, ErrNotFound, mErr.Kind)
}
