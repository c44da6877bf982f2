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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchetypeSchemaReflectsKnownFields(t *testing.T) {
	s := ArchetypeSchema()
	require.NotNil(t, s)
	require.NotNil(t, s.Properties)

	_, ok := s.Properties.Get("description")
	assert.True(t, ok, "archetype.yaml schema must describe 'description'")
	_, ok = s.Properties.Get("requires")
	assert.True(t, ok, "archetype.yaml schema must describe 'requires'")
}

func TestCatalogSchemaReflectsKnownFields(t *testing.T) {
	s := CatalogSchema()
	require.NotNil(t, s)
	require.NotNil(t, s.Properties)

	_, ok := s.Properties.Get("description")
	assert.True(t, ok, "catalog.yaml schema must describe 'description'")
}
