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

// Package manifest parses archetype.yaml/catalog.yaml manifests and
// enforces their declared version requirements against the running
// binary, per spec.md §4.C and §4.K.
package manifest

// Templating declares the conventional subdirectories an archetype
// separates rendered content from copy-verbatim templates in, per
// spec.md §3.
type Templating struct {
	ContentDirectory   string `yaml:"content_directory,omitempty"`
	TemplatesDirectory string `yaml:"templates_directory,omitempty"`
}

// DefaultTemplating returns the conventional defaults: contents/ and
// templates/.
func DefaultTemplating() Templating {
	return Templating{ContentDirectory: "contents", TemplatesDirectory: "templates"}
}

// Requires pins the minimum host and script-engine versions an archetype
// was authored against.
type Requires struct {
	Archetect    string `yaml:"archetect,omitempty"`
	ScriptEngine string `yaml:"script_engine,omitempty"`
}

// ArchetypeManifest is the declarative header of an archetype. It is
// immutable once loaded.
type ArchetypeManifest struct {
	Description string            `yaml:"description"`
	Authors     []string          `yaml:"authors,omitempty"`
	Languages   []string          `yaml:"languages,omitempty"`
	Tags        []string          `yaml:"tags,omitempty"`
	Templating  Templating        `yaml:"templating,omitempty"`
	Script      string            `yaml:"script,omitempty"`
	Requires    Requires          `yaml:"requires,omitempty"`
	Metadata    map[string]string `yaml:"metadata,omitempty"`
}

// ScriptPath returns the configured script path, defaulting to
// archetype.rhai's Go-native equivalent.
func (m ArchetypeManifest) ScriptPath() string {
	if m.Script != "" {
		return m.Script
	}
	return "archetype.script"
}

// ContentDirectory returns the configured content directory or its
// default.
func (m ArchetypeManifest) ContentDirectory() string {
	if m.Templating.ContentDirectory != "" {
		return m.Templating.ContentDirectory
	}
	return "contents"
}

// TemplatesDirectory returns the configured templates directory or its
// default.
func (m ArchetypeManifest) TemplatesDirectory() string {
	if m.Templating.TemplatesDirectory != "" {
		return m.Templating.TemplatesDirectory
	}
	return "templates"
}
