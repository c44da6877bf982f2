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

// Package render implements the Template Engine Binding (spec.md §4.F)
// and the directory-tree half of the Render Orchestrator (spec.md
// §4.I): content classification, path/body rendering, and emitting
// WriteDirectory/WriteFile messages. Archetype/catalog composition (the
// other half of §4.I) is driven by pkg/script, which depends on this
// package rather than the reverse.
package render

// EmbeddedInfo describes the parent archetype a child render was
// invoked from, surfaced to scripts that need to know they are running
// nested (spec.md §3, RenderContext "optional embedded archetype
// info").
type EmbeddedInfo struct {
	ParentSource      string
	ParentDestination string
}

// Context is the per-render mutable state threaded through a script,
// spec.md §3's RenderContext. One Context exists per top-level render;
// Clone produces the extended context passed to a child archetype
// invocation.
type Context struct {
	Destination    string
	Answers        map[string]any
	Switches       map[string]struct{}
	UseDefaults    map[string]struct{}
	UseDefaultsAll bool
	Embedded       *EmbeddedInfo

	// visited tracks (source, destination) pairs already entered by an
	// archetype render, per spec.md §9's optional cycle-detection note.
	// Shared by reference across Clone so a cycle is caught regardless
	// of how deep the recursion nests.
	visited map[string]struct{}
}

// NewContext builds the top-level RenderContext for a fresh render.
func NewContext(destination string, answers map[string]any, switches []string, useDefaults []string, useDefaultsAll bool) *Context {
	switchSet := make(map[string]struct{}, len(switches))
	for _, s := range switches {
		switchSet[s] = struct{}{}
	}
	defaultSet := make(map[string]struct{}, len(useDefaults))
	for _, k := range useDefaults {
		defaultSet[k] = struct{}{}
	}
	answersCopy := make(map[string]any, len(answers))
	for k, v := range answers {
		answersCopy[k] = v
	}
	return &Context{
		Destination:    destination,
		Answers:        answersCopy,
		Switches:       switchSet,
		UseDefaults:    defaultSet,
		UseDefaultsAll: useDefaultsAll,
		visited:        map[string]struct{}{},
	}
}

// HasSwitch reports whether name is an active switch.
func (c *Context) HasSwitch(name string) bool {
	_, ok := c.Switches[name]
	return ok
}

// ShouldUseDefault reports whether key must accept its prompt default
// silently, per the UseDefaultsAll / UseDefaults union spec.md §4.H
// step 3 describes.
func (c *Context) ShouldUseDefault(key string) bool {
	if c.UseDefaultsAll {
		return true
	}
	_, ok := c.UseDefaults[key]
	return ok
}

// Clone produces the RenderContext for a child archetype invocation:
// destination is overridden, answers are shallow-merged with overrides
// winning, and the visited set is shared so cross-child cycles are
// still caught.
func (c *Context) Clone(destination string, overrides map[string]any, embedded *EmbeddedInfo) *Context {
	merged := make(map[string]any, len(c.Answers)+len(overrides))
	for k, v := range c.Answers {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return &Context{
		Destination:    destination,
		Answers:        merged,
		Switches:       c.Switches,
		UseDefaults:    c.UseDefaults,
		UseDefaultsAll: c.UseDefaultsAll,
		Embedded:       embedded,
		visited:        c.visited,
	}
}

// Enter records (source, destination) as visited and reports whether it
// had already been visited (a cycle). pkg/script calls it for every
// archetype it renders.
func (c *Context) Enter(source, destination string) (alreadyVisited bool) {
	key := source + "\x00" + destination
	if _, ok := c.visited[key]; ok {
		return true
	}
	c.visited[key] = struct{}{}
	return false
}
