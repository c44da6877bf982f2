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

// Package config builds the effective Configuration from layered
// sources, per spec.md §4.D.
package config

import "time"

// Locals toggles local-directory caching bypass behaviour.
type Locals struct {
	Enabled bool `yaml:"enabled"`
}

// Updates governs the Source Resolver's cache-freshening policy.
type Updates struct {
	Force    bool          `yaml:"force"`
	Interval time.Duration `yaml:"interval"`
}

// Security governs the Script Host's execute/capture bridge.
// AllowExec is a tri-state: nil means "ask", true/false mean
// "allow/deny silently".
type Security struct {
	AllowExec *bool `yaml:"allow_exec"`
}

// Server holds settings only relevant to the out-of-process gRPC
// driver.
type Server struct {
	Banner *string `yaml:"banner"`
}

// Action is a named, CLI-invocable shortcut to a RenderArchetype,
// RenderCatalog, or RenderGroup action, keyed by name in
// Configuration.Actions.
type Action struct {
	Description string   `yaml:"description"`
	Archetype   string   `yaml:"archetype,omitempty"`
	Catalog     string   `yaml:"catalog,omitempty"`
	Answers     map[string]any `yaml:"answers,omitempty"`
}

// Configuration is the effective, merged settings object described in
// spec.md §3. It is mutable only during the merge step (Load);
// thereafter a render treats it as immutable.
type Configuration struct {
	Headless bool              `yaml:"headless"`
	Offline  bool              `yaml:"offline"`
	Locals   Locals            `yaml:"locals"`
	Updates  Updates           `yaml:"updates"`
	Security Security          `yaml:"security"`
	Switches map[string]struct{} `yaml:"-"`
	Answers  map[string]any    `yaml:"answers"`
	Actions  map[string]Action `yaml:"actions"`
	Server   Server            `yaml:"server"`
}

// Defaults returns the built-in baseline Configuration, equivalent to
// serialising the zero-value defaults to YAML and parsing them back as
// the first merge source (spec.md §4.D step 1).
func Defaults() *Configuration {
	return &Configuration{
		Headless: false,
		Offline:  false,
		Locals:   Locals{Enabled: false},
		Updates:  Updates{Force: false, Interval: 24 * time.Hour},
		Security: Security{AllowExec: nil},
		Switches: map[string]struct{}{},
		Answers:  map[string]any{},
		Actions:  map[string]Action{},
		Server:   Server{Banner: nil},
	}
}

// HasSwitch reports whether name is among the active switches.
func (c *Configuration) HasSwitch(name string) bool {
	_, ok := c.Switches[name]
	return ok
}
