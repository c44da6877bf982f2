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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/chainguard-dev/clog"
	"gopkg.in/yaml.v3"
)

// fileLocalsYAML, fileUpdatesYAML, fileSecurityYAML, fileServerYAML
// use pointer leaves so that a field absent from a given YAML document
// is distinguishable from a field explicitly set to its zero value,
// which later-wins scalar overriding depends on.
type fileLocalsYAML struct {
	Enabled *bool `yaml:"enabled"`
}

type fileUpdatesYAML struct {
	Force    *bool   `yaml:"force"`
	Interval *string `yaml:"interval"`
}

type fileSecurityYAML struct {
	AllowExec *bool `yaml:"allow_exec"`
}

type fileServerYAML struct {
	Banner *string `yaml:"banner"`
}

type fileConfigYAML struct {
	Headless *bool              `yaml:"headless"`
	Offline  *bool              `yaml:"offline"`
	Locals   *fileLocalsYAML    `yaml:"locals"`
	Updates  *fileUpdatesYAML   `yaml:"updates"`
	Security *fileSecurityYAML  `yaml:"security"`
	Switches []string           `yaml:"switches"`
	Answers  map[string]any     `yaml:"answers"`
	Actions  map[string]Action  `yaml:"actions"`
	Server   *fileServerYAML    `yaml:"server"`
}

// Layout is the subset of layout.Layout the merger needs; defined
// locally to avoid an import cycle (layout never needs config).
type Layout interface {
	ConfigurationPath() string
	EtcDDir() string
}

// Load builds the effective Configuration by applying, in order, the
// built-in defaults, the system configuration file, every *.yaml/*.yml
// file under etc.d in lexical order, the conventional project-local
// dotfiles, and an optional extra file named by configFileFlag.
// CLI/env overrides are applied separately via Apply, after Load,
// because only the caller (the CLI layer) knows which flags the user
// explicitly set. Per spec.md §4.D, this function implements steps 1-5;
// Apply implements step 6.
func Load(ctx context.Context, l Layout, configFileFlag string) (*Configuration, error) {
	cfg := Defaults()

	if data, err := os.ReadFile(l.ConfigurationPath()); err == nil {
		if err := mergeYAML(ctx, cfg, data, l.ConfigurationPath()); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading system configuration: %w", err)
	}

	etcDFiles, err := sortedYAMLFiles(l.EtcDDir())
	if err != nil {
		return nil, err
	}
	for _, path := range etcDFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := mergeYAML(ctx, cfg, data, path); err != nil {
			return nil, err
		}
	}

	for _, name := range []string{".archetect.yaml", ".archetect.yml", "archetect.yaml", "archetect.yml"} {
		info, statErr := os.Stat(name)
		if statErr != nil || !info.Mode().IsRegular() {
			continue
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := mergeYAML(ctx, cfg, data, name); err != nil {
			return nil, err
		}
	}

	if configFileFlag != "" {
		expanded := expandPath(configFileFlag)
		data, err := os.ReadFile(expanded)
		if err != nil {
			return nil, fmt.Errorf("reading --config-file %s: %w", expanded, err)
		}
		if err := mergeYAML(ctx, cfg, data, expanded); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func sortedYAMLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func mergeYAML(ctx context.Context, cfg *Configuration, data []byte, source string) error {
	var patch fileConfigYAML
	if err := yaml.Unmarshal(data, &patch); err != nil {
		return fmt.Errorf("parsing %s: %w", source, err)
	}
	clog.FromContext(ctx).Debugf("config: merging %s", source)
	applyPatch(cfg, patch)
	return nil
}

func applyPatch(cfg *Configuration, patch fileConfigYAML) {
	if patch.Headless != nil {
		cfg.Headless = *patch.Headless
	}
	if patch.Offline != nil {
		cfg.Offline = *patch.Offline
	}
	if patch.Locals != nil && patch.Locals.Enabled != nil {
		cfg.Locals.Enabled = *patch.Locals.Enabled
	}
	if patch.Updates != nil {
		if patch.Updates.Force != nil {
			cfg.Updates.Force = *patch.Updates.Force
		}
		if patch.Updates.Interval != nil {
			if d, err := time.ParseDuration(*patch.Updates.Interval); err == nil {
				cfg.Updates.Interval = d
			}
		}
	}
	if patch.Security != nil && patch.Security.AllowExec != nil {
		v := *patch.Security.AllowExec
		cfg.Security.AllowExec = &v
	}
	if patch.Switches != nil {
		set := make(map[string]struct{}, len(patch.Switches))
		for _, s := range patch.Switches {
			set[s] = struct{}{}
		}
		cfg.Switches = set
	}
	for k, v := range patch.Answers {
		cfg.Answers[k] = v
	}
	if patch.Actions != nil {
		for k, v := range patch.Actions {
			cfg.Actions[k] = v
		}
	}
	if patch.Server != nil && patch.Server.Banner != nil {
		v := *patch.Server.Banner
		cfg.Server.Banner = &v
	}
}

func expandPath(path string) string {
	if path == "~" || (len(path) > 1 && path[:2] == "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			if path == "~" {
				return home
			}
			return filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}
