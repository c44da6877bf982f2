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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLayout struct {
	configPath string
	etcD       string
}

func (l testLayout) ConfigurationPath() string { return l.configPath }
func (l testLayout) EtcDDir() string           { return l.etcD }

func newTestLayout(t *testing.T) testLayout {
	t.Helper()
	root := t.TempDir()
	etcD := filepath.Join(root, "etc.d")
	require.NoError(t, os.MkdirAll(etcD, 0o755))
	return testLayout{configPath: filepath.Join(root, "archetect.yaml"), etcD: etcD}
}

func TestLoadDefaultsOnly(t *testing.T) {
	l := newTestLayout(t)
	cfg, err := Load(context.Background(), l, "")
	require.NoError(t, err)
	assert.False(t, cfg.Headless)
	assert.False(t, cfg.Offline)
	assert.Equal(t, 24*time.Hour, cfg.Updates.Interval)
	assert.Nil(t, cfg.Security.AllowExec)
}

func TestLoadSystemConfigOverridesDefaults(t *testing.T) {
	l := newTestLayout(t)
	require.NoError(t, os.WriteFile(l.configPath, []byte("headless: true\nupdates:\n  interval: 1h\n"), 0o644))

	cfg, err := Load(context.Background(), l, "")
	require.NoError(t, err)
	assert.True(t, cfg.Headless)
	assert.Equal(t, time.Hour, cfg.Updates.Interval)
}

func TestLoadEtcDInLexicalOrder(t *testing.T) {
	l := newTestLayout(t)
	require.NoError(t, os.WriteFile(filepath.Join(l.etcD, "10-base.yaml"), []byte("offline: false\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(l.etcD, "20-override.yaml"), []byte("offline: true\n"), 0o644))

	cfg, err := Load(context.Background(), l, "")
	require.NoError(t, err)
	assert.True(t, cfg.Offline, "later file in lexical order must win")
}

func TestLoadProjectFilesInOrder(t *testing.T) {
	l := newTestLayout(t)
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".archetect.yaml"), []byte("headless: true\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archetect.yaml"), []byte("headless: false\n"), 0o644))

	cfg, err := Load(context.Background(), l, "")
	require.NoError(t, err)
	assert.False(t, cfg.Headless, "archetect.yaml is read after .archetect.yaml and must win")
}

func TestLoadConfigFileFlag(t *testing.T) {
	l := newTestLayout(t)
	extra := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(extra, []byte("offline: true\n"), 0o644))

	cfg, err := Load(context.Background(), l, extra)
	require.NoError(t, err)
	assert.True(t, cfg.Offline)
}

func TestAnswersMergeShallowPerKey(t *testing.T) {
	l := newTestLayout(t)
	require.NoError(t, os.WriteFile(l.configPath, []byte("answers:\n  name: base\n  keep: yes-value\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(l.etcD, "10-extra.yaml"), []byte("answers:\n  name: overridden\n"), 0o644))

	cfg, err := Load(context.Background(), l, "")
	require.NoError(t, err)
	assert.Equal(t, "overridden", cfg.Answers["name"])
	assert.Equal(t, "yes-value", cfg.Answers["keep"])
}

func TestActionsReplaceWholesalePerKey(t *testing.T) {
	l := newTestLayout(t)
	require.NoError(t, os.WriteFile(l.configPath, []byte(`
actions:
  demo:
    description: original
    archetype: git@github.com:acme/original.git
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(l.etcD, "10-extra.yaml"), []byte(`
actions:
  demo:
    description: replaced
    archetype: git@github.com:acme/replaced.git
`), 0o644))

	cfg, err := Load(context.Background(), l, "")
	require.NoError(t, err)
	require.Contains(t, cfg.Actions, "demo")
	assert.Equal(t, "replaced", cfg.Actions["demo"].Description)
	assert.Equal(t, "git@github.com:acme/replaced.git", cfg.Actions["demo"].Archetype)
}

func TestApplyOverridesOnlyExplicit(t *testing.T) {
	cfg := Defaults()
	forceTrue := true
	Apply(cfg, Overrides{ForceUpdate: &forceTrue})
	assert.True(t, cfg.Updates.Force)
	assert.False(t, cfg.Offline, "unset overrides must not mutate other fields")
}

func TestApplyOverridesAllowExec(t *testing.T) {
	cfg := Defaults()
	deny := false
	Apply(cfg, Overrides{AllowExec: &deny})
	require.NotNil(t, cfg.Security.AllowExec)
	assert.False(t, *cfg.Security.AllowExec)
}
