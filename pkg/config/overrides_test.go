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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolp(b bool) *bool { return &b }

// TestApplyOnlySetsExplicitOverrides covers Testable Property 1: a nil
// override field must leave the merged Configuration untouched, only
// an explicitly-set pointer overrides the prior layer.
func TestApplyOnlySetsExplicitOverrides(t *testing.T) {
	cfg := Defaults()
	cfg.Offline = true
	cfg.Headless = true

	Apply(cfg, Overrides{})

	assert.True(t, cfg.Offline, "nil override must not reset an already-merged value")
	assert.True(t, cfg.Headless)
}

func TestApplyOverridesEachRecognisedField(t *testing.T) {
	cfg := Defaults()

	Apply(cfg, Overrides{
		ForceUpdate: boolp(true),
		Offline:     boolp(true),
		Headless:    boolp(true),
		Local:       boolp(true),
		AllowExec:   boolp(false),
	})

	assert.True(t, cfg.Updates.Force)
	assert.True(t, cfg.Offline)
	assert.True(t, cfg.Headless)
	assert.True(t, cfg.Locals.Enabled)
	require.NotNil(t, cfg.Security.AllowExec)
	assert.False(t, *cfg.Security.AllowExec)
}
