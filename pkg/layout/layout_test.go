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

package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRooted(t *testing.T) {
	root := t.TempDir()
	l := NewRooted(root)

	assert.Equal(t, filepath.Join(root, "cache"), l.CacheDir())
	assert.Equal(t, filepath.Join(root, "etc"), l.EtcDir())
	assert.Equal(t, filepath.Join(root, "etc", "etc.d"), l.EtcDDir())
	assert.Equal(t, filepath.Join(root, "etc", "archetect.yaml"), l.ConfigurationPath())
	assert.Equal(t, filepath.Join(root, "etc", "answers.yaml"), l.AnswersPath())
}

func TestRootedCreatesDirsLazily(t *testing.T) {
	root := t.TempDir()
	l := NewRooted(root)

	cache := l.CacheDir()
	info, err := os.Stat(cache)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	etcD := l.EtcDDir()
	info, err = os.Stat(etcD)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNativeDoesNotPanicWithoutHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	n, err := NewNative()
	require.NoError(t, err)
	assert.Contains(t, n.CacheDir(), ".archetect")
}
