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

package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSSHShortForm(t *testing.T) {
	host, path, gitref, ok := parseSSHShortForm("git@github.com:jimmiebfulton/archetect.git")
	require.True(t, ok)
	assert.Equal(t, "github.com", host)
	assert.Equal(t, "jimmiebfulton/archetect.git", path)
	assert.Empty(t, gitref)

	host, path, gitref, ok = parseSSHShortForm("git@github.com:acme/x.git#develop")
	require.True(t, ok)
	assert.Equal(t, "github.com", host)
	assert.Equal(t, "acme/x.git", path)
	assert.Equal(t, "develop", gitref)

	_, _, _, ok = parseSSHShortForm("./local/path")
	assert.False(t, ok)
}

func TestFingerprintDeterministic(t *testing.T) {
	a := CacheKey("github.com/acme/x.git")
	b := CacheKey("github.com/acme/x.git")
	assert.Equal(t, a, b)

	c := CacheKey("github.com/acme/y.git")
	assert.NotEqual(t, a, c)
}

func TestResolveLocalDirectory(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver(t.TempDir(), false, false, 24*time.Hour)

	src, err := r.Resolve(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, KindLocalDirectory, src.Kind)
	assert.Equal(t, dir, src.Path)
}

func TestResolveLocalFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "archetype.yaml")
	require.NoError(t, os.WriteFile(file, []byte("description: test\n"), 0o644))

	r := NewResolver(t.TempDir(), false, false, 24*time.Hour)
	src, err := r.Resolve(context.Background(), file, false)
	require.NoError(t, err)
	assert.Equal(t, KindLocalFile, src.Kind)
	assert.Equal(t, file, src.Path)
	assert.Equal(t, dir, src.Directory())
}

func TestResolveSourceNotFound(t *testing.T) {
	r := NewResolver(t.TempDir(), false, false, 24*time.Hour)
	_, err := r.Resolve(context.Background(), filepath.Join(t.TempDir(), "nope"), false)
	require.Error(t, err)
	var sErr *Error
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, ErrSourceNotFound, sErr.Kind)
}

func TestResolveOfflineMiss(t *testing.T) {
	// S1: offline=true, fresh cache, resolving a never-cached remote git
	// URL fails with OfflineAndNotCached and never invokes git.
	r := NewResolver(t.TempDir(), true, false, 24*time.Hour)
	_, err := r.Resolve(context.Background(), "git@github.com:acme/x.git", false)
	require.Error(t, err)
	var sErr *Error
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, ErrOfflineAndNotCached, sErr.Kind)
}

func TestRemoteGitCachePathIsFingerprintOfHostAndPath(t *testing.T) {
	// S2: resolve("git@github.com:acme/x.git") computes the cache path
	// from fingerprint64("github.com/acme/x.git"), decimal. An empty
	// directory is placed at that path first, so the offline resolve
	// finds it, skips the clone, and fails looking for a default branch
	// in exactly that directory.
	cacheRoot := t.TempDir()
	want := filepath.Join(cacheRoot, CacheKey("github.com/acme/x.git"))
	require.NoError(t, os.MkdirAll(want, 0o755))

	r := NewResolver(cacheRoot, true, false, 24*time.Hour)
	_, err := r.Resolve(context.Background(), "git@github.com:acme/x.git", false)
	require.Error(t, err)
	var sErr *Error
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, ErrNoDefaultBranch, sErr.Kind)
	assert.Equal(t, want, sErr.Ref)
}
