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

// Package layout resolves the well-known directories Archetect reads and
// writes outside of a render destination: the source cache, the system
// configuration file, and the drop-in configuration directory. No other
// package may compose these paths from string literals.
package layout

import (
	"os"
	"path/filepath"
)

// Layout resolves the directories and files Archetect treats as
// well-known. Two implementations exist: Native (rooted at the OS user
// home) and Rooted (used by tests, rooted at a caller-supplied directory).
type Layout interface {
	// CacheDir is the root of the content-addressed source cache.
	CacheDir() string
	// EtcDir holds the system configuration file.
	EtcDir() string
	// EtcDDir holds drop-in *.yaml/*.yml configuration fragments.
	EtcDDir() string
	// ConfigurationPath is EtcDir/archetect.yaml.
	ConfigurationPath() string
	// AnswersPath is EtcDir/answers.yaml, a default answers file.
	AnswersPath() string
}

const (
	configFileName  = "archetect.yaml"
	answersFileName = "answers.yaml"
	etcDirName      = "etc"
	etcDDirName     = "etc.d"
	cacheDirName    = "cache"
)

// Native resolves paths under the user's home directory, mirroring
// ~/.archetect/{etc,etc.d,cache} in the original implementation.
type Native struct {
	root string
}

// NewNative builds a Native layout rooted at ~/.archetect. It creates no
// directories; those are created lazily on first use.
func NewNative() (*Native, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Native{root: filepath.Join(home, ".archetect")}, nil
}

func (n *Native) CacheDir() string           { return ensureDir(filepath.Join(n.root, cacheDirName)) }
func (n *Native) EtcDir() string             { return ensureDir(filepath.Join(n.root, etcDirName)) }
func (n *Native) EtcDDir() string            { return ensureDir(filepath.Join(n.root, etcDirName, etcDDirName)) }
func (n *Native) ConfigurationPath() string  { return filepath.Join(n.EtcDir(), configFileName) }
func (n *Native) AnswersPath() string        { return filepath.Join(n.EtcDir(), answersFileName) }

// Rooted resolves every well-known path under a caller-supplied root,
// used by tests that must not touch the real user home directory.
type Rooted struct {
	root string
}

// NewRooted builds a Rooted layout under root.
func NewRooted(root string) *Rooted {
	return &Rooted{root: root}
}

func (r *Rooted) CacheDir() string          { return ensureDir(filepath.Join(r.root, cacheDirName)) }
func (r *Rooted) EtcDir() string            { return ensureDir(filepath.Join(r.root, etcDirName)) }
func (r *Rooted) EtcDDir() string           { return ensureDir(filepath.Join(r.root, etcDirName, etcDDirName)) }
func (r *Rooted) ConfigurationPath() string { return filepath.Join(r.EtcDir(), configFileName) }
func (r *Rooted) AnswersPath() string       { return filepath.Join(r.EtcDir(), answersFileName) }

// ensureDir lazily creates dir (and its parents) and returns it unchanged
// regardless of whether creation succeeded, so callers can treat this as
// a pure path computation; callers that need to observe the error should
// os.MkdirAll again before writing.
func ensureDir(dir string) string {
	_ = os.MkdirAll(dir, 0o755)
	return dir
}
