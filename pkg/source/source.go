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

// Package source classifies archetype/catalog references, materialises
// remote git sources into a content-addressed cache, and exposes the
// resulting Source as an immutable handle onto a local directory or file.
package source

import "path/filepath"

// Kind discriminates the Source variants.
type Kind int

const (
	KindRemoteGit Kind = iota
	KindLocalDirectory
	KindLocalFile
)

func (k Kind) String() string {
	switch k {
	case KindRemoteGit:
		return "RemoteGit"
	case KindLocalDirectory:
		return "LocalDirectory"
	case KindLocalFile:
		return "LocalFile"
	default:
		return "Unknown"
	}
}

// Source is the tagged variant produced by Resolve. It is immutable once
// produced; for RemoteGit, CachedPath is guaranteed to exist and contain
// a working tree checked out at GitRef (or the resolved default branch).
type Source struct {
	Kind Kind

	// RemoteGit fields.
	URL        string
	CachedPath string
	GitRef     string // empty means "resolved default branch"

	// LocalDirectory / LocalFile field.
	Path string
}

// Directory returns the directory backing this source: CachedPath for
// RemoteGit, Path for LocalDirectory, and Path's parent for LocalFile
// (a LocalFile source is itself a manifest living alongside its siblings).
func (s Source) Directory() string {
	switch s.Kind {
	case KindRemoteGit:
		return s.CachedPath
	case KindLocalDirectory:
		return s.Path
	case KindLocalFile:
		dir := filepath.Dir(s.Path)
		if dir == "" {
			return s.Path
		}
		return dir
	default:
		return ""
	}
}

// LocalPath returns the on-disk path of the source itself (the cached
// working tree, the directory, or the file).
func (s Source) LocalPath() string {
	switch s.Kind {
	case KindRemoteGit:
		return s.CachedPath
	case KindLocalDirectory, KindLocalFile:
		return s.Path
	default:
		return ""
	}
}

// Describe returns the original reference string: the remote URL for
// RemoteGit, or the local path otherwise.
func (s Source) Describe() string {
	if s.Kind == KindRemoteGit {
		return s.URL
	}
	return s.Path
}

// IsFile reports whether this source is a single manifest file rather
// than a directory (the LocalFile variant).
func (s Source) IsFile() bool {
	return s.Kind == KindLocalFile
}
