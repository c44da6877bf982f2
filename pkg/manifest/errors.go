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

package manifest

import "fmt"

// Kind distinguishes the manifest load failures: malformed YAML, a
// directory holding both an archetype and a catalog manifest, or no
// manifest at all.
type Kind int

const (
	ErrMalformed Kind = iota
	ErrAmbiguousKind
	ErrNotFound
)

// Error reports a manifest load failure, carrying the file path that
// failed to parse.
type Error struct {
	Kind    Kind
	Path    string
	Wrapped error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrMalformed:
		return fmt.Sprintf("manifest %s is malformed: %v", e.Path, e.Wrapped)
	case ErrAmbiguousKind:
		return fmt.Sprintf("manifest %s holds both an archetype and a catalog manifest", e.Path)
	case ErrNotFound:
		return fmt.Sprintf("manifest %s not found", e.Path)
	default:
		return fmt.Sprintf("manifest %s: unknown error", e.Path)
	}
}

func (e *Error) Unwrap() error { return e.Wrapped }

func malformed(path string, err error) *Error {
	return &Error{Kind: ErrMalformed, Path: path, Wrapped: err}
}

func ambiguousKind(path string) *Error {
	return &Error{Kind: ErrAmbiguousKind, Path: path}
}

func notFound(path string, err error) *Error {
	return &Error{Kind: ErrNotFound, Path: path, Wrapped: err}
}
