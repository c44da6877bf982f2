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

package render

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathManipulationError reports that a rendered path (a file name that
// expanded to contain "..", or an absolute path) would escape the
// RenderContext destination, per spec.md §4.G and Testable Property 5.
// Both the directory-walk orchestrator and pkg/script's restricted
// filesystem helpers raise this same type, so a driver need only check
// for one error shape regardless of which subsystem caught the escape.
type PathManipulationError struct {
	Destination string
	Attempted   string
}

func (e *PathManipulationError) Error() string {
	return fmt.Sprintf("path %q escapes destination %q", e.Attempted, e.Destination)
}

// ContainPath verifies that resolved is still rooted under destination,
// returning a *PathManipulationError if not.
func ContainPath(destination, resolved string) error {
	absDest, err := filepath.Abs(destination)
	if err != nil {
		return &PathManipulationError{Destination: destination, Attempted: resolved}
	}
	absResolved, err := filepath.Abs(resolved)
	if err != nil {
		return &PathManipulationError{Destination: destination, Attempted: resolved}
	}
	rel, err := filepath.Rel(absDest, absResolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return &PathManipulationError{Destination: destination, Attempted: resolved}
	}
	return nil
}
