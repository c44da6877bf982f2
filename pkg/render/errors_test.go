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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContainPathRejectsEscapes covers Testable Property 5: no
// rendered path may resolve outside the destination.
func TestContainPathRejectsEscapes(t *testing.T) {
	dest := t.TempDir()

	err := ContainPath(dest, filepath.Join(dest, "..", "outside.txt"))
	require.Error(t, err)
	var pmErr *PathManipulationError
	require.ErrorAs(t, err, &pmErr)

	err = ContainPath(dest, "/etc/passwd")
	require.Error(t, err)
}

func TestContainPathAllowsNestedPaths(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, ContainPath(dest, filepath.Join(dest, "a", "b", "c.txt")))
	require.NoError(t, ContainPath(dest, dest))
}
