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

	"github.com/zealic/xignore"
)

// IgnoreFileName is the `.archetectignore` convention SPEC_FULL.md §2
// adds: archetype authors exclude files from a content/templates tree
// the same way melange2 authors exclude files from a build context,
// using github.com/zealic/xignore's nested-ignorefile matcher.
const IgnoreFileName = ".archetectignore"

// loadIgnored returns the set of paths under root (relative to root,
// OS-separated) excluded by any nested .archetectignore file.
func loadIgnored(root string) (map[string]struct{}, error) {
	result, err := xignore.DirMatches(root, &xignore.MatchesOptions{
		Ignorefile: IgnoreFileName,
		Nested:     true,
	})
	if err != nil {
		return nil, err
	}
	ignored := make(map[string]struct{}, len(result.MatchedFiles))
	for _, f := range result.MatchedFiles {
		ignored[filepath.Clean(f)] = struct{}{}
	}
	return ignored, nil
}
