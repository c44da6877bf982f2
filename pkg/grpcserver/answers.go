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

package grpcserver

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// mergeAnswersYAML decodes a session's Initialize.AnswersYAML and
// merges it over dst, the same shape pkg/cli's -a/-A flags merge into
// before a terminal render.
func mergeAnswersYAML(dst map[string]any, raw string) error {
	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(raw), &parsed); err != nil {
		return fmt.Errorf("decoding answers YAML: %w", err)
	}
	for k, v := range parsed {
		dst[k] = v
	}
	return nil
}
