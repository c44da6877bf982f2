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

package answers

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads an answer file (spec.md §6: "-A <answer-file>").
// JSON and native key=value-per-line files are both valid YAML-
// superset or grammar-parseable input respectively, so the format is
// sniffed rather than declared by the caller: a file whose first
// non-blank, non-comment line contains a top-level YAML/JSON mapping
// marker (":" before any "=") is parsed as YAML (which also accepts
// JSON); otherwise every non-blank line is parsed as one grammar pair.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answer file %s: %w", path, err)
	}

	if looksLikeYAML(string(data)) {
		var out map[string]any
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parsing answer file %s: %w", path, err)
		}
		return out, nil
	}

	out := map[string]any{}
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, err := ParseFlag(line)
		if err != nil {
			return nil, fmt.Errorf("parsing answer file %s: %w", path, err)
		}
		out[k] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading answer file %s: %w", path, err)
	}
	return out, nil
}

func looksLikeYAML(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eq := strings.IndexByte(line, '=')
		colon := strings.IndexByte(line, ':')
		if colon >= 0 && (eq < 0 || colon < eq) {
			return true
		}
		return strings.HasPrefix(line, "{") || strings.HasPrefix(line, "[")
	}
	return false
}
