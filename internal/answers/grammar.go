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

// Package answers parses the CLI's -a/-A answer grammar (spec.md §6:
// "key=value", "key='multi word'", "'key=value'", and nested quotes)
// and loads standalone answer files in JSON, YAML, or the grammar's
// own bare-literal form.
package answers

import (
	"fmt"
	"strconv"
	"strings"

	. "github.com/ijt/goparsify"
)

var (
	ws = Chars(" \t")

	key = Regex(`[A-Za-z_][A-Za-z0-9_.\-]*`)

	dquoted = StringLit(`"`)
	squoted = StringLit(`'`)
	bare    = Regex(`[^\s'"][^\s]*`)

	value = Any(dquoted, squoted, bare)

	pair = Seq(&key, "=", &value)
)

// ParsePair parses a single "-a key=value" CLI argument into its raw
// key and literal (still-a-string) value. Outer quotes matching
// "'key=value'" are stripped here before the grammar runs, since
// they wrap the whole pair rather than the value alone.
func ParsePair(arg string) (k, v string, err error) {
	arg = strings.TrimSpace(arg)
	if len(arg) >= 2 {
		if (arg[0] == '\'' && arg[len(arg)-1] == '\'') || (arg[0] == '"' && arg[len(arg)-1] == '"') {
			arg = arg[1 : len(arg)-1]
		}
	}

	result, err := Run(pair, arg, ws)
	if err != nil {
		return "", "", fmt.Errorf("parsing answer %q: %w", arg, err)
	}
	if len(result.Child) != 3 {
		return "", "", fmt.Errorf("parsing answer %q: malformed key=value pair", arg)
	}
	return result.Child[0].Token, result.Child[2].Token, nil
}

// Coerce interprets a raw literal token the way the script engine's
// native literal syntax would: booleans, integers, floats, and
// anything else falls through to string.
func Coerce(raw string) any {
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// ParseFlag parses one -a flag value end to end, returning the key and
// its coerced value ready for insertion into Configuration.Answers or
// a RenderContext's answers map.
func ParseFlag(arg string) (string, any, error) {
	k, v, err := ParsePair(arg)
	if err != nil {
		return "", nil, err
	}
	return k, Coerce(v), nil
}
