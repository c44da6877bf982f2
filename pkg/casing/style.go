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

// Package casing implements the string-case and inflection filters
// registered into the template engine by spec.md §4.F, plus the
// casing-expansion strategies consumed by the Prompt Subsystem (§4.H).
package casing

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style names one of the registered case filters. The string value is
// also the name registered into the template engine's function map, so
// it must match spec.md §4.F verbatim.
type Style string

const (
	CamelCase              Style = "camel_case"
	ClassCase              Style = "class_case"
	CobolCase              Style = "cobol_case"
	ConstantCase           Style = "constant_case"
	DirectoryCase          Style = "directory_case"
	KebabCase              Style = "kebab_case"
	LowerCase              Style = "lower_case"
	PackageCase            Style = "package_case"
	PascalCase             Style = "pascal_case"
	SnakeCase              Style = "snake_case"
	SentenceCase           Style = "sentence_case"
	TitleCase              Style = "title_case"
	TrainCase              Style = "train_case"
	UpperCase              Style = "upper_case"
)

// AllStyles lists every registered style, in the order spec.md §4.F
// enumerates them. Used to build the template engine's function map and
// to validate a CasingRule's requested style name.
var AllStyles = []Style{
	CamelCase, ClassCase, CobolCase, ConstantCase, DirectoryCase,
	KebabCase, LowerCase, PackageCase, PascalCase, SnakeCase,
	SentenceCase, TitleCase, TrainCase, UpperCase,
}

// words splits s on case boundaries, underscores, hyphens, dots,
// slashes, and whitespace, the shared tokenizer every style composes
// with its own joiner and per-word transform.
func words(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.' || r == '/' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextIsLower) {
					flush()
				}
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}

var titleCaser = cases.Title(language.Und)
var upperCaser = cases.Upper(language.Und)
var lowerCaser = cases.Lower(language.Und)

func lowerWord(w string) string { return lowerCaser.String(w) }

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return titleCaser.String(lowerWord(w))
}

// Apply transforms s according to style.
func Apply(style Style, s string) string {
	ws := words(s)
	if len(ws) == 0 {
		return s
	}
	switch style {
	case CamelCase:
		out := lowerWord(ws[0])
		for _, w := range ws[1:] {
			out += capitalize(w)
		}
		return out
	case ClassCase, PascalCase:
		var out string
		for _, w := range ws {
			out += capitalize(w)
		}
		return out
	case CobolCase:
		return joinWith(ws, "-", upperCaser.String)
	case ConstantCase:
		return joinWith(ws, "_", upperCaser.String)
	case DirectoryCase:
		return joinWith(ws, "/", lowerWord)
	case KebabCase:
		return joinWith(ws, "-", lowerWord)
	case LowerCase:
		return lowerCaser.String(s)
	case PackageCase:
		return joinWith(ws, ".", lowerWord)
	case SnakeCase:
		return joinWith(ws, "_", lowerWord)
	case SentenceCase:
		out := strings.Join(lowerWords(ws), " ")
		return capitalize(out[:1]) + out[1:]
	case TitleCase:
		parts := make([]string, len(ws))
		for i, w := range ws {
			parts[i] = capitalize(w)
		}
		return strings.Join(parts, " ")
	case TrainCase:
		parts := make([]string, len(ws))
		for i, w := range ws {
			parts[i] = capitalize(w)
		}
		return strings.Join(parts, "-")
	case UpperCase:
		return upperCaser.String(s)
	default:
		return s
	}
}

func joinWith(ws []string, sep string, f func(string) string) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = f(w)
	}
	return strings.Join(parts, sep)
}

func lowerWords(ws []string) []string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = lowerWord(w)
	}
	return parts
}

// Lookup resolves a style name (as used in a manifest or a CasingRule)
// to its Style constant.
func Lookup(name string) (Style, bool) {
	for _, s := range AllStyles {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}
