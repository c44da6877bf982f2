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

package casing

import (
	"strconv"
	"strings"
)

// irregularPlurals / irregularSingulars cover the common English
// irregulars spec.md's pluralize/singularize filters need to get right
// (person/people, child/children, ...). Anything not listed falls
// through to the regular suffix rules below.
var irregularPlurals = map[string]string{
	"person": "people",
	"man":    "men",
	"woman":  "women",
	"child":  "children",
	"tooth":  "teeth",
	"foot":   "feet",
	"mouse":  "mice",
	"goose":  "geese",
}

var irregularSingulars = map[string]string{}

func init() {
	for s, p := range irregularPlurals {
		irregularSingulars[p] = s
	}
}

var uncountable = map[string]struct{}{
	"sheep": {}, "series": {}, "species": {}, "fish": {}, "deer": {}, "data": {}, "equipment": {},
}

// Pluralize implements the `pluralize`/`plural` filter.
func Pluralize(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	if _, ok := uncountable[lower]; ok {
		return word
	}
	if p, ok := irregularPlurals[lower]; ok {
		return matchCase(word, p)
	}
	switch {
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !isVowel(rune(lower[len(lower)-2])):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "fe"):
		return word[:len(word)-2] + "ves"
	case strings.HasSuffix(lower, "f"):
		return word[:len(word)-1] + "ves"
	default:
		return word + "s"
	}
}

// Singularize implements the `singularize`/`singular` filter.
func Singularize(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	if _, ok := uncountable[lower]; ok {
		return word
	}
	if s, ok := irregularSingulars[lower]; ok {
		return matchCase(word, s)
	}
	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 3:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(lower, "ves") && len(lower) > 3:
		return word[:len(word)-3] + "fe"
	case strings.HasSuffix(lower, "ses"), strings.HasSuffix(lower, "xes"), strings.HasSuffix(lower, "zes"),
		strings.HasSuffix(lower, "ches"), strings.HasSuffix(lower, "shes"):
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") && len(lower) > 1:
		return word[:len(word)-1]
	default:
		return word
	}
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}

func matchCase(original, replacement string) string {
	if original == strings.ToUpper(original) {
		return strings.ToUpper(replacement)
	}
	if len(original) > 0 && strings.ToUpper(original[:1]) == original[:1] {
		return strings.ToUpper(replacement[:1]) + replacement[1:]
	}
	return replacement
}

// Ordinalize implements the `ordinalize` filter: "1" -> "1st", "22" ->
// "22nd", etc. Non-numeric input is returned unchanged.
func Ordinalize(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	abs := n
	if abs < 0 {
		abs = -abs
	}
	suffix := "th"
	if abs%100 < 11 || abs%100 > 13 {
		switch abs % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return s + suffix
}

// Deordinalize implements the `deordinalize` filter: the inverse of
// Ordinalize, stripping a trailing st/nd/rd/th suffix: "1st" -> "1".
func Deordinalize(s string) string {
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if strings.HasSuffix(s, suffix) {
			trimmed := strings.TrimSuffix(s, suffix)
			if _, err := strconv.Atoi(trimmed); err == nil {
				return trimmed
			}
		}
	}
	return s
}
