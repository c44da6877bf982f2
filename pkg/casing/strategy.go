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

import "fmt"

// StrategyKind discriminates the casing-expansion strategies a prompt's
// `cases`/`cased_as` setting can request, per spec.md §4.H. The four
// base kinds are named by spec.md; the suffix/prefix kinds are
// supplemented from original_source/.../cases.rs per SPEC_FULL.md §3 —
// additive sugar implemented identically to the base kinds, only with a
// derived key built by appending/prepending the Fixed string: to the
// styled key for the Cased* variants, to the unstyled key for the
// Fixed* variants.
type StrategyKind int

const (
	CasedIdentityCasedValue StrategyKind = iota
	CasedKeyCasedValue
	FixedIdentityCasedValue
	FixedKeyCasedValue
	CasedSuffixedKeyCasedValue
	CasedPrefixedKeyCasedValue
	FixedSuffixedKeyCasedValue
	FixedPrefixedKeyCasedValue
)

// Strategy is one casing-expansion rule attached to a prompt. Exactly
// the fields relevant to Kind are populated:
//
//   - CasedIdentityCasedValue: Styles
//   - CasedKeyCasedValue:      Key, Styles
//   - FixedIdentityCasedValue: Style
//   - FixedKeyCasedValue:      Key, Style
//   - Cased{Suffixed,Prefixed}KeyCasedValue: Fixed, Styles
//   - Fixed{Suffixed,Prefixed}KeyCasedValue: Fixed, Style
type Strategy struct {
	Kind   StrategyKind
	Key    string
	Fixed  string
	Style  Style
	Styles []Style
}

// Value lets Expand operate uniformly over a prompt
// answer that is either a single string or a list of strings (casing
// applies element-wise to lists, per spec.md §4.H).
type Value struct {
	IsList bool
	Str    string
	List   []string
}

func (v Value) mapStyle(style Style) Value {
	if v.IsList {
		out := make([]string, len(v.List))
		for i, s := range v.List {
			out[i] = Apply(style, s)
		}
		return Value{IsList: true, List: out}
	}
	return Value{Str: Apply(style, v.Str)}
}

// Expand applies a single Strategy to the answer found at key, returning
// the additional map entries it contributes. The caller is responsible
// for also inserting the original key -> value entry; Expand does not
// return it. FixedIdentityCasedValue, and an identity strategy whose
// style leaves key unchanged, return an entry under key itself.
func Expand(key string, value Value, s Strategy) (map[string]any, error) {
	out := map[string]any{}
	toAny := func(v Value) any {
		if v.IsList {
			return v.List
		}
		return v.Str
	}

	switch s.Kind {
	case CasedIdentityCasedValue:
		for _, style := range s.Styles {
			out[Apply(style, key)] = toAny(value.mapStyle(style))
		}
	case CasedKeyCasedValue:
		for _, style := range s.Styles {
			out[Apply(style, s.Key)] = toAny(value.mapStyle(style))
		}
	case FixedIdentityCasedValue:
		out[key] = toAny(value.mapStyle(s.Style))
	case FixedKeyCasedValue:
		out[s.Key] = toAny(value.mapStyle(s.Style))
	case CasedSuffixedKeyCasedValue:
		for _, style := range s.Styles {
			out[Apply(style, key)+s.Fixed] = toAny(value.mapStyle(style))
		}
	case CasedPrefixedKeyCasedValue:
		for _, style := range s.Styles {
			out[s.Fixed+Apply(style, key)] = toAny(value.mapStyle(style))
		}
	case FixedSuffixedKeyCasedValue:
		out[key+s.Fixed] = toAny(value.mapStyle(s.Style))
	case FixedPrefixedKeyCasedValue:
		out[s.Fixed+key] = toAny(value.mapStyle(s.Style))
	default:
		return nil, fmt.Errorf("unknown casing strategy kind %d", s.Kind)
	}
	return out, nil
}

// ExpandAll applies every strategy in strategies to key/value. It
// inserts the original key -> value entry first (Testable Property 8)
// and then merges each strategy's entries over it in order, so an entry
// a strategy derives under key itself replaces the original value.
func ExpandAll(key string, value Value, strategies []Strategy) (map[string]any, error) {
	out := map[string]any{}
	if value.IsList {
		out[key] = value.List
	} else {
		out[key] = value.Str
	}
	for _, s := range strategies {
		entries, err := Expand(key, value, s)
		if err != nil {
			return nil, err
		}
		for k, v := range entries {
			out[k] = v
		}
	}
	return out, nil
}
