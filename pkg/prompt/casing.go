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

package prompt

import (
	"fmt"

	"github.com/archetect-run/archetect/pkg/casing"
	"github.com/archetect-run/archetect/pkg/ioproto"
)

// strategyKinds maps the wire-level CasingRule.Strategy name to the
// casing.StrategyKind it requests. Names mirror the Rust constructors
// in original_source/.../cases.rs (SPEC_FULL.md §3), lower_snake_cased
// for the Go host-function surface.
var strategyKinds = map[string]casing.StrategyKind{
	"cased_identity_cased_value":  casing.CasedIdentityCasedValue,
	"cased_key_cased_value":       casing.CasedKeyCasedValue,
	"fixed_identity_cased_value":  casing.FixedIdentityCasedValue,
	"fixed_key_cased_value":       casing.FixedKeyCasedValue,
	"cased_suffixed_key_cased_value": casing.CasedSuffixedKeyCasedValue,
	"cased_prefixed_key_cased_value": casing.CasedPrefixedKeyCasedValue,
	"fixed_suffixed_key_cased_value": casing.FixedSuffixedKeyCasedValue,
	"fixed_prefixed_key_cased_value": casing.FixedPrefixedKeyCasedValue,
}

// toStrategy converts one wire-level CasingRule (plus a legacy
// `cased_as` single-style shorthand) into a casing.Strategy.
func toStrategy(rule ioproto.CasingRule) (casing.Strategy, error) {
	kind, ok := strategyKinds[rule.Strategy]
	if !ok {
		return casing.Strategy{}, fmt.Errorf("unknown casing strategy %q", rule.Strategy)
	}
	s := casing.Strategy{Kind: kind, Key: rule.Key, Fixed: rule.Key}
	switch kind {
	case casing.CasedIdentityCasedValue, casing.CasedKeyCasedValue,
		casing.CasedSuffixedKeyCasedValue, casing.CasedPrefixedKeyCasedValue:
		for _, name := range rule.Styles {
			style, ok := casing.Lookup(name)
			if !ok {
				return casing.Strategy{}, fmt.Errorf("unknown case style %q", name)
			}
			s.Styles = append(s.Styles, style)
		}
	default:
		if len(rule.Styles) != 1 {
			return casing.Strategy{}, fmt.Errorf("strategy %q requires exactly one style", rule.Strategy)
		}
		style, ok := casing.Lookup(rule.Styles[0])
		if !ok {
			return casing.Strategy{}, fmt.Errorf("unknown case style %q", rule.Styles[0])
		}
		s.Style = style
	}
	return s, nil
}

// expandCasing applies every CasingRule in settings to key/value. When
// `cases` is empty, it returns a single-entry map with the raw value,
// matching spec.md §4.H's "no casing expansion requested" path.
func expandCasing(key string, value casing.Value, rules []ioproto.CasingRule) (map[string]any, error) {
	strategies := make([]casing.Strategy, 0, len(rules))
	for _, rule := range rules {
		s, err := toStrategy(rule)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	return casing.ExpandAll(key, value, strategies)
}
