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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExpandAllIncludesOriginalEntry covers Testable Property 8: the
// original key -> value entry is always present, plus exactly one
// entry per (strategy, style) pair. The key's kebab and snake forms
// differ from the key itself, so no derived entry replaces the original.
func TestExpandAllIncludesOriginalEntry(t *testing.T) {
	strategies := []Strategy{
		{Kind: CasedIdentityCasedValue, Styles: []Style{KebabCase, SnakeCase}},
	}
	out, err := ExpandAll("serviceNames", Value{Str: "TransactionProcessing"}, strategies)
	require.NoError(t, err)

	assert.Equal(t, "TransactionProcessing", out["serviceNames"])
	assert.Contains(t, out, Apply(KebabCase, "serviceNames"))
	assert.Contains(t, out, Apply(SnakeCase, "serviceNames"))
	assert.Equal(t, "transaction-processing", out[Apply(KebabCase, "serviceNames")])
	assert.Equal(t, "transaction_processing", out[Apply(SnakeCase, "serviceNames")])
}

// TestExpandListValueAppliesElementwise covers scenario S6 with a key
// whose kebab form differs from it, so both entries coexist: list
// values get the style applied element-wise, and the list shape is
// preserved.
func TestExpandListValueAppliesElementwise(t *testing.T) {
	strategies := []Strategy{
		{Kind: CasedIdentityCasedValue, Styles: []Style{KebabCase}},
	}
	value := Value{IsList: true, List: []string{"Cart", "customer", "transactionProcessing"}}
	out, err := ExpandAll("serviceNames", value, strategies)
	require.NoError(t, err)

	assert.Equal(t, []string{"Cart", "customer", "transactionProcessing"}, out["serviceNames"])
	kebabKey := Apply(KebabCase, "serviceNames")
	assert.Equal(t, []string{"cart", "customer", "transaction-processing"}, out[kebabKey])
}

func TestExpandFixedKeyCasedValue(t *testing.T) {
	strategies := []Strategy{
		{Kind: FixedKeyCasedValue, Key: "service_slug", Style: KebabCase},
	}
	out, err := ExpandAll("service", Value{Str: "CustomerOrders"}, strategies)
	require.NoError(t, err)

	assert.Equal(t, "CustomerOrders", out["service"])
	assert.Equal(t, "customer-orders", out["service_slug"])
}

func TestExpandSuffixedAndPrefixedKeys(t *testing.T) {
	strategies := []Strategy{
		{Kind: FixedSuffixedKeyCasedValue, Fixed: "_pkg", Style: PackageCase},
		{Kind: FixedPrefixedKeyCasedValue, Fixed: "pkg_", Style: PackageCase},
	}
	out, err := ExpandAll("name", Value{Str: "CustomerOrders"}, strategies)
	require.NoError(t, err)

	assert.Equal(t, "customer.orders", out["name_pkg"])
	assert.Equal(t, "customer.orders", out["pkg_name"])
}

func TestExpandUnknownStrategyKindErrors(t *testing.T) {
	_, err := Expand("k", Value{Str: "v"}, Strategy{Kind: StrategyKind(999)})
	require.Error(t, err)
}
