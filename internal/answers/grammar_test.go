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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePairGrammar(t *testing.T) {
	cases := []struct {
		in      string
		k, v    string
	}{
		{`key=value`, "key", "value"},
		{`key='multi word'`, "key", "multi word"},
		{`key="quoted value"`, "key", "quoted value"},
		{`'key=value'`, "key", "value"},
	}
	for _, tc := range cases {
		k, v, err := ParsePair(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.k, k, tc.in)
		assert.Equal(t, tc.v, v, tc.in)
	}
}

func TestCoerceTypes(t *testing.T) {
	assert.Equal(t, true, Coerce("true"))
	assert.Equal(t, false, Coerce("false"))
	assert.Equal(t, int64(42), Coerce("42"))
	assert.Equal(t, 3.14, Coerce("3.14"))
	assert.Equal(t, "hello", Coerce("hello"))
}

func TestParseFlagCoercesValue(t *testing.T) {
	k, v, err := ParseFlag("count=3")
	require.NoError(t, err)
	assert.Equal(t, "count", k)
	assert.Equal(t, int64(3), v)
}

func TestParsePairRejectsMalformed(t *testing.T) {
	_, _, err := ParsePair("not-a-pair")
	require.Error(t, err)
}
