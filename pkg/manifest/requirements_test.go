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

package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSatisfiesVersionRange(t *testing.T) {
	cases := []struct {
		spec   string
		actual string
		want   bool
	}{
		{">=2.0.0", "2.0.0", true},
		{">=2.0.0", "1.9.9", false},
		{">=2.0.0, <3.0.0", "2.5.1", true},
		{">=2.0.0, <3.0.0", "3.0.0", false},
		{"=1.2.3", "1.2.3", true},
		{"1.2.3", "1.2.3", true},
		{"!=1.2.3", "1.2.4", true},
		{"", "0.0.1", true},
	}
	for _, tc := range cases {
		got, err := SatisfiesVersion(tc.spec, tc.actual)
		require.NoError(t, err, tc.spec)
		assert.Equal(t, tc.want, got, "spec=%s actual=%s", tc.spec, tc.actual)
	}
}

func TestCheckRequirementsUnmetArchetect(t *testing.T) {
	err := CheckRequirements(Requires{Archetect: ">=3.0.0"}, "2.5.0", "1.0.0")
	require.Error(t, err)
	var rErr *RequirementsError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, "archetect", rErr.Subject)
}

func TestCheckRequirementsUnmetEngine(t *testing.T) {
	err := CheckRequirements(Requires{ScriptEngine: ">=2.0.0"}, "2.5.0", "1.0.0")
	require.Error(t, err)
	var rErr *RequirementsError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, "script_engine", rErr.Subject)
}

func TestCheckRequirementsSatisfied(t *testing.T) {
	err := CheckRequirements(Requires{Archetect: ">=2.0.0", ScriptEngine: ">=1.0.0"}, "2.5.0", "1.2.0")
	assert.NoError(t, err)
}

func TestCheckRequirementsEmptyAlwaysSatisfied(t *testing.T) {
	err := CheckRequirements(Requires{}, "0.0.0", "0.0.0")
	assert.NoError(t, err)
}
