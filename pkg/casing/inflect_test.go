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
)

func TestPluralizeRegularAndIrregular(t *testing.T) {
	assert.Equal(t, "boxes", Pluralize("box"))
	assert.Equal(t, "people", Pluralize("person"))
	assert.Equal(t, "sheep", Pluralize("sheep"))
	assert.Equal(t, "", Pluralize(""))
}

func TestSingularizeRegularAndIrregular(t *testing.T) {
	assert.Equal(t, "box", Singularize("boxes"))
	assert.Equal(t, "person", Singularize("people"))
	assert.Equal(t, "sheep", Singularize("sheep"))
}

func TestOrdinalize(t *testing.T) {
	cases := map[string]string{
		"1":   "1st",
		"2":   "2nd",
		"3":   "3rd",
		"4":   "4th",
		"11":  "11th",
		"12":  "12th",
		"13":  "13th",
		"21":  "21st",
		"101": "101st",
	}
	for in, want := range cases {
		assert.Equal(t, want, Ordinalize(in), "in=%s", in)
	}
	assert.Equal(t, "abc", Ordinalize("abc"))
}

func TestDeordinalize(t *testing.T) {
	assert.Equal(t, "1", Deordinalize("1st"))
	assert.Equal(t, "11", Deordinalize("11th"))
	assert.Equal(t, "abc", Deordinalize("abc"))
}
