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

import "text/template"

// FuncMap returns every case and inflection filter named in spec.md
// §4.F as a text/template.FuncMap, for registration into the Template
// Engine Binding (pkg/render) and, identically, into the Script Host's
// global function table (pkg/script) so the two surfaces never drift.
func FuncMap() template.FuncMap {
	fm := template.FuncMap{
		"pluralize":    Pluralize,
		"plural":       Pluralize,
		"singularize":  Singularize,
		"singular":     Singularize,
		"ordinalize":   Ordinalize,
		"deordinalize": Deordinalize,
	}
	for _, style := range AllStyles {
		style := style
		fm[string(style)] = func(s string) string { return Apply(style, s) }
	}
	return fm
}
