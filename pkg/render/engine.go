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

package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/archetect-run/archetect/pkg/casing"
)

// Engine wraps the generic expression/template engine spec.md §4.F
// asks for: Go's text/template, registered with every case/inflection
// filter from pkg/casing plus Masterminds/sprig's general-purpose
// string/list/date helpers (the same pairing compozy and the rest of
// the retrieval pack use to give text/template a batteries-included
// function set).
type Engine struct {
	funcs template.FuncMap
}

// NewEngine builds an Engine with the full case/inflection/sprig
// function set registered.
func NewEngine() *Engine {
	funcs := template.FuncMap{}
	for k, v := range sprig.TxtFuncMap() {
		funcs[k] = v
	}
	for k, v := range casing.FuncMap() {
		funcs[k] = v
	}
	return &Engine{funcs: funcs}
}

// RenderString renders a template body (a file's contents, or a
// path-name component) against data, which is typically a Context's
// Answers map widened with the ANSWERS/SWITCHES/USE_DEFAULTS constants
// pkg/script injects.
func (e *Engine) RenderString(name, text string, data map[string]any) (string, error) {
	tmpl, err := template.New(name).Funcs(e.funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.String(), nil
}

// RenderPathSegment renders only the file-name component of a path
// through the template engine, per spec.md §4.F ("Path rendering uses
// the file-name component only"), and rejoins it with the
// already-rendered parent directory.
func (e *Engine) RenderPathSegment(renderedParent, name string, data map[string]any) (string, error) {
	rendered, err := e.RenderString(name, name, data)
	if err != nil {
		return "", fmt.Errorf("rendering path segment %q: %w", name, err)
	}
	return filepath.Join(renderedParent, rendered), nil
}
