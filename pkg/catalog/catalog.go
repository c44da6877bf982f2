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

// Package catalog implements the Catalog / Group Engine of spec.md
// §4.J: presents a catalog's entries (or a group's nested actions) as
// a single-choice Select menu, then dispatches to the chosen action.
package catalog

import (
	"context"
	"fmt"

	"github.com/archetect-run/archetect/pkg/ioproto"
	"github.com/archetect-run/archetect/pkg/manifest"
	"github.com/archetect-run/archetect/pkg/render"
	"github.com/archetect-run/archetect/pkg/source"
)

// SelectionCancelled reports that the user cancelled a catalog/group
// menu. Per spec.md §4.J it is non-fatal: the top-level entry point
// swallows it and exits cleanly (Scenario S7).
type SelectionCancelled struct{}

func (SelectionCancelled) Error() string { return "catalog selection cancelled" }

// ArchetypeDispatcher renders a single archetype reference. script.Host
// implements this; catalog depends only on the interface to avoid an
// import cycle (script imports catalog, so catalog cannot import script).
type ArchetypeDispatcher interface {
	RenderArchetype(ctx context.Context, rc *render.Context, sourceRef string) error
}

// Engine presents and dispatches catalog/group menus.
type Engine struct {
	Driver     ioproto.Driver
	Resolver   *source.Resolver
	Dispatcher ArchetypeDispatcher
	PageSize   int
}

// Present shows cm's entries as a Select menu and dispatches to the
// chosen one. A RenderCatalog entry recurses by resolving and loading
// the nested catalog manifest; a RenderGroup entry recurses by
// presenting its own Actions as a nested menu (spec.md: "Groups nest;
// depth is bounded only by manifest authors").
func (e *Engine) Present(ctx context.Context, rc *render.Context, cm *manifest.CatalogManifest) error {
	if len(cm.Actions) == 0 {
		return fmt.Errorf("catalog %q has no entries", cm.Description)
	}

	options := make([]string, len(cm.Actions))
	for i, a := range cm.Actions {
		options[i] = a.Description
	}
	pageSize := e.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	reply, err := e.Driver.Send(ctx, ioproto.PromptSelect{
		Message: cm.Description,
		Settings: ioproto.PromptSettings{
			Options:  options,
			PageSize: pageSize,
		},
	})
	if err != nil {
		return err
	}

	switch resp := reply.(type) {
	case ioproto.NoneResponse:
		return SelectionCancelled{}
	case ioproto.StringResponse:
		for _, a := range cm.Actions {
			if a.Description == resp.Value {
				return e.dispatch(ctx, rc, a)
			}
		}
		return fmt.Errorf("unknown catalog selection %q", resp.Value)
	default:
		return fmt.Errorf("unexpected catalog selection response %T", reply)
	}
}

func (e *Engine) dispatch(ctx context.Context, rc *render.Context, action manifest.Action) error {
	switch action.Kind {
	case manifest.ActionRenderArchetype:
		return e.Dispatcher.RenderArchetype(ctx, rc, action.Source)
	case manifest.ActionRenderCatalog:
		src, err := e.Resolver.Resolve(ctx, action.Source, false)
		if err != nil {
			return fmt.Errorf("resolving catalog %q: %w", action.Source, err)
		}
		nested, err := manifest.LoadCatalogManifest(src.Directory())
		if err != nil {
			return fmt.Errorf("loading catalog %q: %w", action.Source, err)
		}
		return e.Present(ctx, rc, nested)
	case manifest.ActionRenderGroup:
		group := &manifest.CatalogManifest{Description: action.Description, Actions: action.Actions}
		return e.Present(ctx, rc, group)
	default:
		return fmt.Errorf("unknown action kind %v", action.Kind)
	}
}
