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

// Package script embeds the description-script interpreter (spec.md
// §4.G): it resolves a source into an archetype or catalog, runs the
// archetype's script inside a dop251/goja VM with the archetype API
// (prompt/render/casing/git/archive/exec helpers) exposed as host
// functions, and is itself the ArchetypeDispatcher the Catalog/Group
// Engine (pkg/catalog) calls back into for RenderArchetype entries.
//
// This package sits above pkg/render, pkg/prompt, pkg/catalog,
// pkg/manifest, and pkg/source in the dependency graph: those packages
// never import pkg/script, which is what lets §4.I's "orchestrator
// calls script, script calls back into orchestrator" recursion compile
// as a plain one-directional Go import.
package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/archetect-run/archetect/pkg/catalog"
	"github.com/archetect-run/archetect/pkg/config"
	"github.com/archetect-run/archetect/pkg/ioproto"
	"github.com/archetect-run/archetect/pkg/manifest"
	"github.com/archetect-run/archetect/pkg/render"
	"github.com/archetect-run/archetect/pkg/source"
)

// EngineVersion is the version of the embedded scripting engine
// reported to the Requirements Checker (spec.md §4.K), i.e. the
// dop251/goja release this binary links.
const EngineVersion = "1.0.0"

// Host embeds the script interpreter and exposes the archetype API.
// One Host is constructed per CLI invocation (or per gRPC session) and
// is reentrant within the single goroutine that runs the script, per
// spec.md §4.G's execution model.
type Host struct {
	Resolver *source.Resolver
	Engine   *render.Engine
	Driver   ioproto.Driver
	Config   *config.Configuration
	HostVer  string

	// Nested renders go through this same Resolver, so they share its
	// freshened-URL set and offline/update-interval settings (spec.md §4.B).
}

// NewHost builds a Host. hostVersion is typically manifest.HostVersion().
func NewHost(resolver *source.Resolver, engine *render.Engine, driver ioproto.Driver, cfg *config.Configuration, hostVersion string) *Host {
	return &Host{Resolver: resolver, Engine: engine, Driver: driver, Config: cfg, HostVer: hostVersion}
}

// RenderArchetype is the top-level spec.md §4.I entry point:
// render(source, destination, settings). It resolves sourceRef,
// detects whether it names an archetype or a catalog, and dispatches
// accordingly. It also implements the ArchetypeDispatcher interface
// pkg/catalog depends on for RenderArchetype catalog entries.
func (h *Host) RenderArchetype(ctx context.Context, rc *render.Context, sourceRef string) error {
	log := clog.FromContext(ctx)

	src, err := h.Resolver.Resolve(ctx, sourceRef, h.Config.Updates.Force)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", sourceRef, err)
	}

	var dir string
	var m *manifest.Manifest
	if src.IsFile() {
		m, err = manifest.Detect(src.Directory())
	} else {
		dir = src.Directory()
		m, err = manifest.Detect(dir)
	}
	if err != nil {
		return fmt.Errorf("loading manifest for %q: %w", sourceRef, err)
	}

	if m.IsCatalog {
		log.Debugf("rendering catalog %q", sourceRef)
		engine := &catalog.Engine{Driver: h.Driver, Resolver: h.Resolver, Dispatcher: h}
		if err := engine.Present(ctx, rc, m.Catalog); err != nil {
			if _, ok := err.(catalog.SelectionCancelled); ok {
				return err
			}
			return fmt.Errorf("rendering catalog %q: %w", sourceRef, err)
		}
		return nil
	}

	return h.renderArchetypeManifest(ctx, rc, sourceRef, src.Directory(), m.Archetype)
}

func (h *Host) renderArchetypeManifest(ctx context.Context, rc *render.Context, sourceRef, dir string, am *manifest.ArchetypeManifest) error {
	log := clog.FromContext(ctx)

	if err := manifest.CheckRequirements(am.Requires, h.HostVer, EngineVersion); err != nil {
		return err
	}

	if rc.Enter(sourceRef, rc.Destination) {
		return fmt.Errorf("cyclic archetype composition detected: %s -> %s", sourceRef, rc.Destination)
	}

	session := &scriptSession{host: h, rc: rc, dir: dir}

	data := session.templateData()
	settings := render.Settings{ExistingFilePolicy: ioproto.PolicyPreserve, TemplateData: data}

	log.Debugf("rendering content directory %s", am.ContentDirectory())
	if err := h.Engine.Tree(ctx, h.Driver, dir+"/"+am.ContentDirectory(), rc.Destination, settings); err != nil {
		if !isMissingDir(err) {
			return fmt.Errorf("rendering contents: %w", err)
		}
	}

	scriptPath := dir + "/" + am.ScriptPath()
	if err := session.run(ctx, scriptPath); err != nil {
		return fmt.Errorf("running %s: %w", am.ScriptPath(), err)
	}
	return nil
}

// isMissingDir lets an archetype omit its content_directory entirely
// (e.g. a script-only archetype); any other failure still propagates.
func isMissingDir(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no such file or directory") || strings.Contains(msg, "cannot find the path")
}
