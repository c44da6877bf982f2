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

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archetect-run/archetect/pkg/catalog"
	"github.com/archetect-run/archetect/pkg/manifest"
	"github.com/archetect-run/archetect/pkg/render"
	"github.com/archetect-run/archetect/pkg/script"
	"github.com/archetect-run/archetect/pkg/source"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "render <source> [destination]",
		Short: "Render an archetype or catalog into a destination directory",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			destination := "."
			if len(args) == 2 {
				destination = args[1]
			}
			return runRender(cmd, flags, args[0], destination)
		},
	}
}

// catalogCmd is spec.md §6's deprecated alias: "archetect catalog" was
// the original implementation's name for what render now also accepts
// (a source that happens to be a catalog manifest rather than an
// archetype manifest); kept so existing scripts/muscle-memory still
// work.
func catalogCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:        "catalog <source> [destination]",
		Short:      "Render a catalog (deprecated alias for render)",
		Deprecated: "use \"archetect render\" instead; it already detects catalogs",
		Args:       cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			destination := "."
			if len(args) == 2 {
				destination = args[1]
			}
			return runRender(cmd, flags, args[0], destination)
		},
	}
	return cmd
}

// actionCmds builds a single "run <action> [destination]" command for
// the named Configuration.Actions. Actions are only known once the
// Configuration has been loaded, which PersistentPreRunE does before any
// RunE fires, so this registers a generic passthrough and resolves the
// action lazily. Actions are not registered as top-level commands of
// their own, and an action name is always required.
func actionCmds(flags *globalFlags) []*cobra.Command {
	cmd := &cobra.Command{
		Use:    "run <action> [destination]",
		Short:  "Run a named action from the configuration",
		Hidden: false,
		Args:   cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := fromContext(cmd.Context())
			action, ok := state.Config.Actions[args[0]]
			if !ok {
				return fmt.Errorf("no such action %q", args[0])
			}
			destination := "."
			if len(args) == 2 {
				destination = args[1]
			}
			for k, v := range action.Answers {
				if _, exists := state.Config.Answers[k]; !exists {
					state.Config.Answers[k] = v
				}
			}
			src := action.Archetype
			if src == "" {
				src = action.Catalog
			}
			return runRender(cmd, flags, src, destination)
		},
	}
	return []*cobra.Command{cmd}
}

func runRender(cmd *cobra.Command, flags *globalFlags, sourceRef, destination string) error {
	ctx := cmd.Context()
	state := fromContext(ctx)

	resolver := source.NewResolver(state.Layout.CacheDir(), state.Config.Offline, state.Config.Updates.Force, state.Config.Updates.Interval)
	engine := render.NewEngine()
	driver := &TerminalDriver{Logger: state.Logger}
	hostVersion := manifest.HostVersion()
	host := script.NewHost(resolver, engine, driver, state.Config, hostVersion)

	switches := make([]string, 0, len(state.Config.Switches))
	for s := range state.Config.Switches {
		switches = append(switches, s)
	}
	rc := render.NewContext(destination, state.Config.Answers, switches, expandUseDefaults(flags.useDefaults), flags.useDefaultsAll)

	err := host.RenderArchetype(ctx, rc, sourceRef)
	if err != nil {
		var cancelled catalog.SelectionCancelled
		var aborted *script.AbortError
		if errors.As(err, &cancelled) || errors.As(err, &aborted) {
			return nil
		}
		return err
	}
	return nil
}
