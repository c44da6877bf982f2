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

// Package cli assembles the archetect command-line surface of spec.md
// §6 on top of cobra, mirroring eslerm-melange2's pkg/cli package: one
// file per command tree, each exposing a lowercase "xxxCmd() *cobra.
// Command" constructor wired together by Execute.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/archetect-run/archetect/pkg/config"
	"github.com/archetect-run/archetect/pkg/layout"
	"github.com/archetect-run/archetect/pkg/tracing"
)

// globalFlags holds the values of spec.md §6's global flags, parsed
// once at the root command and threaded to every subcommand via the
// command's Context.
type globalFlags struct {
	verbosity   int
	configFile  string
	answers     []string
	answerFiles []string
	switches    []string
	useDefaults []string
	useDefaultsAll bool
	offline     bool
	headless    bool
	local       bool
	forceUpdate bool
	allowExec   string // "", "true", "false" — tri-state via pflag string
	envFile     string
	traceFile   string
}

type runtimeKey struct{}

// runtimeState is the per-invocation wiring built once in
// PersistentPreRunE and retrieved by every leaf command.
type runtimeState struct {
	Layout layout.Layout
	Config *config.Configuration
	Logger *clog.Logger
	Flags  *globalFlags
}

func fromContext(ctx context.Context) *runtimeState {
	return ctx.Value(runtimeKey{}).(*runtimeState)
}

// Execute builds the root command and runs it against os.Args.
func Execute() error {
	root, err := rootCmd()
	if err != nil {
		return err
	}
	return root.ExecuteContext(context.Background())
}

func rootCmd() (*cobra.Command, error) {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "archetect",
		Short:         "Generate projects from remote or local archetypes",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupRuntime(cmd, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.CountVarP(&flags.verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	pf.StringVarP(&flags.configFile, "config-file", "c", "", "additional configuration file to merge last")
	pf.StringArrayVarP(&flags.answers, "answer", "a", nil, "inline answer key=value (repeatable)")
	pf.StringArrayVarP(&flags.answerFiles, "answer-file", "A", nil, "answer file to load (repeatable)")
	pf.StringArrayVarP(&flags.switches, "switch", "s", nil, "enable a switch (repeatable)")
	pf.StringArrayVarP(&flags.useDefaults, "use-default", "d", nil, "accept the default for a prompt key, comma-separable (repeatable)")
	pf.BoolVarP(&flags.useDefaultsAll, "use-defaults-all", "D", false, "accept the default for every prompt")
	pf.BoolVarP(&flags.offline, "offline", "o", false, "never touch the network")
	pf.BoolVar(&flags.headless, "headless", false, "fail instead of prompting for unanswered keys")
	pf.BoolVarP(&flags.local, "local", "l", false, "bypass the source cache for local paths")
	pf.BoolVarP(&flags.forceUpdate, "force-update", "U", false, "force a cache refresh regardless of the update interval")
	pf.StringVarP(&flags.allowExec, "allow-exec", "e", "", "allow (true) or deny (false) script exec calls without asking")
	pf.Lookup("allow-exec").NoOptDefVal = "true"
	pf.StringVar(&flags.envFile, "env-file", "", "load environment variables from a dotenv file before running")
	pf.StringVar(&flags.traceFile, "trace", "", "write an OpenTelemetry trace to this file")

	cmd.AddCommand(renderCmd(flags))
	cmd.AddCommand(catalogCmd(flags)) // deprecated alias for render
	cmd.AddCommand(actionCmds(flags)...)
	cmd.AddCommand(configCmd())
	cmd.AddCommand(actionsCmd())
	cmd.AddCommand(cacheCmd())
	cmd.AddCommand(systemCmd())
	cmd.AddCommand(completionsCmd())
	cmd.AddCommand(serverCmd(flags))

	return cmd, nil
}

func setupRuntime(cmd *cobra.Command, flags *globalFlags) error {
	ctx := cmd.Context()

	if flags.envFile != "" {
		if err := godotenv.Load(flags.envFile); err != nil {
			return fmt.Errorf("loading --env-file %s: %w", flags.envFile, err)
		}
	}

	level := slog.LevelWarn
	switch {
	case flags.verbosity >= 2:
		level = slog.LevelDebug
	case flags.verbosity == 1:
		level = slog.LevelInfo
	}
	logger := clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx = clog.WithLogger(ctx, logger)

	shutdown, err := tracing.Setup(ctx, tracing.Config{TraceFile: flags.traceFile, ServiceName: "archetect"})
	if err != nil {
		return err
	}
	originalPostRun := cmd.PersistentPostRunE
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		_ = shutdown(cmd.Context())
		if originalPostRun != nil {
			return originalPostRun(cmd, args)
		}
		return nil
	}

	l, err := layout.NewNative()
	if err != nil {
		return fmt.Errorf("resolving layout: %w", err)
	}

	cfg, err := config.Load(ctx, l, flags.configFile)
	if err != nil {
		return err
	}
	applyGlobalOverrides(cfg, flags)

	if envOffline := os.Getenv("ARCHETECT_OFFLINE"); envOffline != "" {
		cfg.Offline = parseBoolEnv(envOffline, cfg.Offline)
	}
	if envHeadless := os.Getenv("ARCHETECT_HEADLESS"); envHeadless != "" {
		cfg.Headless = parseBoolEnv(envHeadless, cfg.Headless)
	}
	if envLocal := os.Getenv("ARCHETECT_LOCAL"); envLocal != "" {
		cfg.Locals.Enabled = parseBoolEnv(envLocal, cfg.Locals.Enabled)
	}
	if envForce := os.Getenv("ARCHETECT_FORCE_UPDATE"); envForce != "" {
		cfg.Updates.Force = parseBoolEnv(envForce, cfg.Updates.Force)
	}
	if envAllow := os.Getenv("ARCHETECT_ALLOW_EXEC"); envAllow != "" {
		v := parseBoolEnv(envAllow, false)
		cfg.Security.AllowExec = &v
	}

	for _, s := range flags.switches {
		cfg.Switches[s] = struct{}{}
	}
	for _, path := range flags.answerFiles {
		if err := mergeAnswerFile(cfg, path); err != nil {
			return err
		}
	}
	for _, a := range flags.answers {
		if err := mergeAnswerFlag(cfg, a); err != nil {
			return err
		}
	}

	state := &runtimeState{Layout: l, Config: cfg, Logger: logger, Flags: flags}
	cmd.SetContext(context.WithValue(ctx, runtimeKey{}, state))
	return nil
}

func applyGlobalOverrides(cfg *config.Configuration, flags *globalFlags) {
	o := config.Overrides{}
	if flags.offline {
		v := true
		o.Offline = &v
	}
	if flags.headless {
		v := true
		o.Headless = &v
	}
	if flags.local {
		v := true
		o.Local = &v
	}
	if flags.forceUpdate {
		v := true
		o.ForceUpdate = &v
	}
	if flags.allowExec != "" {
		v := flags.allowExec == "true"
		o.AllowExec = &v
	}
	config.Apply(cfg, o)
}

func parseBoolEnv(raw string, fallback bool) bool {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return fallback
}

func expandUseDefaults(raw []string) []string {
	var out []string
	for _, r := range raw {
		out = append(out, strings.Split(r, ",")...)
	}
	return out
}
