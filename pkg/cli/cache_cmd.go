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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/ini.v1"

	"github.com/archetect-run/archetect/pkg/source"
)

// cacheCmd implements "archetect cache {manage|clear|pull}" (spec.md
// §6), operating directly on the content-addressed cache directory
// pkg/source.Resolver reads and writes.
func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local source cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "manage",
		Short: "List cached sources and when each was last pulled",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := fromContext(cmd.Context())
			return listCache(state.Layout.CacheDir())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached source",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := fromContext(cmd.Context())
			entries, err := os.ReadDir(state.Layout.CacheDir())
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			for _, e := range entries {
				if err := os.RemoveAll(filepath.Join(state.Layout.CacheDir(), e.Name())); err != nil {
					return err
				}
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "pull <source>",
		Short: "Force-refresh one cached source from its remote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := fromContext(cmd.Context())
			resolver := source.NewResolver(state.Layout.CacheDir(), state.Config.Offline, true, state.Config.Updates.Interval)
			_, err := resolver.Resolve(cmd.Context(), args[0], true)
			return err
		},
	})
	return cmd
}

func listCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, n := range names {
		cfg, err := ini.Load(filepath.Join(cacheDir, n, ".git", "config"))
		if err != nil {
			fmt.Printf("%s\t(never pulled)\n", n)
			continue
		}
		millis, err := cfg.Section("archetect").Key("pulled").Int64()
		if err != nil {
			fmt.Printf("%s\t(never pulled)\n", n)
			continue
		}
		fmt.Printf("%s\t%s\n", n, time.UnixMilli(millis).Format("2006-01-02 15:04:05"))
	}
	return nil
}
