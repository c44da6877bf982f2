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
	"path/filepath"

	"github.com/spf13/cobra"
)

// systemCmd implements "archetect system layout {git|http|config|
// answers}" (spec.md §6): prints the well-known path a given concern
// resolves to, so shell scripts can locate them without reimplementing
// pkg/layout's rules.
func systemCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "system", Short: "Inspect system-level paths"}
	layoutCmd := &cobra.Command{Use: "layout", Short: "Print well-known Archetect paths"}

	print := func(name string, resolve func(*runtimeState) string) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: fmt.Sprintf("Print the %s path", name),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Println(resolve(fromContext(cmd.Context())))
				return nil
			},
		}
	}

	layoutCmd.AddCommand(print("git", func(s *runtimeState) string { return s.Layout.CacheDir() }))
	layoutCmd.AddCommand(print("http", func(s *runtimeState) string { return filepath.Join(s.Layout.CacheDir(), "http") }))
	layoutCmd.AddCommand(print("config", func(s *runtimeState) string { return s.Layout.ConfigurationPath() }))
	layoutCmd.AddCommand(print("answers", func(s *runtimeState) string { return s.Layout.AnswersPath() }))

	cmd.AddCommand(layoutCmd)
	return cmd
}
