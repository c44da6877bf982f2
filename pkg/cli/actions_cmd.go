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
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// actionsCmd implements "archetect actions": lists the named actions
// the effective configuration defines (spec.md §6).
func actionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the named actions available from the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := fromContext(cmd.Context())
			names := make([]string, 0, len(state.Config.Actions))
			for name := range state.Config.Actions {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "NAME\tDESCRIPTION\tSOURCE")
			for _, name := range names {
				a := state.Config.Actions[name]
				src := a.Archetype
				if src == "" {
					src = a.Catalog
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, a.Description, src)
			}
			return nil
		},
	}
}
