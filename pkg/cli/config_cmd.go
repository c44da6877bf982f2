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
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/archetect-run/archetect/pkg/config"
)

// configCmd implements "archetect config {merged|defaults|edit}"
// (spec.md §6).
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or edit the effective configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "merged",
		Short: "Print the fully merged configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := fromContext(cmd.Context())
			return printYAML(state.Config)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "defaults",
		Short: "Print the built-in default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printYAML(config.Defaults())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Open the system configuration file in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := fromContext(cmd.Context())
			return openInEditor(state.Layout.ConfigurationPath())
		},
	})
	return cmd
}

func printYAML(v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func openInEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if f, createErr := os.Create(path); createErr == nil {
			f.Close()
		}
	}
	c := exec.Command(editor, path)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("running %s: %w", editor, err)
	}
	return nil
}
