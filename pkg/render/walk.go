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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/archetect-run/archetect/pkg/ioproto"
)

// Settings governs one directory-tree render: which overwrite policy
// write messages carry, and the template data available to every
// RenderString/RenderPathSegment call.
type Settings struct {
	ExistingFilePolicy ioproto.ExistingFilePolicy
	TemplateData       map[string]any
}

// Tree walks sourceDir and renders it into destination through driver,
// per spec.md §4.I steps 1-3: a WriteDirectory for the root and every
// nested directory, a WriteFile (rendered if text, raw if binary) for
// every file, both path names and text bodies passed through Engine.
// Any render failure surfaces wrapped with the offending source path.
func (e *Engine) Tree(ctx context.Context, driver ioproto.Driver, sourceDir, destination string, settings Settings) error {
	ignored, err := loadIgnored(sourceDir)
	if err != nil {
		return fmt.Errorf("loading %s: %w", IgnoreFileName, err)
	}
	return e.walk(ctx, driver, sourceDir, destination, "", ignored, settings)
}

func (e *Engine) walk(ctx context.Context, driver ioproto.Driver, sourceDir, destination, relDir string, ignored map[string]struct{}, settings Settings) error {
	if err := ContainPath(destination, destination); err != nil {
		return err
	}
	if _, err := driver.Send(ctx, ioproto.WriteDirectory{Path: destination}); err != nil {
		return fmt.Errorf("writing directory %s: %w", destination, err)
	}

	sourcePath := filepath.Join(sourceDir, relDir)
	entries, err := os.ReadDir(sourcePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", sourcePath, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.Name() == IgnoreFileName {
			continue
		}
		childRel := filepath.Join(relDir, entry.Name())
		if _, skip := ignored[childRel]; skip {
			continue
		}

		childDest, err := e.RenderPathSegment(destination, entry.Name(), settings.TemplateData)
		if err != nil {
			return fmt.Errorf("%s: %w", childRel, err)
		}
		if err := ContainPath(destination, childDest); err != nil {
			return err
		}

		if entry.IsDir() {
			if err := e.walk(ctx, driver, sourceDir, childDest, childRel, ignored, settings); err != nil {
				return fmt.Errorf("%s: %w", childRel, err)
			}
			continue
		}

		if err := e.renderFile(ctx, driver, filepath.Join(sourcePath, entry.Name()), childRel, childDest, settings); err != nil {
			return fmt.Errorf("%s: %w", childRel, err)
		}
	}
	return nil
}

func (e *Engine) renderFile(ctx context.Context, driver ioproto.Driver, sourceFile, relPath, destFile string, settings Settings) error {
	data, err := os.ReadFile(sourceFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", sourceFile, err)
	}

	var contents []byte
	if IsBinary(data) {
		contents = data
	} else {
		rendered, err := e.RenderString(relPath, string(data), settings.TemplateData)
		if err != nil {
			return err
		}
		contents = []byte(rendered)
	}

	_, err = driver.Send(ctx, ioproto.WriteFile{
		Destination:        destFile,
		Contents:           contents,
		ExistingFilePolicy: settings.ExistingFilePolicy,
	})
	if err != nil {
		return fmt.Errorf("writing file %s: %w", destFile, err)
	}
	return nil
}
