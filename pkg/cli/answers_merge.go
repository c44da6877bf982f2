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
	"github.com/archetect-run/archetect/internal/answers"
	"github.com/archetect-run/archetect/pkg/config"
)

func mergeAnswerFile(cfg *config.Configuration, path string) error {
	parsed, err := answers.LoadFile(path)
	if err != nil {
		return err
	}
	for k, v := range parsed {
		cfg.Answers[k] = v
	}
	return nil
}

func mergeAnswerFlag(cfg *config.Configuration, arg string) error {
	k, v, err := answers.ParseFlag(arg)
	if err != nil {
		return err
	}
	cfg.Answers[k] = v
	return nil
}
