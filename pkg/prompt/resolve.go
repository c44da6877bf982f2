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

package prompt

import (
	"context"

	"github.com/archetect-run/archetect/pkg/ioproto"
	"github.com/archetect-run/archetect/pkg/render"
)

// Resolver drives the five-step answer-resolution algorithm of
// spec.md §4.H against a Driver and a render.Context.
type Resolver struct {
	Driver   ioproto.Driver
	Headless bool
}

// answerLookup implements step 1: settings.AnswerSource (an explicit
// override, per SPEC_FULL.md §3's two-tier answer lookup confirmed in
// original_source/.../prompt.rs) takes precedence over
// RenderContext.Answers.
func answerLookup(rc *render.Context, key string, settings ioproto.PromptSettings) (any, bool) {
	if key == "" {
		return nil, false
	}
	if settings.AnswerSource != nil {
		if v, ok := settings.AnswerSource[key]; ok {
			return v, true
		}
	}
	if rc != nil {
		if v, ok := rc.Answers[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// resolveValue runs spec.md §4.H steps 1-5 for one prompt, given
// typeCheck (validates/coerces an answer or default into the prompt's
// native Go type) and issuePrompt (sends the ScriptMessage and decodes
// the ClientMessage reply, or returns (nil, true, nil) for a
// ClientMessage::None reply).
func resolveValue(
	ctx context.Context,
	r *Resolver,
	rc *render.Context,
	message, key string,
	settings ioproto.PromptSettings,
	typeCheck func(any) (any, error),
	issuePrompt func(context.Context) (any, bool, error),
) (any, bool, error) {
	if answer, ok := answerLookup(rc, key, settings); ok {
		v, err := typeCheck(answer)
		switch {
		case err == nil:
			return v, false, nil
		case isValidationKind(err):
			// An answer exists, of the right dynamic type, but fails a
			// range/options rule: spec.md §4.H step 2 only
			// short-circuits on a type-valid answer, so this still
			// falls through to the remaining steps rather than
			// aborting, the same way an absent answer would.
		default:
			return nil, false, AnswerTypeError(message, key, answer)
		}
	}

	resolveDefault := func() (any, bool, error) {
		v, err := typeCheck(*settings.DefaultsWith)
		if err == nil {
			return v, false, nil
		}
		if isValidationKind(err) {
			return nil, false, DefaultValidationError(message, key, *settings.DefaultsWith)
		}
		return nil, false, DefaultTypeError(message, key, *settings.DefaultsWith)
	}

	useDefault := rc != nil && rc.ShouldUseDefault(key)
	if useDefault || key == "" {
		if settings.DefaultsWith != nil {
			return resolveDefault()
		}
	}

	if r.Headless {
		if settings.DefaultsWith != nil {
			return resolveDefault()
		}
		return nil, false, HeadlessNoAnswer(message, key)
	}

	v, none, err := issuePrompt(ctx)
	if err != nil {
		return nil, false, err
	}
	if none {
		if !settings.Optional {
			return nil, false, AnswerNotOptional(message, key)
		}
		return nil, true, nil
	}
	return v, false, nil
}
