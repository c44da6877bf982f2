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

// Package prompt implements the typed Prompt Subsystem of spec.md §4.H:
// answer resolution (answer_source/RenderContext answers, use-defaults,
// headless policy), validation, and casing expansion.
package prompt

import (
	"errors"
	"fmt"
)

// kindedError is the shared shape behind every PromptError variant:
// a message, an optional key (absent for keyless settings errors), and
// the offending value when one exists.
type kindedError struct {
	kind    string
	message string
	key     string
	value   any
	hasKey  bool
}

func (e *kindedError) Error() string {
	if e.hasKey {
		return fmt.Sprintf("%s: prompt %q (key %q): %s", e.kind, e.message, e.key, e.detail())
	}
	return fmt.Sprintf("%s: prompt %q: %s", e.kind, e.message, e.detail())
}

func (e *kindedError) detail() string {
	if e.value != nil {
		return fmt.Sprintf("%v", e.value)
	}
	return "invalid"
}

func newErr(kind, message, key string, hasKey bool, value any) error {
	return &kindedError{kind: kind, message: message, key: key, hasKey: hasKey, value: value}
}

// AnswerValidationError reports that a supplied answer failed a
// prompt's validation rule (min/max, min_items/max_items, options).
func AnswerValidationError(message, key string, value any) error {
	return newErr("AnswerValidationError", message, key, key != "", value)
}

// AnswerTypeError reports that a supplied answer's dynamic type does
// not match the prompt's expected shape.
func AnswerTypeError(message, key string, value any) error {
	return newErr("AnswerTypeError", message, key, key != "", value)
}

// DefaultValidationError is AnswerValidationError's counterpart for a
// `defaults_with`/`defaults` value that fails validation.
func DefaultValidationError(message, key string, value any) error {
	return newErr("DefaultValidationError", message, key, key != "", value)
}

// DefaultTypeError is AnswerTypeError's counterpart for a default.
func DefaultTypeError(message, key string, value any) error {
	return newErr("DefaultTypeError", message, key, key != "", value)
}

// HeadlessNoAnswer reports that headless=true left a prompt with no
// answer and no usable default, per spec.md Scenario S4.
func HeadlessNoAnswer(message, key string) error {
	return newErr("HeadlessNoAnswer", message, key, key != "", nil)
}

// AnswerNotOptional reports that the driver replied None to a prompt
// that is not `optional`, per spec.md Scenario S5.
func AnswerNotOptional(message, key string) error {
	return newErr("AnswerNotOptional", message, key, key != "", nil)
}

// InvalidPromptSetting reports a malformed settings value (e.g.
// min > max, a Select with no options).
func InvalidPromptSetting(message, key, detail string) error {
	return newErr("InvalidPromptSetting", message, key, key != "", detail)
}

// UnexpectedPromptResponse reports that the driver's ClientMessage
// variant does not match what the prompt expected.
func UnexpectedPromptResponse(message, key string, got any) error {
	return newErr("UnexpectedPromptResponse", message, key, key != "", got)
}

// isValidationKind reports whether err is an AnswerValidationError, as
// opposed to a plain dynamic-type mismatch. resolveValue uses this to
// tell a right-typed-but-out-of-range answer or default (falls through
// to the next resolution step, or reports *ValidationError) apart from
// a wrong-typed one (reports *TypeError immediately).
func isValidationKind(err error) bool {
	var ke *kindedError
	if errors.As(err, &ke) {
		return ke.kind == "AnswerValidationError"
	}
	return false
}
