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
	"fmt"

	"github.com/archetect-run/archetect/pkg/casing"
	"github.com/archetect-run/archetect/pkg/ioproto"
	"github.com/archetect-run/archetect/pkg/render"
)

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func checkRange(message, key string, v float64, settings ioproto.PromptSettings) error {
	if settings.Min != nil && v < *settings.Min {
		return AnswerValidationError(message, key, v)
	}
	if settings.Max != nil && v > *settings.Max {
		return AnswerValidationError(message, key, v)
	}
	return nil
}

func checkItemCount(message, key string, n int, settings ioproto.PromptSettings) error {
	if settings.MinItems != nil && n < *settings.MinItems {
		return AnswerValidationError(message, key, n)
	}
	if settings.MaxItems != nil && n > *settings.MaxItems {
		return AnswerValidationError(message, key, n)
	}
	return nil
}

func containsOption(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// finalize applies casing expansion (if settings.Cases/CasedAs request
// it) to a resolved, non-skipped value, per spec.md §4.H's casing
// expansion rules and Testable Property 8.
func finalize(key string, v any, settings ioproto.PromptSettings) (any, error) {
	rules := settings.Cases
	if settings.CasedAs != "" {
		rules = append(append([]ioproto.CasingRule{}, rules...), ioproto.CasingRule{
			Strategy: "fixed_identity_cased_value",
			Styles:   []string{settings.CasedAs},
		})
	}
	if len(rules) == 0 || key == "" {
		return v, nil
	}
	var cv casing.Value
	switch val := v.(type) {
	case string:
		cv = casing.Value{Str: val}
	case []string:
		cv = casing.Value{IsList: true, List: val}
	default:
		return v, nil
	}
	return expandCasing(key, cv, rules)
}

// Text implements the Text prompt (spec.md §4.H table row 1).
func (r *Resolver) Text(ctx context.Context, rc *render.Context, message, key string, settings ioproto.PromptSettings) (any, error) {
	typeCheck := func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("not a string")
		}
		if settings.Min != nil && float64(len(s)) < *settings.Min {
			return nil, AnswerValidationError(message, key, s)
		}
		if settings.Max != nil && float64(len(s)) > *settings.Max {
			return nil, AnswerValidationError(message, key, s)
		}
		return s, nil
	}
	issue := func(ctx context.Context) (any, bool, error) {
		reply, err := r.Driver.Send(ctx, ioproto.PromptText{Message: message, Key: key, Settings: settings})
		if err != nil {
			return nil, false, err
		}
		switch resp := reply.(type) {
		case ioproto.StringResponse:
			return resp.Value, false, nil
		case ioproto.NoneResponse:
			return nil, true, nil
		default:
			return nil, false, UnexpectedPromptResponse(message, key, reply)
		}
	}
	v, skipped, err := resolveValue(ctx, r, rc, message, key, settings, typeCheck, issue)
	if err != nil || skipped {
		return nil, err
	}
	return finalize(key, v, settings)
}

// Int implements the Int prompt.
func (r *Resolver) Int(ctx context.Context, rc *render.Context, message, key string, settings ioproto.PromptSettings) (any, error) {
	typeCheck := func(v any) (any, error) {
		f, ok := asFloat(v)
		if !ok {
			return nil, fmt.Errorf("not an integer")
		}
		if err := checkRange(message, key, f, settings); err != nil {
			return nil, err
		}
		return int64(f), nil
	}
	issue := func(ctx context.Context) (any, bool, error) {
		reply, err := r.Driver.Send(ctx, ioproto.PromptInt{Message: message, Key: key, Settings: settings})
		if err != nil {
			return nil, false, err
		}
		switch resp := reply.(type) {
		case ioproto.IntegerResponse:
			if err := checkRange(message, key, float64(resp.Value), settings); err != nil {
				return nil, false, err
			}
			return resp.Value, false, nil
		case ioproto.NoneResponse:
			return nil, true, nil
		default:
			return nil, false, UnexpectedPromptResponse(message, key, reply)
		}
	}
	v, skipped, err := resolveValue(ctx, r, rc, message, key, settings, typeCheck, issue)
	if err != nil || skipped {
		return nil, err
	}
	return v, nil
}

// Confirm implements the Confirm (bool) prompt.
func (r *Resolver) Confirm(ctx context.Context, rc *render.Context, message, key string, settings ioproto.PromptSettings) (any, error) {
	typeCheck := func(v any) (any, error) {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("not a boolean")
		}
		return b, nil
	}
	issue := func(ctx context.Context) (any, bool, error) {
		reply, err := r.Driver.Send(ctx, ioproto.PromptConfirm{Message: message, Key: key, Settings: settings})
		if err != nil {
			return nil, false, err
		}
		switch resp := reply.(type) {
		case ioproto.BooleanResponse:
			return resp.Value, false, nil
		case ioproto.NoneResponse:
			return nil, true, nil
		default:
			return nil, false, UnexpectedPromptResponse(message, key, reply)
		}
	}
	v, skipped, err := resolveValue(ctx, r, rc, message, key, settings, typeCheck, issue)
	if err != nil || skipped {
		return nil, err
	}
	return v, nil
}

// Select implements the Select prompt.
func (r *Resolver) Select(ctx context.Context, rc *render.Context, message, key string, settings ioproto.PromptSettings) (any, error) {
	if len(settings.Options) == 0 {
		return nil, InvalidPromptSetting(message, key, "select prompt requires options")
	}
	typeCheck := func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("not a string")
		}
		if !containsOption(settings.Options, s) {
			return nil, AnswerValidationError(message, key, s)
		}
		return s, nil
	}
	issue := func(ctx context.Context) (any, bool, error) {
		reply, err := r.Driver.Send(ctx, ioproto.PromptSelect{Message: message, Key: key, Settings: settings})
		if err != nil {
			return nil, false, err
		}
		switch resp := reply.(type) {
		case ioproto.StringResponse:
			if !containsOption(settings.Options, resp.Value) {
				return nil, false, AnswerValidationError(message, key, resp.Value)
			}
			return resp.Value, false, nil
		case ioproto.NoneResponse:
			return nil, true, nil
		default:
			return nil, false, UnexpectedPromptResponse(message, key, reply)
		}
	}
	v, skipped, err := resolveValue(ctx, r, rc, message, key, settings, typeCheck, issue)
	if err != nil || skipped {
		return nil, err
	}
	return finalize(key, v, settings)
}

// MultiSelect implements the MultiSelect prompt.
func (r *Resolver) MultiSelect(ctx context.Context, rc *render.Context, message, key string, settings ioproto.PromptSettings) (any, error) {
	if len(settings.Options) == 0 {
		return nil, InvalidPromptSetting(message, key, "multiselect prompt requires options")
	}
	typeCheck := func(v any) (any, error) {
		list, ok := v.([]string)
		if !ok {
			return nil, fmt.Errorf("not a list")
		}
		for _, s := range list {
			if !containsOption(settings.Options, s) {
				return nil, AnswerValidationError(message, key, s)
			}
		}
		if err := checkItemCount(message, key, len(list), settings); err != nil {
			return nil, err
		}
		return list, nil
	}
	issue := func(ctx context.Context) (any, bool, error) {
		reply, err := r.Driver.Send(ctx, ioproto.PromptMultiSelect{Message: message, Key: key, Settings: settings})
		if err != nil {
			return nil, false, err
		}
		switch resp := reply.(type) {
		case ioproto.ArrayResponse:
			for _, s := range resp.Value {
				if !containsOption(settings.Options, s) {
					return nil, false, AnswerValidationError(message, key, s)
				}
			}
			if err := checkItemCount(message, key, len(resp.Value), settings); err != nil {
				return nil, false, err
			}
			return resp.Value, false, nil
		case ioproto.NoneResponse:
			return nil, true, nil
		default:
			return nil, false, UnexpectedPromptResponse(message, key, reply)
		}
	}
	v, skipped, err := resolveValue(ctx, r, rc, message, key, settings, typeCheck, issue)
	if err != nil || skipped {
		return nil, err
	}
	return finalize(key, v, settings)
}

// List implements the List prompt.
func (r *Resolver) List(ctx context.Context, rc *render.Context, message, key string, settings ioproto.PromptSettings) (any, error) {
	typeCheck := func(v any) (any, error) {
		list, ok := v.([]string)
		if !ok {
			return nil, fmt.Errorf("not a list")
		}
		if err := checkItemCount(message, key, len(list), settings); err != nil {
			return nil, err
		}
		return list, nil
	}
	issue := func(ctx context.Context) (any, bool, error) {
		reply, err := r.Driver.Send(ctx, ioproto.PromptList{Message: message, Key: key, Settings: settings})
		if err != nil {
			return nil, false, err
		}
		switch resp := reply.(type) {
		case ioproto.ArrayResponse:
			if err := checkItemCount(message, key, len(resp.Value), settings); err != nil {
				return nil, false, err
			}
			return resp.Value, false, nil
		case ioproto.NoneResponse:
			return nil, true, nil
		default:
			return nil, false, UnexpectedPromptResponse(message, key, reply)
		}
	}
	v, skipped, err := resolveValue(ctx, r, rc, message, key, settings, typeCheck, issue)
	if err != nil || skipped {
		return nil, err
	}
	return finalize(key, v, settings)
}

// Editor implements the Editor prompt: a free-form string with no
// validation beyond optionality, edited in the driver's external editor.
func (r *Resolver) Editor(ctx context.Context, rc *render.Context, message, key string, settings ioproto.PromptSettings) (any, error) {
	typeCheck := func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("not a string")
		}
		return s, nil
	}
	issue := func(ctx context.Context) (any, bool, error) {
		reply, err := r.Driver.Send(ctx, ioproto.PromptEditor{Message: message, Key: key, Settings: settings})
		if err != nil {
			return nil, false, err
		}
		switch resp := reply.(type) {
		case ioproto.StringResponse:
			return resp.Value, false, nil
		case ioproto.NoneResponse:
			return nil, true, nil
		default:
			return nil, false, UnexpectedPromptResponse(message, key, reply)
		}
	}
	v, skipped, err := resolveValue(ctx, r, rc, message, key, settings, typeCheck, issue)
	if err != nil || skipped {
		return nil, err
	}
	return v, nil
}
