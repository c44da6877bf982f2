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

package script

import (
	"context"
	"fmt"
	"os"

	"github.com/dop251/goja"

	"github.com/archetect-run/archetect/pkg/casing"
	"github.com/archetect-run/archetect/pkg/ioproto"
	"github.com/archetect-run/archetect/pkg/prompt"
	"github.com/archetect-run/archetect/pkg/render"
)

// scriptSession is the state of one running archetype script: its
// RenderContext, the directory it was loaded from, and the goja VM the
// archetype API is bound into. A session runs to completion on a
// single goroutine (spec.md §4.G's execution model); render() re-enters
// h.RenderArchetype on the same goroutine, which is safe because goja
// VMs are not used concurrently by this design.
type scriptSession struct {
	host *Host
	rc   *render.Context
	dir  string
}

func (s *scriptSession) templateData() map[string]any {
	data := make(map[string]any, len(s.rc.Answers)+4)
	for k, v := range s.rc.Answers {
		data[k] = v
	}
	switches := make([]string, 0, len(s.rc.Switches))
	for sw := range s.rc.Switches {
		switches = append(switches, sw)
	}
	useDefaults := make([]string, 0, len(s.rc.UseDefaults))
	for k := range s.rc.UseDefaults {
		useDefaults = append(useDefaults, k)
	}
	data["ANSWERS"] = s.rc.Answers
	data["SWITCHES"] = switches
	data["USE_DEFAULTS"] = useDefaults
	data["USE_DEFAULTS_ALL"] = s.rc.UseDefaultsAll
	return data
}

// run reads scriptPath (if present — an archetype without a script is
// legal, it just renders its content directory) and executes it.
func (s *scriptSession) run(ctx context.Context, scriptPath string) error {
	source, err := os.ReadFile(scriptPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", scriptPath, err)
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	data := s.templateData()
	vm.Set("ANSWERS", data["ANSWERS"])
	vm.Set("SWITCHES", data["SWITCHES"])
	vm.Set("USE_DEFAULTS", data["USE_DEFAULTS"])
	vm.Set("USE_DEFAULTS_ALL", data["USE_DEFAULTS_ALL"])

	s.bindPrompt(ctx, vm)
	s.bindRender(ctx, vm)
	s.bindCasing(vm)
	s.bindGit(vm)
	s.bindArchive(vm)
	s.bindExec(ctx, vm)
	s.bindLog(ctx, vm)
	s.bindGitHub(ctx, vm)

	_, err = vm.RunScript(scriptPath, string(source))
	if err != nil {
		if exc, ok := err.(*goja.Exception); ok {
			return &AbortError{Message: exc.Error()}
		}
		return err
	}
	return nil
}

// AbortError is ScriptError's ScriptAbortError variant: the script
// terminated via an uncaught exception.
// Per spec.md §7, it is suppressed at the outermost layer (clean exit,
// no error banner).
type AbortError struct{ Message string }

func (e *AbortError) Error() string { return e.Message }

// bindPrompt exposes prompt(message), prompt(message, settings), and
// prompt(message, key, settings), dispatching on settings.type to one
// of pkg/prompt's seven typed resolvers.
func (s *scriptSession) bindPrompt(ctx context.Context, vm *goja.Runtime) {
	resolver := &prompt.Resolver{Driver: s.host.Driver, Headless: s.host.Config.Headless}

	vm.Set("prompt", func(call goja.FunctionCall) goja.Value {
		message := call.Argument(0).String()
		key := ""
		var settingsArg goja.Value

		switch len(call.Arguments) {
		case 1:
		case 2:
			if call.Argument(1).ExportType() != nil && call.Argument(1).ExportType().Kind().String() == "string" {
				key = call.Argument(1).String()
			} else {
				settingsArg = call.Argument(1)
			}
		default:
			key = call.Argument(1).String()
			settingsArg = call.Argument(2)
		}

		settings := decodeSettings(vm, settingsArg)
		promptType := settings.typ
		if promptType == "" {
			promptType = "Text"
		}

		var result any
		var err error
		switch promptType {
		case "Text":
			result, err = resolver.Text(ctx, s.rc, message, key, settings.PromptSettings)
		case "Int":
			result, err = resolver.Int(ctx, s.rc, message, key, settings.PromptSettings)
		case "Bool", "Confirm":
			result, err = resolver.Confirm(ctx, s.rc, message, key, settings.PromptSettings)
		case "Select":
			result, err = resolver.Select(ctx, s.rc, message, key, settings.PromptSettings)
		case "MultiSelect":
			result, err = resolver.MultiSelect(ctx, s.rc, message, key, settings.PromptSettings)
		case "List":
			result, err = resolver.List(ctx, s.rc, message, key, settings.PromptSettings)
		case "Editor":
			result, err = resolver.Editor(ctx, s.rc, message, key, settings.PromptSettings)
		default:
			panic(vm.NewTypeError("unknown prompt type %q", promptType))
		}
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		return vm.ToValue(result)
	})
}

// promptSettingsArg bundles the decoded ioproto.PromptSettings with the
// JS-side "type" discriminant, which has no Go counterpart in
// ioproto.PromptSettings (the Go API already dispatches via which
// ScriptMessage variant it builds, so "type" only matters at the
// dynamic script boundary).
type promptSettingsArg struct {
	ioproto.PromptSettings
	typ string
}

func decodeSettings(vm *goja.Runtime, v goja.Value) promptSettingsArg {
	var out promptSettingsArg
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return out
	}
	obj := v.ToObject(vm)
	get := func(name string) goja.Value {
		val := obj.Get(name)
		if val == nil || goja.IsUndefined(val) {
			return nil
		}
		return val
	}
	if t := get("type"); t != nil {
		out.typ = t.String()
	}
	if d := get("defaults_with"); d != nil {
		dv := d.Export()
		out.DefaultsWith = &dv
	}
	if p := get("placeholder"); p != nil {
		out.Placeholder = p.String()
	}
	if h := get("help"); h != nil {
		out.Help = h.String()
	}
	if o := get("optional"); o != nil {
		out.Optional = o.ToBoolean()
	}
	if m := get("min"); m != nil {
		f := m.ToFloat()
		out.Min = &f
	}
	if m := get("max"); m != nil {
		f := m.ToFloat()
		out.Max = &f
	}
	if m := get("min_items"); m != nil {
		n := int(m.ToInteger())
		out.MinItems = &n
	}
	if m := get("max_items"); m != nil {
		n := int(m.ToInteger())
		out.MaxItems = &n
	}
	if p := get("page_size"); p != nil {
		out.PageSize = int(p.ToInteger())
	}
	if o := get("options"); o != nil {
		out.Options = exportStrings(o)
	}
	if d := get("defaults"); d != nil {
		out.Defaults = exportStrings(d)
	}
	if c := get("cased_as"); c != nil {
		out.CasedAs = c.String()
	}
	if a := get("answers"); a != nil {
		if m, ok := a.Export().(map[string]any); ok {
			out.AnswerSource = m
		}
	}
	return out
}

func exportStrings(v goja.Value) []string {
	exported := v.Export()
	switch vv := exported.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, len(vv))
		for i, e := range vv {
			out[i] = fmt.Sprintf("%v", e)
		}
		return out
	default:
		return nil
	}
}

// bindLog exposes trace/debug/info/warn/error, each emitting a
// LogRecord ScriptMessage (no reply expected).
func (s *scriptSession) bindLog(ctx context.Context, vm *goja.Runtime) {
	level := func(l ioproto.LogLevel) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			msg := call.Argument(0).String()
			_, _ = s.host.Driver.Send(ctx, ioproto.LogRecord{Level: l, Message: msg})
			return goja.Undefined()
		}
	}
	vm.Set("trace", level(ioproto.LogTrace))
	vm.Set("debug", level(ioproto.LogDebug))
	vm.Set("info", level(ioproto.LogInfo))
	vm.Set("warn", level(ioproto.LogWarn))
	vm.Set("error", level(ioproto.LogError))
	vm.Set("print", func(call goja.FunctionCall) goja.Value {
		_, _ = s.host.Driver.Send(ctx, ioproto.Print{Message: call.Argument(0).String()})
		return goja.Undefined()
	})
	vm.Set("display", func(call goja.FunctionCall) goja.Value {
		_, _ = s.host.Driver.Send(ctx, ioproto.Display{Message: call.Argument(0).String()})
		return goja.Undefined()
	})
}

// bindCasing registers every pkg/casing style and inflection filter as
// a global function, mirroring the template engine's registration
// (spec.md §4.G: "Case and inflection helpers mirroring §4.F").
func (s *scriptSession) bindCasing(vm *goja.Runtime) {
	for _, style := range casing.AllStyles {
		style := style
		vm.Set(string(style), func(in string) string { return casing.Apply(style, in) })
	}
	vm.Set("pluralize", casing.Pluralize)
	vm.Set("plural", casing.Pluralize)
	vm.Set("singularize", casing.Singularize)
	vm.Set("singular", casing.Singularize)
	vm.Set("ordinalize", casing.Ordinalize)
	vm.Set("deordinalize", casing.Deordinalize)
}

// bindRender exposes render(source, destination, settings?), the
// script-facing entry point for child-archetype composition. It
// re-enters Host.RenderArchetype with a cloned RenderContext, per
// spec.md §4.I.
func (s *scriptSession) bindRender(ctx context.Context, vm *goja.Runtime) {
	vm.Set("render", func(call goja.FunctionCall) goja.Value {
		src := call.Argument(0).String()
		dest := s.rc.Destination
		if len(call.Arguments) > 1 {
			dest = call.Argument(1).String()
		}
		overrides := map[string]any{}
		if len(call.Arguments) > 2 {
			if m, ok := call.Argument(2).Export().(map[string]any); ok {
				overrides = m
			}
		}
		if err := render.ContainPath(s.rc.Destination, dest); err != nil {
			panic(vm.ToValue(err.Error()))
		}
		childRC := s.rc.Clone(dest, overrides, &render.EmbeddedInfo{
			ParentSource:      s.dir,
			ParentDestination: s.rc.Destination,
		})
		if err := s.host.RenderArchetype(ctx, childRC, src); err != nil {
			panic(vm.ToValue(err.Error()))
		}
		return goja.Undefined()
	})
}
