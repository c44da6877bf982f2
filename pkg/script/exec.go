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
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/archetect-run/archetect/pkg/ioproto"
)

// execAllowed implements spec.md's security.allow_exec tri-state: nil
// means ask the driver, a non-nil bool means allow/deny without a
// prompt.
func (s *scriptSession) execAllowed(ctx context.Context, command string) (bool, error) {
	allow := s.host.Config.Security.AllowExec
	if allow != nil {
		return *allow, nil
	}
	reply, err := s.host.Driver.Send(ctx, ioproto.PromptConfirm{
		Message: fmt.Sprintf("Allow the script to execute %q?", command),
		Settings: ioproto.PromptSettings{
			DefaultsWith: boolPtr(false),
		},
	})
	if err != nil {
		return false, err
	}
	switch resp := reply.(type) {
	case ioproto.BooleanResponse:
		return resp.Value, nil
	case ioproto.NoneResponse:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected exec-confirmation response %T", reply)
	}
}

func boolPtr(b bool) *any {
	var v any = b
	return &v
}

// bindExec exposes execute(command) and capture(command), both running
// a POSIX shell fragment via mvdan.cc/sh/v3 rooted at the render
// destination. execute sends the command's buffered stdout to the
// driver as one Print message once the command finishes; capture
// returns stdout as a string. Both are gated by execAllowed.
func (s *scriptSession) bindExec(ctx context.Context, vm *goja.Runtime) {
	run := func(command string, capture bool) (string, error) {
		allowed, err := s.execAllowed(ctx, command)
		if err != nil {
			return "", err
		}
		if !allowed {
			return "", fmt.Errorf("execution of %q denied", command)
		}

		file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
		if err != nil {
			return "", fmt.Errorf("parsing command: %w", err)
		}

		var stdout, stderr bytes.Buffer
		runner, err := interp.New(
			interp.Dir(s.rc.Destination),
			interp.StdIO(nil, &stdout, &stderr),
		)
		if err != nil {
			return "", err
		}
		if err := runner.Run(ctx, file); err != nil {
			return "", fmt.Errorf("%s: %w (stderr: %s)", command, err, stderr.String())
		}
		if capture {
			return stdout.String(), nil
		}
		if stdout.Len() > 0 {
			_, _ = s.host.Driver.Send(ctx, ioproto.Print{Message: stdout.String()})
		}
		return "", nil
	}

	vm.Set("execute", func(command string) {
		if _, err := run(command, false); err != nil {
			panic(vm.ToValue(err.Error()))
		}
	})

	vm.Set("capture", func(command string) string {
		out, err := run(command, true)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		return out
	})
}
