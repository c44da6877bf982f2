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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	survey "github.com/AlecAivazis/survey/v2"
	"github.com/chainguard-dev/clog"

	"github.com/archetect-run/archetect/pkg/ioproto"
)

// TerminalDriver implements ioproto.Driver against the process's own
// stdin/stdout via AlecAivazis/survey/v2, the interactive-prompt
// library grounded in the retrieval pack alongside dop251/goja
// (_examples/other_examples/manifests/victorzhuk-go-ent/go.mod).
type TerminalDriver struct {
	Logger *clog.Logger
}

var _ ioproto.Driver = (*TerminalDriver)(nil)

func (d *TerminalDriver) Send(ctx context.Context, msg ioproto.ScriptMessage) (ioproto.ClientMessage, error) {
	switch m := msg.(type) {
	case ioproto.PromptText:
		return d.text(m)
	case ioproto.PromptInt:
		return d.int(m)
	case ioproto.PromptConfirm:
		return d.confirm(m)
	case ioproto.PromptSelect:
		return d.selectOne(m)
	case ioproto.PromptMultiSelect:
		return d.multiSelect(m)
	case ioproto.PromptList:
		return d.list(m)
	case ioproto.PromptEditor:
		return d.editor(m)
	case ioproto.LogRecord:
		d.log(m)
		return nil, nil
	case ioproto.Print:
		fmt.Fprintln(os.Stdout, m.Message)
		return nil, nil
	case ioproto.Display:
		fmt.Fprintln(os.Stdout, m.Message)
		return nil, nil
	case ioproto.WriteDirectory:
		if err := os.MkdirAll(m.Path, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", m.Path, err)
		}
		return ioproto.NoneResponse{}, nil
	case ioproto.WriteFile:
		if err := d.writeFile(m); err != nil {
			return nil, err
		}
		return ioproto.NoneResponse{}, nil
	case ioproto.CompleteSuccess:
		return nil, nil
	case ioproto.CompleteError:
		fmt.Fprintln(os.Stderr, m.Message)
		return nil, nil
	default:
		return nil, fmt.Errorf("terminal driver: unhandled message %T", msg)
	}
}

func (d *TerminalDriver) log(m ioproto.LogRecord) {
	switch m.Level {
	case ioproto.LogTrace, ioproto.LogDebug:
		d.Logger.Debugf("%s", m.Message)
	case ioproto.LogInfo:
		d.Logger.Infof("%s", m.Message)
	case ioproto.LogWarn:
		d.Logger.Warnf("%s", m.Message)
	case ioproto.LogError:
		d.Logger.Errorf("%s", m.Message)
	}
}

func (d *TerminalDriver) writeFile(m ioproto.WriteFile) error {
	if _, err := os.Stat(m.Destination); err == nil {
		switch m.ExistingFilePolicy {
		case ioproto.PolicyPreserve:
			return nil
		case ioproto.PolicyPrompt:
			overwrite := false
			prompt := &survey.Confirm{Message: fmt.Sprintf("Overwrite %s?", m.Destination), Default: false}
			if err := survey.AskOne(prompt, &overwrite); err != nil {
				return err
			}
			if !overwrite {
				return nil
			}
		}
	}
	if err := os.MkdirAll(filepath.Dir(m.Destination), 0o755); err != nil {
		return err
	}
	return os.WriteFile(m.Destination, m.Contents, 0o644)
}

func (d *TerminalDriver) text(m ioproto.PromptText) (ioproto.ClientMessage, error) {
	var answer string
	opts := []survey.AskOpt{}
	prompt := &survey.Input{Message: m.Message, Help: m.Settings.Help}
	if m.Settings.DefaultsWith != nil {
		prompt.Default = fmt.Sprintf("%v", *m.Settings.DefaultsWith)
	}
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		if err == terminalInterrupt {
			return ioproto.NoneResponse{}, nil
		}
		return nil, err
	}
	if answer == "" && m.Settings.Optional {
		return ioproto.NoneResponse{}, nil
	}
	return ioproto.StringResponse{Value: answer}, nil
}

func (d *TerminalDriver) int(m ioproto.PromptInt) (ioproto.ClientMessage, error) {
	var raw string
	prompt := &survey.Input{Message: m.Message, Help: m.Settings.Help}
	if m.Settings.DefaultsWith != nil {
		prompt.Default = fmt.Sprintf("%v", *m.Settings.DefaultsWith)
	}
	if err := survey.AskOne(prompt, &raw); err != nil {
		return nil, err
	}
	if raw == "" && m.Settings.Optional {
		return ioproto.NoneResponse{}, nil
	}
	var n int64
	if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
		return nil, fmt.Errorf("%q is not an integer", raw)
	}
	return ioproto.IntegerResponse{Value: n}, nil
}

func (d *TerminalDriver) confirm(m ioproto.PromptConfirm) (ioproto.ClientMessage, error) {
	answer := false
	if m.Settings.DefaultsWith != nil {
		if b, ok := (*m.Settings.DefaultsWith).(bool); ok {
			answer = b
		}
	}
	prompt := &survey.Confirm{Message: m.Message, Default: answer, Help: m.Settings.Help}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return nil, err
	}
	return ioproto.BooleanResponse{Value: answer}, nil
}

func (d *TerminalDriver) selectOne(m ioproto.PromptSelect) (ioproto.ClientMessage, error) {
	var answer string
	prompt := &survey.Select{
		Message:  m.Message,
		Options:  m.Settings.Options,
		PageSize: pageSizeOrDefault(m.Settings.PageSize),
		Help:     m.Settings.Help,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		if err == terminalInterrupt {
			return ioproto.NoneResponse{}, nil
		}
		return nil, err
	}
	return ioproto.StringResponse{Value: answer}, nil
}

func (d *TerminalDriver) multiSelect(m ioproto.PromptMultiSelect) (ioproto.ClientMessage, error) {
	var answers []string
	prompt := &survey.MultiSelect{
		Message:  m.Message,
		Options:  m.Settings.Options,
		PageSize: pageSizeOrDefault(m.Settings.PageSize),
		Help:     m.Settings.Help,
	}
	if err := survey.AskOne(prompt, &answers); err != nil {
		return nil, err
	}
	return ioproto.ArrayResponse{Value: answers}, nil
}

func (d *TerminalDriver) list(m ioproto.PromptList) (ioproto.ClientMessage, error) {
	var raw string
	prompt := &survey.Input{Message: m.Message + " (comma-separated)", Help: m.Settings.Help}
	if err := survey.AskOne(prompt, &raw); err != nil {
		return nil, err
	}
	if raw == "" && m.Settings.Optional {
		return ioproto.NoneResponse{}, nil
	}
	return ioproto.ArrayResponse{Value: splitAndTrim(raw)}, nil
}

func (d *TerminalDriver) editor(m ioproto.PromptEditor) (ioproto.ClientMessage, error) {
	var answer string
	prompt := &survey.Editor{Message: m.Message, Help: m.Settings.Help}
	if m.Settings.DefaultsWith != nil {
		prompt.Default = fmt.Sprintf("%v", *m.Settings.DefaultsWith)
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return nil, err
	}
	return ioproto.StringResponse{Value: answer}, nil
}

func pageSizeOrDefault(n int) int {
	if n <= 0 {
		return 10
	}
	return n
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field != "" {
			out = append(out, field)
		}
	}
	return out
}

var terminalInterrupt = survey.ErrInterrupt
