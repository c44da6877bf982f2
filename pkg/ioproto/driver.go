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

package ioproto

import "context"

// Driver is the abstract bidirectional channel of spec.md §4.E: a
// terminal UI and a gRPC client both implement it, and the Script Host
// and Render Orchestrator are written against this interface alone so
// they never know which kind of driver is on the other end.
//
// Send delivers msg to the driver. For a ScriptMessage that expects a
// reply (every prompt and every write, per Testable Property 7), Send
// blocks until the corresponding ClientMessage arrives and returns it.
// For a message that expects no reply (LogRecord, Print, Display,
// CompleteSuccess, CompleteError), Send returns (nil, nil) once the
// message has been delivered.
type Driver interface {
	Send(ctx context.Context, msg ScriptMessage) (ClientMessage, error)
}

// ExpectsReply reports whether msg is a ScriptMessage variant the
// protocol requires exactly one ClientMessage reply for.
func ExpectsReply(msg ScriptMessage) bool {
	switch msg.(type) {
	case PromptText, PromptInt, PromptConfirm, PromptSelect, PromptMultiSelect, PromptList, PromptEditor,
		WriteDirectory, WriteFile:
		return true
	default:
		return false
	}
}
