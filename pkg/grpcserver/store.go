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

package grpcserver

import (
	"context"
	"time"
)

// SessionEvent is one audit-log entry for a render session: its start,
// a sent or received frame, or the session's terminal outcome.
type SessionEvent struct {
	SessionID string
	At        time.Time
	Kind      string // "started", "sent", "received", "completed", "failed"
	Detail    string
}

// SessionStore is the server-mode analogue of a build store: it
// records what a render session did, independent of whether that
// record is ever read back. NewServer falls back to an in-memory
// implementation when no Postgres DSN is configured.
type SessionStore interface {
	Append(ctx context.Context, event SessionEvent) error
	Recent(ctx context.Context, sessionID string, limit int) ([]SessionEvent, error)
	Close() error
}
