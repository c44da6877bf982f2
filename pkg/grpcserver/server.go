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
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/archetect-run/archetect/pkg/config"
	"github.com/archetect-run/archetect/pkg/ioproto"
	"github.com/archetect-run/archetect/pkg/manifest"
	"github.com/archetect-run/archetect/pkg/render"
	"github.com/archetect-run/archetect/pkg/script"
	"github.com/archetect-run/archetect/pkg/source"
)

// DefaultCapacity is the maximum number of Session streams the server
// runs concurrently; spec.md's server mode bounds this rather than
// letting an unbounded number of scripts run at once.
const DefaultCapacity = 10

// Server is the gRPC analogue of pkg/cli's render command: it accepts
// Session streams, each carrying exactly one render, and reports the
// outcome of each step to an optional SessionStore.
type Server struct {
	Resolver  *source.Resolver
	Engine    *render.Engine
	Config    *config.Configuration
	SourceRef string
	HostVer   string
	Store     SessionStore

	sem chan struct{}
}

// Config bundles the dependencies NewServer wires into each session's
// script.Host, mirroring pkg/cli's runRender wiring. SourceRef is the
// single archetype or catalog this server renders; a gRPC server
// serves one archetype to many clients rather than taking an
// arbitrary source per session, since Initialize carries only answers
// and destination.
type Config struct {
	Resolver  *source.Resolver
	Engine    *render.Engine
	Config    *config.Configuration
	SourceRef string
	Store     SessionStore
	Capacity  int
}

// NewServer builds a Server. Store defaults to an in-memory
// implementation when cfg.Store is nil.
func NewServer(cfg Config) *Server {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore(0)
	}
	return &Server{
		Resolver:  cfg.Resolver,
		Engine:    cfg.Engine,
		Config:    cfg.Config,
		SourceRef: cfg.SourceRef,
		HostVer:   manifest.HostVersion(),
		Store:     store,
		sem:       make(chan struct{}, capacity),
	}
}

var _ sessionServer = (*Server)(nil)

// handleSession is the grpc.StreamHandler bound by ServiceDesc. It
// enforces capacity, requires Initialize as the first frame (spec.md
// §6 wire protocol), then runs a render with a streamDriver as the
// ioproto.Driver.
func (s *Server) handleSession(stream grpc.ServerStream) (err error) {
	ctx := stream.Context()
	log := clog.FromContext(ctx)

	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	default:
		return fmt.Errorf("session capacity exceeded (max %d concurrent renders)", cap(s.sem))
	}

	sessionID := uuid.New().String()

	var first wrapperspb.BytesValue
	if err := stream.RecvMsg(&first); err != nil {
		return fmt.Errorf("reading Initialize: %w", err)
	}
	init, err := decodeInitialize(&first)
	if err != nil {
		return err
	}

	driver := &streamDriver{
		stream: stream,
		record: func(kind, detail string) { s.append(ctx, sessionID, kind, detail) },
	}

	if s.Config.Server.Banner != nil {
		_, _ = driver.Send(ctx, ioproto.Display{Message: *s.Config.Server.Banner})
	}

	answers := map[string]any{}
	for k, v := range s.Config.Answers {
		answers[k] = v
	}
	if init.AnswersYAML != "" {
		if err := mergeAnswersYAML(answers, init.AnswersYAML); err != nil {
			return fmt.Errorf("parsing session answers: %w", err)
		}
	}

	rc := render.NewContext(init.Destination, answers, init.Switches, init.UseDefaults, init.UseDefaultsAll)

	host := script.NewHost(s.Resolver, s.Engine, driver, s.Config, s.HostVer)

	log.Infof("session %s: rendering %s to %s", sessionID, s.SourceRef, init.Destination)
	s.append(ctx, sessionID, "started", init.Destination)

	renderErr := host.RenderArchetype(ctx, rc, s.SourceRef)
	if renderErr != nil {
		s.append(ctx, sessionID, "failed", renderErr.Error())
		_, _ = driver.Send(ctx, ioproto.CompleteError{Message: renderErr.Error()})
		return renderErr
	}

	s.append(ctx, sessionID, "completed", "")
	_, _ = driver.Send(ctx, ioproto.CompleteSuccess{})
	return nil
}

func (s *Server) append(ctx context.Context, sessionID, kind, detail string) {
	if s.Store == nil {
		return
	}
	if err := s.Store.Append(ctx, SessionEvent{SessionID: sessionID, At: time.Now(), Kind: kind, Detail: detail}); err != nil {
		clog.FromContext(ctx).Warnf("recording session event: %v", err)
	}
}
