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
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/archetect-run/archetect/pkg/grpcserver"
	"github.com/archetect-run/archetect/pkg/render"
	"github.com/archetect-run/archetect/pkg/source"
)

// serverCmd implements "archetect server <source>" (spec.md §6,
// gRPC server mode): it serves one archetype's render over a bounded
// gRPC stream instead of a terminal, following eslerm-melange2's
// cmd/apko-server listen/health/reflection wiring.
func serverCmd(flags *globalFlags) *cobra.Command {
	var listenAddr string
	var capacity int
	var dsn string

	cmd := &cobra.Command{
		Use:   "server <source>",
		Short: "Serve one archetype's render over gRPC instead of a terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, args[0], listenAddr, capacity, dsn)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen-addr", ":9191", "gRPC listen address")
	cmd.Flags().IntVar(&capacity, "capacity", grpcserver.DefaultCapacity, "maximum concurrent render sessions")
	cmd.Flags().StringVar(&dsn, "db-dsn", "", "PostgreSQL DSN for the render-session audit log (defaults to in-memory)")
	return cmd
}

func runServer(cmd *cobra.Command, sourceRef, listenAddr string, capacity int, dsn string) error {
	ctx := cmd.Context()
	state := fromContext(ctx)
	log := clog.FromContext(ctx)

	var store grpcserver.SessionStore
	if dsn != "" {
		if err := grpcserver.RunMigrations(dsn); err != nil {
			return fmt.Errorf("migrating render-session database: %w", err)
		}
		pg, err := grpcserver.NewPostgresStore(ctx, grpcserver.PostgresStoreConfig{DSN: dsn})
		if err != nil {
			return fmt.Errorf("connecting to render-session database: %w", err)
		}
		defer pg.Close()
		store = pg
	}

	resolver := source.NewResolver(state.Layout.CacheDir(), state.Config.Offline, state.Config.Updates.Force, state.Config.Updates.Interval)
	server := grpcserver.NewServer(grpcserver.Config{
		Resolver:  resolver,
		Engine:    render.NewEngine(),
		Config:    state.Config,
		SourceRef: sourceRef,
		Store:     store,
		Capacity:  capacity,
	})

	grpcServer := grpc.NewServer()
	grpcServer.RegisterService(&grpcserver.ServiceDesc, server)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", listenAddr, err)
	}

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(signalCtx)
	eg.Go(func() error {
		log.Infof("rendering %q, gRPC server listening on %s", sourceRef, listenAddr)
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		log.Info("shutting down")
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		grpcServer.GracefulStop()
		return nil
	})

	return eg.Wait()
}
