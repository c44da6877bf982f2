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
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/archetect-run/archetect/pkg/ioproto"
)

// streamDriver implements ioproto.Driver over a single gRPC
// bidirectional stream: one Session call, one render, serialized by mu
// since grpc.ServerStream.SendMsg/RecvMsg are not safe to call
// concurrently from multiple goroutines.
type streamDriver struct {
	stream grpc.ServerStream
	mu     sync.Mutex
	record func(kind, detail string)
}

var _ ioproto.Driver = (*streamDriver)(nil)

func (d *streamDriver) Send(ctx context.Context, msg ioproto.ScriptMessage) (ioproto.ClientMessage, error) {
	frame, err := encodeScriptMessage(msg)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.stream.SendMsg(frame); err != nil {
		return nil, fmt.Errorf("sending %T: %w", msg, err)
	}
	if d.record != nil {
		d.record("sent", fmt.Sprintf("%T", msg))
	}
	if !ioproto.ExpectsReply(msg) {
		return nil, nil
	}

	var reply wrapperspb.BytesValue
	if err := d.stream.RecvMsg(&reply); err != nil {
		return nil, fmt.Errorf("receiving reply to %T: %w", msg, err)
	}
	cm, err := decodeClientMessage(&reply)
	if err != nil {
		return nil, err
	}
	if d.record != nil {
		d.record("received", fmt.Sprintf("%T", cm))
	}
	return cm, nil
}
