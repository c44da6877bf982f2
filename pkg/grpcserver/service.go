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

import "google.golang.org/grpc"

// serviceName is the gRPC service path a client dials, in the same
// "<package>.<Service>" shape a .proto-derived ServiceDesc would use.
const serviceName = "archetect.v1.RenderSessionService"

// ServiceDesc is hand-authored rather than generated (see envelope.go
// for why): one bidirectional streaming method, Session, carrying
// ioproto frames in both directions.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*sessionServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Session",
			Handler:       sessionStreamHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "archetect/session.proto",
}

// sessionServer is the interface RegisterService binds ServiceDesc's
// HandlerType to; *Server implements it.
type sessionServer interface {
	handleSession(stream grpc.ServerStream) error
}

func sessionStreamHandler(srv any, stream grpc.ServerStream) error {
	return srv.(sessionServer).handleSession(stream)
}
