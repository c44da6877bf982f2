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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAppendAndRecent(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, SessionEvent{SessionID: "a", At: time.Now(), Kind: "sent", Detail: "1"}))
	require.NoError(t, s.Append(ctx, SessionEvent{SessionID: "a", At: time.Now(), Kind: "sent", Detail: "2"}))
	require.NoError(t, s.Append(ctx, SessionEvent{SessionID: "b", At: time.Now(), Kind: "sent", Detail: "other"}))

	events, err := s.Recent(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "1", events[0].Detail)
	assert.Equal(t, "2", events[1].Detail)
}

func TestMemoryStoreRecentRespectsLimit(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(ctx, SessionEvent{SessionID: "a", Kind: "sent"}))
	}
	events, err := s.Recent(ctx, "a", 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestMemoryStoreEvictsOldestBeyondMax(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Append(ctx, SessionEvent{SessionID: "a", Detail: string(rune('0' + i))}))
	}
	events, err := s.Recent(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "7", events[0].Detail)
	assert.Equal(t, "9", events[2].Detail)
}

func TestMemoryStoreUnknownSessionReturnsEmpty(t *testing.T) {
	s := NewMemoryStore(0)
	events, err := s.Recent(context.Background(), "missing", 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}
