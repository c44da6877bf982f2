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

package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archetect-run/archetect/pkg/ioproto"
	"github.com/archetect-run/archetect/pkg/manifest"
	"github.com/archetect-run/archetect/pkg/render"
)

type fakeDriver struct {
	reply ioproto.ClientMessage
	err   error
	sent  []ioproto.ScriptMessage
}

func (d *fakeDriver) Send(_ context.Context, msg ioproto.ScriptMessage) (ioproto.ClientMessage, error) {
	d.sent = append(d.sent, msg)
	return d.reply, d.err
}

type fakeDispatcher struct {
	rendered []string
	err      error
}

func (d *fakeDispatcher) RenderArchetype(_ context.Context, _ *render.Context, sourceRef string) error {
	d.rendered = append(d.rendered, sourceRef)
	return d.err
}

func TestPresentDispatchesChosenArchetype(t *testing.T) {
	cm := &manifest.CatalogManifest{
		Description: "pick one",
		Actions: []manifest.Action{
			{Kind: manifest.ActionRenderArchetype, Description: "A Service", Source: "git@github.com:acme/svc.git"},
			{Kind: manifest.ActionRenderArchetype, Description: "A Library", Source: "git@github.com:acme/lib.git"},
		},
	}
	driver := &fakeDriver{reply: ioproto.StringResponse{Value: "A Library"}}
	dispatcher := &fakeDispatcher{}
	e := &Engine{Driver: driver, Dispatcher: dispatcher}

	rc := render.NewContext("/tmp/out", nil, nil, nil, false)
	err := e.Present(context.Background(), rc, cm)
	require.NoError(t, err)
	assert.Equal(t, []string{"git@github.com:acme/lib.git"}, dispatcher.rendered)
}

// TestPresentCancellationIsNonFatal covers Scenario S7: a cancelled
// selection surfaces as SelectionCancelled, not a generic error.
func TestPresentCancellationIsNonFatal(t *testing.T) {
	cm := &manifest.CatalogManifest{
		Description: "pick one",
		Actions: []manifest.Action{
			{Kind: manifest.ActionRenderArchetype, Description: "A Service", Source: "svc"},
		},
	}
	driver := &fakeDriver{reply: ioproto.NoneResponse{}}
	e := &Engine{Driver: driver, Dispatcher: &fakeDispatcher{}}

	rc := render.NewContext("/tmp/out", nil, nil, nil, false)
	err := e.Present(context.Background(), rc, cm)
	require.Error(t, err)
	assert.IsType(t, SelectionCancelled{}, err)
}

func TestPresentGroupRecursesAsNestedCatalog(t *testing.T) {
	cm := &manifest.CatalogManifest{
		Description: "top",
		Actions: []manifest.Action{
			{
				Kind:        manifest.ActionRenderGroup,
				Description: "Bootstrap",
				Actions: []manifest.Action{
					{Kind: manifest.ActionRenderArchetype, Description: "Step 1", Source: "step1"},
				},
			},
		},
	}
	// First Select picks the group, second Select (the nested menu)
	// picks its one action.
	driver := &sequencedDriver{replies: []ioproto.ClientMessage{
		ioproto.StringResponse{Value: "Bootstrap"},
		ioproto.StringResponse{Value: "Step 1"},
	}}
	dispatcher := &fakeDispatcher{}
	e := &Engine{Driver: driver, Dispatcher: dispatcher}

	rc := render.NewContext("/tmp/out", nil, nil, nil, false)
	err := e.Present(context.Background(), rc, cm)
	require.NoError(t, err)
	assert.Equal(t, []string{"step1"}, dispatcher.rendered)
}

func TestPresentEmptyCatalogErrors(t *testing.T) {
	cm := &manifest.CatalogManifest{Description: "empty"}
	e := &Engine{Driver: &fakeDriver{}, Dispatcher: &fakeDispatcher{}}
	rc := render.NewContext("/tmp/out", nil, nil, nil, false)
	err := e.Present(context.Background(), rc, cm)
	require.Error(t, err)
}

type sequencedDriver struct {
	replies []ioproto.ClientMessage
	i       int
}

func (d *sequencedDriver) Send(_ context.Context, _ ioproto.ScriptMessage) (ioproto.ClientMessage, error) {
	r := d.replies[d.i]
	d.i++
	return r, nil
}
