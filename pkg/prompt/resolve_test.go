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

package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archetect-run/archetect/pkg/ioproto"
	"github.com/archetect-run/archetect/pkg/render"
)

// fakeDriver is a scripted ioproto.Driver: it replays responses in
// order and records every message it was sent, so tests can assert
// Testable Property 7 ("exactly one reply per prompt") without a real
// terminal or gRPC stream.
type fakeDriver struct {
	responses []ioproto.ClientMessage
	sent      []ioproto.ScriptMessage
	i         int
}

func (d *fakeDriver) Send(_ context.Context, msg ioproto.ScriptMessage) (ioproto.ClientMessage, error) {
	d.sent = append(d.sent, msg)
	if !ioproto.ExpectsReply(msg) {
		return nil, nil
	}
	if d.i >= len(d.responses) {
		return nil, assert.AnError
	}
	r := d.responses[d.i]
	d.i++
	return r, nil
}

func TestTextPromptUsesExistingAnswerWithoutPrompting(t *testing.T) {
	rc := render.NewContext("/tmp/out", map[string]any{"name": "Acme"}, nil, nil, false)
	driver := &fakeDriver{}
	r := &Resolver{Driver: driver}

	v, err := r.Text(context.Background(), rc, "Name:", "name", ioproto.PromptSettings{})
	require.NoError(t, err)
	assert.Equal(t, "Acme", v)
	assert.Empty(t, driver.sent, "an existing valid answer must not issue a ScriptMessage")
}

func TestHeadlessNoAnswerFails(t *testing.T) {
	rc := render.NewContext("/tmp/out", nil, nil, nil, false)
	driver := &fakeDriver{}
	r := &Resolver{Driver: driver, Headless: true}

	_, err := r.Text(context.Background(), rc, "Name:", "name", ioproto.PromptSettings{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HeadlessNoAnswer")
	assert.Empty(t, driver.sent)
}

func TestHeadlessWithDefaultSucceeds(t *testing.T) {
	rc := render.NewContext("/tmp/out", nil, nil, nil, false)
	driver := &fakeDriver{}
	r := &Resolver{Driver: driver, Headless: true}

	var def any = "World"
	v, err := r.Text(context.Background(), rc, "Name:", "name", ioproto.PromptSettings{DefaultsWith: &def})
	require.NoError(t, err)
	assert.Equal(t, "World", v)
}

func TestUseDefaultsAllAcceptsDefaultSilently(t *testing.T) {
	rc := render.NewContext("/tmp/out", nil, nil, nil, true)
	driver := &fakeDriver{}
	r := &Resolver{Driver: driver}

	var def any = "World"
	v, err := r.Text(context.Background(), rc, "Name:", "name", ioproto.PromptSettings{DefaultsWith: &def})
	require.NoError(t, err)
	assert.Equal(t, "World", v)
	assert.Empty(t, driver.sent)
}

// TestListPromptNoneResponseNotOptional covers Scenario S5: a
// non-optional prompt answered with None fails, with no partial value.
func TestListPromptNoneResponseNotOptional(t *testing.T) {
	rc := render.NewContext("/tmp/out", nil, nil, nil, false)
	driver := &fakeDriver{responses: []ioproto.ClientMessage{ioproto.NoneResponse{}}}
	r := &Resolver{Driver: driver}

	_, err := r.List(context.Background(), rc, "Services:", "services", ioproto.PromptSettings{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AnswerNotOptional")
}

func TestListPromptNoneResponseOptionalSucceeds(t *testing.T) {
	rc := render.NewContext("/tmp/out", nil, nil, nil, false)
	driver := &fakeDriver{responses: []ioproto.ClientMessage{ioproto.NoneResponse{}}}
	r := &Resolver{Driver: driver}

	v, err := r.List(context.Background(), rc, "Services:", "services", ioproto.PromptSettings{Optional: true})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestIntPromptEnforcesMinMax(t *testing.T) {
	rc := render.NewContext("/tmp/out", map[string]any{"count": int64(42)}, nil, nil, false)
	driver := &fakeDriver{}
	r := &Resolver{Driver: driver}
	min, max := 0.0, 10.0

	// The existing answer (42) fails range validation, so resolution
	// falls through to issuing the prompt.
	driver.responses = []ioproto.ClientMessage{ioproto.IntegerResponse{Value: 5}}
	v, err := r.Int(context.Background(), rc, "Count:", "count", ioproto.PromptSettings{Min: &min, Max: &max})
	require.NoError(t, err)
	assert.EqualValues(t, 5, v)
	assert.Len(t, driver.sent, 1)
}

// TestSelectPromptInvalidExistingAnswerFallsThroughToPrompt covers the
// "an answer exists but fails validation" branch of resolveValue: a
// stale answers-file value outside the current options must not abort
// the render, it falls through to an actual prompt.
func TestSelectPromptInvalidExistingAnswerFallsThroughToPrompt(t *testing.T) {
	rc := render.NewContext("/tmp/out", map[string]any{"env": "staging"}, nil, nil, false)
	driver := &fakeDriver{responses: []ioproto.ClientMessage{ioproto.StringResponse{Value: "prod"}}}
	r := &Resolver{Driver: driver}

	v, err := r.Select(context.Background(), rc, "Environment:", "env", ioproto.PromptSettings{Options: []string{"dev", "prod"}})
	require.NoError(t, err)
	assert.Equal(t, "prod", v)
}

func TestSelectPromptMissingOptionsIsInvalidSetting(t *testing.T) {
	rc := render.NewContext("/tmp/out", nil, nil, nil, false)
	driver := &fakeDriver{}
	r := &Resolver{Driver: driver}

	_, err := r.Select(context.Background(), rc, "Environment:", "env", ioproto.PromptSettings{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InvalidPromptSetting")
}

// TestCasingExpansionReturnsMap covers Scenario S6: a cased select
// answer expands into a map containing both the raw and cased keys.
func TestCasingExpansionReturnsMap(t *testing.T) {
	rc := render.NewContext("/tmp/out", nil, nil, nil, false)
	driver := &fakeDriver{responses: []ioproto.ClientMessage{ioproto.StringResponse{Value: "CustomerOrders"}}}
	r := &Resolver{Driver: driver}

	v, err := r.Select(context.Background(), rc, "Service:", "service_name", ioproto.PromptSettings{
		Options: []string{"CustomerOrders", "Billing"},
		Cases: []ioproto.CasingRule{
			{Strategy: "cased_identity_cased_value", Styles: []string{"kebab_case"}},
		},
	})
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok, "casing expansion should return a map")
	assert.Equal(t, "CustomerOrders", m["service_name"], "the original key -> value entry must still be present")
	assert.Equal(t, "customer-orders", m["service-name"])
}

// TestCasingExpansionFixedIdentityOverwritesKey covers the
// FixedIdentityCasedValue strategy: unlike the Cased* variants, it
// emits the cased value back under the *same* key rather than a
// derived one.
func TestCasingExpansionFixedIdentityOverwritesKey(t *testing.T) {
	rc := render.NewContext("/tmp/out", nil, nil, nil, false)
	driver := &fakeDriver{responses: []ioproto.ClientMessage{ioproto.StringResponse{Value: "CustomerOrders"}}}
	r := &Resolver{Driver: driver}

	v, err := r.Select(context.Background(), rc, "Service:", "service", ioproto.PromptSettings{
		Options: []string{"CustomerOrders", "Billing"},
		CasedAs: "kebab_case",
	})
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok, "casing expansion should return a map")
	assert.Equal(t, "customer-orders", m["service"])
}
