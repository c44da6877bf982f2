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

package config

// Overrides carries the final merge layer: CLI flags and environment
// variables. Only fields the caller explicitly set are non-nil, which
// is how this layer honours spec.md §4.D step 6 ("applied only when
// the source indicates an explicit user choice, not a default") — the
// Go analogue of the original's ClapSource::CommandLine /
// ValueSource::EnvVariable distinction is simply "this pointer is set".
// A CLI layer built on pflag should only populate a field here when
// `(*pflag.FlagSet).Changed(name)` reports true, or when the
// corresponding environment variable was actually present.
type Overrides struct {
	ForceUpdate *bool
	Offline     *bool
	Headless    *bool
	Local       *bool
	AllowExec   *bool
}

// Apply layers CLI/env overrides onto an already-merged Configuration,
// per spec.md §4.D step 6's recognised mappings.
func Apply(cfg *Configuration, o Overrides) {
	if o.ForceUpdate != nil {
		cfg.Updates.Force = *o.ForceUpdate
	}
	if o.Offline != nil {
		cfg.Offline = *o.Offline
	}
	if o.Headless != nil {
		cfg.Headless = *o.Headless
	}
	if o.Local != nil {
		cfg.Locals.Enabled = *o.Local
	}
	if o.AllowExec != nil {
		v := *o.AllowExec
		cfg.Security.AllowExec = &v
	}
}
