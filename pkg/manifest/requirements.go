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

package manifest

import (
	"fmt"

	"sigs.k8s.io/release-utils/version"
)

// RequirementsError reports that an archetype's declared requirements
// are not satisfied by the running host, per spec.md §4.K.
type RequirementsError struct {
	Subject  string // "archetect" or "script_engine"
	Spec     string
	Actual   string
}

func (e *RequirementsError) Error() string {
	return fmt.Sprintf("this archetype requires %s %s, but the running %s is %s", e.Subject, e.Spec, e.Subject, e.Actual)
}

// HostVersion returns the running binary's semantic version, sourced
// from build-time ldflags via sigs.k8s.io/release-utils/version the
// same way the teacher's CLI reports its own version.
func HostVersion() string {
	info := version.GetVersionInfo()
	if info.GitVersion != "" && info.GitVersion != "devel" {
		return info.GitVersion
	}
	return "0.0.0"
}

// CheckRequirements validates that requires.archetect and
// requires.script_engine, if set, are satisfied by hostVersion and
// engineVersion respectively. It returns the first unmet requirement.
func CheckRequirements(req Requires, hostVersion, engineVersion string) error {
	if req.Archetect != "" {
		ok, err := SatisfiesVersion(req.Archetect, hostVersion)
		if err != nil {
			return fmt.Errorf("checking archetect requirement: %w", err)
		}
		if !ok {
			return &RequirementsError{Subject: "archetect", Spec: req.Archetect, Actual: hostVersion}
		}
	}
	if req.ScriptEngine != "" {
		ok, err := SatisfiesVersion(req.ScriptEngine, engineVersion)
		if err != nil {
			return fmt.Errorf("checking script_engine requirement: %w", err)
		}
		if !ok {
			return &RequirementsError{Subject: "script_engine", Spec: req.ScriptEngine, Actual: engineVersion}
		}
	}
	return nil
}
