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

package source

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// runGit shells out to the system git binary, per spec.md §4.B ("each
// clone/fetch/checkout is a shell-out to the system git binary and
// reports the child's exit code on failure"). dir, if non-empty, is the
// working directory for the subprocess.
func runGit(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("git %v: exit code %d: %s", args, exitErr.ExitCode(), stderr.String())
		}
		return fmt.Errorf("git %v: %w", args, err)
	}
	return nil
}

// isRemoteBranch reports whether ref resolves as a remote-tracking
// branch under origin, via `git show-ref --verify`.
func isRemoteBranch(ctx context.Context, dir, ref string) bool {
	err := runGit(ctx, dir, "show-ref", "-q", "--verify", "refs/remotes/origin/"+ref)
	return err == nil
}

// findDefaultBranch tries develop, main, master in that order, per
// spec.md §4.B and confirmed by the original's find_default_branch.
func findDefaultBranch(ctx context.Context, dir string) (string, error) {
	for _, candidate := range defaultBranchCandidates {
		if isRemoteBranch(ctx, dir, candidate) {
			return candidate, nil
		}
	}
	return "", noDefaultBranch(dir)
}
