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

package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dop251/goja"
	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"
)

func TestGitHelpersInitAddCommitBranchCheckout(t *testing.T) {
	s := newTestSession(t, boolCfg(true), &execFakeDriver{})
	vm := goja.New()
	s.bindGit(vm)

	dest := s.rc.Destination
	require.NoError(t, os.WriteFile(filepath.Join(dest, "README.md"), []byte("hello"), 0o644))

	_, err := vm.RunString(`git_init("")`)
	require.NoError(t, err)
	_, err = vm.RunString(`git_add("", "README.md")`)
	require.NoError(t, err)
	_, err = vm.RunString(`git_commit("", "initial commit", "Test", "test@example.com")`)
	require.NoError(t, err)
	_, err = vm.RunString(`git_branch("", "feature")`)
	require.NoError(t, err)
	_, err = vm.RunString(`git_checkout("", "feature", false)`)
	require.NoError(t, err)

	repo, err := git.PlainOpen(dest)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	require.Equal(t, "refs/heads/feature", head.Name().String())
}

func TestGitRemoteAddRegistersRemote(t *testing.T) {
	s := newTestSession(t, boolCfg(true), &execFakeDriver{})
	vm := goja.New()
	s.bindGit(vm)

	_, err := vm.RunString(`git_init("")`)
	require.NoError(t, err)
	_, err = vm.RunString(`git_remote_add("", "origin", "https://example.com/repo.git")`)
	require.NoError(t, err)

	repo, err := git.PlainOpen(s.rc.Destination)
	require.NoError(t, err)
	remote, err := repo.Remote("origin")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/repo.git", remote.Config().URLs[0])
}

func TestGitHelpersRejectPathEscape(t *testing.T) {
	s := newTestSession(t, boolCfg(true), &execFakeDriver{})
	vm := goja.New()
	s.bindGit(vm)

	_, err := vm.RunString(`git_init("../escape")`)
	require.Error(t, err)
}
