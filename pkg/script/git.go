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
	"time"

	"github.com/dop251/goja"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/archetect-run/archetect/pkg/render"
)

// bindGit exposes the git_* family of script functions, backed by
// go-git/go-git/v5 rather than the system git binary pkg/source shells
// out to — scripts operate on the rendered output tree after it has
// already been written, so there's no cache/fingerprint concern here,
// just a plain repository the script wants to initialize and commit to
// (spec.md §4.G: "git helpers (init/add/commit/branch/checkout/remote/
// push)").
func (s *scriptSession) bindGit(vm *goja.Runtime) {
	resolveDir := func(rel string) (string, error) {
		dest := s.rc.Destination
		if rel == "" {
			rel = dest
		}
		if err := render.ContainPath(dest, rel); err != nil {
			return "", err
		}
		return rel, nil
	}

	vm.Set("git_init", func(dir string) {
		path, err := resolveDir(dir)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		if _, err := git.PlainInit(path, false); err != nil {
			panic(vm.ToValue(err.Error()))
		}
	})

	vm.Set("git_add", func(dir string, patterns ...string) {
		path, err := resolveDir(dir)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		repo, err := git.PlainOpen(path)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		w, err := repo.Worktree()
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		if len(patterns) == 0 {
			patterns = []string{"."}
		}
		for _, p := range patterns {
			if _, err := w.Add(p); err != nil {
				panic(vm.ToValue(err.Error()))
			}
		}
	})

	vm.Set("git_commit", func(dir, message, authorName, authorEmail string) {
		path, err := resolveDir(dir)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		repo, err := git.PlainOpen(path)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		w, err := repo.Worktree()
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		_, err = w.Commit(message, &git.CommitOptions{
			Author: &object.Signature{
				Name:  authorName,
				Email: authorEmail,
				When:  time.Now(),
			},
		})
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
	})

	vm.Set("git_branch", func(dir, name string) {
		path, err := resolveDir(dir)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		repo, err := git.PlainOpen(path)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		head, err := repo.Head()
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())
		if err := repo.Storer.SetReference(ref); err != nil {
			panic(vm.ToValue(err.Error()))
		}
	})

	vm.Set("git_checkout", func(dir, branch string, create bool) {
		path, err := resolveDir(dir)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		repo, err := git.PlainOpen(path)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		w, err := repo.Worktree()
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		err = w.Checkout(&git.CheckoutOptions{
			Branch: plumbing.NewBranchReferenceName(branch),
			Create: create,
		})
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
	})

	vm.Set("git_remote_add", func(dir, name, url string) {
		path, err := resolveDir(dir)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		repo, err := git.PlainOpen(path)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		_, err = repo.CreateRemote(&config.RemoteConfig{
			Name: name,
			URLs: []string{url},
		})
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
	})

	vm.Set("git_push", func(dir, remote string) {
		path, err := resolveDir(dir)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		repo, err := git.PlainOpen(path)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		if remote == "" {
			remote = "origin"
		}
		err = repo.Push(&git.PushOptions{RemoteName: remote})
		if err != nil && err != git.NoErrAlreadyUpToDate {
			panic(vm.ToValue(err.Error()))
		}
	})
}
