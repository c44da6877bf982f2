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
	"context"
	"fmt"
	"os"

	"github.com/dop251/goja"
	"github.com/google/go-github/v66/github"
)

// bindGitHub exposes github_repo_exists(owner, name) and
// github_repo_create(name, private), which creates the repository under
// the authenticated user's account: the optional remote-repo
// helpers spec.md §4.G mentions for scripts that want to publish their
// rendered output. Authentication comes from GITHUB_TOKEN; scripts that
// don't reference these functions never pay for a client.
func (s *scriptSession) bindGitHub(ctx context.Context, vm *goja.Runtime) {
	client := func() *github.Client {
		token := os.Getenv("GITHUB_TOKEN")
		c := github.NewClient(nil)
		if token != "" {
			c = c.WithAuthToken(token)
		}
		return c
	}

	vm.Set("github_repo_exists", func(owner, name string) bool {
		_, resp, err := client().Repositories.Get(ctx, owner, name)
		if err != nil {
			if resp != nil && resp.StatusCode == 404 {
				return false
			}
			panic(vm.ToValue(err.Error()))
		}
		return true
	})

	vm.Set("github_repo_create", func(name string, private bool) string {
		repo := &github.Repository{
			Name:    github.Ptr(name),
			Private: github.Ptr(private),
		}
		created, _, err := client().Repositories.Create(ctx, "", repo)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		if created.CloneURL == nil {
			return fmt.Sprintf("https://github.com/%s.git", name)
		}
		return *created.CloneURL
	})
}
