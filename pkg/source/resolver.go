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
	"context"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// sshGitPattern matches the SSH short form user@host:path, e.g.
// git@github.com:acme/x.git, splitting host from repo path.
var sshGitPattern = regexp.MustCompile(`^\S+@(\S+):(.*)$`)

// Resolver classifies and materialises source references, per spec.md
// §4.B. One Resolver owns one gitCache (and therefore one freshened-URL
// set); independent Resolvers in the same process do not share state,
// per the Design Notes guidance against module-level global mutable
// state.
type Resolver struct {
	cacheRoot string
	cache     *gitCache
}

// NewResolver builds a Resolver rooted at cacheRoot (typically
// layout.Layout.CacheDir()).
func NewResolver(cacheRoot string, offline, forceUpdate bool, updateInterval time.Duration) *Resolver {
	return &Resolver{
		cacheRoot: cacheRoot,
		cache:     newGitCache(offline, forceUpdate, updateInterval),
	}
}

// Resolve classifies ref and, for remote git sources, materialises the
// cache. forcePull overrides the update-interval policy for this call
// only (it does not imply Configuration.updates.force for other calls).
func (r *Resolver) Resolve(ctx context.Context, ref string, forcePull bool) (Source, error) {
	if host, path, gitref, ok := parseSSHShortForm(ref); ok {
		return r.resolveRemoteGit(ctx, ref, host, path, gitref, forcePull)
	}

	if u, err := url.Parse(ref); err == nil {
		if strings.Contains(ref, ".git") && u.Host != "" {
			gitref := u.Fragment
			bareURL := ref
			if idx := strings.IndexByte(ref, '#'); idx >= 0 {
				bareURL = ref[:idx]
			}
			return r.resolveRemoteGit(ctx, bareURL, u.Host, u.Path, gitref, forcePull)
		}

		if u.Scheme == "file" {
			localPath := u.Path
			if info, statErr := os.Stat(localPath); statErr == nil && info.IsDir() {
				return Source{Kind: KindLocalDirectory, Path: localPath}, nil
			}
			return Source{}, notFound(localPath)
		}
	}

	expanded := expandPath(ref)
	info, err := os.Stat(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return Source{}, notFound(expanded)
		}
		return Source{}, invalidPath(expanded)
	}
	if info.IsDir() {
		return Source{Kind: KindLocalDirectory, Path: expanded}, nil
	}
	return Source{Kind: KindLocalFile, Path: expanded}, nil
}

func (r *Resolver) resolveRemoteGit(ctx context.Context, url, host, repoPath, gitref string, forcePull bool) (Source, error) {
	cachePath := filepath.Join(r.cacheRoot, CacheKey(host+"/"+repoPath))
	if err := r.cache.ensure(ctx, url, gitref, cachePath, forcePull); err != nil {
		return Source{}, err
	}
	return Source{
		Kind:       KindRemoteGit,
		URL:        url,
		CachedPath: cachePath,
		GitRef:     gitref,
	}, nil
}

// parseSSHShortForm recognises user@host:path[#gitref].
func parseSSHShortForm(ref string) (host, repoPath, gitref string, ok bool) {
	parts := strings.SplitN(ref, "#", 2)
	m := sshGitPattern.FindStringSubmatch(parts[0])
	if m == nil {
		return "", "", "", false
	}
	if len(parts) > 1 {
		gitref = parts[1]
	}
	return m[1], m[2], gitref, true
}

// expandPath performs a minimal shell-style expansion of a leading ~ and
// environment variables. Full shell expansion is an external
// collaborator's concern per spec.md §1; this is the internal fallback
// used when no richer expander is wired in.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			if path == "~" {
				return home
			}
			return filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}
