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
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/chainguard-dev/clog"
	"golang.org/x/time/rate"
	"gopkg.in/ini.v1"
)

// pulledConfigSection/Key are where the cache stores the last-fetch
// timestamp, as a custom git config key, per spec.md §3.
const (
	pulledConfigSection = "archetect"
	pulledConfigKey     = "pulled"
)

var defaultBranchCandidates = []string{"develop", "main", "master"}

// gitCache owns the on-disk working trees and the in-process dedup state
// that prevents redundant fetches within a single resolver's lifetime.
type gitCache struct {
	offline        bool
	forceUpdate    bool
	updateInterval time.Duration

	freshenedMu sync.Mutex
	freshened   map[string]struct{}

	// limiter caps how often outbound git subprocesses (clone/fetch)
	// start, at 4 per second with a burst of 4; it does not cap how many
	// run at once. It is independent of the freshened-set dedup above:
	// §5 Design Notes calls the timestamp the authoritative mechanism and
	// the in-process set only an intra-process fast-path; the limiter
	// further protects the host from a render that resolves many
	// distinct remote sources at once.
	limiter *rate.Limiter
}

func newGitCache(offline, forceUpdate bool, updateInterval time.Duration) *gitCache {
	return &gitCache{
		offline:        offline,
		forceUpdate:    forceUpdate,
		updateInterval: updateInterval,
		freshened:      make(map[string]struct{}),
		limiter:        rate.NewLimiter(rate.Limit(4), 4),
	}
}

// ensure clones or fetches url into cachePath and checks out gitref (or
// the resolved default branch), per spec.md §4.B.
func (c *gitCache) ensure(ctx context.Context, url, gitref, cachePath string, forcePull bool) error {
	log := clog.FromContext(ctx)

	if _, err := os.Stat(cachePath); os.IsNotExist(err) {
		if c.offline {
			return offlineAndNotCached(url)
		}
		if !c.markFreshened(url) {
			// Another resolve in this process already owns this URL;
			// a concurrent caller will finish the clone.
			return offlineAndNotCached(url)
		}
		log.Info("cloning", "url", url, "path", cachePath)
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := runGit(ctx, "", "clone", url, cachePath); err != nil {
			return remoteSourceError(url, err)
		}
		if err := writePulledTimestamp(cachePath, time.Now()); err != nil {
			return remoteSourceError(url, err)
		}
	} else if c.markFreshened(url) {
		shouldPull, err := c.shouldPull(cachePath, forcePull)
		if err != nil {
			return remoteSourceError(url, err)
		}
		if shouldPull {
			log.Info("fetching", "url", url, "path", cachePath)
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			if err := runGit(ctx, cachePath, "fetch"); err != nil {
				return remoteSourceError(url, err)
			}
			if err := writePulledTimestamp(cachePath, time.Now()); err != nil {
				return remoteSourceError(url, err)
			}
		} else {
			log.Debug("using cache", "url", url, "path", cachePath)
		}
	}

	resolvedRef := gitref
	if resolvedRef == "" {
		var err error
		resolvedRef, err = findDefaultBranch(ctx, cachePath)
		if err != nil {
			return err
		}
	}

	checkoutRef := resolvedRef
	if isRemoteBranch(ctx, cachePath, resolvedRef) {
		checkoutRef = "origin/" + resolvedRef
	}

	log.Debug("checking out", "ref", checkoutRef)
	if err := runGit(ctx, cachePath, "checkout", checkoutRef); err != nil {
		return remoteSourceError(url, err)
	}
	return nil
}

// markFreshened records that this process has touched url, returning
// true the first time it is called for a given url.
func (c *gitCache) markFreshened(url string) bool {
	c.freshenedMu.Lock()
	defer c.freshenedMu.Unlock()
	if _, ok := c.freshened[url]; ok {
		return false
	}
	c.freshened[url] = struct{}{}
	return true
}

// shouldPull implements the update-interval policy of spec.md §4.B /
// Testable Property 4: the on-disk timestamp is authoritative.
func (c *gitCache) shouldPull(cachePath string, forcePull bool) (bool, error) {
	if c.offline {
		return false, nil
	}
	if c.forceUpdate || forcePull {
		return true, nil
	}
	last, ok, err := readPulledTimestamp(cachePath)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return time.Since(last) > c.updateInterval, nil
}

func readPulledTimestamp(cachePath string) (time.Time, bool, error) {
	cfgPath := filepath.Join(cachePath, ".git", "config")
	cfg, err := ini.Load(cfgPath)
	if err != nil {
		return time.Time{}, false, err
	}
	sec := cfg.Section(pulledConfigSection)
	key := sec.Key(pulledConfigKey)
	if key.String() == "" {
		return time.Time{}, false, nil
	}
	millis, err := key.Int64()
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(millis), true, nil
}

func writePulledTimestamp(cachePath string, at time.Time) error {
	cfgPath := filepath.Join(cachePath, ".git", "config")
	cfg, err := ini.Load(cfgPath)
	if err != nil {
		return err
	}
	cfg.Section(pulledConfigSection).Key(pulledConfigKey).SetValue(formatMillis(at))
	return cfg.SaveTo(cfgPath)
}

// formatMillis renders t as a millisecond Unix timestamp, the unit
// confirmed by the original implementation's chrono::Utc::timestamp_millis.
func formatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
