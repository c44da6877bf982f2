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
	"hash/fnv"
	"strconv"
)

// Fingerprint64 computes a 64-bit non-cryptographic hash of input,
// mirroring the role farmhash::fingerprint64 plays in the original
// implementation: a fast, deterministic, collision-resistant-enough key
// for naming cache directories. FNV-1a is used here rather than farmhash
// itself (no Go port is in the example pack's dependency surface), but
// the contract — same input, same 64-bit output, different (host, path)
// pairs differ with overwhelming probability — is identical.
func Fingerprint64(input string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(input))
	return h.Sum64()
}

// CacheKey renders the fingerprint as unsigned decimal, the exact
// directory-name format the cache uses (see spec.md §3).
func CacheKey(input string) string {
	return strconv.FormatUint(Fingerprint64(input), 10)
}
