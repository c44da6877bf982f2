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

package render

import "github.com/gabriel-vasile/mimetype"

// IsBinary classifies data per spec.md §4.F ("body rendering treats the
// entire file as a template if content-inspection classifies it as
// text, otherwise the file is copied byte-for-byte"). mimetype's
// detection tree parents every textual format (json, xml, html, csv,
// source code, ...) under text/plain, so walking Parent() until the
// root is a reliable binary/text split without hand-rolling a
// control-byte heuristic.
func IsBinary(data []byte) bool {
	mt := mimetype.Detect(data)
	for mt != nil {
		if mt.Is("text/plain") {
			return false
		}
		mt = mt.Parent()
	}
	return true
}
