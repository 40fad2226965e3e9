// Copyright 2024 The Nichelang Authors
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

// Package fmtutil holds small shared string-rendering helpers used by
// every IR's display.go, mirroring cue/internal/core/adt's
// display-formatting conventions.
package fmtutil

import "strings"

// Entry is a single key/value pair already rendered to strings, ready to
// be joined by DisplayMapLike.
type Entry struct {
	Key   string
	Value string
}

// DisplayMapLike renders entries as "{ k1 sep v1, k2 sep v2 }", or "{}"
// when empty, the shared record/variant/map rendering used across hir,
// layout, and lir Stringers.
func DisplayMapLike(entries []Entry, kvSep, entrySep string) string {
	if len(entries) == 0 {
		return "{}"
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Key + kvSep + e.Value
	}
	return "{ " + strings.Join(parts, entrySep) + " }"
}
