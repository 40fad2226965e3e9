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

package layout

import (
	"fmt"
	"strings"

	"github.com/camelid/nichelang/internal/fmtutil"
)

func (l LayoutU64) String() string { return fmt.Sprintf("U64(niches: %s)", l.Niches) }

func (l LayoutPtr) String() string {
	return fmt.Sprintf("Ptr(pointee: %s, niches: %s)", l.Pointee, l.Niches)
}

func (l LayoutAggregate) String() string {
	entries := l.Fields.Entries()
	out := make([]fmtutil.Entry, len(entries))
	for i, p := range entries {
		out[i] = fmtutil.Entry{Key: p.Key.String(), Value: fmt.Sprintf("%s", p.Value)}
	}
	return "Aggregate " + fmtutil.DisplayMapLike(out, " => ", ", ")
}

func (l LayoutVariant) String() string { return fmt.Sprintf("Variant(%s)", l.Variant) }

func (l LayoutRecursive) String() string { return fmt.Sprintf("Recursive(%s)", l.Body) }

func (l LayoutRecurID) String() string { return fmt.Sprintf("recur%s", l.Index) }

func (v VariantSingle) String() string { return fmt.Sprintf("Single(field: %s)", v.Field) }

func (v VariantTagged) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tagged(tag: %s, variants:\n", v.Tag)
	for _, p := range v.Variants.Entries() {
		fmt.Fprintf(&b, "| %s => %s\n", p.Key, p.Value)
	}
	b.WriteByte(')')
	return b.String()
}

func (tl TagDirect) String() string {
	entries := tl.Values.Entries()
	out := make([]fmtutil.Entry, len(entries))
	for i, p := range entries {
		out[i] = fmtutil.Entry{Key: p.Key.String(), Value: fmt.Sprintf("%d", p.Value)}
	}
	return fmt.Sprintf("Direct(values: %s, niches: %s)", fmtutil.DisplayMapLike(out, " => ", ", "), tl.Niches)
}

func (tl TagNiche) String() string {
	entries := tl.Values.Entries()
	out := make([]fmtutil.Entry, len(entries))
	for i, p := range entries {
		out[i] = fmtutil.Entry{Key: p.Key.String(), Value: fmt.Sprintf("%d", p.Value)}
	}
	return fmt.Sprintf("Niche(path: %s, values: %s)", tl.Path, fmtutil.DisplayMapLike(out, " => ", ", "))
}
