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

// Package layout implements the layout tree that describes exactly
// where a source type's discriminant lives (a direct tag field, or a
// niche hidden inside another field's unused integer range) and the
// niche-discovery synthesis that builds one from a hir.Ty (spec §3.4,
// §4.2, §4.3).
package layout

import (
	"github.com/camelid/nichelang/debruijn"
	"github.com/camelid/nichelang/errors"
	"github.com/camelid/nichelang/internal/ordmap"
	"github.com/camelid/nichelang/name"
)

// Layout is the concrete representation chosen for a hir.Ty: a closed
// sum sealed by isLayout, matching spec §3.4's "use a tagged union /
// discriminated enum, never open class hierarchies" design note.
type Layout interface {
	isLayout()
	String() string
}

// LayoutU64 is a 64-bit scalar carrying whatever niche range remains
// unused after extraction.
type LayoutU64 struct {
	Niches IntNiches
}

// LayoutPtr is a pointer carrying a niche set, by default {0}, the
// null address, via Ptr below.
type LayoutPtr struct {
	Pointee Layout
	Niches  IntNiches
}

// Ptr builds a LayoutPtr with the default null niche.
func Ptr(pointee Layout) Layout {
	return LayoutPtr{Pointee: pointee, Niches: Range(0, 0)}
}

// LayoutAggregate is an ordered record.
type LayoutAggregate struct {
	Fields *ordmap.Map[name.Name, Layout]
}

// LayoutVariant wraps a VariantLayout.
type LayoutVariant struct {
	Variant VariantLayout
}

// LayoutRecursive is a marker binder: its sole purpose is to provide a
// backreference target for a nested LayoutRecurID.
type LayoutRecursive struct {
	Body Layout
}

// LayoutRecurID is a backreference into an enclosing LayoutRecursive.
type LayoutRecurID struct {
	Index debruijn.Index
}

func (LayoutU64) isLayout()       {}
func (LayoutPtr) isLayout()       {}
func (LayoutAggregate) isLayout() {}
func (LayoutVariant) isLayout()   {}
func (LayoutRecursive) isLayout() {}
func (LayoutRecurID) isLayout()   {}

// VariantLayout is either a single transparent variant or a tagged sum
// of several.
type VariantLayout interface {
	isVariantLayout()
}

// VariantSingle is the layout of a 1-variant type: transparent to its
// field.
type VariantSingle struct {
	Field Layout
}

// VariantTagged is the layout of a ≥2-variant type.
type VariantTagged struct {
	Tag      TagLayout
	Variants *ordmap.Map[name.Name, Layout]
}

func (VariantSingle) isVariantLayout() {}
func (VariantTagged) isVariantLayout() {}

// TagLayout is either an explicit discriminant field (Direct) or a
// hidden value at some ValuePath inside the payload (Niche).
type TagLayout interface {
	isTagLayout()
}

// TagDirect is an explicit u64 tag field.
type TagDirect struct {
	Values *ordmap.Map[name.Name, uint64]
	Niches IntNiches
}

// TagNiche is a tag hidden at Path inside the payload; Values maps each
// nullary variant to the value that identifies it there (the payload
// variant itself is absent from Values).
type TagNiche struct {
	Path   ValuePath
	Values *ordmap.Map[name.Name, uint64]
}

func (TagDirect) isTagLayout() {}
func (TagNiche) isTagLayout()  {}

// NewTagDirect builds a Direct tag, computing its residual niches as
// every u64 value minus the ones already assigned.
func NewTagDirect(values *ordmap.Map[name.Name, uint64]) TagDirect {
	niches := Range(0, ^uint64(0))
	for _, v := range values.Values() {
		shrunk, ok := niches.RemoveValue(v)
		if !ok {
			panic("layout: direct tag value assigned twice")
		}
		niches = shrunk
	}
	return TagDirect{Values: values, Niches: niches}
}

// TagIsZST reports whether a TagLayout carries no runtime information:
// Direct tags never are (they are a real field); Niche tags always are
// (the tag has no footprint of its own).
func TagIsZST(tl TagLayout) bool {
	switch tl.(type) {
	case TagDirect:
		return false
	case TagNiche:
		return true
	default:
		panic("layout: unreachable TagLayout variant in TagIsZST")
	}
}

// TagNiches returns the residual niches still available in tl; none for
// a Niche tag, which has no spare room of its own.
func TagNiches(tl TagLayout) IntNiches {
	switch t := tl.(type) {
	case TagDirect:
		return t.Niches
	case TagNiche:
		return None()
	default:
		panic("layout: unreachable TagLayout variant in TagNiches")
	}
}

// TagAsVariantRepr reports the VariantRepr implied by tl: a Direct tag
// wraps its payload in a real "data" field; a Niche tag is transparent.
func TagAsVariantRepr(tl TagLayout) VariantRepr {
	switch tl.(type) {
	case TagDirect:
		return Wrapper
	case TagNiche:
		return Transparent
	default:
		panic("layout: unreachable TagLayout variant in TagAsVariantRepr")
	}
}

// ExpectVariant asserts that l is a LayoutVariant, returning its
// VariantLayout. Callers already know this from having computed l as a
// hir.TyVariant's layout (spec §4.4's lower dispatch); a mismatch is an
// internal error, not a user-facing one.
func ExpectVariant(l Layout) (VariantLayout, error) {
	v, ok := l.(LayoutVariant)
	if !ok {
		return nil, errors.Internalf("expected a variant layout, found %T", l)
	}
	return v.Variant, nil
}

// IsZST reports whether l carries no runtime information (spec §3.6).
func IsZST(l Layout) bool {
	switch x := l.(type) {
	case LayoutU64, LayoutPtr:
		return false
	case LayoutAggregate:
		return x.Fields.All(func(_ name.Name, f Layout) bool { return IsZST(f) })
	case LayoutVariant:
		switch v := x.Variant.(type) {
		case VariantSingle:
			return IsZST(v.Field)
		case VariantTagged:
			return TagIsZST(v.Tag) && v.Variants.All(func(_ name.Name, f Layout) bool { return IsZST(f) })
		default:
			panic("layout: unreachable VariantLayout variant in IsZST")
		}
	case LayoutRecursive:
		return IsZST(x.Body)
	case LayoutRecurID:
		// FIXME (carried from the Rust source): is this correct? A
		// back-edge layout is conservatively treated as non-ZST since
		// its actual size depends on the enclosing Recursive, which
		// isn't visible from here.
		return false
	default:
		panic("layout: unreachable Layout variant in IsZST")
	}
}
