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
	"github.com/camelid/nichelang/hir"
	"github.com/camelid/nichelang/internal/ordmap"
	"github.com/camelid/nichelang/name"
)

// Of synthesizes a Layout for ty, discovering every niche it can before
// falling back to an explicit tag field (spec §4.2). It first validates
// ty (spec §3.3's well-formedness: every recursive back-edge must cross
// a Box).
func Of(ty hir.Ty) (Layout, error) {
	if err := hir.Validate(ty); err != nil {
		return nil, err
	}
	return layoutOf(ty), nil
}

func layoutOf(ty hir.Ty) Layout {
	switch t := ty.(type) {
	case hir.TyU64:
		return LayoutU64{Niches: None()}
	case hir.TyBox:
		return Ptr(layoutOf(t.Elem))
	case hir.TyRecord:
		fields := ordmap.New[name.Name, Layout]()
		for _, p := range t.Fields.Entries() {
			fields.Set(p.Key, layoutOf(p.Value))
		}
		return LayoutAggregate{Fields: fields}
	case hir.TyVariant:
		switch t.Variants.Len() {
		case 0:
			return layoutOfEmptyType()
		case 1:
			return layoutOfSingletonVariant(t.Variants.Values()[0])
		default:
			return layoutOfMultiVariantType(t.Variants)
		}
	case hir.TyRecursive:
		return LayoutRecursive{Body: layoutOf(t.Body)}
	case hir.TyNamed:
		return LayoutRecurID{Index: t.Index}
	default:
		panic("layout: unreachable hir.Ty variant in layoutOf")
	}
}

// layoutOfEmptyType lays out a 0-variant type: an uninhabited value
// with no fields of its own.
//
// TODO (carried from the Rust source): lay out empty types more
// efficiently; they need no storage at all.
func layoutOfEmptyType() Layout {
	return LayoutVariant{Variant: VariantSingle{Field: LayoutAggregate{Fields: ordmap.New[name.Name, Layout]()}}}
}

func layoutOfSingletonVariant(fieldTy hir.Ty) Layout {
	return LayoutVariant{Variant: VariantSingle{Field: layoutOf(fieldTy)}}
}

func layoutOfMultiVariantType(variantTys *ordmap.Map[name.Name, hir.Ty]) Layout {
	variants := ordmap.New[name.Name, Layout]()
	for _, p := range variantTys.Entries() {
		variants.Set(p.Key, layoutOf(p.Value))
	}
	var tagged VariantTagged
	if nullary, ok := isNicheable(variants); ok {
		tagged = layoutOfTaggedNicheType(variants, nullary)
	} else {
		tagged = layoutOfTaggedDirectType(variants)
	}
	return LayoutVariant{Variant: tagged}
}

// layoutOfTaggedNicheType discovers a niche to hide the tag in, falling
// back to a direct tag field if no niche of the needed size exists
// anywhere in the nullary-free variant's layout.
func layoutOfTaggedNicheType(variants *ordmap.Map[name.Name, Layout], nullaryVariants []name.Name) VariantTagged {
	neededCount := uint64(len(nullaryVariants))

	// If the niche extraction succeeds, the variants are transparent.
	newVariants, found, ok := ExtractNichesFromVariants(variants, neededCount, Transparent)
	if !ok {
		return layoutOfTaggedDirectType(variants)
	}

	niche, ok := found.Niche.AsRange()
	if !ok {
		panic("layout: extracted niche was unexpectedly empty")
	}
	nicheCount, finite := RangeValuesCount(niche)
	if !finite || nicheCount != neededCount {
		panic("layout: extracted niche did not have the requested size")
	}

	tagValues := ordmap.New[name.Name, uint64]()
	for i, n := range nullaryVariants {
		tagValues.Set(n, niche.Lo+uint64(i))
	}

	tag := TagNiche{Path: found.Path, Values: tagValues}
	return VariantTagged{Tag: tag, Variants: newVariants}
}

func layoutOfTaggedDirectType(variants *ordmap.Map[name.Name, Layout]) VariantTagged {
	tagValues := ordmap.New[name.Name, uint64]()
	for i, n := range variants.Keys() {
		tagValues.Set(n, uint64(i))
	}
	return VariantTagged{Tag: NewTagDirect(tagValues), Variants: variants}
}

// isNicheable reports whether exactly one of variants carries real
// data (the rest are ZSTs and so can be told apart by a niche alone),
// returning the names of those nullary variants (spec §4.2's
// nicheability rule).
func isNicheable(variants *ordmap.Map[name.Name, Layout]) ([]name.Name, bool) {
	var foundField bool
	var nullary []name.Name

	for _, p := range variants.Entries() {
		if IsZST(p.Value) {
			nullary = append(nullary, p.Key)
			continue
		}
		if foundField {
			// More than one variant has real data: no niche to hide a
			// tag in.
			return nil, false
		}
		foundField = true
	}

	if !foundField {
		// No variant has real data, so there's no niche to discover.
		return nil, false
	}
	return nullary, true
}
