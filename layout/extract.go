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
	"github.com/camelid/nichelang/internal/ordmap"
	"github.com/camelid/nichelang/name"
)

// ExtractedNiche is the result of a successful ExtractNiche call: the
// path from the value's root to where the niche lives, and the niche
// values themselves (spec §4.3).
type ExtractedNiche struct {
	Path  ValuePath
	Niche IntNiches
}

func emptyPathNiche(niche IntNiches) ExtractedNiche {
	return ExtractedNiche{Path: EmptyPath(), Niche: niche}
}

// ExtractNiche recursively descends l looking for count spare values to
// steal for a tag. On success it returns the layout with those values
// removed from wherever they were found, the ExtractedNiche describing
// where and what, and true. On failure it returns l unchanged and false
// (spec §4.3: a type with no spare niche anywhere falls back to a
// direct tag field, per spec §4.2).
func ExtractNiche(l Layout, count uint64) (Layout, ExtractedNiche, bool) {
	switch x := l.(type) {
	case LayoutU64:
		residual, extracted, ok := x.Niches.RemoveSomeValues(count)
		if !ok {
			return l, ExtractedNiche{}, false
		}
		return LayoutU64{Niches: residual}, emptyPathNiche(extracted), true

	case LayoutPtr:
		residual, extracted, ok := x.Niches.RemoveSomeValues(count)
		if !ok {
			return l, ExtractedNiche{}, false
		}
		return LayoutPtr{Pointee: x.Pointee, Niches: residual}, emptyPathNiche(extracted), true

	case LayoutAggregate:
		newFields, found, ok := extractNicheFromFields(x.Fields, count, func(n name.Name) ValueProj {
			return ProjField{Name: n}
		})
		if !ok {
			return l, ExtractedNiche{}, false
		}
		return LayoutAggregate{Fields: newFields}, found, true

	case LayoutVariant:
		switch v := x.Variant.(type) {
		case VariantSingle:
			// FIXME (carried from the Rust source): does this need a
			// projection step of its own? A Single variant is fully
			// transparent to its field, so none is added here.
			newField, found, ok := ExtractNiche(v.Field, count)
			if !ok {
				return l, ExtractedNiche{}, false
			}
			return LayoutVariant{Variant: VariantSingle{Field: newField}}, found, true

		case VariantTagged:
			if newTag, niche, ok := extractNicheFromTag(v.Tag, count); ok {
				return LayoutVariant{Variant: VariantTagged{Tag: newTag, Variants: v.Variants}},
					ExtractedNiche{Path: SingletonPath(ProjTag{}), Niche: niche}, true
			}
			newVariants, found, ok := ExtractNichesFromVariants(v.Variants, count, TagAsVariantRepr(v.Tag))
			if !ok {
				return l, ExtractedNiche{}, false
			}
			return LayoutVariant{Variant: VariantTagged{Tag: v.Tag, Variants: newVariants}}, found, true

		default:
			panic("layout: unreachable VariantLayout variant in ExtractNiche")
		}

	case LayoutRecursive:
		newBody, found, ok := ExtractNiche(x.Body, count)
		if !ok {
			return l, ExtractedNiche{}, false
		}
		return LayoutRecursive{Body: newBody}, found, true

	case LayoutRecurID:
		return l, ExtractedNiche{}, false

	default:
		panic("layout: unreachable Layout variant in ExtractNiche")
	}
}

// ExtractNichesFromVariants tries ExtractNiche on each variant's layout
// in turn, in insertion order, stopping at the first success. repr is
// recorded in the ValueProj so the resulting path says how the variant
// was unwrapped to get there.
func ExtractNichesFromVariants(
	variants *ordmap.Map[name.Name, Layout], count uint64, repr VariantRepr,
) (*ordmap.Map[name.Name, Layout], ExtractedNiche, bool) {
	return extractNicheFromFields(variants, count, func(n name.Name) ValueProj {
		return ProjVariant{Repr: repr, Name: n}
	})
}

// extractNicheFromFields is the shared engine behind both
// ExtractNiche(LayoutAggregate) and ExtractNichesFromVariants: it walks
// an ordered name->Layout map and returns the map with the first
// successfully-extracted field replaced, with that field's path
// prefixed by projFor(name).
func extractNicheFromFields(
	fields *ordmap.Map[name.Name, Layout], count uint64, projFor func(name.Name) ValueProj,
) (*ordmap.Map[name.Name, Layout], ExtractedNiche, bool) {
	for _, n := range fields.Keys() {
		f := fields.MustGet(n)
		newField, inner, ok := ExtractNiche(f, count)
		if !ok {
			continue
		}
		newFields := fields.Clone()
		newFields.Set(n, newField)
		found := ExtractedNiche{
			Path:  inner.Path.WithOuterPath(SingletonPath(projFor(n))),
			Niche: inner.Niche,
		}
		return newFields, found, true
	}
	return fields, ExtractedNiche{}, false
}

func extractNicheFromTag(tl TagLayout, count uint64) (TagLayout, IntNiches, bool) {
	switch t := tl.(type) {
	case TagDirect:
		residual, extracted, ok := t.Niches.RemoveSomeValues(count)
		if !ok {
			return tl, None(), false
		}
		return TagDirect{Values: t.Values, Niches: residual}, extracted, true
	case TagNiche:
		return tl, None(), false
	default:
		panic("layout: unreachable TagLayout variant in extractNicheFromTag")
	}
}
