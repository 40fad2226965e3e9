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

// Package lower implements the compiler's final stage: turning a
// hir.Expr, together with the layout niche discovery synthesizes for
// its types, into a lir.Expr with no ADTs left (spec §5).
package lower

import (
	"github.com/camelid/nichelang/errors"
	"github.com/camelid/nichelang/hir"
	"github.com/camelid/nichelang/internal/ordmap"
	"github.com/camelid/nichelang/layout"
	"github.com/camelid/nichelang/lir"
	"github.com/camelid/nichelang/name"
)

// Ctxt threads the fresh-temporary-variable counter through a lowering
// pass. Match lowering needs to name the subject and the switch
// discriminant without colliding with any source-level binder, so it
// draws on a counter private to this Ctxt rather than the source
// names.
type Ctxt struct {
	nextTempVar uint64
}

// NewCtxt starts a fresh lowering context.
func NewCtxt() *Ctxt {
	return &Ctxt{}
}

func (cx *Ctxt) tempVar(ty lir.Ty) lir.Var {
	idx := cx.nextTempVar
	cx.nextTempVar++
	return lir.TempVar(idx, ty)
}

// LowerRoot lowers a whole top-level expression, starting a fresh Ctxt.
func LowerRoot(expr hir.Expr) (lir.Expr, error) {
	return lowerExpr(NewCtxt(), expr)
}

func lowerExpr(cx *Ctxt, expr hir.Expr) (lir.Expr, error) {
	hirTy, err := hir.TypeOf(expr)
	if err != nil {
		return nil, err
	}
	lyt, err := layout.Of(hirTy)
	if err != nil {
		return nil, err
	}

	switch x := expr.(type) {
	case hir.ExprVar:
		v, err := lowerVar(x.Var)
		if err != nil {
			return nil, err
		}
		return lir.ExprVar{Var: v}, nil

	case hir.ExprU64:
		return lir.ExprU64{Value: x.Value}, nil

	case hir.ExprBox:
		inner, err := lowerExpr(cx, x.Value)
		if err != nil {
			return nil, err
		}
		return lir.ExprBox{Value: inner}, nil

	case hir.ExprRecord:
		fields := ordmap.New[name.Name, lir.Expr]()
		var rngErr error
		x.Fields.Range(func(n name.Name, e hir.Expr) bool {
			lowered, err := lowerExpr(cx, e)
			if err != nil {
				rngErr = err
				return false
			}
			fields.Set(n, lowered)
			return true
		})
		if rngErr != nil {
			return nil, rngErr
		}
		return lir.ExprRecord{Fields: fields}, nil

	case hir.ExprVariant:
		variantLyt, err := layout.ExpectVariant(lyt)
		if err != nil {
			return nil, err
		}
		return lowerVariantExpr(cx, variantLyt, x.Variant, x.Field)

	case hir.ExprFold:
		return lowerExpr(cx, x.Value)

	case hir.ExprUnfold:
		return lowerExpr(cx, x.Value)

	case hir.ExprLet:
		binder, err := lowerVar(x.Binder)
		if err != nil {
			return nil, err
		}
		value, err := lowerExpr(cx, x.Value)
		if err != nil {
			return nil, err
		}
		body, err := lowerExpr(cx, x.Body)
		if err != nil {
			return nil, err
		}
		return lir.ExprLet{Binder: binder, Value: value, Body: body}, nil

	case hir.ExprMatch:
		return lowerMatch(cx, x.Subj, x.Cases)

	default:
		return nil, errors.Internalf("unreachable hir.Expr variant in lowerExpr")
	}
}

func lowerVariantExpr(
	cx *Ctxt, variantLyt layout.VariantLayout, variant name.Name, fieldExpr hir.Expr,
) (lir.Expr, error) {
	field, err := lowerExpr(cx, fieldExpr)
	if err != nil {
		return nil, err
	}
	fieldTy, err := lir.TyOf(field)
	if err != nil {
		return nil, err
	}

	switch v := variantLyt.(type) {
	case layout.VariantSingle:
		return field, nil

	case layout.VariantTagged:
		switch tag := v.Tag.(type) {
		case layout.TagDirect:
			tagValue, ok := tag.Values.Get(variant)
			if !ok {
				return nil, errors.Internalf("variant %s has no direct tag value", variant)
			}
			tagExpr := lir.ExprU64{Value: tagValue}
			unionVariants := ordmap.New[name.Name, lir.Ty]()
			v.Variants.Range(func(n name.Name, l layout.Layout) bool {
				unionVariants.Set(n, LowerLayout(l))
				return true
			})
			unionTy := lir.TyUntaggedUnion{Variants: unionVariants}
			unionExpr := lir.ExprUntaggedUnion{Ty: unionTy, Field: variant, Value: field}
			record := ordmap.New[name.Name, lir.Expr]()
			record.Set(name.FromString("tag"), tagExpr)
			record.Set(name.FromString("data"), unionExpr)
			return lir.ExprRecord{Fields: record}, nil

		case layout.TagNiche:
			if lir.IsZST(fieldTy) {
				tagValue, ok := tag.Values.Get(variant)
				if !ok {
					return nil, errors.Internalf("variant %s has no niche tag value", variant)
				}
				return constructNicheNullaryVariant(tag.Path, tagValue), nil
			}
			return field, nil

		default:
			return nil, errors.Internalf("unreachable layout.TagLayout variant in lowerVariantExpr")
		}

	default:
		return nil, errors.Internalf("unreachable layout.VariantLayout variant in lowerVariantExpr")
	}
}

// constructNicheNullaryVariant builds the lir.Expr that represents a
// nullary variant's niche-encoded tag value sitting at path, by
// "reverse projecting" outward from the raw tag value to the root
// record (spec §4.4.1's construction rule).
func constructNicheNullaryVariant(path layout.ValuePath, tagValue uint64) lir.Expr {
	return layout.Fold(path, lir.Expr(lir.ExprU64{Value: tagValue}), func(prev lir.Expr, proj layout.ValueProj) lir.Expr {
		switch p := proj.(type) {
		case layout.ProjField:
			// FIXME (carried from the Rust source): what about the
			// other fields of the record's type?
			fields := ordmap.New[name.Name, lir.Expr]()
			fields.Set(p.Name, prev)
			return lir.ExprRecord{Fields: fields}
		case layout.ProjVariant:
			switch p.Repr {
			case layout.Wrapper:
				// FIXME (carried from the Rust source): is this
				// correct? Is it even reachable?
				fields := ordmap.New[name.Name, lir.Expr]()
				fields.Set(name.FromString("data"), prev)
				return lir.ExprRecord{Fields: fields}
			default:
				return prev
			}
		case layout.ProjTag:
			fields := ordmap.New[name.Name, lir.Expr]()
			fields.Set(name.FromString("tag"), prev)
			return lir.ExprRecord{Fields: fields}
		default:
			panic("lower: unreachable layout.ValueProj variant in constructNicheNullaryVariant")
		}
	})
}

// selectValueAtPath builds the lir.Expr that projects rootValue inward
// along path to the field where a niche-encoded tag lives (spec
// §4.4.2's discrimination rule), the mirror image of
// constructNicheNullaryVariant.
func selectValueAtPath(rootValue lir.Expr, path layout.ValuePath) lir.Expr {
	// layout.Fold visits steps innermost first, but projecting from the
	// root has to take the outermost step first, so fold a reversed copy.
	reversed := layout.Fold(path, layout.EmptyPath(), func(acc layout.ValuePath, proj layout.ValueProj) layout.ValuePath {
		return layout.SingletonPath(proj).WithOuterPath(acc)
	})
	return layout.Fold(reversed, rootValue, func(prev lir.Expr, proj layout.ValueProj) lir.Expr {
		switch p := proj.(type) {
		case layout.ProjField:
			return lir.ExprSelect{Record: prev, Field: p.Name}
		case layout.ProjVariant:
			switch p.Repr {
			case layout.Wrapper:
				// FIXME (carried from the Rust source): is this
				// correct? Is it even reachable?
				return lir.ExprSelect{Record: prev, Field: name.FromString("data")}
			default:
				return prev
			}
		case layout.ProjTag:
			return lir.ExprSelect{Record: prev, Field: name.FromString("tag")}
		default:
			panic("lower: unreachable layout.ValueProj variant in selectValueAtPath")
		}
	})
}

func lowerMatch(cx *Ctxt, hirSubj hir.Expr, hirCases []hir.MatchCase) (lir.Expr, error) {
	subjHirTy, err := hir.TypeOf(hirSubj)
	if err != nil {
		return nil, err
	}
	subjLyt, err := layout.Of(subjHirTy)
	if err != nil {
		return nil, err
	}

	lirSubjExpr, err := lowerExpr(cx, hirSubj)
	if err != nil {
		return nil, err
	}
	lirSubjTy, err := lir.TyOf(lirSubjExpr)
	if err != nil {
		return nil, err
	}
	lirSubj := cx.tempVar(lirSubjTy)

	var matchLir lir.Expr
	switch l := subjLyt.(type) {
	case layout.LayoutVariant:
		matchLir, err = lowerVariantMatch(cx, l.Variant, lirSubj, hirCases)
		if err != nil {
			return nil, err
		}
	default:
		// A well-typed Match's subject always has a variant type; any
		// other layout shape is reported as an internal error.
		return nil, errors.Internalf("match subject layout is not a variant: %T", subjLyt)
	}

	return lir.ExprLet{Binder: lirSubj, Value: lirSubjExpr, Body: matchLir}, nil
}

func lowerVariantMatch(
	cx *Ctxt, variantLyt layout.VariantLayout, lirSubj lir.Var, hirCases []hir.MatchCase,
) (lir.Expr, error) {
	switch v := variantLyt.(type) {
	case layout.VariantSingle:
		return lowerSingleVariantMatch(cx, lirSubj, hirCases)
	case layout.VariantTagged:
		return lowerTaggedVariantMatch(cx, v, lirSubj, hirCases)
	default:
		return nil, errors.Internalf("unreachable layout.VariantLayout variant in lowerVariantMatch")
	}
}

func lowerSingleVariantMatch(cx *Ctxt, lirSubj lir.Var, hirCases []hir.MatchCase) (lir.Expr, error) {
	if len(hirCases) != 1 {
		return nil, errors.Internalf("expected exactly one match case for a single-variant type, got %d", len(hirCases))
	}
	c := hirCases[0]
	return lowerMatchArmBody(cx, c.Pat.Field, lir.ExprVar{Var: lirSubj}, c.Body)
}

func lowerTaggedVariantMatch(
	cx *Ctxt, lyt layout.VariantTagged, lirSubj lir.Var, hirCases []hir.MatchCase,
) (lir.Expr, error) {
	cases := ordmap.New[uint64, lir.Expr]()
	var defaultBody lir.Expr
	haveDefault := false

	for _, c := range hirCases {
		tagValue, body, err := lowerTaggedVariantMatchArm(cx, lyt, lirSubj, c)
		if err != nil {
			return nil, err
		}
		if tagValue == nil {
			if haveDefault {
				return nil, errors.Internalf("more than one match case falls back to the default arm")
			}
			haveDefault = true
			defaultBody = body
			continue
		}
		cases.Set(*tagValue, body)
	}

	var switchSubjExpr lir.Expr
	switch tag := lyt.Tag.(type) {
	case layout.TagDirect:
		switchSubjExpr = lir.ExprSelect{Record: lir.ExprVar{Var: lirSubj}, Field: name.FromString("tag")}
	case layout.TagNiche:
		switchSubjExpr = selectValueAtPath(lir.ExprVar{Var: lirSubj}, tag.Path)
	default:
		return nil, errors.Internalf("unreachable layout.TagLayout variant in lowerTaggedVariantMatch")
	}
	switchSubjTy, err := lir.TyOf(switchSubjExpr)
	if err != nil {
		return nil, err
	}
	switchSubj := cx.tempVar(switchSubjTy)

	var defaultExpr lir.Expr
	if haveDefault {
		defaultExpr = defaultBody
	}
	switchExpr := lir.ExprSwitch{Subj: switchSubj, Cases: cases, Default: defaultExpr}
	return lir.ExprLet{Binder: switchSubj, Value: switchSubjExpr, Body: switchExpr}, nil
}

// lowerTaggedVariantMatchArm lowers one match arm, returning the tag
// value it's keyed on (nil if this arm should become the switch's
// default, only possible for a Niche tag, where a variant with real
// data has no assigned tag value of its own).
func lowerTaggedVariantMatchArm(
	cx *Ctxt, lyt layout.VariantTagged, lirSubj lir.Var, c hir.MatchCase,
) (*uint64, lir.Expr, error) {
	switch tag := lyt.Tag.(type) {
	case layout.TagDirect:
		tagValue, ok := tag.Values.Get(c.Pat.Variant)
		if !ok {
			return nil, nil, errors.Internalf("variant %s has no direct tag value", c.Pat.Variant)
		}
		selectField := lir.ExprSelect{Record: lir.ExprVar{Var: lirSubj}, Field: name.FromString("data")}
		body, err := lowerMatchArmBody(cx, c.Pat.Field, selectField, c.Body)
		if err != nil {
			return nil, nil, err
		}
		v := tagValue
		return &v, body, nil

	case layout.TagNiche:
		body, err := lowerMatchArmBody(cx, c.Pat.Field, lir.ExprVar{Var: lirSubj}, c.Body)
		if err != nil {
			return nil, nil, err
		}
		if tagValue, ok := tag.Values.Get(c.Pat.Variant); ok {
			v := tagValue
			return &v, body, nil
		}
		return nil, body, nil

	default:
		return nil, nil, errors.Internalf("unreachable layout.TagLayout variant in lowerTaggedVariantMatchArm")
	}
}

func lowerMatchArmBody(cx *Ctxt, binder hir.Var, value lir.Expr, body hir.Expr) (lir.Expr, error) {
	lowBinder, err := lowerVar(binder)
	if err != nil {
		return nil, err
	}
	lowBody, err := lowerExpr(cx, body)
	if err != nil {
		return nil, err
	}
	return lir.ExprLet{Binder: lowBinder, Value: value, Body: lowBody}, nil
}

func lowerVar(v hir.Var) (lir.Var, error) {
	lyt, err := layout.Of(v.Ty)
	if err != nil {
		return lir.Var{}, err
	}
	return lir.NewVar(v.Name, LowerLayout(lyt)), nil
}

// LowerLayout turns a discovered Layout into the lir.Ty that actually
// stores it; the ADTs are gone, replaced by records, untagged unions,
// and pointers (spec §5.2).
func LowerLayout(lyt layout.Layout) lir.Ty {
	switch l := lyt.(type) {
	case layout.LayoutU64:
		return lir.TyU64{}
	case layout.LayoutPtr:
		return lir.TyPtr{Pointee: LowerLayout(l.Pointee)}
	case layout.LayoutAggregate:
		fields := ordmap.New[name.Name, lir.Ty]()
		l.Fields.Range(func(n name.Name, f layout.Layout) bool {
			fields.Set(n, LowerLayout(f))
			return true
		})
		return lir.TyRecord{Fields: fields}
	case layout.LayoutVariant:
		switch v := l.Variant.(type) {
		case layout.VariantSingle:
			return LowerLayout(v.Field)
		case layout.VariantTagged:
			switch v.Tag.(type) {
			case layout.TagDirect:
				variantTys := ordmap.New[name.Name, lir.Ty]()
				v.Variants.Range(func(n name.Name, f layout.Layout) bool {
					variantTys.Set(n, LowerLayout(f))
					return true
				})
				dataTy := lir.TyUntaggedUnion{Variants: variantTys}
				// FIXME (carried from the Rust source): "tag"/"data"
				// should be represented differently from user-written
				// field names, or they could collide.
				fields := ordmap.New[name.Name, lir.Ty]()
				fields.Set(name.FromString("tag"), lir.TyU64{})
				fields.Set(name.FromString("data"), dataTy)
				return lir.TyRecord{Fields: fields}
			case layout.TagNiche:
				nullary, ok := isNicheableField(v.Variants)
				if !ok {
					panic("lower: TagNiche variant set has no non-ZST field")
				}
				return LowerLayout(nullary)
			default:
				panic("lower: unreachable layout.TagLayout variant in LowerLayout")
			}
		default:
			panic("lower: unreachable layout.VariantLayout variant in LowerLayout")
		}
	case layout.LayoutRecursive:
		return lir.TyRecursive{Body: LowerLayout(l.Body)}
	case layout.LayoutRecurID:
		return lir.TyRecurID{Index: l.Index}
	default:
		panic("lower: unreachable layout.Layout variant in LowerLayout")
	}
}

// isNicheableField re-derives which variant carries the real data in a
// niche-tagged variant set, mirroring layout.isNicheable's logic
// without re-exporting it.
func isNicheableField(variants *ordmap.Map[name.Name, layout.Layout]) (layout.Layout, bool) {
	var found layout.Layout
	var foundAny bool
	for _, f := range variants.Values() {
		if layout.IsZST(f) {
			continue
		}
		found, foundAny = f, true
	}
	return found, foundAny
}
