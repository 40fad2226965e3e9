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

package hir

import (
	"github.com/camelid/nichelang/debruijn"
	"github.com/camelid/nichelang/internal/ordmap"
	"github.com/camelid/nichelang/name"
)

// Subst is a substitution (j, value): replace Named(j) with Value inside
// a target type (spec §4.1).
type Subst struct {
	Index debruijn.Index
	Value Ty
}

// SubstTy replaces Named(subst.Index) with subst.Value inside target,
// shifting under Recursive binders to stay capture-avoiding.
func SubstTy(subst Subst, target Ty) Ty {
	switch t := target.(type) {
	case TyU64:
		return t
	case TyBox:
		return TyBox{Elem: SubstTy(subst, t.Elem)}
	case TyRecord:
		return TyRecord{Fields: ordmap.Map2(t.Fields, func(_ name.Name, f Ty) Ty {
			return SubstTy(subst, f)
		})}
	case TyVariant:
		return TyVariant{Variants: ordmap.Map2(t.Variants, func(_ name.Name, f Ty) Ty {
			return SubstTy(subst, f)
		})}
	case TyRecursive:
		inner := Subst{Index: subst.Index.ShiftBy(1), Value: ShiftTy(subst.Value, 1)}
		return TyRecursive{Body: SubstTy(inner, t.Body)}
	case TyNamed:
		if subst.Index.Equal(t.Index) {
			return subst.Value
		}
		return t
	default:
		panic("hir: unreachable Ty variant in SubstTy")
	}
}

// ShiftTy adds offset to every Named index not bound within ty itself.
func ShiftTy(ty Ty, offset uint64) Ty {
	return shiftTyInner(ty, offset, debruijn.Zero)
}

func shiftTyInner(ty Ty, offset uint64, cutoff debruijn.Index) Ty {
	switch t := ty.(type) {
	case TyU64:
		return t
	case TyBox:
		return TyBox{Elem: shiftTyInner(t.Elem, offset, cutoff)}
	case TyRecord:
		return TyRecord{Fields: ordmap.Map2(t.Fields, func(_ name.Name, f Ty) Ty {
			return shiftTyInner(f, offset, cutoff)
		})}
	case TyVariant:
		return TyVariant{Variants: ordmap.Map2(t.Variants, func(_ name.Name, f Ty) Ty {
			return shiftTyInner(f, offset, cutoff)
		})}
	case TyRecursive:
		return TyRecursive{Body: shiftTyInner(t.Body, offset, cutoff.ShiftBy(1))}
	case TyNamed:
		if t.Index.Less(cutoff) {
			return t
		}
		return TyNamed{Index: t.Index.ShiftBy(offset)}
	default:
		panic("hir: unreachable Ty variant in shiftTyInner")
	}
}
