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

package hir_test

import (
	"testing"

	"github.com/camelid/nichelang/debruijn"
	"github.com/camelid/nichelang/errors"
	"github.com/camelid/nichelang/hir"
	"github.com/camelid/nichelang/internal/ordmap"
	"github.com/camelid/nichelang/name"

	qt "github.com/go-quicktest/qt"
)

func TestValidateRejectsUnguardedSelfReference(t *testing.T) {
	// µX. X
	ty := hir.TyRecursive{Body: hir.TyNamed{Index: debruijn.Zero}}
	err := hir.Validate(ty)
	if err == nil {
		t.Fatalf("expected an infinite-recursive-type error")
	}
	qt.Assert(t, qt.Equals(errors.Is(err, errors.InfiniteRecursiveType), true))
}

func TestValidateRejectsUnguardedFieldBackEdge(t *testing.T) {
	// µX. { self: X }
	fields := ordmap.New[name.Name, hir.Ty]()
	fields.Set(name.FromString("self"), hir.TyNamed{Index: debruijn.Zero})
	ty := hir.TyRecursive{Body: hir.TyRecord{Fields: fields}}
	err := hir.Validate(ty)
	if err == nil {
		t.Fatalf("expected an infinite-recursive-type error")
	}
	qt.Assert(t, qt.Equals(errors.Is(err, errors.InfiniteRecursiveType), true))
}

func TestValidateAcceptsBoxGuardedBackEdge(t *testing.T) {
	// µX. { next: Box[X] }
	fields := ordmap.New[name.Name, hir.Ty]()
	fields.Set(name.FromString("next"), hir.TyBox{Elem: hir.TyNamed{Index: debruijn.Zero}})
	ty := hir.TyRecursive{Body: hir.TyRecord{Fields: fields}}
	qt.Assert(t, qt.IsNil(hir.Validate(ty)))
}

func TestValidateAcceptsNonRecursiveTypes(t *testing.T) {
	fields := ordmap.New[name.Name, hir.Ty]()
	fields.Set(name.FromString("a"), hir.TyU64{})
	qt.Assert(t, qt.IsNil(hir.Validate(hir.TyRecord{Fields: fields})))
}

func TestTypeOfRecord(t *testing.T) {
	fields := ordmap.New[name.Name, hir.Expr]()
	fields.Set(name.FromString("a"), hir.ExprU64{Value: 1})
	ty, err := hir.Type(hir.ExprRecord{Fields: fields})
	qt.Assert(t, qt.IsNil(err))
	rec, ok := ty.(hir.TyRecord)
	if !ok {
		t.Fatalf("expected TyRecord, got %T", ty)
	}
	fieldTy, ok := rec.Fields.Get(name.FromString("a"))
	if !ok {
		t.Fatalf("expected field a to be present")
	}
	qt.Assert(t, qt.Equals(fieldTy.(hir.TyU64), hir.TyU64{}))
}

func TestTypeOfLetReturnsBodyType(t *testing.T) {
	let := hir.ExprLet{
		Binder: hir.Var{Name: name.FromString("x"), Ty: hir.TyU64{}},
		Value:  hir.ExprU64{Value: 1},
		Body:   hir.ExprVar{Var: hir.Var{Name: name.FromString("x"), Ty: hir.TyU64{}}},
	}
	ty, err := hir.Type(let)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty.(hir.TyU64), hir.TyU64{}))
}

func TestTypeOfEmptyMatchErrors(t *testing.T) {
	_, err := hir.Type(hir.ExprMatch{Subj: hir.ExprU64{Value: 0}, Cases: nil})
	if err == nil {
		t.Fatalf("expected an empty-match error")
	}
	qt.Assert(t, qt.Equals(errors.Is(err, errors.EmptyMatch), true))
}

func TestTypeOfUnfoldSubstitutesBody(t *testing.T) {
	// µX. <Nil of {} | Cons of { hd: U64, tl: Box[X] }>, unfolding once
	// should substitute the whole recursive type back in for X.
	consFields := ordmap.New[name.Name, hir.Ty]()
	consFields.Set(name.FromString("hd"), hir.TyU64{})
	consFields.Set(name.FromString("tl"), hir.TyBox{Elem: hir.TyNamed{Index: debruijn.Zero}})

	variants := ordmap.New[name.Name, hir.Ty]()
	variants.Set(name.FromString("Nil"), hir.TyRecord{Fields: ordmap.New[name.Name, hir.Ty]()})
	variants.Set(name.FromString("Cons"), hir.TyRecord{Fields: consFields})

	listTy := hir.TyRecursive{Body: hir.TyVariant{Variants: variants}}

	unfold := hir.ExprUnfold{
		Ty:    listTy,
		Value: hir.ExprVar{Var: hir.Var{Name: name.FromString("l"), Ty: listTy}},
	}
	ty, err := hir.Type(unfold)
	qt.Assert(t, qt.IsNil(err))

	variant, ok := ty.(hir.TyVariant)
	if !ok {
		t.Fatalf("expected TyVariant, got %T", ty)
	}
	consTy, ok := variant.Variants.Get(name.FromString("Cons"))
	if !ok {
		t.Fatalf("expected a Cons variant")
	}
	consRec, ok := consTy.(hir.TyRecord)
	if !ok {
		t.Fatalf("expected Cons to be a record, got %T", consTy)
	}
	tlTy, ok := consRec.Fields.Get(name.FromString("tl"))
	if !ok {
		t.Fatalf("expected a tl field")
	}
	boxTy, ok := tlTy.(hir.TyBox)
	if !ok {
		t.Fatalf("expected tl to be boxed, got %T", tlTy)
	}
	// The back-edge is substituted with the whole recursive list type,
	// not left as a bare Named reference.
	if _, ok := boxTy.Elem.(hir.TyRecursive); !ok {
		t.Fatalf("expected the substituted back-edge to be the recursive list type, got %T", boxTy.Elem)
	}
}

func TestShiftTyLeavesTypeBoundNamesAlone(t *testing.T) {
	// µX. X shifted by 1 should stay µX. X: the Named(0) is bound by its
	// own enclosing Recursive, so it is below the shift's cutoff.
	ty := hir.TyRecursive{Body: hir.TyNamed{Index: debruijn.Zero}}
	shifted := hir.ShiftTy(ty, 1)
	rec, ok := shifted.(hir.TyRecursive)
	if !ok {
		t.Fatalf("expected TyRecursive, got %T", shifted)
	}
	named, ok := rec.Body.(hir.TyNamed)
	if !ok {
		t.Fatalf("expected TyNamed, got %T", rec.Body)
	}
	qt.Assert(t, qt.Equals(named.Index.Equal(debruijn.Zero), true))
}

func TestShiftTyShiftsFreeNames(t *testing.T) {
	shifted := hir.ShiftTy(hir.TyNamed{Index: debruijn.Zero}, 1)
	named, ok := shifted.(hir.TyNamed)
	if !ok {
		t.Fatalf("expected TyNamed, got %T", shifted)
	}
	qt.Assert(t, qt.Equals(named.Index.Equal(debruijn.New(1)), true))
}
