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

// Package lir is the low-level IR: the output of lowering, with the
// source language's ADTs already compiled down to records, untagged
// unions, and pointers (spec §5).
package lir

import (
	"github.com/camelid/nichelang/debruijn"
	"github.com/camelid/nichelang/errors"
	"github.com/camelid/nichelang/internal/ordmap"
	"github.com/camelid/nichelang/name"
)

// Ty is a low-level type: no ADTs remain, only records, untagged
// unions, pointers, and the recursive-type scaffolding needed to
// express a Box'd back-edge.
type Ty interface {
	isTy()
}

type TyU64 struct{}

type TyPtr struct{ Pointee Ty }

type TyRecord struct{ Fields *ordmap.Map[name.Name, Ty] }

// TyUntaggedUnion is a record-of-one-active-field type with no
// discriminant of its own; the caller (a Switch on some other field,
// or external knowledge) is responsible for knowing which field is
// live.
type TyUntaggedUnion struct{ Variants *ordmap.Map[name.Name, Ty] }

type TyRecursive struct{ Body Ty }

type TyRecurID struct{ Index debruijn.Index }

func (TyU64) isTy()           {}
func (TyPtr) isTy()           {}
func (TyRecord) isTy()        {}
func (TyUntaggedUnion) isTy() {}
func (TyRecursive) isTy()     {}
func (TyRecurID) isTy()       {}

// Var is a name together with its (low-level) type.
type Var struct {
	Name name.Name
	Ty   Ty
}

// NewVar builds a Var.
func NewVar(n name.Name, ty Ty) Var { return Var{Name: n, Ty: ty} }

// TempVar builds a Var bound to a fresh temporary name.
func TempVar(idx uint64, ty Ty) Var { return Var{Name: name.FromTemp(idx), Ty: ty} }

// Expr is a low-level expression.
type Expr interface {
	isExpr()
	String() string
}

type ExprVar struct{ Var Var }

type ExprU64 struct{ Value uint64 }

type ExprRecord struct{ Fields *ordmap.Map[name.Name, Expr] }

// ExprUntaggedUnion constructs a union value by writing Value into the
// Field slot of a union typed Ty.
type ExprUntaggedUnion struct {
	Ty    Ty
	Field name.Name
	Value Expr
}

type ExprBox struct{ Value Expr }

type ExprDeref struct{ Ptr Expr }

type ExprSelect struct {
	Record Expr
	Field  name.Name
}

// ExprSwitch dispatches on the runtime u64 value of Subj, executing the
// case whose key matches or Default if none does (nil Default is only
// valid when Cases is exhaustive).
type ExprSwitch struct {
	Subj    Var
	Cases   *ordmap.Map[uint64, Expr]
	Default Expr
}

type ExprLet struct {
	Binder Var
	Value  Expr
	Body   Expr
}

func (ExprVar) isExpr()           {}
func (ExprU64) isExpr()           {}
func (ExprRecord) isExpr()        {}
func (ExprUntaggedUnion) isExpr() {}
func (ExprBox) isExpr()           {}
func (ExprDeref) isExpr()         {}
func (ExprSelect) isExpr()        {}
func (ExprSwitch) isExpr()        {}
func (ExprLet) isExpr()           {}

// Value is a fully-evaluated low-level runtime value.
type Value interface {
	isValue()
}

type ValueU64 struct{ Value uint64 }

type ValueRecord struct{ Fields *ordmap.Map[name.Name, Value] }

type ValueBox struct{ Value Value }

func (ValueU64) isValue()    {}
func (ValueRecord) isValue() {}
func (ValueBox) isValue()    {}

// TyOf infers e's static type by structural inspection, a cheap
// re-derivation rather than a real type-checking pass, matching how the
// lowering pass already knows each subexpression's type when it built
// it (spec §5.3).
func TyOf(e Expr) (Ty, error) {
	switch x := e.(type) {
	case ExprVar:
		return x.Var.Ty, nil
	case ExprU64:
		return TyU64{}, nil
	case ExprRecord:
		fields := ordmap.New[name.Name, Ty]()
		var err error
		x.Fields.Range(func(n name.Name, sub Expr) bool {
			var t Ty
			t, err = TyOf(sub)
			if err != nil {
				return false
			}
			fields.Set(n, t)
			return true
		})
		if err != nil {
			return nil, err
		}
		return TyRecord{Fields: fields}, nil
	case ExprUntaggedUnion:
		// FIXME (carried from the Rust source): check types?
		return x.Ty, nil
	case ExprBox:
		elemTy, err := TyOf(x.Value)
		if err != nil {
			return nil, err
		}
		return TyPtr{Pointee: elemTy}, nil
	case ExprDeref:
		ptrTy, err := TyOf(x.Ptr)
		if err != nil {
			return nil, err
		}
		ptr, ok := ptrTy.(TyPtr)
		if !ok {
			return nil, errors.Internalf("Deref of non-pointer type %s", ptrTy)
		}
		return ptr.Pointee, nil
	case ExprSelect:
		recordTy, err := TyOf(x.Record)
		if err != nil {
			return nil, err
		}
		rec, ok := recordTy.(TyRecord)
		if !ok {
			return nil, errors.Internalf("Select on non-record type %s", recordTy)
		}
		fieldTy, ok := rec.Fields.Get(x.Field)
		if !ok {
			return nil, errors.Internalf("Select of missing field %s", x.Field)
		}
		return fieldTy, nil
	case ExprSwitch:
		// FIXME (carried from the Rust source): check types?
		values := x.Cases.Values()
		if len(values) == 0 {
			return nil, errors.EmptyMatchf("switch with no cases")
		}
		return TyOf(values[0])
	case ExprLet:
		return TyOf(x.Body)
	default:
		return nil, errors.Internalf("unreachable Expr variant in TyOf")
	}
}

// IsZST reports whether ty carries no runtime information.
//
// FIXME (carried from the Rust source): this should go away in favor of
// layout.IsZST, which already has the real answer computed during
// synthesis.
func IsZST(ty Ty) bool {
	switch t := ty.(type) {
	case TyU64, TyPtr:
		return false
	case TyRecord:
		return t.Fields.All(func(_ name.Name, f Ty) bool { return IsZST(f) })
	case TyUntaggedUnion:
		return t.Variants.All(func(_ name.Name, f Ty) bool { return IsZST(f) })
	case TyRecursive:
		return IsZST(t.Body)
	case TyRecurID:
		// FIXME (carried from the Rust source): is this correct?
		return false
	default:
		panic("lir: unreachable Ty variant in IsZST")
	}
}
