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

// Package hir implements the high-level IR: types and expressions with
// records, tagged variants, iso-recursive types (µ), fold/unfold, let,
// and match (spec §3.2, §3.3).
package hir

import (
	"github.com/camelid/nichelang/debruijn"
	"github.com/camelid/nichelang/internal/ordmap"
	"github.com/camelid/nichelang/name"
)

// Ty is a high-level type: U64, Box, Record, Variant, Recursive, or
// Named. It is a closed sum: isTy seals the interface to the concrete
// types in this file, so an exhaustive type switch here is safe to treat
// as exhaustive everywhere else.
type Ty interface {
	isTy()
	String() string
}

// TyU64 is the sole scalar base type.
type TyU64 struct{}

// TyBox is a pointer indirection; it breaks a recursive-type's
// unfolding chain (spec §3.2).
type TyBox struct {
	Elem Ty
}

// TyRecord is an ordered record type.
type TyRecord struct {
	Fields *ordmap.Map[name.Name, Ty]
}

// TyVariant is a tagged-union type before layout is chosen.
type TyVariant struct {
	Variants *ordmap.Map[name.Name, Ty]
}

// TyRecursive introduces a µ-binder; its body may refer back to it via
// TyNamed.
type TyRecursive struct {
	Body Ty
}

// TyNamed is a De Bruijn reference to an enclosing TyRecursive binder.
type TyNamed struct {
	Index debruijn.Index
}

func (TyU64) isTy()       {}
func (TyBox) isTy()       {}
func (TyRecord) isTy()    {}
func (TyVariant) isTy()   {}
func (TyRecursive) isTy() {}
func (TyNamed) isTy()     {}

// AsRecursive returns the body of t if it is a TyRecursive.
func AsRecursive(t Ty) (Ty, bool) {
	r, ok := t.(TyRecursive)
	if !ok {
		return nil, false
	}
	return r.Body, true
}

// Var is a binder: a name together with its type.
type Var struct {
	Name name.Name
	Ty   Ty
}

// Pat is a match pattern. The surface language has exactly one pattern
// shape (spec §3.3), so unlike Ty and Expr it needs no sum-type
// interface.
type Pat struct {
	Ty      Ty
	Variant name.Name
	Field   Var
}

// MatchCase pairs a pattern with its case body.
type MatchCase struct {
	Pat  Pat
	Body Expr
}

// Expr is a high-level expression. Like Ty, it is a closed sum sealed by
// isExpr.
type Expr interface {
	isExpr()
	String() string
}

// ExprVar references a bound variable.
type ExprVar struct {
	Var Var
}

// ExprU64 is an integer literal.
type ExprU64 struct {
	Value uint64
}

// ExprBox allocates its operand behind a pointer.
type ExprBox struct {
	Value Expr
}

// ExprRecord builds a record value field by field, in order.
type ExprRecord struct {
	Fields *ordmap.Map[name.Name, Expr]
}

// ExprVariant constructs a tagged-union value. Ty is the *whole* variant
// type, not just the chosen arm's field type (spec §3.3).
type ExprVariant struct {
	Ty      Ty
	Variant name.Name
	Field   Expr
}

// ExprFold is the iso-recursive "roll" coercion: value (of the
// unfolded-one-step type) to Ty (a TyRecursive).
type ExprFold struct {
	Ty    Ty
	Value Expr
}

// ExprUnfold is the iso-recursive "unroll" coercion, the dual of Fold.
type ExprUnfold struct {
	Ty    Ty
	Value Expr
}

// ExprLet binds Value to Binder within Body.
type ExprLet struct {
	Binder Var
	Value  Expr
	Body   Expr
}

// ExprMatch discriminates Subj by its variant and dispatches to the
// matching case's body.
type ExprMatch struct {
	Subj  Expr
	Cases []MatchCase
}

func (ExprVar) isExpr()     {}
func (ExprU64) isExpr()     {}
func (ExprBox) isExpr()     {}
func (ExprRecord) isExpr()  {}
func (ExprVariant) isExpr() {}
func (ExprFold) isExpr()    {}
func (ExprUnfold) isExpr()  {}
func (ExprLet) isExpr()     {}
func (ExprMatch) isExpr()   {}
