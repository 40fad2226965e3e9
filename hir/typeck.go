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
	"github.com/camelid/nichelang/errors"
	"github.com/camelid/nichelang/internal/ordmap"
	"github.com/camelid/nichelang/name"
)

// Type computes the type of a high-level expression (spec §4.1),
// syntax-directed, then validates the result.
//
// Known weakness, carried over from the Rust source and not fixed here
// (see SPEC_FULL.md's Open Questions): branch-type agreement in Match,
// Fold's annotation, and Unfold's subject type are not checked; Type
// trusts its caller's annotations in those positions.
func Type(e Expr) (Ty, error) {
	ty, err := TypeOf(e)
	if err != nil {
		return nil, err
	}
	if err := Validate(ty); err != nil {
		return nil, err
	}
	return ty, nil
}

// TypeOf computes e's type without validating it; the well-formedness
// check is deferred to wherever the type is actually turned into a
// layout (layout.Of), matching how lowering repeatedly asks for
// subexpression types without re-validating each one.
func TypeOf(e Expr) (Ty, error) {
	switch x := e.(type) {
	case ExprVar:
		return x.Var.Ty, nil
	case ExprU64:
		return TyU64{}, nil
	case ExprBox:
		inner, err := TypeOf(x.Value)
		if err != nil {
			return nil, err
		}
		return TyBox{Elem: inner}, nil
	case ExprRecord:
		rec := ordmap.New[name.Name, Ty]()
		for _, p := range x.Fields.Entries() {
			ft, err := TypeOf(p.Value)
			if err != nil {
				return nil, err
			}
			rec.Set(p.Key, ft)
		}
		return TyRecord{Fields: rec}, nil
	case ExprVariant:
		// FIXME: does not check Field's type against the declared arm.
		return x.Ty, nil
	case ExprFold:
		// FIXME: does not check Value's type against Ty's unfolding.
		return x.Ty, nil
	case ExprUnfold:
		valueTy, err := TypeOf(x.Value)
		if err != nil {
			return nil, err
		}
		body, ok := AsRecursive(x.Ty)
		if !ok {
			return nil, errors.Internalf("Unfold annotation is not a recursive type")
		}
		return SubstTy(Subst{Index: debruijn.Zero, Value: valueTy}, body), nil
	case ExprLet:
		return TypeOf(x.Body)
	case ExprMatch:
		if len(x.Cases) == 0 {
			return nil, errors.EmptyMatchf("match has no cases")
		}
		// FIXME: does not check that every case's body type agrees.
		return TypeOf(x.Cases[0].Body)
	default:
		return nil, errors.Internalf("unreachable Expr variant in Type")
	}
}

// Validate walks ty and fails with an InfiniteRecursiveType error if any
// TyNamed(k) occurs unguarded by an intervening TyBox relative to its
// binder (spec §3.2). A value of µX. X, or µX. {x: X}, has no finite
// representation; requiring a Box on every back-edge guarantees a finite
// base case.
func Validate(ty Ty) error {
	return validateHelper(debruijn.Zero, ty)
}

func validateHelper(maxRecurID debruijn.Index, ty Ty) error {
	switch t := ty.(type) {
	case TyU64:
		return nil
	case TyBox:
		return validateHelper(debruijn.Zero, t.Elem)
	case TyRecord:
		return validateFields(maxRecurID, t.Fields)
	case TyVariant:
		return validateFields(maxRecurID, t.Variants)
	case TyRecursive:
		return validateHelper(maxRecurID.ShiftBy(1), t.Body)
	case TyNamed:
		if t.Index.Less(maxRecurID) {
			return errors.InfiniteRecursiveTypef(
				"infinite recursive type; insert a Box around %s", t.Index)
		}
		return nil
	default:
		return errors.Internalf("unreachable Ty variant in Validate")
	}
}

func validateFields(maxRecurID debruijn.Index, fields *ordmap.Map[name.Name, Ty]) error {
	var err error
	fields.Range(func(_ name.Name, f Ty) bool {
		if e := validateHelper(maxRecurID, f); e != nil {
			err = e
			return false
		}
		return true
	})
	return err
}
