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

// Package eval is a tree-walking interpreter over lir.Expr, letting the
// REPL show the runtime value a lowered expression actually produces
// (spec §5.4).
package eval

import (
	"github.com/camelid/nichelang/errors"
	"github.com/camelid/nichelang/internal/ordmap"
	"github.com/camelid/nichelang/lir"
	"github.com/camelid/nichelang/name"
)

// ctxt binds names to already-evaluated values. Lookups never iterate
// it, so a plain Go map is fine here: the determinism concern that
// drives internal/ordmap's use everywhere else is about iterating a
// collection to produce output, which never happens to this map.
type ctxt struct {
	vars map[name.Name]lir.Value
}

func emptyCtxt() ctxt {
	return ctxt{vars: map[name.Name]lir.Value{}}
}

func (cx ctxt) with(n name.Name, v lir.Value) ctxt {
	next := make(map[name.Name]lir.Value, len(cx.vars)+1)
	for k, val := range cx.vars {
		next[k] = val
	}
	next[n] = v
	return ctxt{vars: next}
}

// Root evaluates a whole top-level expression in an empty environment.
func Root(expr lir.Expr) (lir.Value, error) {
	return evalExpr(emptyCtxt(), expr)
}

func evalExpr(cx ctxt, expr lir.Expr) (lir.Value, error) {
	switch x := expr.(type) {
	case lir.ExprVar:
		v, ok := cx.vars[x.Var.Name]
		if !ok {
			return nil, errors.Internalf("unbound variable %s during evaluation", x.Var.Name)
		}
		return v, nil

	case lir.ExprU64:
		return lir.ValueU64{Value: x.Value}, nil

	case lir.ExprRecord:
		fields := ordmap.New[name.Name, lir.Value]()
		var rngErr error
		x.Fields.Range(func(n name.Name, e lir.Expr) bool {
			v, err := evalExpr(cx, e)
			if err != nil {
				rngErr = err
				return false
			}
			fields.Set(n, v)
			return true
		})
		if rngErr != nil {
			return nil, rngErr
		}
		return lir.ValueRecord{Fields: fields}, nil

	case lir.ExprUntaggedUnion:
		return evalExpr(cx, x.Value)

	case lir.ExprBox:
		v, err := evalExpr(cx, x.Value)
		if err != nil {
			return nil, err
		}
		return lir.ValueBox{Value: v}, nil

	case lir.ExprDeref:
		ptrVal, err := evalExpr(cx, x.Ptr)
		if err != nil {
			return nil, err
		}
		box, ok := ptrVal.(lir.ValueBox)
		if !ok {
			panic("eval: Deref of a non-Box value")
		}
		return box.Value, nil

	case lir.ExprSelect:
		recordVal, err := evalExpr(cx, x.Record)
		if err != nil {
			return nil, err
		}
		rec, ok := recordVal.(lir.ValueRecord)
		if !ok {
			panic("eval: Select on a non-Record value")
		}
		fieldVal, ok := rec.Fields.Get(x.Field)
		if !ok {
			panic("eval: Select of a missing field")
		}
		return fieldVal, nil

	case lir.ExprSwitch:
		subjVal, ok := cx.vars[x.Subj.Name]
		if !ok {
			return nil, errors.Internalf("unbound switch subject %s during evaluation", x.Subj.Name)
		}
		u64, ok := subjVal.(lir.ValueU64)
		if !ok {
			panic("eval: Switch on a non-U64 value")
		}
		caseBody, ok := x.Cases.Get(u64.Value)
		if !ok {
			if x.Default == nil {
				return nil, errors.Internalf("no matching switch case for value %d and no default", u64.Value)
			}
			caseBody = x.Default
		}
		return evalExpr(cx, caseBody)

	case lir.ExprLet:
		value, err := evalExpr(cx, x.Value)
		if err != nil {
			return nil, err
		}
		return evalExpr(cx.with(x.Binder.Name, value), x.Body)

	default:
		return nil, errors.Internalf("unreachable lir.Expr variant in evalExpr")
	}
}
