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

package parser_test

import (
	"testing"

	"github.com/camelid/nichelang/debruijn"
	"github.com/camelid/nichelang/hir"
	"github.com/camelid/nichelang/name"
	"github.com/camelid/nichelang/parser"

	qt "github.com/go-quicktest/qt"
)

func TestParseU64Literal(t *testing.T) {
	expr, err := parser.Parse("42")
	qt.Assert(t, qt.IsNil(err))
	u, ok := expr.(hir.ExprU64)
	if !ok {
		t.Fatalf("expected ExprU64, got %T", expr)
	}
	qt.Assert(t, qt.Equals(u.Value, uint64(42)))
}

func TestParseEmptyRecordExpr(t *testing.T) {
	expr, err := parser.Parse("{}")
	qt.Assert(t, qt.IsNil(err))
	rec, ok := expr.(hir.ExprRecord)
	if !ok {
		t.Fatalf("expected ExprRecord, got %T", expr)
	}
	qt.Assert(t, qt.Equals(rec.Fields.Len(), 0))
}

func TestParseRecordExprWithFields(t *testing.T) {
	expr, err := parser.Parse("{ a = 1, b = 2 }")
	qt.Assert(t, qt.IsNil(err))
	rec, ok := expr.(hir.ExprRecord)
	if !ok {
		t.Fatalf("expected ExprRecord, got %T", expr)
	}
	qt.Assert(t, qt.Equals(rec.Fields.Len(), 2))
	a, ok := rec.Fields.Get(name.FromString("a"))
	if !ok {
		t.Fatalf("expected field a")
	}
	qt.Assert(t, qt.Equals(a.(hir.ExprU64).Value, uint64(1)))
}

func TestParseGroupingExpr(t *testing.T) {
	expr, err := parser.Parse("(1)")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(expr.(hir.ExprU64).Value, uint64(1)))
}

func TestParseBoxExpr(t *testing.T) {
	expr, err := parser.Parse("box(1)")
	qt.Assert(t, qt.IsNil(err))
	boxed, ok := expr.(hir.ExprBox)
	if !ok {
		t.Fatalf("expected ExprBox, got %T", expr)
	}
	qt.Assert(t, qt.Equals(boxed.Value.(hir.ExprU64).Value, uint64(1)))
}

func TestParseLetExpr(t *testing.T) {
	expr, err := parser.Parse("let x : U64 = 1 in x : U64")
	qt.Assert(t, qt.IsNil(err))
	let, ok := expr.(hir.ExprLet)
	if !ok {
		t.Fatalf("expected ExprLet, got %T", expr)
	}
	qt.Assert(t, qt.Equals(let.Binder.Name, name.FromString("x")))
	qt.Assert(t, qt.Equals(let.Binder.Ty.(hir.TyU64), hir.TyU64{}))
	v, ok := let.Body.(hir.ExprVar)
	if !ok {
		t.Fatalf("expected the body to be a var reference, got %T", let.Body)
	}
	qt.Assert(t, qt.Equals(v.Var.Name, name.FromString("x")))
}

func TestParseVariantExpr(t *testing.T) {
	expr, err := parser.Parse("<True = {}> as <False of {} | True of {}>")
	qt.Assert(t, qt.IsNil(err))
	variant, ok := expr.(hir.ExprVariant)
	if !ok {
		t.Fatalf("expected ExprVariant, got %T", expr)
	}
	qt.Assert(t, qt.Equals(variant.Variant, name.FromString("True")))
	ty, ok := variant.Ty.(hir.TyVariant)
	if !ok {
		t.Fatalf("expected a TyVariant annotation, got %T", variant.Ty)
	}
	qt.Assert(t, qt.Equals(ty.Variants.Len(), 2))
}

func TestParseFoldUnfoldExpr(t *testing.T) {
	src := "fold [µX. <Nil of {} | Cons of { hd : U64, tl : Box[X] }>] ({})"
	expr, err := parser.Parse(src)
	qt.Assert(t, qt.IsNil(err))
	fold, ok := expr.(hir.ExprFold)
	if !ok {
		t.Fatalf("expected ExprFold, got %T", expr)
	}
	if _, ok := fold.Ty.(hir.TyRecursive); !ok {
		t.Fatalf("expected a TyRecursive annotation, got %T", fold.Ty)
	}

	unfoldExpr, err := parser.Parse("unfold [µX. X] ({})")
	qt.Assert(t, qt.IsNil(err))
	if _, ok := unfoldExpr.(hir.ExprUnfold); !ok {
		t.Fatalf("expected ExprUnfold, got %T", unfoldExpr)
	}
}

func TestParseMatchExpr(t *testing.T) {
	bothVariants := "<False of {} | True of {}>"
	src := "match x : " + bothVariants + " { <False = u : {}> as " + bothVariants + " => 0, <True = u : {}> as " + bothVariants + " => 1 }"
	expr, err := parser.Parse(src)
	qt.Assert(t, qt.IsNil(err))
	m, ok := expr.(hir.ExprMatch)
	if !ok {
		t.Fatalf("expected ExprMatch, got %T", expr)
	}
	qt.Assert(t, qt.Equals(len(m.Cases), 2))
	qt.Assert(t, qt.Equals(m.Cases[0].Pat.Variant, name.FromString("False")))
	qt.Assert(t, qt.Equals(m.Cases[0].Pat.Field.Name, name.FromString("u")))
}

func TestParseAlias(t *testing.T) {
	src := "alias Unit = {} in let x : Unit = {} in x : Unit"
	expr, err := parser.Parse(src)
	qt.Assert(t, qt.IsNil(err))
	let, ok := expr.(hir.ExprLet)
	if !ok {
		t.Fatalf("expected ExprLet, got %T", expr)
	}
	if _, ok := let.Binder.Ty.(hir.TyRecord); !ok {
		t.Fatalf("expected the Unit alias to resolve to TyRecord, got %T", let.Binder.Ty)
	}
}

func TestParseTyToplevelRecursiveNamesResolveDeBruijnIndex(t *testing.T) {
	ty, err := parser.ParseTyToplevel("µX. <Nil of {} | Cons of { hd : U64, tl : Box[X] }>")
	qt.Assert(t, qt.IsNil(err))
	rec, ok := ty.(hir.TyRecursive)
	if !ok {
		t.Fatalf("expected TyRecursive, got %T", ty)
	}
	variant, ok := rec.Body.(hir.TyVariant)
	if !ok {
		t.Fatalf("expected TyVariant body, got %T", rec.Body)
	}
	cons, ok := variant.Variants.Get(name.FromString("Cons"))
	if !ok {
		t.Fatalf("expected a Cons variant")
	}
	consFields := cons.(hir.TyRecord).Fields
	tl, ok := consFields.Get(name.FromString("tl"))
	if !ok {
		t.Fatalf("expected a tl field")
	}
	boxTy, ok := tl.(hir.TyBox)
	if !ok {
		t.Fatalf("expected tl to be boxed, got %T", tl)
	}
	named, ok := boxTy.Elem.(hir.TyNamed)
	if !ok {
		t.Fatalf("expected a Named back-reference, got %T", boxTy.Elem)
	}
	qt.Assert(t, qt.Equals(named.Index.Equal(debruijn.Zero), true))
}

func TestParseTyToplevelU64(t *testing.T) {
	ty, err := parser.ParseTyToplevel("U64")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty.(hir.TyU64), hir.TyU64{}))
}

func TestParseUnexpectedTokenError(t *testing.T) {
	_, err := parser.Parse("=>")
	if err == nil {
		t.Fatalf("expected a syntax error")
	}
}

func TestParseUnknownTypeNameError(t *testing.T) {
	_, err := parser.ParseTyToplevel("NotAType")
	if err == nil {
		t.Fatalf("expected an unknown-name error")
	}
}

func TestParseTrailingInputError(t *testing.T) {
	_, err := parser.Parse("1 2")
	if err == nil {
		t.Fatalf("expected a trailing-input error")
	}
}

func TestParseMissingColonAfterVarNameError(t *testing.T) {
	_, err := parser.Parse("let x = 1 in x")
	if err == nil {
		t.Fatalf("expected a missing-annotation error")
	}
}
