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

package eval_test

import (
	"testing"

	"github.com/camelid/nichelang/eval"
	"github.com/camelid/nichelang/lir"
	"github.com/camelid/nichelang/lower"
	"github.com/camelid/nichelang/parser"

	qt "github.com/go-quicktest/qt"
)

// run parses, lowers, and evaluates src end to end, the same path the
// REPL takes for a bare expression.
func run(t *testing.T, src string) lir.Value {
	t.Helper()
	hirExpr, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	lirExpr, err := lower.LowerRoot(hirExpr)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	val, err := eval.Root(lirExpr)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	return val
}

func TestEvalU64Literal(t *testing.T) {
	val := run(t, "7")
	qt.Assert(t, qt.Equals(val.(lir.ValueU64).Value, uint64(7)))
}

func TestEvalRecord(t *testing.T) {
	val := run(t, "{ a = 1, b = 2 }")
	rec, ok := val.(lir.ValueRecord)
	if !ok {
		t.Fatalf("expected ValueRecord, got %T", val)
	}
	qt.Assert(t, qt.Equals(rec.Fields.Len(), 2))
}

func TestEvalLet(t *testing.T) {
	val := run(t, "let x : U64 = 5 in x : U64")
	qt.Assert(t, qt.Equals(val.(lir.ValueU64).Value, uint64(5)))
}

func TestEvalBox(t *testing.T) {
	val := run(t, "box(9)")
	boxed, ok := val.(lir.ValueBox)
	if !ok {
		t.Fatalf("expected ValueBox, got %T", val)
	}
	qt.Assert(t, qt.Equals(boxed.Value.(lir.ValueU64).Value, uint64(9)))
}

func TestEvalBoolMatch(t *testing.T) {
	boolTy := "<False of {} | True of {}>"
	src := "match <True = {}> as " + boolTy + " { " +
		"<False = u : {}> as " + boolTy + " => 0, " +
		"<True = u : {}> as " + boolTy + " => 1 }"
	val := run(t, src)
	qt.Assert(t, qt.Equals(val.(lir.ValueU64).Value, uint64(1)))
}

func TestEvalMaybeU64MatchSome(t *testing.T) {
	maybeTy := "<None of {} | Some of U64>"
	src := "match <Some = 42> as " + maybeTy + " { " +
		"<None = u : {}> as " + maybeTy + " => 0, " +
		"<Some = u : U64> as " + maybeTy + " => u : U64 }"
	val := run(t, src)
	qt.Assert(t, qt.Equals(val.(lir.ValueU64).Value, uint64(42)))
}

func TestEvalMaybeU64MatchNone(t *testing.T) {
	maybeTy := "<None of {} | Some of U64>"
	src := "match <None = {}> as " + maybeTy + " { " +
		"<None = u : {}> as " + maybeTy + " => 0, " +
		"<Some = u : U64> as " + maybeTy + " => u : U64 }"
	val := run(t, src)
	qt.Assert(t, qt.Equals(val.(lir.ValueU64).Value, uint64(0)))
}

func TestEvalMaybeBoolNicheEncodedMatch(t *testing.T) {
	// Maybe<Bool> niches the "None" tag into Bool's own spare range, so
	// this exercises the Niche-tag construction and projection path end
	// to end rather than the plain Direct-tag path.
	boolTy := "<False of {} | True of {}>"
	maybeBoolTy := "<None of {} | Some of " + boolTy + ">"
	src := "match <Some = <True = {}> as " + boolTy + "> as " + maybeBoolTy + " { " +
		"<None = u : {}> as " + maybeBoolTy + " => 0, " +
		"<Some = u : " + boolTy + "> as " + maybeBoolTy + " => match u : " + boolTy + " { " +
		"<False = w : {}> as " + boolTy + " => 10, " +
		"<True = w : {}> as " + boolTy + " => 11 } }"
	val := run(t, src)
	qt.Assert(t, qt.Equals(val.(lir.ValueU64).Value, uint64(11)))
}
