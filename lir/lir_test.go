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

package lir_test

import (
	"testing"

	"github.com/camelid/nichelang/internal/ordmap"
	"github.com/camelid/nichelang/lir"
	"github.com/camelid/nichelang/name"

	qt "github.com/go-quicktest/qt"
)

func recordTy(pairs ...struct {
	name string
	ty   lir.Ty
}) lir.Ty {
	fields := ordmap.New[name.Name, lir.Ty]()
	for _, p := range pairs {
		fields.Set(name.FromString(p.name), p.ty)
	}
	return lir.TyRecord{Fields: fields}
}

func TestPackedSize(t *testing.T) {
	qt.Assert(t, qt.Equals(lir.PackedSize(lir.TyU64{}).Bytes(), uint64(8)))
	qt.Assert(t, qt.Equals(lir.PackedSize(lir.TyPtr{Pointee: lir.TyU64{}}).Bytes(), uint64(8)))

	empty := lir.TyRecord{Fields: ordmap.New[name.Name, lir.Ty]()}
	qt.Assert(t, qt.Equals(lir.PackedSize(empty).Bytes(), uint64(0)))

	pair := recordTy(
		struct {
			name string
			ty   lir.Ty
		}{"0", lir.TyU64{}},
		struct {
			name string
			ty   lir.Ty
		}{"1", lir.TyU64{}},
	)
	qt.Assert(t, qt.Equals(lir.PackedSize(pair).Bytes(), uint64(16)))

	variants := ordmap.New[name.Name, lir.Ty]()
	variants.Set(name.FromString("None"), empty)
	variants.Set(name.FromString("Some"), lir.TyU64{})
	union := lir.TyUntaggedUnion{Variants: variants}
	qt.Assert(t, qt.Equals(lir.PackedSize(union).Bytes(), uint64(8)))

	qt.Assert(t, qt.Equals(lir.PackedSize(lir.TyRecursive{Body: lir.TyU64{}}).Bytes(), uint64(8)))
}

func TestPackedSizeOfBareRecurIDPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected PackedSize of a bare TyRecurID to panic")
		}
	}()
	lir.PackedSize(lir.TyRecurID{})
}

func TestSizeString(t *testing.T) {
	qt.Assert(t, qt.Equals(lir.FromBytes(1).String(), "1 byte"))
	qt.Assert(t, qt.Equals(lir.FromBytes(8).String(), "8 bytes"))
	qt.Assert(t, qt.Equals(lir.Zero.String(), "0 bytes"))
}

func TestTyOf(t *testing.T) {
	v := lir.NewVar(name.FromString("x"), lir.TyU64{})
	ty, err := lir.TyOf(lir.ExprVar{Var: v})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty.(lir.TyU64), lir.TyU64{}))

	ty, err = lir.TyOf(lir.ExprU64{Value: 7})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty.(lir.TyU64), lir.TyU64{}))

	boxed := lir.ExprBox{Value: lir.ExprU64{Value: 1}}
	ty, err = lir.TyOf(boxed)
	qt.Assert(t, qt.IsNil(err))
	ptrTy, ok := ty.(lir.TyPtr)
	if !ok {
		t.Fatalf("expected TyPtr, got %T", ty)
	}
	qt.Assert(t, qt.Equals(ptrTy.Pointee.(lir.TyU64), lir.TyU64{}))

	deref := lir.ExprDeref{Ptr: boxed}
	ty, err = lir.TyOf(deref)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty.(lir.TyU64), lir.TyU64{}))

	_, err = lir.TyOf(lir.ExprDeref{Ptr: lir.ExprU64{Value: 1}})
	if err == nil {
		t.Fatalf("expected Deref of a non-pointer type to error")
	}

	fields := ordmap.New[name.Name, lir.Expr]()
	fields.Set(name.FromString("f"), lir.ExprU64{Value: 1})
	rec := lir.ExprRecord{Fields: fields}
	sel := lir.ExprSelect{Record: rec, Field: name.FromString("f")}
	ty, err = lir.TyOf(sel)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty.(lir.TyU64), lir.TyU64{}))

	_, err = lir.TyOf(lir.ExprSelect{Record: rec, Field: name.FromString("missing")})
	if err == nil {
		t.Fatalf("expected Select of a missing field to error")
	}

	_, err = lir.TyOf(lir.ExprSwitch{
		Subj:  v,
		Cases: ordmap.New[uint64, lir.Expr](),
	})
	if err == nil {
		t.Fatalf("expected an empty Switch to error")
	}
}

func TestIsZST(t *testing.T) {
	empty := lir.TyRecord{Fields: ordmap.New[name.Name, lir.Ty]()}
	qt.Assert(t, qt.Equals(lir.IsZST(empty), true))
	qt.Assert(t, qt.Equals(lir.IsZST(lir.TyU64{}), false))
	qt.Assert(t, qt.Equals(lir.IsZST(lir.TyPtr{Pointee: lir.TyU64{}}), false))

	nonEmpty := recordTy(struct {
		name string
		ty   lir.Ty
	}{"f", lir.TyU64{}})
	qt.Assert(t, qt.Equals(lir.IsZST(nonEmpty), false))

	variants := ordmap.New[name.Name, lir.Ty]()
	variants.Set(name.FromString("A"), empty)
	variants.Set(name.FromString("B"), empty)
	qt.Assert(t, qt.Equals(lir.IsZST(lir.TyUntaggedUnion{Variants: variants}), true))

	qt.Assert(t, qt.Equals(lir.IsZST(lir.TyRecursive{Body: empty}), true))
}
