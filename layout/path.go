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

package layout

import (
	"fmt"

	"github.com/camelid/nichelang/name"
)

// VariantRepr says how a tagged variant's payload sits relative to its
// enclosing record: Wrapper means a real "data" field holds it, while
// Transparent means the variant's representation *is* its field's
// representation (spec §3.4).
type VariantRepr int

const (
	// Wrapper variants have a {tag, data} record representation.
	Wrapper VariantRepr = iota
	// Transparent variants share their sole non-ZST variant's
	// representation exactly.
	Transparent
)

// Descr renders the repr the way path display and error messages want
// it: lowercase, matching the Rust source's "wrapper"/"transparent".
func (r VariantRepr) Descr() string {
	if r == Wrapper {
		return "wrapper"
	}
	return "transparent"
}

// ValueProj is one step of a ValuePath: a field projection, a variant
// unwrap (wrapper or transparent), or the synthetic tag step.
type ValueProj interface {
	isValueProj()
}

// ProjField selects a named record field.
type ProjField struct {
	Name name.Name
}

// ProjVariant unwraps a tagged variant, either through a real "data"
// field (Wrapper) or as a no-op (Transparent); present even when it is
// a no-op so the path stays symbolically meaningful (spec §3.4).
type ProjVariant struct {
	Repr VariantRepr
	Name name.Name
}

// ProjTag selects the real "tag" field of a Direct-tagged record.
type ProjTag struct{}

func (ProjField) isValueProj()   {}
func (ProjVariant) isValueProj() {}
func (ProjTag) isValueProj()     {}

// ValuePath is the path from a value's root to the field that hides a
// niche-encoded tag (spec §3.4). Steps are stored innermost-first (the
// step closest to the leaf scalar carrying the niche is steps[0]); the
// outermost step is last. This is the same order the Rust source's
// reversed Cons-list walks in rfold, so Fold below visits the steps in
// the order construction needs; match lowering folds a reversed copy.
type ValuePath struct {
	steps []ValueProj
}

// EmptyPath is the path to the root value itself.
func EmptyPath() ValuePath { return ValuePath{} }

// SingletonPath wraps a single projection step.
func SingletonPath(p ValueProj) ValuePath {
	return ValuePath{steps: []ValueProj{p}}
}

// WithOuterPath returns the path formed by walking p first (innermost),
// then outer (the steps closer to the root): p's steps followed by
// outer's steps, matching §4.3's "composition of an inner path with an
// outer path concatenates inner++outer".
func (p ValuePath) WithOuterPath(outer ValuePath) ValuePath {
	combined := make([]ValueProj, 0, len(p.steps)+len(outer.steps))
	combined = append(combined, p.steps...)
	combined = append(combined, outer.steps...)
	return ValuePath{steps: combined}
}

// Fold applies f across every step from innermost to outermost, seeded
// with init. Variant construction uses it to build a value outward from
// the raw tag (spec §4.4.1); match discrimination folds a reversed path
// to project a value inward from the root to the tag (spec §4.4.2).
func Fold[R any](p ValuePath, init R, f func(acc R, proj ValueProj) R) R {
	acc := init
	for _, proj := range p.steps {
		acc = f(acc, proj)
	}
	return acc
}

func (p ValuePath) String() string {
	s := "{root}"
	for i := len(p.steps) - 1; i >= 0; i-- {
		switch x := p.steps[i].(type) {
		case ProjField:
			s = fmt.Sprintf("%s.%s", s, x.Name)
		case ProjVariant:
			s = fmt.Sprintf("(%s as(%s) %s)", s, x.Repr.Descr(), x.Name)
		case ProjTag:
			s = fmt.Sprintf("%s.{tag}", s)
		}
	}
	return s
}
