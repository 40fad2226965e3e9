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
	"fmt"
	"strings"

	"github.com/camelid/nichelang/internal/fmtutil"
)

func (t TyU64) String() string { return "U64" }

func (t TyBox) String() string { return fmt.Sprintf("Box[%s]", t.Elem) }

func (t TyRecord) String() string {
	entries := t.Fields.Entries()
	out := make([]fmtutil.Entry, len(entries))
	for i, p := range entries {
		out[i] = fmtutil.Entry{Key: p.Key.String(), Value: fmt.Sprintf("%s", p.Value)}
	}
	return fmtutil.DisplayMapLike(out, " : ", ", ")
}

func (t TyVariant) String() string {
	entries := t.Variants.Entries()
	parts := make([]string, len(entries))
	for i, p := range entries {
		parts[i] = fmt.Sprintf("%s of %s", p.Key, p.Value)
	}
	return "< " + strings.Join(parts, " | ") + " >"
}

func (t TyRecursive) String() string { return fmt.Sprintf("µ. %s", t.Body) }

func (t TyNamed) String() string { return t.Index.String() }

const printVarTypes = false

func (v Var) String() string {
	if printVarTypes {
		return fmt.Sprintf("(%s : %s)", v.Name, v.Ty)
	}
	return v.Name.String()
}

func (p Pat) String() string {
	return fmt.Sprintf("(<%s = %s> as %s)", p.Variant, p.Field, p.Ty)
}

func (e ExprVar) String() string { return e.Var.String() }

func (e ExprU64) String() string { return fmt.Sprintf("%d_u64", e.Value) }

func (e ExprBox) String() string { return fmt.Sprintf("box(%s)", e.Value) }

func (e ExprRecord) String() string {
	entries := e.Fields.Entries()
	out := make([]fmtutil.Entry, len(entries))
	for i, p := range entries {
		out[i] = fmtutil.Entry{Key: p.Key.String(), Value: fmt.Sprintf("%s", p.Value)}
	}
	return fmtutil.DisplayMapLike(out, " = ", ", ")
}

func (e ExprVariant) String() string {
	return fmt.Sprintf("(<%s = %s> as %s)", e.Variant, e.Field, e.Ty)
}

func (e ExprFold) String() string { return fmt.Sprintf("fold [%s] (%s)", e.Ty, e.Value) }

func (e ExprUnfold) String() string { return fmt.Sprintf("unfold [%s] (%s)", e.Ty, e.Value) }

func (e ExprLet) String() string {
	return fmt.Sprintf("let %s = %s\nin  %s", e.Binder, e.Value, e.Body)
}

func (e ExprMatch) String() string {
	cases := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		cases[i] = fmt.Sprintf("%s => {\n%s\n}", c.Pat, c.Body)
	}
	return fmt.Sprintf("match %s {\n%s\n}", e.Subj, strings.Join(cases, "\n"))
}
