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

package lir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/camelid/nichelang/internal/fmtutil"
)

func (t TyU64) String() string { return "U64" }

func (t TyPtr) String() string { return fmt.Sprintf("Ptr(%s)", t.Pointee) }

func (t TyRecord) String() string {
	entries := t.Fields.Entries()
	out := make([]fmtutil.Entry, len(entries))
	for i, p := range entries {
		out[i] = fmtutil.Entry{Key: p.Key.String(), Value: fmt.Sprintf("%s", p.Value)}
	}
	return fmtutil.DisplayMapLike(out, " : ", ", ")
}

func (t TyUntaggedUnion) String() string {
	entries := t.Variants.Entries()
	out := make([]fmtutil.Entry, len(entries))
	for i, p := range entries {
		out[i] = fmtutil.Entry{Key: p.Key.String(), Value: fmt.Sprintf("%s", p.Value)}
	}
	return "union " + fmtutil.DisplayMapLike(out, " : ", " | ")
}

func (t TyRecursive) String() string { return fmt.Sprintf("µ. %s", t.Body) }

func (t TyRecurID) String() string { return t.Index.String() }

const printVarTypes = false

func (v Var) String() string {
	if printVarTypes {
		return fmt.Sprintf("(%s : %s)", v.Name, v.Ty)
	}
	return v.Name.String()
}

func (e ExprVar) String() string { return e.Var.String() }

func (e ExprU64) String() string { return fmt.Sprintf("%d_u64", e.Value) }

func (e ExprRecord) String() string {
	entries := e.Fields.Entries()
	out := make([]fmtutil.Entry, len(entries))
	for i, p := range entries {
		out[i] = fmtutil.Entry{Key: p.Key.String(), Value: fmt.Sprintf("%s", p.Value)}
	}
	return fmtutil.DisplayMapLike(out, " = ", ", ")
}

func (e ExprUntaggedUnion) String() string {
	return fmt.Sprintf("(<%s = %s> as %s)", e.Field, e.Value, e.Ty)
}

func (e ExprBox) String() string { return fmt.Sprintf("Box(%s)", e.Value) }

func (e ExprDeref) String() string { return fmt.Sprintf("Deref(%s)", e.Ptr) }

func (e ExprSelect) String() string { return fmt.Sprintf("(%s).%s", e.Record, e.Field) }

func (e ExprSwitch) String() string {
	entries := e.Cases.Entries()
	parts := make([]string, len(entries))
	for i, p := range entries {
		parts[i] = fmt.Sprintf("%s => {\n%s\n}", strconv.FormatUint(p.Key, 10), p.Value)
	}
	body := strings.Join(parts, "\n")
	if e.Default != nil {
		if body != "" {
			body += "\n"
		}
		body += fmt.Sprintf("_ => {\n%s\n}", e.Default)
	}
	return fmt.Sprintf("switch %s {\n%s\n}", e.Subj, body)
}

func (e ExprLet) String() string {
	return fmt.Sprintf("let %s = %s\nin  %s", e.Binder, e.Value, e.Body)
}

func (v ValueU64) String() string { return fmt.Sprintf("%d_u64", v.Value) }

func (v ValueRecord) String() string {
	entries := v.Fields.Entries()
	out := make([]fmtutil.Entry, len(entries))
	for i, p := range entries {
		out[i] = fmtutil.Entry{Key: p.Key.String(), Value: fmt.Sprintf("%s", p.Value)}
	}
	return fmtutil.DisplayMapLike(out, " = ", ", ")
}

func (v ValueBox) String() string { return fmt.Sprintf("Box(%s)", v.Value) }
