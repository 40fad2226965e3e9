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

// Package errors defines the small error taxonomy described in spec
// §7: syntax errors and infinite-recursive-type errors are ordinary,
// user-facing diagnostics returned as error values; internal type
// inconsistencies (projecting a field off a non-record, matching a
// non-variant) are programming errors, reported through the same Error
// type but tagged Internal so callers at the process boundary
// (cmd/nichelang) can tell them apart: the REPL keeps reading lines
// after one but exits non-zero at the end.
package errors

import (
	goerrors "errors"
	"fmt"
)

// Kind classifies an Error per spec §7.
type Kind int

const (
	// Syntax is a malformed-source error from the parser (§7.1).
	Syntax Kind = iota
	// InfiniteRecursiveType is a Named(k) not guarded by a Box relative
	// to its binder (§7.2).
	InfiniteRecursiveType
	// Internal signals a precondition violation that is guaranteed not
	// to occur on well-typed input, a programming error (§7.3).
	Internal
	// EmptyMatch is a Match with zero cases (§7.4).
	EmptyMatch
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax error"
	case InfiniteRecursiveType:
		return "infinite recursive type"
	case Internal:
		return "internal error"
	case EmptyMatch:
		return "empty match"
	default:
		return "error"
	}
}

// Error is the error type produced by every core-module component. It
// implements the standard error interface plus Kind, so callers can
// distinguish "abort the compile, print a message" (Syntax,
// InfiniteRecursiveType, EmptyMatch) from "this is a compiler bug"
// (Internal).
type Error struct {
	kind Kind
	msg  string
	wrap error
}

// New builds a Syntax error, the most common case. Parser callers that
// need a different Kind use NewKind.
func New(format string, args ...any) *Error {
	return NewKind(Syntax, format, args...)
}

// NewKind builds an Error of the given Kind.
func NewKind(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches an underlying cause, preserved by Unwrap.
func (e *Error) Wrap(cause error) *Error {
	e.wrap = cause
	return e
}

func (e *Error) Error() string {
	if e.wrap != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.wrap)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Unwrap supports errors.Is/errors.As over a wrapped cause.
func (e *Error) Unwrap() error {
	return e.wrap
}

// Kind reports the error's classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// Is reports whether err is an *Error of the given kind, the common
// query at call-site boundaries (e.g. the REPL deciding whether a failed
// line should make the process exit non-zero).
func Is(err error, kind Kind) bool {
	var e *Error
	if !goerrors.As(err, &e) {
		return false
	}
	return e.kind == kind
}

// Internalf is a convenience constructor for Kind == Internal, used at
// the "this cannot happen on well-typed input" call sites named in
// spec §7.3 (non-record projection, non-pointer deref, non-variant
// match).
func Internalf(format string, args ...any) *Error {
	return NewKind(Internal, format, args...)
}

// InfiniteRecursiveTypef reports a Named(k) escaping its binder (spec
// §3.2's well-formedness invariant).
func InfiniteRecursiveTypef(format string, args ...any) *Error {
	return NewKind(InfiniteRecursiveType, format, args...)
}

// EmptyMatchf reports a Match with zero cases (spec §7.4).
func EmptyMatchf(format string, args ...any) *Error {
	return NewKind(EmptyMatch, format, args...)
}
