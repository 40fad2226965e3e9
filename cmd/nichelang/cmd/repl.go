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

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kr/pretty"

	"github.com/camelid/nichelang/errors"
	"github.com/camelid/nichelang/eval"
	"github.com/camelid/nichelang/hir"
	"github.com/camelid/nichelang/layout"
	"github.com/camelid/nichelang/lir"
	"github.com/camelid/nichelang/lower"
	"github.com/camelid/nichelang/parser"
)

// runREPL drives the line-oriented read-eval-print loop described by
// the REPL protocol: each line is either an exit command, a `:cmd
// <src>` diagnostic command, or a bare expression to parse, lower,
// and evaluate. It returns a process exit code: 0 on clean exit
// (including EOF), 1 if any line produced an Internal error (a
// compiler bug, not a user mistake).
func runREPL(s *session, in io.Reader, out, errOut io.Writer) int {
	scanner := bufio.NewScanner(in)
	sawInternalErr := false

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case "q", "quit", ":q", ":quit":
			return 0
		}

		if strings.HasPrefix(line, ":") {
			handleInternalErr(replCommand(s, line, out), errOut, &sawInternalErr)
			continue
		}

		handleInternalErr(replEval(s, line, out), errOut, &sawInternalErr)
	}

	if sawInternalErr {
		return 1
	}
	return 0
}

// handleInternalErr prints a non-nil err to errOut and records whether
// it was an errors.Internal, the one REPL error that should affect
// the process's exit code, per spec §6.1's "nonzero on panic".
func handleInternalErr(err error, errOut io.Writer, sawInternalErr *bool) bool {
	if err == nil {
		return false
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	if errors.Is(err, errors.Internal) {
		*sawInternalErr = true
	}
	return true
}

func replCommand(s *session, line string, out io.Writer) error {
	cmd, rest, _ := strings.Cut(line[1:], " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "hir":
		expr, err := parser.ParseWithPrelude(rest, s.prelude)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, expr)
		return nil

	case "lir":
		expr, err := parseAndLower(s, rest)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, expr)
		return nil

	case "lyt", "layout":
		ty, err := parser.ParseTyToplevelWithPrelude(rest, s.prelude)
		if err != nil {
			return err
		}
		lyt, err := layout.Of(ty)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, lyt)
		return nil

	case "t", "hty", "hirty":
		expr, err := parser.ParseWithPrelude(rest, s.prelude)
		if err != nil {
			return err
		}
		ty, err := hir.Type(expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ty)
		return nil

	case "lty", "lirty":
		expr, err := parser.ParseWithPrelude(rest, s.prelude)
		if err != nil {
			return err
		}
		hty, err := hir.Type(expr)
		if err != nil {
			return err
		}
		lyt, err := layout.Of(hty)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, lower.LowerLayout(lyt))
		return nil

	case "size":
		ty, err := parser.ParseTyToplevelWithPrelude(rest, s.prelude)
		if err != nil {
			return err
		}
		lyt, err := layout.Of(ty)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, lir.PackedSize(lower.LowerLayout(lyt)))
		return nil

	case "dump":
		expr, err := parseAndLower(s, rest)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, pretty.Sprint(expr))
		return nil

	case "session":
		fmt.Fprintln(out, s.id)
		return nil

	default:
		return errors.New("unknown REPL command %q", cmd)
	}
}

func replEval(s *session, line string, out io.Writer) error {
	lirExpr, err := parseAndLower(s, line)
	if err != nil {
		return err
	}
	val, err := eval.Root(lirExpr)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, val)
	return nil
}

func parseAndLower(s *session, src string) (lir.Expr, error) {
	hirExpr, err := parser.ParseWithPrelude(src, s.prelude)
	if err != nil {
		return nil, err
	}
	s.log.Debug("parsed", "hir", hirExpr.String())

	hty, err := hir.Type(hirExpr)
	if err == nil {
		s.log.Debug("typed", "hty", hty.String())
	}

	lirExpr, err := lower.LowerRoot(hirExpr)
	if err != nil {
		return nil, err
	}
	s.log.Debug("lowered", "lir", lirExpr.String())
	return lirExpr, nil
}
