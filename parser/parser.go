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

// Package parser implements nichelang's concrete syntax: a
// recursive-descent parser over a flat token slice, producing hir
// trees directly (spec §6.2). Syntax errors are returned as ordinary
// Go errors (errors.Kind Syntax), never panics; a REPL driving this
// parser needs to keep running after a bad line.
package parser

import (
	"strconv"

	"github.com/camelid/nichelang/errors"
	"github.com/camelid/nichelang/hir"
	"github.com/camelid/nichelang/internal/ordmap"
	"github.com/camelid/nichelang/name"
)

// Parser holds the token cursor, the `alias` table built up as types
// are parsed, and the stack of in-scope µ-binders used to resolve
// TyNamed references to de Bruijn indices.
type Parser struct {
	toks     []Token
	pos      int
	aliases  *ordmap.Map[name.Name, hir.Ty]
	tyScopes *scopeStack
}

func newParser(src string) (*Parser, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return &Parser{
		toks:     toks,
		aliases:  ordmap.New[name.Name, hir.Ty](),
		tyScopes: newScopeStack(),
	}, nil
}

// Parse parses src as a whole expression.
func Parse(src string) (hir.Expr, error) {
	return ParseWithPrelude(src, nil)
}

// ParseWithPrelude parses src as a whole expression, seeding the
// parser's alias table with prelude first. This is how a REPL session
// started with --prelude makes its named type aliases available to
// every line without having to re-declare them.
func ParseWithPrelude(src string, prelude *ordmap.Map[name.Name, hir.Ty]) (hir.Expr, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	seedAliases(p, prelude)
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseTyToplevel parses src as a whole type, the input the REPL's
// `:lyt` and `:size` commands take.
func ParseTyToplevel(src string) (hir.Ty, error) {
	return ParseTyToplevelWithPrelude(src, nil)
}

// ParseTyToplevelWithPrelude is ParseTyToplevel plus a pre-seeded
// alias table; see ParseWithPrelude.
func ParseTyToplevelWithPrelude(src string, prelude *ordmap.Map[name.Name, hir.Ty]) (hir.Ty, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	seedAliases(p, prelude)
	ty, err := p.parseTy()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return ty, nil
}

func seedAliases(p *Parser, prelude *ordmap.Map[name.Name, hir.Ty]) {
	if prelude == nil {
		return
	}
	prelude.Range(func(n name.Name, ty hir.Ty) bool {
		p.aliases.Set(n, ty)
		return true
	})
}

func (p *Parser) parseExpr() (hir.Expr, error) {
	tok, err := p.bump()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case TokLParen:
		return p.parseExprGrouping()
	case TokLBrace:
		return p.parseExprRecord()
	case TokLAngle:
		return p.parseExprVariant()
	case TokKwFold:
		return p.parseExprFold()
	case TokKwUnfold:
		return p.parseExprUnfold()
	case TokKwBoxOp:
		return p.parseExprBox()
	case TokKwLet:
		return p.parseExprLet()
	case TokKwAlias:
		if err := p.parseAlias(); err != nil {
			return nil, err
		}
		return p.parseExpr()
	case TokKwMatch:
		return p.parseExprMatch()
	case TokNumber:
		u, convErr := strconv.ParseUint(tok.Text, 10, 64)
		if convErr != nil {
			return nil, errors.New("invalid number: %q", tok.Text)
		}
		return hir.ExprU64{Value: u}, nil
	case TokIdent:
		v, err := p.parseVarAfterName(name.FromString(tok.Text))
		if err != nil {
			return nil, err
		}
		return hir.ExprVar{Var: v}, nil
	default:
		return nil, errors.New("expected expression, found %s", tok)
	}
}

func (p *Parser) parseAlias() error {
	n, err := p.parseName()
	if err != nil {
		return err
	}
	if err := p.eat(TokEq); err != nil {
		return err
	}
	defn, err := p.parseTy()
	if err != nil {
		return err
	}
	p.aliases.Set(n, defn)
	return p.eat(TokKwIn)
}

func (p *Parser) parseExprGrouping() (hir.Expr, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.eat(TokRParen); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Parser) parseExprRecord() (hir.Expr, error) {
	fields := ordmap.New[name.Name, hir.Expr]()
	err := p.parseDelimited(TokComma, TokRBrace, func() error {
		n, err := p.parseName()
		if err != nil {
			return err
		}
		if err := p.eat(TokEq); err != nil {
			return err
		}
		value, err := p.parseExpr()
		if err != nil {
			return err
		}
		fields.Set(n, value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hir.ExprRecord{Fields: fields}, nil
}

func (p *Parser) parseExprVariant() (hir.Expr, error) {
	variant, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if err := p.eat(TokEq); err != nil {
		return nil, err
	}
	field, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.eat(TokRAngle); err != nil {
		return nil, err
	}
	if err := p.eat(TokKwAs); err != nil {
		return nil, err
	}
	ty, err := p.parseTy()
	if err != nil {
		return nil, err
	}
	return hir.ExprVariant{Ty: ty, Variant: variant, Field: field}, nil
}

func (p *Parser) parseExprFold() (hir.Expr, error) {
	if err := p.eat(TokLBracket); err != nil {
		return nil, err
	}
	ty, err := p.parseTy()
	if err != nil {
		return nil, err
	}
	if err := p.eat(TokRBracket); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return hir.ExprFold{Ty: ty, Value: value}, nil
}

func (p *Parser) parseExprUnfold() (hir.Expr, error) {
	if err := p.eat(TokLBracket); err != nil {
		return nil, err
	}
	ty, err := p.parseTy()
	if err != nil {
		return nil, err
	}
	if err := p.eat(TokRBracket); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return hir.ExprUnfold{Ty: ty, Value: value}, nil
}

func (p *Parser) parseExprBox() (hir.Expr, error) {
	if err := p.eat(TokLParen); err != nil {
		return nil, err
	}
	boxed, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.eat(TokRParen); err != nil {
		return nil, err
	}
	return hir.ExprBox{Value: boxed}, nil
}

func (p *Parser) parseExprLet() (hir.Expr, error) {
	binder, err := p.parseVar()
	if err != nil {
		return nil, err
	}
	if err := p.eat(TokEq); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.eat(TokKwIn); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return hir.ExprLet{Binder: binder, Value: value, Body: body}, nil
}

func (p *Parser) parseExprMatch() (hir.Expr, error) {
	subj, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.eat(TokLBrace); err != nil {
		return nil, err
	}

	var cases []hir.MatchCase
	err = p.parseDelimited(TokComma, TokRBrace, func() error {
		pat, err := p.parsePat()
		if err != nil {
			return err
		}
		if err := p.eat(TokWideArrow); err != nil {
			return err
		}
		body, err := p.parseExpr()
		if err != nil {
			return err
		}
		cases = append(cases, hir.MatchCase{Pat: pat, Body: body})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return hir.ExprMatch{Subj: subj, Cases: cases}, nil
}

func (p *Parser) parsePat() (hir.Pat, error) {
	if err := p.eat(TokLAngle); err != nil {
		return hir.Pat{}, err
	}
	return p.parseVariantPat()
}

func (p *Parser) parseVariantPat() (hir.Pat, error) {
	variant, err := p.parseName()
	if err != nil {
		return hir.Pat{}, err
	}
	if err := p.eat(TokEq); err != nil {
		return hir.Pat{}, err
	}
	field, err := p.parseVar()
	if err != nil {
		return hir.Pat{}, err
	}
	if err := p.eat(TokRAngle); err != nil {
		return hir.Pat{}, err
	}
	if err := p.eat(TokKwAs); err != nil {
		return hir.Pat{}, err
	}
	ty, err := p.parseTy()
	if err != nil {
		return hir.Pat{}, err
	}
	return hir.Pat{Ty: ty, Variant: variant, Field: field}, nil
}

func (p *Parser) parseVar() (hir.Var, error) {
	n, err := p.parseName()
	if err != nil {
		return hir.Var{}, err
	}
	return p.parseVarAfterName(n)
}

func (p *Parser) parseVarAfterName(n name.Name) (hir.Var, error) {
	if err := p.eatMsg(TokColon, "type annotation after variable name"); err != nil {
		return hir.Var{}, err
	}
	ty, err := p.parseTy()
	if err != nil {
		return hir.Var{}, err
	}
	return hir.Var{Name: n, Ty: ty}, nil
}

func (p *Parser) parseTy() (hir.Ty, error) {
	tok, err := p.bump()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case TokKwBoxTy:
		return p.parseTyBox()
	case TokLBrace:
		return p.parseTyRecord()
	case TokLAngle:
		return p.parseTyVariant()
	case TokKwMu:
		return p.parseTyRecur()
	case TokIdent:
		n := name.FromString(tok.Text)
		if ty, ok := p.aliases.Get(n); ok {
			return ty, nil
		}
		if idx, ok := p.tyScopes.lookup(n); ok {
			return hir.TyNamed{Index: idx}, nil
		}
		if u, ok := n.AsUser(); ok && u == "U64" {
			return hir.TyU64{}, nil
		}
		return nil, errors.New("name not found: %s", n)
	default:
		return nil, errors.New("expected type, found %s", tok)
	}
}

func (p *Parser) parseTyBox() (hir.Ty, error) {
	if err := p.eat(TokLBracket); err != nil {
		return nil, err
	}
	boxed, err := p.parseTy()
	if err != nil {
		return nil, err
	}
	if err := p.eat(TokRBracket); err != nil {
		return nil, err
	}
	return hir.TyBox{Elem: boxed}, nil
}

func (p *Parser) parseTyRecord() (hir.Ty, error) {
	fields := ordmap.New[name.Name, hir.Ty]()
	err := p.parseDelimited(TokComma, TokRBrace, func() error {
		n, err := p.parseName()
		if err != nil {
			return err
		}
		if err := p.eat(TokColon); err != nil {
			return err
		}
		ty, err := p.parseTy()
		if err != nil {
			return err
		}
		fields.Set(n, ty)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hir.TyRecord{Fields: fields}, nil
}

func (p *Parser) parseTyVariant() (hir.Ty, error) {
	variants := ordmap.New[name.Name, hir.Ty]()
	err := p.parseDelimited(TokVertPipe, TokRAngle, func() error {
		n, err := p.parseName()
		if err != nil {
			return err
		}
		if err := p.eat(TokKwOf); err != nil {
			return err
		}
		ty, err := p.parseTy()
		if err != nil {
			return err
		}
		variants.Set(n, ty)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hir.TyVariant{Variants: variants}, nil
}

func (p *Parser) parseTyRecur() (hir.Ty, error) {
	binding, err := p.parseName()
	if err != nil {
		return nil, err
	}
	p.tyScopes.push(binding)
	defer p.tyScopes.pop()

	if err := p.eat(TokDot); err != nil {
		return nil, err
	}
	body, err := p.parseTy()
	if err != nil {
		return nil, err
	}
	return hir.TyRecursive{Body: body}, nil
}

func (p *Parser) parseName() (name.Name, error) {
	tok, err := p.bump()
	if err != nil {
		return name.Name{}, err
	}
	if tok.Kind != TokIdent {
		return name.Name{}, errors.New("expected name, found %s", tok)
	}
	return name.FromString(tok.Text), nil
}

// parseDelimited parses zero or more elements separated by delim, up
// to and including the closing end token.
func (p *Parser) parseDelimited(delim, end TokenKind, parseElem func() error) error {
	for !p.check(end) {
		if err := parseElem(); err != nil {
			return err
		}
		if !p.check(end) {
			if err := p.eat(delim); err != nil {
				return err
			}
		}
	}
	return p.eat(end)
}

func (p *Parser) expectEnd() error {
	if tok, ok := p.peek(); ok {
		return errors.New("expected end, found %s", tok)
	}
	return nil
}

func (p *Parser) eat(kind TokenKind) error {
	return p.eatMsg(kind, Token{Kind: kind}.String())
}

func (p *Parser) eatMsg(kind TokenKind, msg string) error {
	tok, err := p.bump()
	if err != nil {
		return errors.New("expected %s", msg)
	}
	if tok.Kind != kind {
		return errors.New("expected %s, found %s", msg, tok)
	}
	return nil
}

func (p *Parser) bump() (Token, error) {
	if p.pos >= len(p.toks) {
		return Token{}, errors.New("unexpected end of input")
	}
	tok := p.toks[p.pos]
	p.pos++
	return tok, nil
}

func (p *Parser) check(kind TokenKind) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == kind
}

func (p *Parser) peek() (Token, bool) {
	if p.pos >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.pos], true
}
