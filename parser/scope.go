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

package parser

import (
	"github.com/camelid/nichelang/debruijn"
	"github.com/camelid/nichelang/name"
)

// scope is a single µ-binder: it binds exactly one name, so "found in
// this scope" always means de Bruijn index 0 relative to the scope.
type scope struct {
	binding name.Name
}

// scopeStack tracks the nested µ-binders in scope while parsing a type,
// innermost binder last, so a name reference can be resolved to a de
// Bruijn index by counting outward from the top (spec §3.2).
type scopeStack struct {
	stack []scope
}

func newScopeStack() *scopeStack {
	return &scopeStack{}
}

func (s *scopeStack) push(binding name.Name) {
	s.stack = append(s.stack, scope{binding: binding})
}

func (s *scopeStack) pop() {
	s.stack = s.stack[:len(s.stack)-1]
}

// lookup finds n's nearest enclosing binder and returns the de Bruijn
// index counting outward from the innermost scope (0 = the binder
// directly enclosing this reference).
func (s *scopeStack) lookup(n name.Name) (debruijn.Index, bool) {
	for shift, i := uint64(0), len(s.stack)-1; i >= 0; shift, i = shift+1, i-1 {
		if s.stack[i].binding.Equal(n) {
			return debruijn.New(shift), true
		}
	}
	return debruijn.Index{}, false
}
