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
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/camelid/nichelang/errors"
	"github.com/camelid/nichelang/hir"
	"github.com/camelid/nichelang/internal/ordmap"
	"github.com/camelid/nichelang/name"
	"github.com/camelid/nichelang/parser"
)

// preludeEntry is one named type alias in a --prelude file. The file
// is a YAML sequence rather than a mapping so that aliases which
// refer to earlier ones (e.g. a List alias built on an already
// declared Option) parse in a well-defined order.
type preludeEntry struct {
	Name string `yaml:"name"`
	Ty   string `yaml:"ty"`
}

// emptyPrelude is the alias table a session starts with when no
// --prelude flag is given.
func emptyPrelude() *ordmap.Map[name.Name, hir.Ty] {
	return ordmap.New[name.Name, hir.Ty]()
}

// loadPrelude reads a --prelude YAML file and parses each entry's Ty
// against the aliases already registered from earlier entries in the
// same file, returning the resulting alias table.
func loadPrelude(path string) (*ordmap.Map[name.Name, hir.Ty], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prelude file %q: %w", path, err)
	}
	var entries []preludeEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing prelude file %q: %w", path, err)
	}

	aliases := ordmap.New[name.Name, hir.Ty]()
	for _, e := range entries {
		if e.Name == "" {
			return nil, errors.New("prelude entry missing a name")
		}
		ty, err := parser.ParseTyToplevelWithPrelude(e.Ty, aliases)
		if err != nil {
			return nil, fmt.Errorf("prelude alias %q: %w", e.Name, err)
		}
		aliases.Set(name.FromString(e.Name), ty)
	}
	return aliases, nil
}
