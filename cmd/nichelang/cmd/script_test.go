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
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets the test binary also act as the nichelang command
// under test, the same trick cmd/cue/cmd uses: testscript.RunMain
// re-execs this binary as a subprocess per "exec nichelang" line.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"nichelang": func() int {
			return Main(os.Args[1:])
		},
	}))
}

// TestScript runs every testdata/script/*.txt fixture: a txtar archive
// whose comment is a sequence of testscript commands (typically a
// handful of "exec nichelang" invocations piping REPL input through
// stdin and asserting on stdout/stderr).
func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
