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

// Package cmd implements the nichelang REPL's process entry point, a
// github.com/spf13/cobra root command following cmd/cue's
// newRootCmd/mkRunE shape: a thin Command wrapper around *cobra.Command
// that flags, a fresh session, and the REPL loop hang off of.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exitCode is stashed on the Command struct since cobra's RunE only
// reports success/failure, not the REPL's own exit code (0 on clean
// exit, 1 if any line hit an Internal error).
type Command struct {
	*cobra.Command
	exitCode int
}

func newRootCmd() *Command {
	c := &Command{}
	cobraCmd := &cobra.Command{
		Use:   "nichelang",
		Short: "nichelang is a REPL for a tiny niche-layout-optimizing language",
		// Errors are reported on stderr by Main; don't let cobra
		// print them again or dump usage on every REPL-level mistake.
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return runE(c, cobraCmd)
		},
	}
	cobraCmd.PersistentFlags().String("prelude", "", "YAML file of named type aliases to preload")
	cobraCmd.PersistentFlags().BoolP("verbose", "v", false, "log each REPL line's parsed expression, its H-type, and its lowering at debug level")
	cobraCmd.PersistentFlags().String("session-id", "", "fixed session id to use instead of generating one (for reproducible transcripts)")
	c.Command = cobraCmd
	return c
}

func runE(c *Command, cobraCmd *cobra.Command) error {
	preludePath, err := cobraCmd.Flags().GetString("prelude")
	if err != nil {
		return err
	}
	verbose, err := cobraCmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	sessionID, err := cobraCmd.Flags().GetString("session-id")
	if err != nil {
		return err
	}

	var prelude = emptyPrelude()
	if preludePath != "" {
		prelude, err = loadPrelude(preludePath)
		if err != nil {
			return fmt.Errorf("loading prelude: %w", err)
		}
	}

	s := newSession(prelude, verbose, cobraCmd.OutOrStdout())
	if sessionID != "" {
		if err := s.setID(sessionID); err != nil {
			return fmt.Errorf("--session-id: %w", err)
		}
	}
	s.log.Debug("session started", "id", s.id)

	c.exitCode = runREPL(s, cobraCmd.InOrStdin(), cobraCmd.OutOrStdout(), cobraCmd.ErrOrStderr())
	return nil
}

// Main builds the root command, runs it against args, and returns the
// process exit code.
func Main(args []string) int {
	c := newRootCmd()
	c.SetArgs(args)
	if err := c.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nichelang: %v\n", err)
		return 1
	}
	return c.exitCode
}
