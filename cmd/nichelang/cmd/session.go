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
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/camelid/nichelang/hir"
	"github.com/camelid/nichelang/internal/ordmap"
	"github.com/camelid/nichelang/name"
)

// session holds the state a REPL run threads through every line: the
// prelude's alias table (seeded once at startup, read-only after
// that, per spec §6.3's "no persisted state beyond the single parse's
// aliases" still holds, since the prelude only pre-populates what
// each line's own Parser would otherwise build from scratch), a
// per-run id for correlating pasted transcripts, and the verbose
// logger.
type session struct {
	id      uuid.UUID
	prelude *ordmap.Map[name.Name, hir.Ty]
	log     *slog.Logger
	out     io.Writer
}

// setID overrides the randomly generated session id with a fixed one,
// for --session-id reproducible transcripts.
func (s *session) setID(raw string) error {
	id, err := uuid.Parse(raw)
	if err != nil {
		return err
	}
	s.id = id
	return nil
}

func newSession(prelude *ordmap.Map[name.Name, hir.Ty], verbose bool, out io.Writer) *session {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return &session{
		id:      uuid.New(),
		prelude: prelude,
		log:     slog.New(handler),
		out:     out,
	}
}
