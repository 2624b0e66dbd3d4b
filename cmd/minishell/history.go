// Copyright (c) 2024, The minishell authors
// See LICENSE for licensing information

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/renameio/v2"
)

// history keeps the lines entered this session on top of those loaded
// from the history file, trimmed to a maximum and written back in one
// atomic rename on exit.
type history struct {
	path  string
	max   int
	lines []string
}

func loadHistory(path string, max int) *history {
	h := &history{path: path, max: max}
	if path == "" {
		return h
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return h
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			h.lines = append(h.lines, line)
		}
	}
	return h
}

// add records a line, skipping immediate repeats.
func (h *history) add(line string) {
	if n := len(h.lines); n > 0 && h.lines[n-1] == line {
		return
	}
	h.lines = append(h.lines, line)
}

// save writes the trimmed history back atomically, so an interrupted
// shell never leaves it half-written.
func (h *history) save() {
	if h.path == "" || len(h.lines) == 0 {
		return
	}
	lines := h.lines
	if h.max > 0 && len(lines) > h.max {
		lines = lines[len(lines)-h.max:]
	}
	data := []byte(strings.Join(lines, "\n") + "\n")
	if err := renameio.WriteFile(h.path, data, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "minishell: history: %v\n", err)
	}
}
