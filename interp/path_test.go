// Copyright (c) 2024, The minishell authors
// See LICENSE for licensing information

package interp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alx-sch/minishell/expand"
)

func pathRunner(path string) (*Runner, *bytes.Buffer) {
	var stderr bytes.Buffer
	r := New(Env(expand.NewEnviron("PATH=" + path)))
	r.Stderr = &stderr
	return r, &stderr
}

func writeScript(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), mode); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLookPath(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeScript(t, dirA, "tool", 0o644) // not executable
	wantB := writeScript(t, dirB, "tool", 0o755)

	// The first executable match along PATH wins.
	r, _ := pathRunner(dirA + ":" + dirB)
	got, code := r.lookPath("tool")
	if code != 0 {
		t.Fatalf("wanted status 0, got %d", code)
	}
	if got != wantB {
		t.Fatalf("wanted %q, got %q", wantB, got)
	}
}

func TestLookPathNotFound(t *testing.T) {
	r, stderr := pathRunner(t.TempDir())
	if _, code := r.lookPath("missing_tool"); code != 127 {
		t.Fatalf("wanted status 127, got %d", code)
	}
	if !strings.Contains(stderr.String(), "command not found") {
		t.Fatalf("stderr %q misses the diagnostic", stderr.String())
	}
}

func TestLookPathSlash(t *testing.T) {
	dir := t.TempDir()
	tool := writeScript(t, dir, "tool", 0o755)

	// A name with a slash skips the PATH search entirely.
	r, _ := pathRunner(t.TempDir())
	got, code := r.lookPath(tool)
	if code != 0 {
		t.Fatalf("wanted status 0, got %d", code)
	}
	if got != tool {
		t.Fatalf("wanted %q, got %q", tool, got)
	}
}

func TestLookPathSlashErrors(t *testing.T) {
	dir := t.TempDir()
	plain := writeScript(t, dir, "plain", 0o644)

	tests := []struct {
		name string
		arg  string
		want uint8
	}{
		{"Missing", filepath.Join(dir, "nope"), 127},
		{"Directory", dir, 126},
		{"NotExecutable", plain, 126},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, stderr := pathRunner("")
			if _, code := r.lookPath(tc.arg); code != tc.want {
				t.Fatalf("wanted status %d, got %d", tc.want, code)
			}
			if stderr.Len() == 0 {
				t.Fatal("no diagnostic printed")
			}
		})
	}
}

func TestLookPathEmptyPath(t *testing.T) {
	// With no PATH, only the name itself is tried.
	r, _ := pathRunner("")
	if _, code := r.lookPath("tool_xyz"); code != 127 {
		t.Fatalf("wanted status 127, got %d", code)
	}
}
