// Copyright (c) 2024, The minishell authors
// See LICENSE for licensing information

package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestHistoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	h := loadHistory(path, 10)
	if len(h.lines) != 0 {
		t.Fatalf("fresh history wanted no lines, got %q", h.lines)
	}
	h.add("echo one")
	h.add("echo two")
	h.add("echo two") // immediate repeat is dropped
	h.save()

	h = loadHistory(path, 10)
	want := []string{"echo one", "echo two"}
	if !reflect.DeepEqual(h.lines, want) {
		t.Fatalf("reloaded history wanted %q, got %q", want, h.lines)
	}
}

func TestHistoryTrim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	h := loadHistory(path, 2)
	h.add("a")
	h.add("b")
	h.add("c")
	h.save()

	h = loadHistory(path, 2)
	want := []string{"b", "c"}
	if !reflect.DeepEqual(h.lines, want) {
		t.Fatalf("trimmed history wanted %q, got %q", want, h.lines)
	}
}

func TestHistoryNoPath(t *testing.T) {
	h := loadHistory("", 10)
	h.add("x")
	h.save() // must not write anywhere or fail
}

func TestHistorySaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	loadHistory(path, 10).save()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("empty history still created a file")
	}
}
