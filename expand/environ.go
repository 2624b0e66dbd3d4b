// Copyright (c) 2024, The minishell authors
// See LICENSE for licensing information

// Package expand holds the shell's environment table and performs
// variable expansion on tokenized words.
package expand

import (
	"slices"
	"strings"
)

// entry is one environment variable. Entries with set false come from
// a bare `export NAME`: the export listing shows them, but env output
// and the environment handed to child processes skip them.
type entry struct {
	name  string
	value string
	set   bool
}

// Environ is the shell's environment: an insertion-ordered name→value
// table plus the exit status of the last pipeline. The insertion order
// is what `env` and child processes see; `export` derives a sorted
// view. Names are unique.
type Environ struct {
	entries    []entry
	index      map[string]int
	lastStatus uint8
}

// NewEnviron builds an Environ from "NAME=VALUE" pairs, preserving
// their order. Pairs without an equals sign or with an empty name are
// dropped; on duplicate names the last value wins, keeping the first
// position.
func NewEnviron(pairs ...string) *Environ {
	e := &Environ{index: make(map[string]int, len(pairs))}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			continue
		}
		e.Set(name, value)
	}
	return e
}

// Get retrieves a variable's value and whether it is set.
func (e *Environ) Get(name string) (string, bool) {
	if i, ok := e.index[name]; ok && e.entries[i].set {
		return e.entries[i].value, true
	}
	return "", false
}

// Set inserts or updates a variable. An update keeps the entry's
// original position.
func (e *Environ) Set(name, value string) {
	if i, ok := e.index[name]; ok {
		e.entries[i].value = value
		e.entries[i].set = true
		return
	}
	e.index[name] = len(e.entries)
	e.entries = append(e.entries, entry{name: name, value: value, set: true})
}

// Declare records a name without a value, as `export NAME` does.
// A name that already exists is left alone.
func (e *Environ) Declare(name string) {
	if _, ok := e.index[name]; ok {
		return
	}
	e.index[name] = len(e.entries)
	e.entries = append(e.entries, entry{name: name})
}

// Declared reports whether the name exists at all, set or not.
func (e *Environ) Declared(name string) bool {
	_, ok := e.index[name]
	return ok
}

// Unset removes a variable. Removing an unknown name is a no-op.
func (e *Environ) Unset(name string) {
	i, ok := e.index[name]
	if !ok {
		return
	}
	e.entries = slices.Delete(e.entries, i, i+1)
	delete(e.index, name)
	for j := i; j < len(e.entries); j++ {
		e.index[e.entries[j].name] = j
	}
}

// Names returns every declared name in insertion order.
func (e *Environ) Names() []string {
	names := make([]string, len(e.entries))
	for i, ent := range e.entries {
		names[i] = ent.name
	}
	return names
}

// Sorted returns every declared name in byte-wise sorted order, for
// the export listing.
func (e *Environ) Sorted() []string {
	names := e.Names()
	slices.Sort(names)
	return names
}

// Environ renders the set entries as "NAME=VALUE" in insertion order,
// the form handed to child processes.
func (e *Environ) Environ() []string {
	pairs := make([]string, 0, len(e.entries))
	for _, ent := range e.entries {
		if ent.set {
			pairs = append(pairs, ent.name+"="+ent.value)
		}
	}
	return pairs
}

// Clone returns an independent copy. Builtins forced into a pipeline
// stage run against a clone, so the parent shell observes nothing.
func (e *Environ) Clone() *Environ {
	c := &Environ{
		entries:    slices.Clone(e.entries),
		index:      make(map[string]int, len(e.index)),
		lastStatus: e.lastStatus,
	}
	for name, i := range e.index {
		c.index[name] = i
	}
	return c
}

// LastStatus returns the exit status of the last pipeline.
func (e *Environ) LastStatus() uint8 { return e.lastStatus }

// SetLastStatus records the exit status of a finished pipeline.
func (e *Environ) SetLastStatus(code uint8) { e.lastStatus = code }
