// Copyright 2026 The UKV Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package collection implements the named-namespace registry: names map
// to stable 64-bit handles, a reserved anonymous default always exists,
// and ids are never reused after removal within a session.
//
// The registry is a shared mutable structure: creation and removal
// synchronize with list/open via a single RWMutex, the way the OPA
// in-memory store's struct guards its document tree with rmu/wmu.
package collection

import "sync"

// Default is the reserved id of the anonymous default collection. It
// always exists and has no name.
const Default ID = 0

// Unknown is the reserved id distinct from any valid handle. Lookup does
// not return it; a failed lookup reports ok == false instead.
const Unknown ID = ^ID(0)

// ID is an opaque numeric collection handle.
type ID uint64

// Registry is the name -> ID namespace manager for one DB.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]ID
	names  map[ID]string // inverse, for List(); default collection is absent
	nextID ID
}

// New returns a Registry with only the default collection present.
func New() *Registry {
	return &Registry{
		byName: make(map[string]ID),
		names:  make(map[ID]string),
		nextID: Default + 1,
	}
}

// Open returns name's id, creating it if it doesn't already exist.
// Opening the default collection (name == "") always returns Default.
// config is accepted for forward compatibility with backend-specific
// collection options; the core registry itself does not interpret it.
func (r *Registry) Open(name string, _ map[string]any) ID {
	if name == "" {
		return Default
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byName[name]; ok {
		return id
	}
	id := r.nextID
	r.nextID++
	r.byName[name] = id
	r.names[id] = name
	return id
}

// Lookup resolves an existing name to its id without creating it.
func (r *Registry) Lookup(name string) (ID, bool) {
	if name == "" {
		return Default, true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	return id, ok
}

// List returns the names of all non-default collections; the default
// collection is never enumerated since it has no name.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, n)
	}
	return out
}

// IDs returns every known id, including Default.
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ID, 0, len(r.names)+1)
	out = append(out, Default)
	for id := range r.names {
		out = append(out, id)
	}
	return out
}

// Reset discards every name and id, starting over with only the default
// collection present. Used by the `reset` control command, which deletes
// all data and all named collections.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName = make(map[string]ID)
	r.names = make(map[ID]string)
	r.nextID = Default + 1
}

// RemoveResult tells the caller what kind of removal happened, so the
// backend can decide whether to drop contents (named collection) or only
// clear them (default collection).
type RemoveResult struct {
	ID      ID
	Dropped bool // id itself was retired; contents AND the name are gone
}

// Remove implements both halves of collection removal: removing a named
// collection drops its id and contents; removing the default collection
// (name == "") clears its keys but preserves the id, since the default
// is never absent from the registry.
func (r *Registry) Remove(name string) (RemoveResult, bool) {
	if name == "" {
		return RemoveResult{ID: Default, Dropped: false}, true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byName[name]
	if !ok {
		return RemoveResult{}, false
	}
	delete(r.byName, name)
	delete(r.names, id)
	// Deliberately do not recycle id into nextID: ids are never reused
	// after removal within a session.
	return RemoveResult{ID: id, Dropped: true}, true
}
