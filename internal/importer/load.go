// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/asdl-lang/asdlc/internal/astmodel"
	"github.com/asdl-lang/asdlc/internal/diag"
	"github.com/asdl-lang/asdlc/internal/util"
)

// ProgramDB is the memoized result of loading an entry file and every
// file transitively reachable from it (spec.md §4.4).
type ProgramDB struct {
	// Docs maps a normalized file_id to its parsed document.
	Docs map[string]*astmodel.Document
	// Order is the depth-first discovery order of every file_id, used to
	// keep downstream iteration deterministic (§5's parallel-merge rule).
	Order []string
	// NameEnvs maps a file_id to its local namespace -> file_id table.
	NameEnvs map[string]*util.OrderedMap[string]
	// EntryFileID is the normalized file_id of the load entry point.
	EntryFileID string
}

// ReadFile abstracts file content access so tests can load from an
// in-memory fixture set instead of the real filesystem.
type ReadFile func(path string) ([]byte, error)

// OSReadFile reads from the real filesystem via os.ReadFile.
func OSReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// loader holds the state of one Load call: the resolver and reader, a
// dense index per discovered file_id backing the bitset visited/on-stack
// tracking (for AST-012 cycle detection), the discovery order, and the
// parsed documents and name environments.
type loader struct {
	resolver *Resolver
	read     ReadFile

	index    map[string]int // file_id -> dense arena index
	visited  *bitset.BitSet
	onStack  *bitset.BitSet
	order    []string
	docs     map[string]*astmodel.Document
	nameEnvs map[string]*util.OrderedMap[string]
}

// Load performs the depth-first, memoized, cycle-detecting load of
// entryFile and its transitive imports.
func Load(entryFile string, resolver *Resolver, read ReadFile) (*ProgramDB, *diag.Bag) {
	l := &loader{
		resolver: resolver,
		read:     read,
		index:    make(map[string]int),
		visited:  bitset.New(64),
		onStack:  bitset.New(64),
		docs:     make(map[string]*astmodel.Document),
		nameEnvs: make(map[string]*util.OrderedMap[string]),
	}

	bag := diag.NewBag()

	entryID := normalizedEntryID(entryFile)
	l.visitFile(entryID, nil, bag)

	if bag.HasErrors() {
		return nil, bag
	}

	return &ProgramDB{
		Docs:        l.docs,
		Order:       l.order,
		NameEnvs:    l.nameEnvs,
		EntryFileID: entryID,
	}, bag
}

func normalizedEntryID(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	return filepath.Clean(abs)
}

// slot returns the dense arena index assigned to file_id, allocating a
// fresh one on first sight. The bitset.BitSet backing visited/onStack
// grows itself on demand when Set/Test is called past its current
// length, so no pre-sizing is needed here.
func (l *loader) slot(fileID string) int {
	if idx, ok := l.index[fileID]; ok {
		return idx
	}

	idx := len(l.index)
	l.index[fileID] = idx

	return idx
}

// visitFile loads fileID if not already memoized, recursing into its
// imports in declared order and detecting cycles via the on-stack
// bitset, same arena-index-over-dense-bitset idiom used by GraphIR
// reachability (§4.6).
func (l *loader) visitFile(fileID string, chain []string, bag *diag.Bag) {
	idx := uint(l.slot(fileID))

	if l.onStack.Test(idx) {
		bag.Add(diag.New(diag.CodeImportCycle, diag.Error,
			fmt.Sprintf("import cycle detected: %s -> %s", strings.Join(chain, " -> "), fileID)))

		return
	}

	if l.visited.Test(idx) {
		return
	}

	l.visited.Set(idx)
	l.onStack.Set(idx)

	defer l.onStack.Clear(idx)

	data, err := l.read(fileID)
	if err != nil {
		bag.Add(diag.New(diag.CodeToolIO, diag.Fatal,
			fmt.Sprintf("could not read %q: %s", fileID, err.Error())))

		return
	}

	doc, docBag := astmodel.Load(fileID, data)
	bag.Merge(docBag)

	if docBag.HasErrors() {
		return
	}

	if doc.Modules.Len() == 0 && doc.Devices.Len() == 0 {
		bag.Add(diag.New(diag.CodeImportEmptyFile, diag.Error,
			fmt.Sprintf("%q defines neither modules nor devices", fileID)))

		return
	}

	l.order = append(l.order, fileID)
	l.docs[fileID] = doc

	env := util.NewOrderedMap[string]()
	l.nameEnvs[fileID] = env

	for _, ns := range doc.Imports.Keys() {
		raw, _ := doc.Imports.Get(ns)

		resolved, resBag := l.resolver.Resolve(fileID, raw)
		bag.Merge(resBag)

		if resBag.HasErrors() {
			continue
		}

		env.Set(ns, resolved)

		l.visitFile(resolved, append(append([]string{}, chain...), fileID), bag)
	}
}
