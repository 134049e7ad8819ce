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
package graphir

import "github.com/bits-and-blooms/bitset"

// LibraryOrder returns every module in library-mode emission order:
// fileOrder first (the entry file, then imports in resolution order),
// preserving each file's own per-file module declaration order (spec.md
// §4.6). fileOrder is expected to be the importer's DFS discovery order.
func (p *Program) LibraryOrder(fileOrder []string) []ModuleID {
	rank := make(map[string]int, len(fileOrder))
	for i, f := range fileOrder {
		rank[f] = i
	}

	ids := p.Modules()

	out := make([]ModuleID, len(ids))
	copy(out, ids)

	// Stable sort by (file rank, arena index) — arena index already
	// reflects per-file declaration order since modules are created
	// file-by-file during lowering.
	sortModulesByFileRank(p, out, rank)

	return out
}

func sortModulesByFileRank(p *Program, ids []ModuleID, rank map[string]int) {
	less := func(i, j int) bool {
		mi, mj := p.Module(ids[i]), p.Module(ids[j])
		ri, rj := rank[mi.FileID], rank[mj.FileID]

		if ri != rj {
			return ri < rj
		}

		return ids[i] < ids[j]
	}

	// Simple insertion sort: module counts are small (design-scale, not
	// data-scale), and it keeps the comparator above free of a sort.Interface
	// adapter type.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

// DesignOrder computes a DFS post-order over the module reference graph
// rooted at entry, so every child module precedes its parents and entry
// itself is last (spec.md §4.6's design-mode ordering). Uses the same
// bitset-over-arena-index idiom as the import resolver's cycle
// detection.
func (p *Program) DesignOrder(entry ModuleID) []ModuleID {
	visited := bitset.New(uint(len(p.modules)))

	var (
		order []ModuleID
		visit func(id ModuleID)
	)

	visit = func(id ModuleID) {
		idx := uint(id)
		if visited.Test(idx) {
			return
		}

		visited.Set(idx)

		m := p.Module(id)

		for _, iid := range m.Instances {
			inst := p.Instance(iid)

			childID, ok := p.LookupModule(inst.ModuleRef)
			if !ok {
				continue // device instance, not a module reference
			}

			visit(childID)
		}

		order = append(order, id)
	}

	visit(entry)

	return order
}

// Reachable returns the set of module IDs transitively reachable from
// entry (including entry itself): the modules DesignOrder(entry) visits.
func (p *Program) Reachable(entry ModuleID) map[ModuleID]bool {
	out := make(map[ModuleID]bool)

	for _, id := range p.DesignOrder(entry) {
		out[id] = true
	}

	return out
}
