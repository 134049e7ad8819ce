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
package backend

import (
	"fmt"

	"github.com/asdl-lang/asdlc/internal/diag"
	"github.com/asdl-lang/asdlc/internal/graphir"
)

// SelectTop implements spec.md §4.8's strict top-selection policy: if
// docTop is set, it must resolve to a module declared in entryFileID, or
// EMIT-001. If absent, fall back to the unique module declared in
// entryFileID, then to the unique module anywhere in the program; any
// other case is EMIT-001, fatal (there is no module to root emission at).
func SelectTop(prog *graphir.Program, docTop *string, entryFileID string) (graphir.ModuleID, *diag.Bag) {
	bag := diag.NewBag()

	if docTop != nil {
		ref := graphir.SymbolRef{FileID: entryFileID, Name: *docTop}

		mid, ok := prog.LookupModule(ref)
		if !ok {
			bag.Add(diag.New(diag.CodeNoTopModule, diag.Fatal,
				fmt.Sprintf("declared top module %q does not resolve in entry file %q", *docTop, entryFileID)))

			return 0, bag
		}

		return mid, bag
	}

	var inEntry []graphir.ModuleID

	for _, mid := range prog.Modules() {
		if prog.Module(mid).FileID == entryFileID {
			inEntry = append(inEntry, mid)
		}
	}

	if len(inEntry) == 1 {
		return inEntry[0], bag
	}

	all := prog.Modules()
	if len(all) == 1 {
		return all[0], bag
	}

	bag.Add(diag.New(diag.CodeNoTopModule, diag.Fatal,
		"no top module was declared and none could be inferred unambiguously"))

	return 0, bag
}
