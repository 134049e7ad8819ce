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

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/asdl-lang/asdlc/internal/diag"
)

// EmitName is a module's resolved output identifier plus the logical
// (file_id, name) pair it was derived from, recorded for the
// logical->emitted diagnostic mapping (spec.md §4.6).
type EmitName struct {
	ModuleID ModuleID
	Logical  SymbolRef
	Emitted  string
	Renamed  bool
}

// hash8 computes the first 8 hex digits of a SHA-1 digest over fileID,
// used as the emission-name collision suffix (spec.md §4.6 / §9's
// Open Question resolution).
func hash8(fileID string) string {
	sum := sha1.Sum([]byte(fileID))
	return hex.EncodeToString(sum[:])[:8]
}

// ResolveEmitNames assigns an emit_name to every module ID in ids
// (assumed already in emission order), renaming with a "__{hash8}"
// suffix wherever two distinct logical modules would otherwise collide
// on the same bare name. Returns the assignment plus a warning
// diagnostic per renamed collision.
func (p *Program) ResolveEmitNames(ids []ModuleID) ([]EmitName, *diag.Bag) {
	bag := diag.NewBag()

	seen := make(map[string]bool)
	out := make([]EmitName, 0, len(ids))

	for _, mid := range ids {
		m := p.Module(mid)
		logical := SymbolRef{FileID: m.FileID, Name: m.Name}

		emitted := m.Name
		renamed := false

		if seen[emitted] {
			emitted = fmt.Sprintf("%s__%s", m.Name, hash8(m.FileID))
			renamed = true

			bag.Add(diag.New(diag.CodeEmitNameCollision, diag.Warning,
				fmt.Sprintf("module %q (%s) renamed to %q to avoid an emit-name collision",
					m.Name, m.FileID, emitted)))
		}

		seen[emitted] = true

		out = append(out, EmitName{ModuleID: mid, Logical: logical, Emitted: emitted, Renamed: renamed})
	}

	return out, bag
}
