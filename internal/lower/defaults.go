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
package lower

import (
	"fmt"

	"github.com/asdl-lang/asdlc/internal/astmodel"
	"github.com/asdl-lang/asdlc/internal/diag"
	"github.com/asdl-lang/asdlc/internal/graphir"
)

// applyInstanceDefaults implements spec.md §4.5 step 4: for every
// instance whose raw reference matches a key in instance_defaults, merge
// that key's default pin->net bindings into the instance's endpoints
// unless an explicit binding for the same pin already exists. An
// explicit binding that overrides a default emits LINT-002 unless the
// net token that produced it was "!"-prefixed.
func applyInstanceDefaults(txn *graphir.Txn, mid graphir.ModuleID, mod astmodel.Module,
	instanceIDs map[string]graphir.InstanceID, instanceRefs map[string]string,
	explicitPins map[string]map[string]pinBinding, netIDs map[string]graphir.NetID, bag *diag.Bag) {
	for _, ref := range mod.InstanceDefaults.Keys() {
		defs, _ := mod.InstanceDefaults.Get(ref)

		for instName, iid := range instanceIDs {
			if instanceRefs[instName] != ref {
				continue
			}

			for _, pin := range defs.Keys() {
				rawNetName, _ := defs.Get(pin)
				netName := stripNetMarker(rawNetName)

				if binding, explicit := explicitPins[instName][pin]; explicit {
					if !binding.Suppressed {
						bag.Add(diag.New(diag.CodeDefaultOverride, diag.Warning,
							fmt.Sprintf("instance %q explicit binding on pin %q overrides the instance_defaults entry for %q",
								instName, pin, ref)))
					}

					continue
				}

				nid, ok := netIDs[netName]
				if !ok {
					nid = txn.CreateNet(mid, netName, nil)
					netIDs[netName] = nid
				}

				txn.Attach(nid, iid, pin, nil)
			}
		}
	}
}
