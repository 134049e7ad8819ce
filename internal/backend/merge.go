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
)

// MergedParams is the result of merging a device's, its backend entry's,
// and an instance's parameter maps, preserving the §4.8 rendering order:
// device-params order first, then backend-only keys in backend order.
// Overrides never move a key's position.
type MergedParams struct {
	Order  []string
	Values map[string]string
}

// MergeDeviceParams implements spec.md §4.8's device parameter merge:
// precedence (low -> high) is device.parameters -> device.backend.parameters
// -> instance.params. Instance params may only override existing keys;
// any instance key absent from both device and backend parameter sets is
// reported as unknown (EMIT-002) and ignored rather than merged in.
func MergeDeviceParams(deviceOrder []string, deviceParams map[string]string, backendOrder []string,
	backendParams map[string]string, instanceParams map[string]string) (MergedParams, *diag.Bag) {
	bag := diag.NewBag()

	out := MergedParams{Values: make(map[string]string)}

	known := make(map[string]bool, len(deviceParams)+len(backendParams))

	for _, k := range deviceOrder {
		known[k] = true

		out.Order = append(out.Order, k)
		out.Values[k] = resolveOverride(k, deviceParams[k], backendParams, instanceParams)
	}

	for _, k := range backendOrder {
		if known[k] {
			continue // already placed at its device-order position
		}

		known[k] = true

		out.Order = append(out.Order, k)
		out.Values[k] = resolveOverride(k, backendParams[k], nil, instanceParams)
	}

	for k := range instanceParams {
		if known[k] {
			continue
		}

		bag.Add(diag.New(diag.CodeUnknownParamKey, diag.Warning,
			fmt.Sprintf("instance parameter %q is not declared by the device or its backend entry; ignored", k)))
	}

	return out, bag
}

// resolveOverride returns the instance override for key if present,
// otherwise the backend override if present, otherwise base.
func resolveOverride(key, base string, backendParams, instanceParams map[string]string) string {
	if v, ok := instanceParams[key]; ok {
		return v
	}

	if v, ok := backendParams[key]; ok {
		return v
	}

	return base
}
