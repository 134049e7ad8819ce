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

import "testing"

func TestMerge_0(t *testing.T) {
	// Instance overrides an existing device key without moving its position.
	merged, bag := MergeDeviceParams(
		[]string{"L", "W"}, map[string]string{"L": "1u", "W": "2u"},
		nil, nil,
		map[string]string{"W": "3u"},
	)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	if len(merged.Order) != 2 || merged.Order[0] != "L" || merged.Order[1] != "W" {
		t.Fatalf("unexpected order: %v", merged.Order)
	}

	if merged.Values["L"] != "1u" || merged.Values["W"] != "3u" {
		t.Fatalf("unexpected values: %v", merged.Values)
	}
}

func TestMerge_1(t *testing.T) {
	// Backend-only keys append after device keys, in backend order.
	merged, bag := MergeDeviceParams(
		[]string{"L"}, map[string]string{"L": "1u"},
		[]string{"nf"}, map[string]string{"nf": "1"},
		nil,
	)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	if len(merged.Order) != 2 || merged.Order[1] != "nf" {
		t.Fatalf("expected backend-only key appended after device keys, got %v", merged.Order)
	}
}

func TestMerge_2(t *testing.T) {
	// An instance key unknown to both device and backend is EMIT-002 and
	// does not appear in the merged result.
	merged, bag := MergeDeviceParams(
		[]string{"L"}, map[string]string{"L": "1u"},
		nil, nil,
		map[string]string{"bogus": "x"},
	)

	if bag.Len() != 1 || bag.Items()[0].Code != "EMIT-002" {
		t.Fatalf("expected a single EMIT-002 diagnostic, got %v", bag.Items())
	}

	for _, k := range merged.Order {
		if k == "bogus" {
			t.Fatalf("unknown instance key must not be merged in, got order %v", merged.Order)
		}
	}
}
