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

import "testing"

// buildHierarchy builds top -> mid -> leaf, each a one-instance module
// referencing the next by module (not device) reference.
func buildHierarchy(t *testing.T) (*Program, ModuleID) {
	t.Helper()

	p := NewProgram()
	txn := p.Begin()

	leaf := txn.CreateModule("/d.asdl", "leaf", nil)
	mid := txn.CreateModule("/d.asdl", "mid", nil)
	top := txn.CreateModule("/d.asdl", "top", nil)

	txn.CreateInstance(mid, "L1", SymbolRef{FileID: "/d.asdl", Name: "leaf"}, "leaf", nil, nil)
	txn.CreateInstance(top, "M1", SymbolRef{FileID: "/d.asdl", Name: "mid"}, "mid", nil, nil)

	if bag := txn.Commit(); bag.HasErrors() {
		t.Fatalf("unexpected commit errors: %v", bag.Items())
	}

	_ = leaf

	return p, top
}

func TestOrder_0(t *testing.T) {
	p, top := buildHierarchy(t)

	order := p.DesignOrder(top)
	if len(order) != 3 {
		t.Fatalf("expected 3 modules in design order, got %d", len(order))
	}

	if order[len(order)-1] != top {
		t.Fatalf("expected the entry module last in post-order, got %v", order)
	}

	leafName := p.Module(order[0]).Name
	if leafName != "leaf" {
		t.Fatalf("expected the leaf module first in post-order, got %q", leafName)
	}
}

func TestOrder_1(t *testing.T) {
	p, top := buildHierarchy(t)

	reachable := p.Reachable(top)
	if len(reachable) != 3 {
		t.Fatalf("expected all 3 modules reachable, got %d", len(reachable))
	}
}

func TestOrder_2(t *testing.T) {
	p := NewProgram()
	txn := p.Begin()

	a := txn.CreateModule("/b.asdl", "a", nil)
	b := txn.CreateModule("/a.asdl", "b", nil)

	if bag := txn.Commit(); bag.HasErrors() {
		t.Fatalf("unexpected commit errors: %v", bag.Items())
	}

	order := p.LibraryOrder([]string{"/a.asdl", "/b.asdl"})
	if order[0] != b || order[1] != a {
		t.Fatalf("expected file-rank order [b, a], got %v", order)
	}
}
