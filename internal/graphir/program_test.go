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

// buildInverter creates a single-module program: one instance "M1" with
// two attached endpoints on two nets.
func buildInverter(t *testing.T) *Program {
	t.Helper()

	p := NewProgram()
	txn := p.Begin()

	mid := txn.CreateModule("/design/top.asdl", "inv", []string{"$IN", "$OUT"})
	did := txn.CreateDevice("/design/cells.asdl", "nfet", []string{"D", "G", "S", "B"})

	nIn := txn.CreateNet(mid, "$IN", nil)
	nOut := txn.CreateNet(mid, "$OUT", nil)

	iid := txn.CreateInstance(mid, "M1", SymbolRef{FileID: "/design/cells.asdl", Name: "nfet"}, "nfet", nil, nil)
	_ = did

	txn.Attach(nIn, iid, "G", nil)
	txn.Attach(nOut, iid, "D", nil)

	if bag := txn.Commit(); bag.HasErrors() {
		t.Fatalf("unexpected commit errors: %v", bag.Items())
	}

	return p
}

func TestProgram_0(t *testing.T) {
	p := buildInverter(t)

	if len(p.Modules()) != 1 {
		t.Fatalf("expected 1 module, got %d", len(p.Modules()))
	}

	m := p.Module(p.Modules()[0])
	if len(m.Nets) != 2 || len(m.Instances) != 1 {
		t.Fatalf("expected 2 nets and 1 instance, got %d/%d", len(m.Nets), len(m.Instances))
	}
}

func TestProgram_1(t *testing.T) {
	// Commit rebuilds the derived net<->endpoint indices.
	p := buildInverter(t)

	m := p.Module(p.Modules()[0])
	nid := m.Nets[0]

	endpoints := p.NetToEndpoints[nid]
	if len(endpoints) != 1 {
		t.Fatalf("expected 1 endpoint on the first net, got %d", len(endpoints))
	}

	if p.EndpointToNet[endpoints[0]] != nid {
		t.Fatalf("endpoint->net index inconsistent with net->endpoint index")
	}
}

func TestProgram_2(t *testing.T) {
	// A transaction that introduces a duplicate net name must roll back.
	p := buildInverter(t)

	mid := p.Modules()[0]

	txn := p.Begin()
	txn.CreateNet(mid, "$IN", nil) // collides with the existing "$IN"

	bag := txn.Commit()
	if !bag.HasErrors() {
		t.Fatalf("expected a duplicate-net validation error")
	}

	// Program must be unchanged: still exactly 2 nets.
	if len(p.Module(mid).Nets) != 2 {
		t.Fatalf("expected rollback to leave 2 nets, got %d", len(p.Module(mid).Nets))
	}
}

func TestProgram_3(t *testing.T) {
	p := buildInverter(t)

	names, bag := p.ResolveEmitNames(p.Modules())
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	if names[0].Emitted != "inv" || names[0].Renamed {
		t.Fatalf("expected no rename for a single module, got %+v", names[0])
	}
}

func TestProgram_4(t *testing.T) {
	p := NewProgram()
	txn := p.Begin()

	a := txn.CreateModule("/a.asdl", "cell", nil)
	b := txn.CreateModule("/b.asdl", "cell", nil)

	if bag := txn.Commit(); bag.HasErrors() {
		t.Fatalf("unexpected commit errors: %v", bag.Items())
	}

	names, bag := p.ResolveEmitNames([]ModuleID{a, b})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	if names[0].Renamed || !names[1].Renamed {
		t.Fatalf("expected only the second 'cell' to be renamed: %+v", names)
	}

	if names[1].Emitted != "cell__"+hash8("/b.asdl") {
		t.Fatalf("unexpected emitted name: %s", names[1].Emitted)
	}
}
