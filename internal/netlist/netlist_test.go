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
package netlist

import (
	"testing"

	"github.com/asdl-lang/asdlc/internal/graphir"
	"github.com/asdl-lang/asdlc/internal/importer"
	"github.com/asdl-lang/asdlc/internal/lower"
)

func loadAndLower(t *testing.T, entry string, files map[string]string) (*graphir.Program, graphir.ModuleID) {
	t.Helper()

	read := func(path string) ([]byte, error) {
		if data, ok := files[path]; ok {
			return []byte(data), nil
		}

		panic("no such fixture file: " + path)
	}

	db, bag := importer.Load(entry, importer.NewResolver(nil), read)
	if bag.HasErrors() {
		t.Fatalf("unexpected import errors: %v", bag.Items())
	}

	prog, lbag := lower.Lower(db)
	if lbag.HasErrors() {
		t.Fatalf("unexpected lowering errors: %v", lbag.Items())
	}

	mid, ok := prog.LookupModule(graphir.SymbolRef{FileID: entry, Name: "inv"})
	if !ok {
		t.Fatalf("expected module \"inv\" to be registered")
	}

	return prog, mid
}

func TestNetlist_0(t *testing.T) {
	// A well-formed module projects cleanly with no diagnostics.
	files := map[string]string{
		"/design/top.asdl": `
modules:
  inv:
    instances:
      M1: nfet m=1
    nets:
      $IN: [M1.G]
      $OUT: [M1.D]
    instance_defaults:
      nfet:
        S: $VSS
        B: $VSS
devices:
  nfet:
    ports: [D, G, S, B]
    backends:
      sim.ngspice:
        template: "M{name}"
`,
	}

	prog, mid := loadAndLower(t, "/design/top.asdl", files)

	names, nbag := prog.ResolveEmitNames([]graphir.ModuleID{mid})
	if nbag.HasErrors() {
		t.Fatalf("unexpected emit-name errors: %v", nbag.Items())
	}

	design, bag := Project(prog, []graphir.ModuleID{mid}, names, "inv", "/design/top.asdl", true)
	if bag.HasErrors() {
		t.Fatalf("unexpected verification errors: %v", bag.Items())
	}

	if len(design.Modules) != 1 {
		t.Fatalf("expected 1 projected module, got %d", len(design.Modules))
	}

	nm := design.Modules[0]
	if nm.Name != "inv" {
		t.Fatalf("expected emitted name \"inv\", got %q", nm.Name)
	}

	if len(nm.Instances) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(nm.Instances))
	}

	inst := nm.Instances[0]
	if inst.Name != "M1" || len(inst.Conns) != 4 {
		t.Fatalf("expected M1 with 4 conns (G,D,S,B), got %+v", inst)
	}
}

func TestNetlist_1(t *testing.T) {
	// An endpoint referencing a port the device doesn't declare is IR-033.
	p := graphir.NewProgram()
	txn := p.Begin()

	dev := txn.CreateDevice("/d.asdl", "nfet", []string{"D", "G", "S", "B"})
	_ = dev

	mid := txn.CreateModule("/d.asdl", "inv", nil)
	nid := txn.CreateNet(mid, "$IN", nil)
	iid := txn.CreateInstance(mid, "M1", graphir.SymbolRef{FileID: "/d.asdl", Name: "nfet"}, "nfet", nil, nil)
	txn.Attach(nid, iid, "NOPE", nil)

	if bag := txn.Commit(); bag.HasErrors() {
		t.Fatalf("unexpected commit errors: %v", bag.Items())
	}

	_, bag := Project(p, []graphir.ModuleID{mid}, nil, "inv", "/d.asdl", true)
	if !bag.HasErrors() {
		t.Fatalf("expected an unknown-port error")
	}

	found := false

	for _, d := range bag.Items() {
		if d.Code == "IR-033" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected IR-033 among diagnostics, got %v", bag.Items())
	}
}

func TestNetlist_1b(t *testing.T) {
	// The same unknown-port module projects without diagnostics when
	// verify is false, the --no-verify escape hatch.
	p := graphir.NewProgram()
	txn := p.Begin()

	txn.CreateDevice("/d.asdl", "nfet", []string{"D", "G", "S", "B"})

	mid := txn.CreateModule("/d.asdl", "inv", nil)
	nid := txn.CreateNet(mid, "$IN", nil)
	iid := txn.CreateInstance(mid, "M1", graphir.SymbolRef{FileID: "/d.asdl", Name: "nfet"}, "nfet", nil, nil)
	txn.Attach(nid, iid, "NOPE", nil)

	if bag := txn.Commit(); bag.HasErrors() {
		t.Fatalf("unexpected commit errors: %v", bag.Items())
	}

	design, bag := Project(p, []graphir.ModuleID{mid}, nil, "inv", "/d.asdl", false)
	if bag.HasErrors() {
		t.Fatalf("expected no diagnostics with verify=false, got %v", bag.Items())
	}

	if len(design.Modules) != 1 {
		t.Fatalf("expected projection to still produce a module, got %d", len(design.Modules))
	}
}

func TestNetlist_E3(t *testing.T) {
	// Worked example E3: a numeric-range net bound to a numeric-range
	// endpoint projects into four literal nets, each with one endpoint.
	files := map[string]string{
		"/design/top.asdl": `
modules:
  bank:
    instances:
      reg<3:0>: nfet
    nets:
      bus<3:0>: [reg<3:0>.D]
devices:
  nfet:
    ports: [D, G, S, B]
    backends:
      sim.ngspice:
        template: "M{name}"
`,
	}

	read := func(path string) ([]byte, error) {
		if data, ok := files[path]; ok {
			return []byte(data), nil
		}

		panic("no such fixture file: " + path)
	}

	db, bag := importer.Load("/design/top.asdl", importer.NewResolver(nil), read)
	if bag.HasErrors() {
		t.Fatalf("unexpected import errors: %v", bag.Items())
	}

	prog, lbag := lower.Lower(db)
	if lbag.HasErrors() {
		t.Fatalf("unexpected lowering errors: %v", lbag.Items())
	}

	mid, ok := prog.LookupModule(graphir.SymbolRef{FileID: "/design/top.asdl", Name: "bank"})
	if !ok {
		t.Fatalf("expected module \"bank\" to be registered")
	}

	design, pbag := Project(prog, []graphir.ModuleID{mid}, nil, "bank", "/design/top.asdl", true)
	if pbag.HasErrors() {
		t.Fatalf("unexpected projection errors: %v", pbag.Items())
	}

	nm := design.Modules[0]
	if len(nm.Nets) != 4 {
		t.Fatalf("expected 4 literal nets (bus3..bus0), got %d: %v", len(nm.Nets), nm.Nets)
	}

	wantNets := map[string]bool{"bus3": true, "bus2": true, "bus1": true, "bus0": true}
	for _, n := range nm.Nets {
		if !wantNets[n] {
			t.Fatalf("unexpected net %q, want one of bus3..bus0", n)
		}
	}

	if len(nm.Instances) != 4 {
		t.Fatalf("expected 4 instances (reg3..reg0), got %d", len(nm.Instances))
	}

	gotConn := make(map[string]string, 4)

	for _, inst := range nm.Instances {
		if len(inst.Conns) != 1 {
			t.Fatalf("expected instance %q to have exactly 1 endpoint, got %d", inst.Name, len(inst.Conns))
		}

		gotConn[inst.Name] = inst.Conns[0].Net
	}

	want := map[string]string{"reg3": "bus3", "reg2": "bus2", "reg1": "bus1", "reg0": "bus0"}
	for inst, net := range want {
		if gotConn[inst] != net {
			t.Fatalf("expected %s.D wired to %s, got %q", inst, net, gotConn[inst])
		}
	}
}

func TestNetlist_2(t *testing.T) {
	// An instance referencing an unregistered module/device is IR-032.
	p := graphir.NewProgram()
	txn := p.Begin()

	mid := txn.CreateModule("/d.asdl", "inv", nil)
	nid := txn.CreateNet(mid, "$IN", nil)
	iid := txn.CreateInstance(mid, "M1", graphir.SymbolRef{FileID: "/d.asdl", Name: "ghost"}, "ghost", nil, nil)
	txn.Attach(nid, iid, "G", nil)

	if bag := txn.Commit(); bag.HasErrors() {
		t.Fatalf("unexpected commit errors: %v", bag.Items())
	}

	_, bag := Project(p, []graphir.ModuleID{mid}, nil, "inv", "/d.asdl", true)
	if !bag.HasErrors() {
		t.Fatalf("expected an unknown-instance-reference error")
	}
}
