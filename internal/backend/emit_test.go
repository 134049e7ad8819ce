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
	"strings"
	"testing"

	"github.com/asdl-lang/asdlc/internal/diag"
	"github.com/asdl-lang/asdlc/internal/importer"
	"github.com/asdl-lang/asdlc/internal/lower"
	"github.com/asdl-lang/asdlc/internal/netlist"
)

func ngspiceBundle() Backend {
	return Backend{
		Extension:     ".cir",
		CommentPrefix: "* ",
		Templates: map[string]string{
			"__subckt_header__": ".subckt {name} {ports}\n",
			"__subckt_footer__": ".ends {name}\n",
			"__subckt_call__":   "X{name} {ports} {ref}\n",
			"__netlist_header__": "* generated netlist\n",
			"__netlist_footer__": ".end\n",
		},
	}
}

func TestEmit_0(t *testing.T) {
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
    parameters:
      m: "1"
    backends:
      sim.ngspice:
        template: "{name} {ports} nmos m={m}\n"
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

	mid, tbag := SelectTop(prog, db.Docs["/design/top.asdl"].Top, "/design/top.asdl")
	if tbag.HasErrors() {
		t.Fatalf("unexpected top-selection errors: %v", tbag.Items())
	}

	order := prog.DesignOrder(mid)

	names, nbag := prog.ResolveEmitNames(order)
	if nbag.HasErrors() {
		t.Fatalf("unexpected emit-name errors: %v", nbag.Items())
	}

	topEmitted := ""

	for _, en := range names {
		if en.ModuleID == mid {
			topEmitted = en.Emitted
		}
	}

	design, pbag := netlist.Project(prog, order, names, topEmitted, "/design/top.asdl", true)
	if pbag.HasErrors() {
		t.Fatalf("unexpected projection errors: %v", pbag.Items())
	}

	text, ebag := EmitNetlist(design, db, ngspiceBundle(), "sim.ngspice", false)
	if ebag.HasErrors() {
		t.Fatalf("unexpected emission errors: %v", ebag.Items())
	}

	if !strings.Contains(text, "M1 OUT IN VSS VSS nmos m=1") {
		t.Fatalf("expected a rendered device line with ports resolved to their connected nets, got:\n%s", text)
	}

	if strings.Contains(text, ".subckt") {
		t.Fatalf("top module should not be wrapped in a subckt by default, got:\n%s", text)
	}

	if !strings.HasPrefix(text, "* generated netlist") {
		t.Fatalf("expected netlist header, got:\n%s", text)
	}

	if !strings.HasSuffix(strings.TrimRight(text, "\n"), ".end") {
		t.Fatalf("expected netlist footer, got:\n%s", text)
	}
}

// compileToNetlist runs the full C4-C8 pipeline over an in-memory file
// set and returns the rendered netlist text plus every diagnostic
// collected across all stages (so a caller can inspect a warning, e.g.
// a collision rename, that a single stage's own bag wouldn't surface).
func compileToNetlist(t *testing.T, entry string, files map[string]string, be Backend, backendName string,
	topAsSubckt bool) (string, *diag.Bag) {
	t.Helper()

	all := diag.NewBag()

	read := func(path string) ([]byte, error) {
		if data, ok := files[path]; ok {
			return []byte(data), nil
		}

		panic("no such fixture file: " + path)
	}

	db, bag := importer.Load(entry, importer.NewResolver(nil), read)
	all.Merge(bag)

	if bag.HasErrors() {
		t.Fatalf("unexpected import errors: %v", bag.Items())
	}

	prog, lbag := lower.Lower(db)
	all.Merge(lbag)

	if lbag.HasErrors() {
		t.Fatalf("unexpected lowering errors: %v", lbag.Items())
	}

	mid, tbag := SelectTop(prog, db.Docs[entry].Top, entry)
	all.Merge(tbag)

	if tbag.HasErrors() {
		t.Fatalf("unexpected top-selection errors: %v", tbag.Items())
	}

	order := prog.DesignOrder(mid)

	names, nbag := prog.ResolveEmitNames(order)
	all.Merge(nbag)

	if nbag.HasErrors() {
		t.Fatalf("unexpected emit-name errors: %v", nbag.Items())
	}

	topEmitted := ""

	for _, en := range names {
		if en.ModuleID == mid {
			topEmitted = en.Emitted
		}
	}

	design, pbag := netlist.Project(prog, order, names, topEmitted, entry, true)
	all.Merge(pbag)

	if pbag.HasErrors() {
		t.Fatalf("unexpected projection errors: %v", pbag.Items())
	}

	text, ebag := EmitNetlist(design, db, be, backendName, topAsSubckt)
	all.Merge(ebag)

	return text, all
}

func TestEmit_E1(t *testing.T) {
	// Worked example E1: one module, one device instance, wrapped in a
	// single subckt with one device line.
	files := map[string]string{
		"/design/top.asdl": `
modules:
  inv:
    instances:
      M1: nfet
    nets:
      $in: [M1.G]
      $out: [M1.D]
      $vdd: [M1.S]
      $vss: [M1.B]
devices:
  nfet:
    ports: [D, G, S, B]
    backends:
      sim.ngspice:
        template: "{name} {ports} nmos\n"
`,
	}

	text, bag := compileToNetlist(t, "/design/top.asdl", files, ngspiceBundle(), "sim.ngspice", true)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	if !strings.Contains(text, ".subckt inv in out vdd vss\n") {
		t.Fatalf("expected a single subckt header with the 4 ports in declaration order, got:\n%s", text)
	}

	if strings.Count(text, "M1 ") != 1 {
		t.Fatalf("expected exactly one device line, got:\n%s", text)
	}

	if !strings.Contains(text, ".ends inv\n") {
		t.Fatalf("expected a matching .ends, got:\n%s", text)
	}
}

func TestEmit_E2(t *testing.T) {
	// Worked example E2: a differential pattern fans out into two
	// instances, each wired to its own gate net and a shared tail net.
	files := map[string]string{
		"/design/top.asdl": `
modules:
  diffpair:
    instances:
      MN<P|N>: nfet
    nets:
      $VIN<P|N>: [MN<P|N>.G]
      VSS: [MN<P|N>.S]
devices:
  nfet:
    ports: [G, S]
    backends:
      sim.ngspice:
        template: "{name} {ports} nmos\n"
`,
	}

	text, bag := compileToNetlist(t, "/design/top.asdl", files, ngspiceBundle(), "sim.ngspice", true)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	if !strings.Contains(text, ".subckt diffpair VINP VINN\n") {
		t.Fatalf("expected ports VINP then VINN in that order, got:\n%s", text)
	}

	if !strings.Contains(text, "MNP VINP VSS nmos\n") {
		t.Fatalf("expected MNP wired to its own gate and the shared tail, got:\n%s", text)
	}

	if !strings.Contains(text, "MNN VINN VSS nmos\n") {
		t.Fatalf("expected MNN wired to its own gate and the shared tail, got:\n%s", text)
	}
}

func TestEmit_E6(t *testing.T) {
	// Worked example E6: two imported files each declare a cell "inv",
	// both reachable from top; the second occurrence is collision-
	// renamed with a hash8 suffix, and the __subckt_call__ sites use the
	// renamed emit_name.
	files := map[string]string{
		"/design/top.asdl": `
imports:
  a: ./a.asdl
  b: ./b.asdl
modules:
  top:
    instances:
      X1: a.inv
      X2: b.inv
    nets:
      $IN1: [X1.in]
      $IN2: [X2.in]
`,
		"/design/a.asdl": `
modules:
  inv:
    instances:
      M1: nfet
    nets:
      $in: [M1.G]
devices:
  nfet:
    ports: [D, G, S, B]
    backends:
      sim.ngspice:
        template: "M{name} {ports} nmos\n"
`,
		"/design/b.asdl": `
modules:
  inv:
    instances:
      M1: nfet
    nets:
      $in: [M1.G]
devices:
  nfet:
    ports: [D, G, S, B]
    backends:
      sim.ngspice:
        template: "M{name} {ports} nmos\n"
`,
	}

	text, bag := compileToNetlist(t, "/design/top.asdl", files, ngspiceBundle(), "sim.ngspice", false)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	found := false

	for _, d := range bag.Items() {
		if d.Code == "LINT-003" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected a LINT-003 emit-name-collision warning among: %v", bag.Items())
	}

	if !strings.Contains(text, ".subckt inv in\n") {
		t.Fatalf("expected the first occurrence to keep the bare name, got:\n%s", text)
	}

	if !strings.Contains(text, ".subckt inv__") {
		t.Fatalf("expected the second occurrence's own subckt definition to carry the renamed name, got:\n%s", text)
	}

	if !strings.Contains(text, "X2 IN2 inv__") {
		t.Fatalf("expected X2's subckt_call to address the renamed module by its emitted name, got:\n%s", text)
	}
}

func TestEmit_1(t *testing.T) {
	// --top-as-subckt wraps even the top module.
	files := map[string]string{
		"/design/top.asdl": `
modules:
  inv:
    instances:
      M1: nfet
    nets:
      $IN: [M1.G]
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

	mid, _ := SelectTop(prog, nil, "/design/top.asdl")
	order := prog.DesignOrder(mid)
	names, _ := prog.ResolveEmitNames(order)
	design, _ := netlist.Project(prog, order, names, "inv", "/design/top.asdl", true)

	text, ebag := EmitNetlist(design, db, ngspiceBundle(), "sim.ngspice", true)
	if ebag.HasErrors() {
		t.Fatalf("unexpected emission errors: %v", ebag.Items())
	}

	if !strings.Contains(text, ".subckt inv") {
		t.Fatalf("expected top module wrapped in a subckt, got:\n%s", text)
	}
}
