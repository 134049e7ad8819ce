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

// Package netlist implements Atomization & NetlistIR Projection (spec
// component C7): port-consistency verification over an already-atomized
// GraphIR program (pattern atomization itself happens once, during C5
// lowering — see DESIGN.md), and projection to the frozen, literal-only
// NetlistIR the backend emitter consumes.
package netlist

import (
	"fmt"

	"github.com/asdl-lang/asdlc/internal/diag"
	"github.com/asdl-lang/asdlc/internal/graphir"
)

// NetlistConn is one named connection on an instance, port paired with
// the literal net name feeding it.
type NetlistConn struct {
	Port string
	Net  string
}

// NetlistInstance is a frozen, literal-only instance placement.
type NetlistInstance struct {
	Name    string
	Ref     string
	RefFile string
	// RefEmitted is the resolved emit_name of the referenced module, set
	// only when Ref/RefFile name a module (not a device) that is itself
	// part of this design; the backend emitter's __subckt_call__ template
	// calls by this name, which may differ from Ref after collision
	// renaming (spec.md §4.6).
	RefEmitted string
	Params     map[string]string
	Conns      []NetlistConn
}

// NetlistModule is a frozen, literal-only module/subcircuit.
type NetlistModule struct {
	// Name is the resolved emit_name (possibly collision-suffixed);
	// Logical is the pre-rename declared name, kept so the backend
	// emitter can match a calling instance's (RefFile, Ref) pair back to
	// the module it calls.
	Name      string
	Logical   string
	FileID    string
	Ports     []string
	Nets      []string
	Instances []NetlistInstance
}

// NetlistDevice is a leaf symbol referenced by at least one projected
// instance, carried alongside the design so the backend emitter need not
// walk GraphIR itself to find device port lists.
type NetlistDevice struct {
	Name   string
	FileID string
	Ports  []string
}

// NetlistDesign is the complete frozen projection handed to the backend
// emitter (spec.md §3.1); it carries no back-edges into GraphIR.
type NetlistDesign struct {
	Modules     []NetlistModule
	Devices     []NetlistDevice
	Top         string
	EntryFileID string
}

// Project verifies an ordered list of module IDs (already resolved by
// the caller's reachability/ordering choice, §4.6) for port consistency
// and projects each one into NetlistIR. Verification never mutates prog;
// a verifier is a pure function from a read-only GraphIR view to
// diagnostics, per the stateless-verification contract (spec.md §4.7).
// top and entryFileID are carried through unchanged from the caller's top-
// selection decision (spec.md §4.8) into the frozen design. verify gates
// port-consistency checking, wired to the CLI's --no-verify escape hatch
// for inspecting a projection that would otherwise fail it.
func Project(prog *graphir.Program, order []graphir.ModuleID, names []graphir.EmitName, top,
	entryFileID string, verify bool) (NetlistDesign, *diag.Bag) {
	bag := diag.NewBag()

	emitted := make(map[graphir.ModuleID]string, len(names))
	for _, en := range names {
		emitted[en.ModuleID] = en.Emitted
	}

	logicalEmitted := make(map[graphir.SymbolRef]string, len(names))
	for _, en := range names {
		logicalEmitted[en.Logical] = en.Emitted
	}

	design := NetlistDesign{Top: top, EntryFileID: entryFileID}

	seenDevices := make(map[graphir.DeviceID]bool)

	for _, mid := range order {
		if verify {
			bag.Merge(verifyPortConsistency(prog, mid))
		}

		design.Modules = append(design.Modules, projectModule(prog, mid, emitted[mid], logicalEmitted))

		for _, iid := range prog.Module(mid).Instances {
			inst := prog.Instance(iid)

			did, ok := prog.LookupDevice(inst.ModuleRef)
			if !ok || seenDevices[did] {
				continue
			}

			seenDevices[did] = true

			dev := prog.Device(did)
			design.Devices = append(design.Devices, NetlistDevice{Name: dev.Name, FileID: dev.FileID, Ports: dev.Ports})
		}
	}

	return design, bag
}

// verifyPortConsistency implements spec.md §4.7 step 4: every endpoint's
// port must match a port declared by its referenced module or
// non-empty-port device.
func verifyPortConsistency(prog *graphir.Program, mid graphir.ModuleID) *diag.Bag {
	bag := diag.NewBag()

	m := prog.Module(mid)

	for _, iid := range m.Instances {
		inst := prog.Instance(iid)

		ports, knownRef := lookupPorts(prog, inst.ModuleRef)
		if !knownRef {
			bag.Add(diag.New(diag.CodeUnknownInstance, diag.Error,
				fmt.Sprintf("instance %q references unknown module/device %q", inst.Name, inst.ModuleRef.String())))

			continue
		}

		if len(ports) == 0 {
			continue // portless device: §4.8's "ports == []" case, nothing to verify
		}

		portSet := make(map[string]bool, len(ports))
		for _, p := range ports {
			portSet[p] = true
		}

		for _, eid := range inst.Endpoints {
			ep := prog.Endpoint(eid)
			if !portSet[ep.PortPath] {
				bag.Add(diag.New(diag.CodeUnknownPort, diag.Error,
					fmt.Sprintf("instance %q has no port %q (declared ports: %v)", inst.Name, ep.PortPath, ports)))
			}
		}
	}

	return bag
}

func lookupPorts(prog *graphir.Program, ref graphir.SymbolRef) ([]string, bool) {
	if mid, ok := prog.LookupModule(ref); ok {
		return prog.Module(mid).Ports, true
	}

	if did, ok := prog.LookupDevice(ref); ok {
		return prog.Device(did).Ports, true
	}

	return nil, false
}

// projectModule inverts each net's endpoint list into per-instance named
// conns (spec.md §4.7 step 5).
func projectModule(prog *graphir.Program, mid graphir.ModuleID, emitName string,
	logicalEmitted map[graphir.SymbolRef]string) NetlistModule {
	m := prog.Module(mid)

	nm := NetlistModule{Name: emitName, Logical: m.Name, FileID: m.FileID, Ports: m.Ports}

	connsByInst := make(map[graphir.InstanceID][]NetlistConn)

	for _, nid := range m.Nets {
		n := prog.Net(nid)
		nm.Nets = append(nm.Nets, n.Name)

		for _, eid := range n.Endpoints {
			ep := prog.Endpoint(eid)
			connsByInst[ep.InstID] = append(connsByInst[ep.InstID], NetlistConn{Port: ep.PortPath, Net: n.Name})
		}
	}

	for _, iid := range m.Instances {
		inst := prog.Instance(iid)

		nm.Instances = append(nm.Instances, NetlistInstance{
			Name:       inst.Name,
			Ref:        inst.ModuleRef.Name,
			RefFile:    inst.ModuleRef.FileID,
			RefEmitted: logicalEmitted[inst.ModuleRef],
			Params:     inst.Props,
			Conns:      connsByInst[iid],
		})
	}

	return nm
}
