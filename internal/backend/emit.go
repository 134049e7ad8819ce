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
	"strings"

	"github.com/asdl-lang/asdlc/internal/astmodel"
	"github.com/asdl-lang/asdlc/internal/diag"
	"github.com/asdl-lang/asdlc/internal/importer"
	"github.com/asdl-lang/asdlc/internal/netlist"
	"github.com/asdl-lang/asdlc/internal/util"
)

// moduleKey identifies a NetlistModule by its pre-rename logical identity,
// the same key an instance's (RefFile, Ref) pair names it by.
type moduleKey struct {
	fileID string
	name   string
}

// EmitNetlist runs the per-module emission state machine (spec.md §4.8):
// netlist header, then for each module a subckt wrapper (skipped for the
// top module unless topAsSubckt) containing one rendered line per
// instance — a __subckt_call__ for a hierarchical reference, or the
// device's own backend template for a primitive — then netlist footer.
func EmitNetlist(design netlist.NetlistDesign, db *importer.ProgramDB, be Backend, backendName string,
	topAsSubckt bool) (string, *diag.Bag) {
	bag := diag.NewBag()

	modules := make(map[moduleKey]netlist.NetlistModule, len(design.Modules))
	for _, nm := range design.Modules {
		modules[moduleKey{nm.FileID, nm.Logical}] = nm
	}

	var out strings.Builder

	header, hbag := Render(be.Templates["__netlist_header__"], nil, true)
	bag.Merge(hbag)
	out.WriteString(header)

	for _, nm := range design.Modules {
		isTop := nm.Name == design.Top
		wrap := !isTop || topAsSubckt

		if wrap {
			hdr, b := Render(be.Templates["__subckt_header__"],
				map[string]string{"name": nm.Name, "ports": strings.Join(nm.Ports, " ")}, true)
			bag.Merge(b)
			out.WriteString(hdr)
		}

		for _, inst := range nm.Instances {
			line, b := emitInstance(inst, modules, db, be, backendName)
			bag.Merge(b)
			out.WriteString(line)
		}

		if wrap {
			ftr, b := Render(be.Templates["__subckt_footer__"],
				map[string]string{"name": nm.Name, "ports": strings.Join(nm.Ports, " ")}, true)
			bag.Merge(b)
			out.WriteString(ftr)
		}
	}

	footer, fbag := Render(be.Templates["__netlist_footer__"], nil, true)
	bag.Merge(fbag)
	out.WriteString(footer)

	return out.String(), bag
}

// connsByPort looks up the net bound to a port, "" if the port is
// unbound (left disconnected, e.g. a default-merged optional pin).
func connsByPort(inst netlist.NetlistInstance, port string) string {
	for _, c := range inst.Conns {
		if c.Port == port {
			return c.Net
		}
	}

	return ""
}

func emitInstance(inst netlist.NetlistInstance, modules map[moduleKey]netlist.NetlistModule, db *importer.ProgramDB,
	be Backend, backendName string) (string, *diag.Bag) {
	if inst.RefEmitted != "" {
		return emitHierarchicalCall(inst, modules, be)
	}

	return emitDeviceCall(inst, db, be, backendName)
}

func emitHierarchicalCall(inst netlist.NetlistInstance, modules map[moduleKey]netlist.NetlistModule,
	be Backend) (string, *diag.Bag) {
	callee, ok := modules[moduleKey{inst.RefFile, inst.Ref}]

	bag := diag.NewBag()

	var ports []string
	if ok {
		ports = callee.Ports
	}

	portNets := make([]string, len(ports))
	for i, p := range ports {
		portNets[i] = connsByPort(inst, p)
	}

	line, rbag := Render(be.Templates["__subckt_call__"],
		map[string]string{"name": inst.Name, "ref": inst.RefEmitted, "ports": strings.Join(portNets, " ")}, true)
	bag.Merge(rbag)

	return line, bag
}

func emitDeviceCall(inst netlist.NetlistInstance, db *importer.ProgramDB, be Backend,
	backendName string) (string, *diag.Bag) {
	bag := diag.NewBag()

	doc, ok := db.Docs[inst.RefFile]
	if !ok {
		bag.Add(diag.New(diag.CodeUnknownInstance, diag.Error,
			fmt.Sprintf("instance %q references device %q in unknown file %q", inst.Name, inst.Ref, inst.RefFile)))

		return "", bag
	}

	dev, ok := doc.Devices.Get(inst.Ref)
	if !ok {
		bag.Add(diag.New(diag.CodeUnknownInstance, diag.Error,
			fmt.Sprintf("instance %q references unknown device %q", inst.Name, inst.Ref)))

		return "", bag
	}

	entry, ok := dev.Backends.Get(backendName)
	if !ok {
		bag.Add(diag.New(diag.CodeMissingSystemTemplate, diag.Fatal,
			fmt.Sprintf("device %q has no template for backend %q", inst.Ref, backendName)))

		return "", bag
	}

	values := map[string]string{"name": inst.Name, "ports": strings.Join(portNetsInOrder(inst, dev), " ")}

	merged, mbag := MergeDeviceParams(dev.Parameters.Keys(), toMap(dev.Parameters), entry.Parameters.Keys(),
		toMap(entry.Parameters), inst.Params)
	bag.Merge(mbag)

	for _, k := range merged.Order {
		values[k] = merged.Values[k]
	}

	for _, k := range dev.Variables.Keys() {
		v, _ := dev.Variables.Get(k)
		values[k] = v
	}

	for _, k := range entry.Variables.Keys() {
		v, _ := entry.Variables.Get(k)
		values[k] = v
	}

	for _, k := range entry.Props.Keys() {
		v, _ := entry.Props.Get(k)
		values[k] = v
	}

	line, rbag := Render(entry.Template, values, false)
	bag.Merge(rbag)

	return line, bag
}

func portNetsInOrder(inst netlist.NetlistInstance, dev astmodel.Device) []string {
	nets := make([]string, len(dev.Ports))
	for i, p := range dev.Ports {
		nets[i] = connsByPort(inst, p)
	}

	return nets
}

func toMap(m *util.OrderedMap[string]) map[string]string {
	out := make(map[string]string, m.Len())
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		out[k] = v
	}

	return out
}
