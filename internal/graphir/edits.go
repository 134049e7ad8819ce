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
	"maps"

	"github.com/asdl-lang/asdlc/internal/diag"
)

// Txn batches primitive edits against a Program; nothing is applied to
// the program's canonical arenas until Commit succeeds (spec.md §4.6).
// A failed Commit leaves the program exactly as it was before the
// transaction began, by cloning the mutated arenas up front and only
// swapping them in on success.
type Txn struct {
	p *Program

	modules   []Module
	devices   []Device
	nets      []Net
	instances []Instance
	endpoints []Endpoint

	moduleIndex map[SymbolRef]ModuleID
	deviceIndex map[SymbolRef]DeviceID
}

// Begin opens a transaction against p, snapshotting its current arenas.
func (p *Program) Begin() *Txn {
	t := &Txn{
		p:           p,
		modules:     append([]Module{}, p.modules...),
		devices:     append([]Device{}, p.devices...),
		nets:        append([]Net{}, p.nets...),
		instances:   append([]Instance{}, p.instances...),
		endpoints:   append([]Endpoint{}, p.endpoints...),
		moduleIndex: cloneRefMap(p.moduleIndex),
		deviceIndex: cloneRefMap(p.deviceIndex),
	}

	for i := range t.modules {
		t.modules[i].Nets = append([]NetID(nil), t.modules[i].Nets...)
		t.modules[i].Instances = append([]InstanceID(nil), t.modules[i].Instances...)
	}

	for i := range t.nets {
		t.nets[i].Endpoints = append([]EndpointID(nil), t.nets[i].Endpoints...)
		t.nets[i].Attrs = maps.Clone(t.nets[i].Attrs)
	}

	for i := range t.instances {
		t.instances[i].Endpoints = append([]EndpointID(nil), t.instances[i].Endpoints...)
		t.instances[i].Props = maps.Clone(t.instances[i].Props)
	}

	return t
}

func cloneRefMap[V any](m map[SymbolRef]V) map[SymbolRef]V {
	out := make(map[SymbolRef]V, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

// Commit validates the transaction's snapshot and, if it passes, swaps
// it into the program as the new canonical state and rebuilds derived
// indices. On validation failure the program is left completely
// unchanged (rollback is simply "never swap in").
func (t *Txn) Commit() *diag.Bag {
	shadow := &Program{
		modules:     t.modules,
		devices:     t.devices,
		nets:        t.nets,
		instances:   t.instances,
		endpoints:   t.endpoints,
		moduleIndex: t.moduleIndex,
		deviceIndex: t.deviceIndex,
	}

	bag := shadow.validate()
	if bag.HasErrors() {
		return bag
	}

	t.p.modules = shadow.modules
	t.p.devices = shadow.devices
	t.p.nets = shadow.nets
	t.p.instances = shadow.instances
	t.p.endpoints = shadow.endpoints
	t.p.moduleIndex = shadow.moduleIndex
	t.p.deviceIndex = shadow.deviceIndex
	t.p.rebuildDerivedIndices()

	return bag
}

// CreateModule allocates a fresh module with no nets or instances yet.
func (t *Txn) CreateModule(fileID, name string, ports []string) ModuleID {
	id := ModuleID(len(t.modules))
	t.modules = append(t.modules, Module{ID: id, FileID: fileID, Name: name, Ports: ports})
	t.moduleIndex[SymbolRef{FileID: fileID, Name: name}] = id

	return id
}

// CreateDevice registers a device symbol carried through from the AST.
func (t *Txn) CreateDevice(fileID, name string, ports []string) DeviceID {
	id := DeviceID(len(t.devices))
	t.devices = append(t.devices, Device{ID: id, FileID: fileID, Name: name, Ports: ports})
	t.deviceIndex[SymbolRef{FileID: fileID, Name: name}] = id

	return id
}

// CreateNet appends a new, endpoint-less net to module mid.
func (t *Txn) CreateNet(mid ModuleID, name string, origin *PatternOrigin) NetID {
	id := NetID(len(t.nets))
	t.nets = append(t.nets, Net{ID: id, Name: name, Attrs: map[string]string{}, Origin: origin})
	t.modules[mid].Nets = append(t.modules[mid].Nets, id)

	return id
}

// DeleteNet removes a net from its module's net list; it does not check
// for still-attached endpoints, since §4.6 decomposes higher-level
// "delete a net and detach its endpoints" edits into detach + delete.
func (t *Txn) DeleteNet(mid ModuleID, nid NetID) {
	m := &t.modules[mid]

	for i, id := range m.Nets {
		if id == nid {
			m.Nets = append(m.Nets[:i], m.Nets[i+1:]...)
			return
		}
	}
}

// CreateInstance appends a new, endpoint-less instance to module mid.
func (t *Txn) CreateInstance(mid ModuleID, name string, ref SymbolRef, raw string, props map[string]string,
	origin *PatternOrigin) InstanceID {
	id := InstanceID(len(t.instances))
	t.instances = append(t.instances, Instance{
		ID: id, Name: name, ModuleRef: ref, ModuleRaw: raw, Props: props, Origin: origin,
	})
	t.modules[mid].Instances = append(t.modules[mid].Instances, id)

	return id
}

// DeleteInstance removes an instance from its module's instance list.
func (t *Txn) DeleteInstance(mid ModuleID, iid InstanceID) {
	m := &t.modules[mid]

	for i, id := range m.Instances {
		if id == iid {
			m.Instances = append(m.Instances[:i], m.Instances[i+1:]...)
			return
		}
	}
}

// Attach appends an endpoint binding inst.portPath to net nid, returning
// the new endpoint's ID. Endpoints are appended to both the net's and
// the instance's endpoint lists, preserving region order.
func (t *Txn) Attach(nid NetID, iid InstanceID, portPath string, origin *PatternOrigin) EndpointID {
	id := EndpointID(len(t.endpoints))
	t.endpoints = append(t.endpoints, Endpoint{ID: id, InstID: iid, PortPath: portPath, Origin: origin})
	t.nets[nid].Endpoints = append(t.nets[nid].Endpoints, id)
	t.instances[iid].Endpoints = append(t.instances[iid].Endpoints, id)

	return id
}

// Detach removes an endpoint from its net's endpoint list and its
// instance's endpoint list, without deleting the endpoint record's
// arena slot (IDs are never reused, per §3.3).
func (t *Txn) Detach(nid NetID, eid EndpointID) {
	n := &t.nets[nid]

	for i, id := range n.Endpoints {
		if id == eid {
			n.Endpoints = append(n.Endpoints[:i], n.Endpoints[i+1:]...)
			break
		}
	}

	ep := t.endpoints[eid]
	inst := &t.instances[ep.InstID]

	for i, id := range inst.Endpoints {
		if id == eid {
			inst.Endpoints = append(inst.Endpoints[:i], inst.Endpoints[i+1:]...)
			break
		}
	}
}

// SetInstanceProp sets a single instance property/parameter value.
func (t *Txn) SetInstanceProp(iid InstanceID, key, value string) {
	inst := &t.instances[iid]
	if inst.Props == nil {
		inst.Props = map[string]string{}
	}

	inst.Props[key] = value
}

// SetNetAttr sets a single net attribute.
func (t *Txn) SetNetAttr(nid NetID, key, value string) {
	n := &t.nets[nid]
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}

	n.Attrs[key] = value
}

// RenameInstance changes an instance's literal name in place; identity
// (its InstanceID) is unaffected.
func (t *Txn) RenameInstance(iid InstanceID, name string) {
	t.instances[iid].Name = name
}

// RenameNet changes a net's literal name in place; identity (its
// NetID) is unaffected.
func (t *Txn) RenameNet(nid NetID, name string) {
	t.nets[nid].Name = name
}

