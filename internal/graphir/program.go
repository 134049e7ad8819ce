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

import "github.com/asdl-lang/asdlc/internal/diag"

// PatternOrigin is the provenance record attached to any atomized name
// whose producing token contained pattern syntax (spec.md §3.1). It is
// pure metadata: it never participates in binding or uniqueness checks.
type PatternOrigin struct {
	ExpressionID string
	SegmentIndex int
	BaseName     string
	PatternParts []string
}

// Endpoint is one (instance, port) attachment to a net; its uniqueness
// key is (InstID, PortPath).
type Endpoint struct {
	ID       EndpointID
	InstID   InstanceID
	PortPath string
	Origin   *PatternOrigin
}

// Net is a hyperedge: an ordered, region-nested list of endpoints
// (region order is canonical, per §4.6).
type Net struct {
	ID        NetID
	Name      string
	Endpoints []EndpointID
	Attrs     map[string]string
	Origin    *PatternOrigin
}

// Instance is one placement of a module or device inside a module.
type Instance struct {
	ID         InstanceID
	Name       string
	ModuleRef  SymbolRef
	ModuleRaw  string
	Props      map[string]string
	Endpoints  []EndpointID
	Origin     *PatternOrigin
}

// Module is one module graph: its own nets and instances, nested in
// declaration order.
type Module struct {
	ID        ModuleID
	FileID    string
	Name      string
	Ports     []string
	Nets      []NetID
	Instances []InstanceID
}

// Device is a leaf symbol carried through unchanged from the AST layer,
// needed by C7/C8 for port lists and backend templates.
type Device struct {
	ID     DeviceID
	FileID string
	Name   string
	Ports  []string
}

// Program is the arena-of-stable-IDs semantic core: every entity is
// owned here and referenced elsewhere only by ID (spec.md §3.3).
type Program struct {
	Entry *ModuleID

	modules   []Module
	devices   []Device
	nets      []Net
	instances []Instance
	endpoints []Endpoint

	moduleIndex map[SymbolRef]ModuleID
	deviceIndex map[SymbolRef]DeviceID

	// NetToEndpoints, EndpointToNet and InstToEndpoints are derived
	// indices (spec.md §4.6): cached, not canonical, rebuildable from the
	// arenas at any time.
	NetToEndpoints map[NetID][]EndpointID
	EndpointToNet  map[EndpointID]NetID
	InstToEndpoints map[InstanceID][]EndpointID
}

// NewProgram returns an empty program ready to receive edits.
func NewProgram() *Program {
	return &Program{
		moduleIndex:     make(map[SymbolRef]ModuleID),
		deviceIndex:     make(map[SymbolRef]DeviceID),
		NetToEndpoints:  make(map[NetID][]EndpointID),
		EndpointToNet:   make(map[EndpointID]NetID),
		InstToEndpoints: make(map[InstanceID][]EndpointID),
	}
}

func (p *Program) Module(id ModuleID) *Module     { return &p.modules[id] }
func (p *Program) Device(id DeviceID) *Device     { return &p.devices[id] }
func (p *Program) Net(id NetID) *Net              { return &p.nets[id] }
func (p *Program) Instance(id InstanceID) *Instance { return &p.instances[id] }
func (p *Program) Endpoint(id EndpointID) *Endpoint { return &p.endpoints[id] }

// Modules returns every module ID in arena (declaration) order.
func (p *Program) Modules() []ModuleID {
	out := make([]ModuleID, len(p.modules))
	for i := range p.modules {
		out[i] = ModuleID(i)
	}

	return out
}

// Devices returns every device ID in arena (declaration) order.
func (p *Program) Devices() []DeviceID {
	out := make([]DeviceID, len(p.devices))
	for i := range p.devices {
		out[i] = DeviceID(i)
	}

	return out
}

// LookupModule finds a previously-registered module by (file_id, name).
func (p *Program) LookupModule(ref SymbolRef) (ModuleID, bool) {
	id, ok := p.moduleIndex[ref]
	return id, ok
}

// LookupDevice finds a previously-registered device by (file_id, name).
func (p *Program) LookupDevice(ref SymbolRef) (DeviceID, bool) {
	id, ok := p.deviceIndex[ref]
	return id, ok
}

// rebuildDerivedIndices recomputes the cached net/endpoint/instance
// indices from canonical arena state, called at transaction commit.
func (p *Program) rebuildDerivedIndices() {
	for k := range p.NetToEndpoints {
		delete(p.NetToEndpoints, k)
	}

	for k := range p.EndpointToNet {
		delete(p.EndpointToNet, k)
	}

	for k := range p.InstToEndpoints {
		delete(p.InstToEndpoints, k)
	}

	for ni := range p.nets {
		n := &p.nets[ni]
		p.NetToEndpoints[n.ID] = append([]EndpointID{}, n.Endpoints...)

		for _, eid := range n.Endpoints {
			p.EndpointToNet[eid] = n.ID
		}
	}

	for ii := range p.instances {
		inst := &p.instances[ii]
		p.InstToEndpoints[inst.ID] = append([]EndpointID{}, inst.Endpoints...)
	}
}

// validate checks the §3.2 structural invariants that are checked at
// transaction commit time.
func (p *Program) validate() *diag.Bag {
	bag := diag.NewBag()

	for mi := range p.modules {
		m := &p.modules[mi]

		seenNets := make(map[string]bool)
		seenInsts := make(map[string]bool)
		seenPorts := make(map[string]bool)

		for _, nid := range m.Nets {
			n := p.Net(nid)
			if seenNets[n.Name] {
				bag.Add(diag.New(diag.CodeDuplicateNet, diag.Error,
					"duplicate net name \""+n.Name+"\" in module \""+m.Name+"\""))
			}

			seenNets[n.Name] = true
		}

		for _, iid := range m.Instances {
			inst := p.Instance(iid)
			if seenInsts[inst.Name] {
				bag.Add(diag.New(diag.CodeDuplicateInstance, diag.Error,
					"duplicate instance name \""+inst.Name+"\" in module \""+m.Name+"\""))
			}

			seenInsts[inst.Name] = true

			endpointKeys := make(map[string]bool)

			for _, eid := range inst.Endpoints {
				ep := p.Endpoint(eid)
				if endpointKeys[ep.PortPath] {
					bag.Add(diag.New(diag.CodeDuplicateEndpoint, diag.Error,
						"duplicate endpoint key on instance \""+inst.Name+"\" port \""+ep.PortPath+"\""))
				}

				endpointKeys[ep.PortPath] = true
			}
		}

		for _, port := range m.Ports {
			if seenPorts[port] {
				bag.Add(diag.New(diag.CodeDuplicatePort, diag.Error, "duplicate port name \""+port+"\""))
			}

			seenPorts[port] = true
		}
	}

	return bag
}
