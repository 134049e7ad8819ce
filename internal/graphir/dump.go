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
	"github.com/segmentio/encoding/json"
)

// dumpModule/dumpNet/etc. are a flattened, JSON-friendly view of the
// arena model, used only by the optional "--dump-graphir" debugging
// artifact; GraphIR's canonical representation remains the in-memory
// arenas themselves.
type dumpProgram struct {
	Entry   *uint32      `json:"entry,omitempty"`
	Modules []dumpModule `json:"modules"`
	Devices []dumpDevice `json:"devices"`
}

type dumpModule struct {
	ID        uint32         `json:"id"`
	FileID    string         `json:"file_id"`
	Name      string         `json:"name"`
	Ports     []string       `json:"ports"`
	Nets      []dumpNet      `json:"nets"`
	Instances []dumpInstance `json:"instances"`
}

type dumpDevice struct {
	ID     uint32   `json:"id"`
	FileID string   `json:"file_id"`
	Name   string   `json:"name"`
	Ports  []string `json:"ports"`
}

type dumpNet struct {
	ID        uint32   `json:"id"`
	Name      string   `json:"name"`
	Endpoints []string `json:"endpoints"`
}

type dumpInstance struct {
	ID    uint32            `json:"id"`
	Name  string            `json:"name"`
	Ref   string            `json:"ref"`
	Props map[string]string `json:"props,omitempty"`
}

// DumpJSON renders the program as a debugging-oriented JSON document via
// a faster, drop-in encoding/json replacement (spec.md §6.6's optional
// persisted GraphIR artifact, "--dump-graphir").
func (p *Program) DumpJSON() ([]byte, error) {
	dp := dumpProgram{}

	if p.Entry != nil {
		v := uint32(*p.Entry)
		dp.Entry = &v
	}

	for _, mid := range p.Modules() {
		m := p.Module(mid)

		dm := dumpModule{ID: uint32(m.ID), FileID: m.FileID, Name: m.Name, Ports: m.Ports}

		for _, nid := range m.Nets {
			n := p.Net(nid)

			endpoints := make([]string, len(n.Endpoints))
			for i, eid := range n.Endpoints {
				ep := p.Endpoint(eid)
				inst := p.Instance(ep.InstID)
				endpoints[i] = inst.Name + "." + ep.PortPath
			}

			dm.Nets = append(dm.Nets, dumpNet{ID: uint32(n.ID), Name: n.Name, Endpoints: endpoints})
		}

		for _, iid := range m.Instances {
			inst := p.Instance(iid)
			dm.Instances = append(dm.Instances, dumpInstance{
				ID: uint32(inst.ID), Name: inst.Name, Ref: inst.ModuleRef.String(), Props: inst.Props,
			})
		}

		dp.Modules = append(dp.Modules, dm)
	}

	for _, did := range p.Devices() {
		d := p.Device(did)
		dp.Devices = append(dp.Devices, dumpDevice{ID: uint32(d.ID), FileID: d.FileID, Name: d.Name, Ports: d.Ports})
	}

	return json.MarshalIndent(dp, "", "  ")
}
