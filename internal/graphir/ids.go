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

// Package graphir implements the semantic core (spec component C6): an
// arena-of-stable-IDs program of modules, devices, nets, instances and
// endpoints, the primitive edit algebra, transactional commit/rollback,
// collision-suffix emission-name resolution, and reachability/ordering
// for emission.
package graphir

import "fmt"

// ID is an opaque, never-reused handle into one of the program's arenas.
// External references are always by ID, never by raw name (spec.md
// §3.3).
type ID uint32

// ModuleID, DeviceID, NetID, InstanceID and EndpointID distinguish which
// arena an ID belongs to at the type level, the same stable-handle idiom
// the teacher uses for its own schema/IR columns
// (pkg/schema/column.go's ColumnId).
type (
	ModuleID   ID
	DeviceID   ID
	NetID      ID
	InstanceID ID
	EndpointID ID
)

func (id ModuleID) String() string   { return fmt.Sprintf("module#%d", uint32(id)) }
func (id DeviceID) String() string   { return fmt.Sprintf("device#%d", uint32(id)) }
func (id NetID) String() string      { return fmt.Sprintf("net#%d", uint32(id)) }
func (id InstanceID) String() string { return fmt.Sprintf("instance#%d", uint32(id)) }
func (id EndpointID) String() string { return fmt.Sprintf("endpoint#%d", uint32(id)) }

// SymbolRef is a resolved, file-qualified reference to a module or
// device: module identity is (file_id, name) per spec.md §3.2.
type SymbolRef struct {
	FileID string
	Name   string
}

func (r SymbolRef) String() string { return r.FileID + "#" + r.Name }
