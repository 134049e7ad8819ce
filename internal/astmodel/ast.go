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

// Package astmodel implements the AST Model & Schema Gate (spec component
// C2): a typed, order-preserving model of an authoring document plus the
// shape validator that turns a raw YAML node tree into it.  Modeled on
// the sum-type-per-node-kind shape of go-corset's pkg/corset/ast package,
// generalized from s-expressions to YAML mappings.
package astmodel

import (
	"github.com/asdl-lang/asdlc/internal/diag"
	"github.com/asdl-lang/asdlc/internal/util"
)

// Document is a single parsed authoring file (spec.md §3.1).  Immutable
// once constructed by the schema gate.
type Document struct {
	// File is the (not-yet-normalized) path this document was parsed
	// from; the import resolver (C4) is responsible for turning this
	// into a canonical file_id.
	File string
	// Top optionally names the module selected as the design root.
	Top *string
	// Imports maps a local namespace to the raw (unresolved) import path.
	Imports *util.OrderedMap[string]
	// Modules maps a module's declared symbol key (e.g. "cell" or
	// "cell@view") to its declaration.
	Modules *util.OrderedMap[Module]
	// Devices maps a device's declared symbol key to its declaration.
	Devices *util.OrderedMap[Device]
	Span    diag.Span
}

// PatternDef is a module-local named pattern declaration: either a bare
// string shorthand, or the long form carrying an explicit axis tag.
type PatternDef struct {
	Expr string
	// Tag is the axis identifier used by the broadcast binding algebra
	// (§4.3).  Empty means the axis_id defaults to the defining name.
	Tag  string
	Span diag.Span
}

// Module is a named declaration of instances, nets, patterns, defaults,
// parameters and variables (spec.md §3.1).  All maps preserve the exact
// authoring order, per the "ordered maps" design note (spec.md §9).
type Module struct {
	Name string
	// Instances maps an instance name (raw, possibly patterned) to its
	// raw instance expression text ("<ref> [k=v ...]").
	Instances *util.OrderedMap[string]
	// Nets maps a net name (raw, possibly patterned, "$"-prefixed for
	// ports) to its ordered list of raw endpoint tokens.
	Nets *util.OrderedMap[[]string]
	// Patterns holds module-local named pattern definitions.
	Patterns *util.OrderedMap[PatternDef]
	// InstanceDefaults maps a model reference to a set of default
	// pin->net bindings applied to every instance of that reference.
	InstanceDefaults *util.OrderedMap[*util.OrderedMap[string]]
	Parameters       *util.OrderedMap[string]
	Variables        *util.OrderedMap[string]
	Span             diag.Span
}

// BackendEntry is a single backend's view of a device: its template plus
// any backend-specific parameter/variable/prop overrides.
type BackendEntry struct {
	Template   string
	Parameters *util.OrderedMap[string]
	Variables  *util.OrderedMap[string]
	// Props holds freeform placeholder values beyond parameters/
	// variables (spec.md §3.1).
	Props *util.OrderedMap[string]
	Span  diag.Span
}

// Device is a leaf symbol with an ordered port list and a non-empty set
// of per-backend templates (spec.md §3.1).
type Device struct {
	Name       string
	Ports      []string
	Parameters *util.OrderedMap[string]
	Variables  *util.OrderedMap[string]
	Backends   *util.OrderedMap[BackendEntry]
	Span       diag.Span
}
