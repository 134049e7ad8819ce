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
package lower

import (
	"fmt"
	"strings"

	"github.com/asdl-lang/asdlc/internal/astmodel"
	"github.com/asdl-lang/asdlc/internal/diag"
	"github.com/asdl-lang/asdlc/internal/graphir"
	"github.com/asdl-lang/asdlc/internal/importer"
	"github.com/asdl-lang/asdlc/internal/pattern"
	"github.com/asdl-lang/asdlc/internal/util"
)

// patternEnv adapts an astmodel Module's module-local named patterns to
// pattern.Env.
type patternEnv struct {
	patterns *util.OrderedMap[astmodel.PatternDef]
}

func (e patternEnv) ResolvePattern(name string) (string, string, bool) {
	def, ok := e.patterns.Get(name)
	if !ok {
		return "", "", false
	}

	return def.Expr, def.Tag, true
}

// Lower runs the full C5 pass over every file in db, materializing a
// graphir.Program. Modules are registered in a first pass (so forward
// and cross-file references resolve regardless of declaration order),
// then populated with nets/instances/endpoints in a second pass.
func Lower(db *importer.ProgramDB) (*graphir.Program, *diag.Bag) {
	prog := graphir.NewProgram()
	bag := diag.NewBag()

	txn := prog.Begin()
	mids := make(map[graphir.SymbolRef]graphir.ModuleID)

	for _, fileID := range db.Order {
		doc := db.Docs[fileID]

		for _, name := range doc.Devices.Keys() {
			dev, _ := doc.Devices.Get(name)
			txn.CreateDevice(fileID, name, dev.Ports)
		}

		for _, name := range doc.Modules.Keys() {
			mod, _ := doc.Modules.Get(name)
			mids[graphir.SymbolRef{FileID: fileID, Name: name}] = txn.CreateModule(fileID, name, derivePortOrder(mod, bag))
		}
	}

	for _, fileID := range db.Order {
		doc := db.Docs[fileID]

		for _, name := range doc.Modules.Keys() {
			mod, _ := doc.Modules.Get(name)
			mid := mids[graphir.SymbolRef{FileID: fileID, Name: name}]
			lowerModule(txn, db, fileID, mid, mod, bag)
		}
	}

	bag.Merge(txn.Commit())

	return prog, bag
}

// stripNetMarker removes the leading "$" that marks a net name as
// port-eligible (spec.md §4.5); the "$" is a syntactic marker in the
// authoring surface, not part of the literal net/port identifier
// (spec.md §3.2's `[A-Za-z_][A-Za-z0-9_]*` literal-name grammar excludes
// it, and §8.3's worked examples show it stripped in emitted output).
func stripNetMarker(name string) string {
	return strings.TrimPrefix(name, "$")
}

// derivePortOrder implements spec.md §4.5 step 5: literal "$" net names
// in nets declaration order, then "$" net names first-seen in
// instance_defaults bindings. A pattern-bearing net name (e.g. a
// differential "$VIN<P|N>") is expanded against the module's own named
// patterns so each resulting literal atom becomes its own port, in
// expansion order, with the "$" marker stripped from each literal.
func derivePortOrder(mod astmodel.Module, bag *diag.Bag) []string {
	env := patternEnv{patterns: mod.Patterns}

	var ports []string

	seen := make(map[string]bool)

	addPort := func(rawName string) {
		if !strings.HasPrefix(rawName, "$") {
			return
		}

		expansion, ebag := pattern.Expand(rawName, env)
		bag.Merge(ebag)

		if ebag.HasErrors() {
			return
		}

		for _, raw := range expansion.Literals() {
			atom := stripNetMarker(raw)
			if !seen[atom] {
				ports = append(ports, atom)
				seen[atom] = true
			}
		}
	}

	for _, netName := range mod.Nets.Keys() {
		addPort(netName)
	}

	for _, ref := range mod.InstanceDefaults.Keys() {
		defs, _ := mod.InstanceDefaults.Get(ref)

		for _, pin := range defs.Keys() {
			net, _ := defs.Get(pin)
			addPort(net)
		}
	}

	return ports
}

// lowerModule lowers one module's instances and nets into prog via txn.
func lowerModule(txn *graphir.Txn, db *importer.ProgramDB, fileID string, mid graphir.ModuleID, mod astmodel.Module,
	bag *diag.Bag) {
	env := patternEnv{patterns: mod.Patterns}

	// instanceNames[instName] -> InstanceID, instanceRef[instName] -> raw ref
	instanceIDs := make(map[string]graphir.InstanceID)
	instanceRefs := make(map[string]string)
	explicitPins := make(map[string]map[string]pinBinding) // instName -> pin -> binding

	for _, rawName := range mod.Instances.Keys() {
		rawExpr, _ := mod.Instances.Get(rawName)

		nameExpansion, nbag := pattern.Expand(rawName, env)
		bag.Merge(nbag)

		if nbag.HasErrors() {
			continue
		}

		expr, err := parseInstanceExpr(rawExpr)
		if err != nil {
			bag.Add(diag.New(diag.CodeMalformedPattern, diag.Error, err.Error()))
			continue
		}

		sym, ok := db.ResolveRef(fileID, expr.Ref)
		if !ok {
			code := diag.CodeUnresolvedRef
			if strings.Contains(expr.Ref, ".") {
				code = diag.CodeUnresolvedQualifiedRef
			}

			bag.Add(diag.New(code, diag.Error, fmt.Sprintf("instance %q references unresolved symbol %q",
				rawName, expr.Ref)))

			continue
		}

		ref := graphir.SymbolRef{FileID: sym.FileID, Name: sym.Name}

		names := nameExpansion.Literals()
		n := len(names)

		perInstanceParams := make([]map[string]string, n)
		for i := range perInstanceParams {
			perInstanceParams[i] = make(map[string]string, len(expr.Params))
		}

		for _, k := range expr.ParamOrder {
			val, vbag := substituteVars(expr.Params[k], varsOf(mod))
			bag.Merge(vbag)

			values, perr := broadcastOrZip(val, n)
			if perr != nil {
				bag.Add(diag.New(diag.CodeBindingLengthMismatch, diag.Error,
					fmt.Sprintf("instance %q parameter %q: %s", rawName, k, perr.Error())))

				continue
			}

			for i := 0; i < n; i++ {
				perInstanceParams[i][k] = values[i]
			}
		}

		for i, instName := range names {
			iid := txn.CreateInstance(mid, instName, ref, rawExpr, perInstanceParams[i], nil)
			instanceIDs[instName] = iid
			instanceRefs[instName] = expr.Ref
			explicitPins[instName] = map[string]pinBinding{}
		}
	}

	netIDs := make(map[string]graphir.NetID)

	for _, rawNet := range mod.Nets.Keys() {
		tokens, _ := mod.Nets.Get(rawNet)

		netExpansion, nbag := pattern.Expand(rawNet, env)
		bag.Merge(nbag)

		if nbag.HasErrors() {
			continue
		}

		netLiterals := netExpansion.Literals()

		nids := make([]graphir.NetID, len(netLiterals))
		for i, rawNetName := range netLiterals {
			netName := stripNetMarker(rawNetName)

			nid, ok := netIDs[netName]
			if !ok {
				nid = txn.CreateNet(mid, netName, nil)
				netIDs[netName] = nid
			}

			nids[i] = nid
		}

		for _, tok := range tokens {
			lowerEndpointToken(txn, env, netExpansion, nids, tok, instanceIDs, explicitPins, bag)
		}
	}

	applyInstanceDefaults(txn, mid, mod, instanceIDs, instanceRefs, explicitPins, netIDs, bag)
}

// lowerEndpointToken expands a raw "inst.port" endpoint token (spec.md
// §4.5 step 6) and binds the resulting atoms against netExpansion's
// atoms via the axis-tagged broadcast algebra (pattern.Bind, §4.3),
// attaching each paired token atom to its bound net (nids[i] is the
// GraphIR net already created for netExpansion's i'th literal). A token
// prefixed with "!" marks an explicit binding that silently overrides an
// instance_defaults entry for the same (instance, port), suppressing the
// LINT-002 override notice.
func lowerEndpointToken(txn *graphir.Txn, env pattern.Env, netExpansion pattern.Expansion, nids []graphir.NetID,
	tok string, instanceIDs map[string]graphir.InstanceID, explicitPins map[string]map[string]pinBinding, bag *diag.Bag) {
	suppressed := strings.HasPrefix(tok, "!")
	tok = strings.TrimPrefix(tok, "!")

	expansion, ebag := pattern.Expand(tok, env)
	bag.Merge(ebag)

	if ebag.HasErrors() {
		return
	}

	bindings, bbag := pattern.Bind(netExpansion, expansion)
	bag.Merge(bbag)

	if bbag.HasErrors() {
		return
	}

	atoms := expansion.Literals()

	for _, b := range bindings {
		atom := atoms[b.RightIndex]

		instName, port, err := splitEndpointAtom(atom)
		if err != nil {
			bag.Add(diag.New(diag.CodeMalformedPattern, diag.Error, err.Error()))
			continue
		}

		iid, ok := instanceIDs[instName]
		if !ok {
			bag.Add(diag.New(diag.CodeUnknownInstance, diag.Error,
				fmt.Sprintf("endpoint %q refers to unknown instance %q", atom, instName)))

			continue
		}

		txn.Attach(nids[b.LeftIndex], iid, port, nil)

		if explicitPins[instName] != nil {
			explicitPins[instName][port] = pinBinding{Suppressed: suppressed}
		}
	}
}

// pinBinding records that an endpoint token explicitly bound an
// (instance, port) pair, and whether the binding's "!" prefix suppresses
// the LINT-002 notice an instance_defaults override would otherwise emit
// for the same pin.
type pinBinding struct {
	Suppressed bool
}

func varsOf(mod astmodel.Module) map[string]string {
	out := make(map[string]string)
	for _, k := range mod.Variables.Keys() {
		v, _ := mod.Variables.Get(k)
		out[k] = v
	}

	return out
}
