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
package importer

import "strings"

// Symbol is a resolved reference to a module or device declared in a
// specific file: the two-step lookup result of resolving "ns.symbol" or
// a bare "symbol" against a NameEnv and the ProgramDB (spec.md §4.4).
type Symbol struct {
	FileID string
	Name   string
}

// ResolveRef resolves a raw reference string as it appears in an
// instance expression, relative to the file that contains it. A bare
// "symbol" resolves only within fromFile (loading is transitive,
// visibility is not); a qualified "ns.symbol" first looks up "ns" in
// fromFile's NameEnv, then resolves "symbol" in the resulting file_id.
func (db *ProgramDB) ResolveRef(fromFile, ref string) (Symbol, bool) {
	ns, symbol, qualified := splitRef(ref)

	if !qualified {
		return Symbol{FileID: fromFile, Name: ref}, db.declares(fromFile, ref)
	}

	env, ok := db.NameEnvs[fromFile]
	if !ok {
		return Symbol{}, false
	}

	fileID, ok := env.Get(ns)
	if !ok {
		return Symbol{}, false
	}

	return Symbol{FileID: fileID, Name: symbol}, db.declares(fileID, symbol)
}

// declares reports whether fileID's document declares a module or
// device named name.
func (db *ProgramDB) declares(fileID, name string) bool {
	doc, ok := db.Docs[fileID]
	if !ok {
		return false
	}

	if doc.Modules.Has(name) {
		return true
	}

	return doc.Devices.Has(name)
}

// splitRef splits "ns.symbol" into its two parts; a ref with no '.' is
// unqualified.
func splitRef(ref string) (ns, symbol string, qualified bool) {
	i := strings.IndexByte(ref, '.')
	if i < 0 {
		return "", ref, false
	}

	return ref[:i], ref[i+1:], true
}
