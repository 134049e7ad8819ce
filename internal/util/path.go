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

// Package util holds small generic helpers shared across the compiler
// pipeline (symbol addressing, ordered maps, ...).
package util

import "fmt"

// SymbolPath addresses a declaration within the ASDL namespace model:
// either a bare symbol ("symbol"), or a namespace-qualified one
// ("ns.symbol"). Unlike a general tree path, ASDL only ever nests one level
// deep (a namespace introduced by an import), so this is simpler than
// go-corset's arbitrarily-deep Path, but follows the same
// qualified/unqualified split.
type SymbolPath struct {
	// Namespace is empty for an unqualified reference.
	Namespace string
	// Symbol is the referenced name (a module or device cell, optionally
	// "cell@view").
	Symbol string
}

// NewSymbolPath constructs an unqualified symbol path.
func NewSymbolPath(symbol string) SymbolPath {
	return SymbolPath{Symbol: symbol}
}

// NewQualifiedSymbolPath constructs a namespace-qualified symbol path.
func NewQualifiedSymbolPath(namespace, symbol string) SymbolPath {
	return SymbolPath{Namespace: namespace, Symbol: symbol}
}

// IsQualified returns true when this path carries a namespace prefix.
func (p SymbolPath) IsQualified() bool {
	return p.Namespace != ""
}

// String renders the path the way it would have been written in source:
// "ns.symbol" or "symbol".
func (p SymbolPath) String() string {
	if p.IsQualified() {
		return fmt.Sprintf("%s.%s", p.Namespace, p.Symbol)
	}

	return p.Symbol
}

// Equals determines whether two symbol paths refer to the same name.
func (p SymbolPath) Equals(other SymbolPath) bool {
	return p.Namespace == other.Namespace && p.Symbol == other.Symbol
}
