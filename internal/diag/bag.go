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
package diag

// Bag accumulates diagnostics across a stage (and, when stages are
// composed, across several).  Every exported pipeline function takes or
// returns a *Bag rather than raising an error, following go-corset's own
// []SyntaxError accumulation in pkg/corset/compiler.go.
type Bag struct {
	items []Diagnostic
}

// NewBag constructs an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Merge appends every diagnostic in other into this bag.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}

	b.items = append(b.items, other.items...)
}

// Items returns the diagnostics currently in the bag, in insertion order.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Sorted returns a copy of the diagnostics in this bag, ordered per the
// deterministic ordering contract.
func (b *Bag) Sorted() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	Sort(out)

	return out
}

// HasErrors reports whether any diagnostic at Error or Fatal severity has
// been recorded.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= Error {
			return true
		}
	}

	return false
}

// HasFatal reports whether any Fatal diagnostic has been recorded.
func (b *Bag) HasFatal() bool {
	for _, d := range b.items {
		if d.Severity == Fatal {
			return true
		}
	}

	return false
}

// Len returns the number of diagnostics recorded.
func (b *Bag) Len() int {
	return len(b.items)
}
