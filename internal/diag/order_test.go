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

import "testing"

func span(file string, line, col int) Span {
	return Span{File: file, Start: Position{line, col}, End: Position{line, col}}
}

func TestOrder_0(t *testing.T) {
	// Spanless diagnostics sort after spanned ones.
	a := New("AST-010", Error, "z").WithSpan(span("a.asdl", 1, 1))
	b := New("AST-010", Error, "a")
	items := []Diagnostic{b, a}
	Sort(items)
	CheckOrder(t, items, a, b)
}

func TestOrder_1(t *testing.T) {
	// Lines order before columns within the same file.
	a := New("IR-003", Error, "x").WithSpan(span("f.asdl", 1, 5))
	b := New("IR-003", Error, "x").WithSpan(span("f.asdl", 2, 1))
	items := []Diagnostic{b, a}
	Sort(items)
	CheckOrder(t, items, a, b)
}

func TestOrder_2(t *testing.T) {
	// Unknown (empty) files sort last, even among spanned diagnostics.
	a := New("IR-003", Error, "x").WithSpan(span("f.asdl", 1, 1))
	b := New("IR-003", Error, "x").WithSpan(span("", 1, 1))
	items := []Diagnostic{b, a}
	Sort(items)
	CheckOrder(t, items, a, b)
}

func TestOrder_3(t *testing.T) {
	// Same position: severity rank breaks the tie.
	a := New("X-1", Warning, "m").WithSpan(span("f.asdl", 1, 1))
	b := New("X-1", Error, "m").WithSpan(span("f.asdl", 1, 1))
	items := []Diagnostic{b, a}
	Sort(items)
	CheckOrder(t, items, a, b)
}

func TestOrder_4(t *testing.T) {
	// Same position and severity: code breaks the tie.
	a := New("AST-010", Error, "m").WithSpan(span("f.asdl", 1, 1))
	b := New("IR-003", Error, "m").WithSpan(span("f.asdl", 1, 1))
	items := []Diagnostic{b, a}
	Sort(items)
	CheckOrder(t, items, a, b)
}

// CheckOrder asserts that items appears in exactly the given order.
func CheckOrder(t *testing.T, items []Diagnostic, expected ...Diagnostic) {
	t.Helper()

	if len(items) != len(expected) {
		t.Fatalf("expected %d items, got %d", len(expected), len(items))
	}

	for i := range items {
		if items[i].Code != expected[i].Code || items[i].Message != expected[i].Message ||
			items[i].Primary != expected[i].Primary {
			t.Errorf("at position %d: expected %#v, got %#v", i, expected[i], items[i])
		}
	}
}
