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
package backend

import (
	"testing"
)

func TestRender_0(t *testing.T) {
	out, bag := Render("M{name} {ports} nmos L={L}", map[string]string{"name": "1", "ports": "D G S B", "L": "1u"}, false)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	if out != "M1 D G S B nmos L=1u" {
		t.Fatalf("unexpected render: %q", out)
	}
}

func TestRender_1(t *testing.T) {
	_, bag := Render("M{name} {bogus}", map[string]string{"name": "1"}, false)
	if bag.Len() != 1 || bag.Items()[0].Code != "EMIT-003" {
		t.Fatalf("expected a single EMIT-003 diagnostic, got %v", bag.Items())
	}
}

func TestRender_2(t *testing.T) {
	_, bag := Render("{__subckt_header__", nil, true)
	if bag.Len() != 1 || bag.Items()[0].Code != "EMIT-008" {
		t.Fatalf("expected a single EMIT-008 diagnostic, got %v", bag.Items())
	}
}

func TestRender_3(t *testing.T) {
	// Unknown placeholder in a system template uses EMIT-007, not EMIT-003.
	_, bag := Render("{bogus}", nil, true)
	if bag.Len() != 1 || bag.Items()[0].Code != "EMIT-007" {
		t.Fatalf("expected a single EMIT-007 diagnostic, got %v", bag.Items())
	}
}

func TestRender_4(t *testing.T) {
	t.Setenv("ASDLC_TEST_VAR", "hello")

	out, bag := Render("{env:ASDLC_TEST_VAR}", nil, false)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	if out != "hello" {
		t.Fatalf("unexpected render: %q", out)
	}
}

func TestRender_5(t *testing.T) {
	_, bag := Render("{env:ASDLC_DEFINITELY_UNSET_VAR}", nil, false)
	if bag.Len() != 1 || bag.Items()[0].Code != "EMIT-011" {
		t.Fatalf("expected a single EMIT-011 diagnostic, got %v", bag.Items())
	}
}
