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

	"github.com/asdl-lang/asdlc/internal/graphir"
)

func TestSelectTop_0(t *testing.T) {
	// A declared top resolves against the entry file.
	p := graphir.NewProgram()
	txn := p.Begin()
	txn.CreateModule("/a.asdl", "inv", nil)
	txn.CreateModule("/a.asdl", "other", nil)

	if bag := txn.Commit(); bag.HasErrors() {
		t.Fatalf("unexpected commit errors: %v", bag.Items())
	}

	top := "inv"

	mid, bag := SelectTop(p, &top, "/a.asdl")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	if p.Module(mid).Name != "inv" {
		t.Fatalf("expected \"inv\" selected, got %q", p.Module(mid).Name)
	}
}

func TestSelectTop_1(t *testing.T) {
	// A declared top that doesn't resolve is EMIT-001, fatal.
	p := graphir.NewProgram()
	txn := p.Begin()
	txn.CreateModule("/a.asdl", "inv", nil)

	if bag := txn.Commit(); bag.HasErrors() {
		t.Fatalf("unexpected commit errors: %v", bag.Items())
	}

	top := "ghost"

	_, bag := SelectTop(p, &top, "/a.asdl")
	if !bag.HasFatal() {
		t.Fatalf("expected a fatal EMIT-001 diagnostic")
	}
}

func TestSelectTop_2(t *testing.T) {
	// No declared top falls back to the unique module in the entry file.
	p := graphir.NewProgram()
	txn := p.Begin()
	txn.CreateModule("/a.asdl", "inv", nil)
	txn.CreateModule("/b.asdl", "other", nil)

	if bag := txn.Commit(); bag.HasErrors() {
		t.Fatalf("unexpected commit errors: %v", bag.Items())
	}

	mid, bag := SelectTop(p, nil, "/a.asdl")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	if p.Module(mid).Name != "inv" {
		t.Fatalf("expected \"inv\" selected, got %q", p.Module(mid).Name)
	}
}

func TestSelectTop_3(t *testing.T) {
	// No declared top and multiple candidates in both the entry file and
	// globally is EMIT-001, fatal.
	p := graphir.NewProgram()
	txn := p.Begin()
	txn.CreateModule("/a.asdl", "inv", nil)
	txn.CreateModule("/a.asdl", "other", nil)

	if bag := txn.Commit(); bag.HasErrors() {
		t.Fatalf("unexpected commit errors: %v", bag.Items())
	}

	_, bag := SelectTop(p, nil, "/a.asdl")
	if !bag.HasFatal() {
		t.Fatalf("expected a fatal EMIT-001 diagnostic")
	}
}
