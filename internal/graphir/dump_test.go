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
	"strings"
	"testing"
)

func TestDump_0(t *testing.T) {
	p := buildInverter(t)

	out, err := p.DumpJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := string(out)
	if !strings.Contains(s, `"name": "inv"`) {
		t.Fatalf("expected module name in dump: %s", s)
	}

	if !strings.Contains(s, `"M1.G"`) {
		t.Fatalf("expected endpoint rendering in dump: %s", s)
	}
}
