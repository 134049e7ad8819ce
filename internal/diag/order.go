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

import "sort"

// Sort orders diagnostics per the deterministic ordering contract
// (spec.md §4.1): (file, start.line, start.col, severity rank, code,
// message).  Diagnostics without spans sort after those with spans;
// unknown (empty) files sort last.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return less(diags[i], diags[j])
	})
}

func less(a, b Diagnostic) bool {
	if a.HasSpan != b.HasSpan {
		// Spanned diagnostics sort before spanless ones.
		return a.HasSpan
	}

	if a.HasSpan && b.HasSpan {
		if a.Primary.File != b.Primary.File {
			// Empty filenames (unknown files) sort last.
			if a.Primary.File == "" {
				return false
			}

			if b.Primary.File == "" {
				return true
			}

			return a.Primary.File < b.Primary.File
		}

		if a.Primary.Start.Line != b.Primary.Start.Line {
			return a.Primary.Start.Line < b.Primary.Start.Line
		}

		if a.Primary.Start.Column != b.Primary.Start.Column {
			return a.Primary.Start.Column < b.Primary.Start.Column
		}
	}

	if a.Severity.rank() != b.Severity.rank() {
		return a.Severity.rank() < b.Severity.rank()
	}

	if a.Code != b.Code {
		return a.Code < b.Code
	}

	return a.Message < b.Message
}
