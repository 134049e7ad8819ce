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
package pattern

import (
	"fmt"

	"github.com/asdl-lang/asdlc/internal/diag"
)

// Binding is one resolved (left index, right index) pair produced by
// Bind.
type Binding struct {
	LeftIndex  int
	RightIndex int
}

// Bind implements the axis-tagged broadcast algebra (spec.md §4.3) that
// reconciles two expansions appearing on either side of a binding: left
// is always the net side, right is always the endpoint side (lower.go's
// sole call site passes netExpansion, endpointExpansion in that order).
//
//   - N=1 broadcast: if the *net* side has exactly one atom, it is
//     repeated against every atom on the endpoint side. An endpoint side
//     of length 1 against a net of length N>1 is never unconditionally
//     valid — spec.md §4.3 only sanctions broadcast from the net side.
//   - M=N index bind: if both sides have equal length, atoms pair up
//     positionally, index for index.
//   - Shared-axis broadcast: if the sides disagree in length, every group
//     on both sides carries one and the same named axis, and the longer
//     length is a multiple of the shorter, the shorter side is repeated in
//     order across the longer side. Sides whose groups carry different
//     axes, or that contain an unnamed (inline) group, are not broadcast,
//     even where one axis sequence is a subsequence of the other. This is
//     the only route available to a single-atom endpoint against a
//     multi-atom net.
//   - Anything else is a binding-length mismatch: IR-003.
func Bind(left, right Expansion) ([]Binding, *diag.Bag) {
	bag := diag.NewBag()

	n, m := left.Len(), right.Len()

	switch {
	case n == 1:
		return broadcastLeft(left, right), bag
	case n == m:
		out := make([]Binding, n)
		for i := 0; i < n; i++ {
			out[i] = Binding{LeftIndex: i, RightIndex: i}
		}

		return out, bag
	}

	if bindings, ok := subsequenceBroadcast(left, right); ok {
		return bindings, bag
	}

	bag.Add(diag.New(diag.CodeBindingLengthMismatch, diag.Error,
		fmt.Sprintf("binding length mismatch: left side has %d atom(s), right side has %d atom(s)", n, m)))

	return nil, bag
}

func broadcastLeft(left, right Expansion) []Binding {
	out := make([]Binding, right.Len())
	for i := range out {
		out[i] = Binding{LeftIndex: 0, RightIndex: i}
	}

	return out
}


// subsequenceBroadcast handles the case where the two sides have
// differing lengths but named (non-empty) axis sequences, and the
// shorter side's axis run is a contiguous slice of the longer side's
// axis run of the same axis identity. The shorter side is then repeated
// once per "outer" position implied by the longer side's remaining
// axes.
func subsequenceBroadcast(left, right Expansion) ([]Binding, bool) {
	shortIsLeft := left.Len() < right.Len()

	shortAxes, longAxes := left.Axes, right.Axes
	shortLen, longLen := left.Len(), right.Len()

	if !shortIsLeft {
		shortAxes, longAxes = right.Axes, left.Axes
		shortLen, longLen = right.Len(), left.Len()
	}

	if shortLen == 0 || longLen == 0 {
		return nil, false
	}

	if longLen%shortLen != 0 {
		return nil, false
	}

	axis := soleNamedAxis(shortAxes)
	if axis == "" || axis != soleNamedAxis(longAxes) {
		return nil, false
	}

	reps := longLen / shortLen

	out := make([]Binding, 0, longLen)

	for r := 0; r < reps; r++ {
		for i := 0; i < shortLen; i++ {
			longIdx := r*shortLen + i
			if shortIsLeft {
				out = append(out, Binding{LeftIndex: i, RightIndex: longIdx})
			} else {
				out = append(out, Binding{LeftIndex: longIdx, RightIndex: i})
			}
		}
	}

	return out, true
}

// soleNamedAxis returns the single non-empty axis identity shared by
// every entry in axes, or "" if axes is empty, mixed, or contains an
// unnamed (non-macro) group.
func soleNamedAxis(axes []string) string {
	if len(axes) == 0 {
		return ""
	}

	first := axes[0]
	if first == "" {
		return ""
	}

	for _, a := range axes[1:] {
		if a != first {
			return ""
		}
	}

	return first
}
