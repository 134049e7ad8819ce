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

// MaxExpansionLength caps the number of atoms a single token may expand
// into (spec.md §3.2).
const MaxExpansionLength = 10000

// PatternType classifies how an atom's value was produced.
type PatternType uint8

const (
	// LiteralPattern atoms came from an enumeration or macro alternative.
	LiteralPattern PatternType = iota
	// Numeric atoms came from an integer range.
	Numeric
)

// Atom is a single literal name produced by pattern expansion; it
// contains no pattern delimiters (spec Glossary).
type Atom struct {
	Literal  string
	BaseName string
	Type     PatternType
}

// Expansion is the ordered result of expanding a pattern expression: the
// atoms themselves, plus the axis-ID sequence used by the binding
// algebra (§4.3) to recognize named-axis broadcast.
type Expansion struct {
	Atoms []Atom
	// Axes is the left-to-right sequence of axis identities for every
	// group encountered during expansion.  An empty string marks an
	// "unnamed" (non-macro) group.
	Axes []string
}

// Len returns the number of atoms in this expansion.
func (e Expansion) Len() int {
	return len(e.Atoms)
}

// Literals returns the plain string values of this expansion's atoms.
func (e Expansion) Literals() []string {
	out := make([]string, len(e.Atoms))
	for i, a := range e.Atoms {
		out[i] = a.Literal
	}

	return out
}

// Env resolves module-local named patterns referenced via "<@name>".
type Env interface {
	ResolvePattern(name string) (expr string, tag string, ok bool)
}

// MapEnv is the trivial Env backed by a plain map, useful for tests and
// for any caller that has already flattened module patterns.
type MapEnv map[string]struct {
	Expr string
	Tag  string
}

// ResolvePattern implements Env.
func (m MapEnv) ResolvePattern(name string) (string, string, bool) {
	d, ok := m[name]
	return d.Expr, d.Tag, ok
}

// Expand tokenizes and expands a pattern expression against env,
// producing an ordered atom list plus the diagnostics accumulated along
// the way (PASS-104/105/106).  A nil env is valid for expressions known
// to contain no "<@name>" references.
func Expand(expr string, env Env) (Expansion, *diag.Bag) {
	bag := diag.NewBag()

	if n, err := Length(expr, env); err != nil && n > MaxExpansionLength {
		bag.Add(diag.New(diag.CodeExpansionTooLong, diag.Error,
			fmt.Sprintf("pattern %q expands to more than %d atoms", expr, MaxExpansionLength)))

		return Expansion{}, bag
	}

	segments := splitSegments(expr)

	var (
		atoms []string
		axes  []string
	)

	for _, seg := range segments {
		segAtoms, segAxes, err := expandSegment(seg, env, nil)
		if err != nil {
			bag.Add(malformed(err))
			return Expansion{}, bag
		}

		atoms = append(atoms, segAtoms...)
		axes = append(axes, segAxes...)
	}

	if len(atoms) > MaxExpansionLength {
		bag.Add(diag.New(diag.CodeExpansionTooLong, diag.Error,
			fmt.Sprintf("pattern %q expands to %d atoms, exceeding the %d-atom cap", expr, len(atoms),
				MaxExpansionLength)))

		return Expansion{}, bag
	}

	if dupe, ok := firstDuplicate(atoms); ok {
		bag.Add(diag.New(diag.CodeDuplicateAtom, diag.Error,
			fmt.Sprintf("pattern %q produces the literal %q more than once", expr, dupe)))
	}

	out := Expansion{Atoms: make([]Atom, len(atoms)), Axes: axes}
	ptype := LiteralPattern

	if isNumericExpr(expr) {
		ptype = Numeric
	}

	for i, a := range atoms {
		out.Atoms[i] = Atom{Literal: a, BaseName: baseNameOf(expr), Type: ptype}
	}

	return out, bag
}

// Length computes the expansion length of expr without materializing
// atoms, capped at MaxExpansionLength (PASS-105).
func Length(expr string, env Env) (int, error) {
	total := 0

	for _, seg := range splitSegments(expr) {
		n, err := segmentLength(seg, env, nil)
		if err != nil {
			return 0, err
		}

		total += n

		if total > MaxExpansionLength {
			return total, &MalformedError{expr, "expansion exceeds the 10000-atom cap"}
		}
	}

	return total, nil
}

// expandSegment expands one splice segment's tokens into its atom
// literals plus the axis sequence contributed by its groups.  seen is
// handed on to expandMacros, which rejects a macro named in it; every
// caller passes nil.  Non-recursive macro semantics come from
// expandMacros refusing a named pattern whose own text holds a macro
// reference.
func expandSegment(segment string, env Env, seen map[string]bool) ([]string, []string, error) {
	tokens, err := tokenize(segment)
	if err != nil {
		return nil, nil, err
	}

	tokens, err = expandMacros(tokens, env, seen)
	if err != nil {
		return nil, nil, err
	}

	partials := []string{""}

	var axes []string

	for _, tok := range tokens {
		switch tok.kind {
		case tokLiteral:
			for i := range partials {
				partials[i] += tok.text
			}
		case tokGroup:
			g, err := parseGroup(tok.text)
			if err != nil {
				return nil, nil, err
			}

			alts := g.alternatives()
			if len(alts) == 0 {
				return nil, nil, &MalformedError{segment, "group contributes no alternatives"}
			}

			next := make([]string, 0, len(partials)*len(alts))
			for _, p := range partials {
				for _, a := range alts {
					next = append(next, p+a)
				}
			}

			partials = next
			axes = append(axes, tok.axisID)

			if len(partials) > MaxExpansionLength {
				return nil, nil, &MalformedError{segment, "expansion exceeds the 10000-atom cap"}
			}
		}
	}

	return partials, axes, nil
}

// expandMacros replaces every tokGroup of macro form with the tokenized
// contents of the referenced named pattern, tagging the resulting groups
// with that pattern's axis identity.  Named patterns do not recurse: if
// the substituted text itself contains a "<@...>" reference, expansion
// fails with PASS-106.
func expandMacros(tokens []token, env Env, seen map[string]bool) ([]token, error) {
	out := make([]token, 0, len(tokens))

	for _, tok := range tokens {
		if tok.kind != tokGroup {
			out = append(out, tok)
			continue
		}

		g, err := parseGroup(tok.text)
		if err != nil {
			return nil, err
		}

		if g.kind != groupMacro {
			out = append(out, tok)
			continue
		}

		if env == nil {
			return nil, &MalformedError{tok.text, "macro reference used with no pattern environment"}
		}

		if seen[g.macro] {
			return nil, &MalformedError{tok.text, "recursive macro reference to \"" + g.macro + "\""}
		}

		expr, tag, ok := env.ResolvePattern(g.macro)
		if !ok {
			return nil, &MalformedError{tok.text, "undefined named pattern \"" + g.macro + "\""}
		}

		axis := tag
		if axis == "" {
			axis = g.macro
		}

		innerTokens, err := tokenize(expr)
		if err != nil {
			return nil, err
		}

		for _, it := range innerTokens {
			if it.kind == tokGroup {
				if inner, ierr := parseGroup(it.text); ierr == nil && inner.kind == groupMacro {
					return nil, &MalformedError{expr, "named patterns may not reference other named patterns"}
				}

				it.axisID = axis
			}

			out = append(out, it)
		}
	}

	return out, nil
}

func segmentLength(segment string, env Env, seen map[string]bool) (int, error) {
	tokens, err := tokenize(segment)
	if err != nil {
		return 0, err
	}

	tokens, err = expandMacros(tokens, env, seen)
	if err != nil {
		return 0, err
	}

	total := 1

	for _, tok := range tokens {
		if tok.kind != tokGroup {
			continue
		}

		g, err := parseGroup(tok.text)
		if err != nil {
			return 0, err
		}

		total *= len(g.alternatives())

		if total > MaxExpansionLength {
			return total, nil
		}
	}

	return total, nil
}

func firstDuplicate(atoms []string) (string, bool) {
	seen := make(map[string]bool, len(atoms))

	for _, a := range atoms {
		if seen[a] {
			return a, true
		}

		seen[a] = true
	}

	return "", false
}

// isNumericExpr reports whether expr's outermost (first) group is a
// numeric range, used only to tag the resulting atoms' PatternType for
// presentation purposes (pattern provenance is metadata, not identity).
func isNumericExpr(expr string) bool {
	tokens, err := tokenize(expr)
	if err != nil {
		return false
	}

	for _, tok := range tokens {
		if tok.kind == tokGroup {
			g, err := parseGroup(tok.text)
			return err == nil && g.patternType() == Numeric
		}
	}

	return false
}

// baseNameOf strips every group from expr, leaving the literal skeleton
// used as an atom's BaseName for diagnostics/presentation.
func baseNameOf(expr string) string {
	tokens, err := tokenize(expr)
	if err != nil {
		return expr
	}

	var base string

	for _, tok := range tokens {
		if tok.kind == tokLiteral {
			base += tok.text
		}
	}

	return base
}

func malformed(err error) diag.Diagnostic {
	return diag.New(diag.CodeMalformedPattern, diag.Error, err.Error())
}
