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

// Package pattern implements the small combinator language over instance
// names, net names, endpoint tokens and instance parameters (spec
// component C3): numeric ranges, literal enumerations, splice
// concatenation, module-local named patterns, and the axis-tagged
// broadcast binding algebra.
//
// The tokenizer is an iterative, rune-cursor scanner rather than a
// recursive-descent parser, following the strategy spec.md §9
// recommends for this grammar (shallow, non-nesting, but potentially
// long) and the same iterative style as go-corset's
// pkg/util/source/scanner.go and lexer.go.
package pattern

import (
	"fmt"
	"strings"
)

// tokenKind distinguishes a literal run of text from a "<...>" group.
type tokenKind uint8

const (
	tokLiteral tokenKind = iota
	tokGroup
)

// groupKind classifies the content of a "<...>" group once parsed.
type groupKind uint8

const (
	groupEnum groupKind = iota
	groupRange
	groupMacro
)

// token is one element of a tokenized segment.
type token struct {
	kind tokenKind
	// text is the literal text for a tokLiteral, or the raw (unparsed)
	// content between '<' and '>' for a tokGroup.
	text string
	// axisID, for a tokGroup produced by macro pre-expansion, is the
	// axis identity (tag if present, else macro name) that this group's
	// atoms belong to.  Empty for inline (non-macro) groups, which are
	// "unnamed" per the broadcast algebra (§4.3).
	axisID string
}

// MalformedError reports a syntax error in a pattern expression
// (PASS-106).
type MalformedError struct {
	Expr string
	Why  string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed pattern %q: %s", e.Expr, e.Why)
}

// splitSegments splits a pattern expression on top-level ';' splice
// separators.  There is no bracket nesting in this grammar (groups never
// nest), so a simple depth counter over '<'/'>' suffices to recognize
// "top-level".
func splitSegments(expr string) []string {
	var (
		segments []string
		depth    int
		start    int
	)

	for i, r := range expr {
		switch r {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				segments = append(segments, expr[start:i])
				start = i + 1
			}
		}
	}

	segments = append(segments, expr[start:])

	return segments
}

// tokenize splits a single segment into a sequence of literal and group
// tokens, in left-to-right order.
func tokenize(segment string) ([]token, error) {
	var (
		tokens []token
		lit    strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{kind: tokLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	runes := []rune(segment)

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '<':
			flush()

			j := i + 1
			for j < len(runes) && runes[j] != '>' {
				j++
			}

			if j >= len(runes) {
				return nil, &MalformedError{segment, "unterminated group: missing '>'"}
			}

			tokens = append(tokens, token{kind: tokGroup, text: string(runes[i+1 : j])})
			i = j
		case '>':
			return nil, &MalformedError{segment, "unmatched '>' with no preceding '<'"}
		default:
			lit.WriteRune(runes[i])
		}
	}

	flush()

	return tokens, nil
}

// parsedGroup is the classified content of a "<...>" group.
type parsedGroup struct {
	kind  groupKind
	alts  []string // groupEnum
	lo    int      // groupRange
	hi    int      // groupRange
	macro string   // groupMacro
}

// parseGroup classifies a group's raw content.
func parseGroup(raw string) (parsedGroup, error) {
	if raw == "" {
		return parsedGroup{}, &MalformedError{raw, "empty group"}
	}

	if strings.HasPrefix(raw, "@") {
		name := raw[1:]
		if name == "" || strings.ContainsAny(name, "@|:<>;") {
			return parsedGroup{}, &MalformedError{raw, "invalid macro reference"}
		}

		return parsedGroup{kind: groupMacro, macro: name}, nil
	}

	if strings.Contains(raw, "@") {
		return parsedGroup{}, &MalformedError{raw, "'@' only valid as a leading macro marker"}
	}

	if strings.Contains(raw, "|") {
		alts := strings.Split(raw, "|")
		for _, a := range alts {
			if a == "" {
				return parsedGroup{}, &MalformedError{raw, "empty alternative in enumeration"}
			}
		}

		return parsedGroup{kind: groupEnum, alts: alts}, nil
	}

	if strings.Contains(raw, ":") {
		parts := strings.SplitN(raw, ":", 2)
		if len(parts) != 2 {
			return parsedGroup{}, &MalformedError{raw, "malformed range"}
		}

		lo, err := parseInt(parts[0])
		if err != nil {
			return parsedGroup{}, &MalformedError{raw, "range start is not an integer: " + err.Error()}
		}

		hi, err := parseInt(parts[1])
		if err != nil {
			return parsedGroup{}, &MalformedError{raw, "range end is not an integer: " + err.Error()}
		}

		return parsedGroup{kind: groupRange, lo: lo, hi: hi}, nil
	}

	// A group with a single bare alternative and no operator is a
	// degenerate one-element enumeration.
	return parsedGroup{kind: groupEnum, alts: []string{raw}}, nil
}

func parseInt(s string) (int, error) {
	var (
		v   int
		neg bool
		i   int
	)

	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	if i == len(s) {
		return 0, fmt.Errorf("empty integer")
	}

	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid digit %q", s[i])
		}

		v = v*10 + int(s[i]-'0')
	}

	if neg {
		v = -v
	}

	return v, nil
}

// alternatives returns the ordered string values a parsed group
// contributes, e.g. a range <3:0> yields ["3","2","1","0"].
func (g parsedGroup) alternatives() []string {
	switch g.kind {
	case groupEnum:
		return g.alts
	case groupRange:
		n := g.hi - g.lo
		if n < 0 {
			n = -n
		}

		out := make([]string, n+1)

		if g.hi >= g.lo {
			for i := 0; i <= n; i++ {
				out[i] = fmt.Sprintf("%d", g.lo+i)
			}
		} else {
			for i := 0; i <= n; i++ {
				out[i] = fmt.Sprintf("%d", g.lo-i)
			}
		}

		return out
	default:
		return nil
	}
}

func (g parsedGroup) patternType() PatternType {
	if g.kind == groupRange {
		return Numeric
	}

	return LiteralPattern
}
