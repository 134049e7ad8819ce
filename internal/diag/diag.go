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

// Package diag implements the structured diagnostic records shared by
// every compiler stage (spec component C1): stable codes, severities,
// source spans and a deterministic ordering contract.  Generalises the
// role played in the teacher by pkg/sexp.SyntaxError and
// pkg/util/source.Span/Line, which carry only a byte span and a message.
package diag

import "fmt"

// Severity classifies how serious a diagnostic is and what recovery
// applies (spec.md §7).
type Severity uint8

const (
	// Info is an advisory note requiring no action.
	Info Severity = iota
	// Warning indicates a local, recoverable issue; the stage continues.
	Warning
	// Error indicates a stage-local failure: the offending entity is
	// skipped, diagnostics are recorded, and sibling work continues.
	Error
	// Fatal halts the whole invocation.
	Fatal
)

// String renders the severity the way it is printed in CLI output.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// rank orders severities for the sort contract: info < warning < error <
// fatal, so higher-severity diagnostics sort after lower ones at equal
// position.
func (s Severity) rank() int {
	return int(s)
}

// Position is a 1-indexed line/column location within a file.
type Position struct {
	Line   int
	Column int
}

// Span locates a diagnostic (or a label within one) in a source file.
// File is empty for diagnostics unrelated to any one file (e.g. CLI
// argument errors).
type Span struct {
	File  string
	Start Position
	End   Position
}

// IsZero reports whether this span carries no location information.
func (s Span) IsZero() bool {
	return s.File == "" && s.Start == Position{} && s.End == Position{}
}

// Label attaches a secondary span with its own short message to a
// diagnostic, e.g. "first declared here".
type Label struct {
	Span    Span
	Message string
}

// Fixit suggests a textual replacement for a span.
type Fixit struct {
	Span        Span
	Replacement string
}

// Diagnostic is the structured record every stage emits instead of
// raising an exception (spec.md §4.1).
type Diagnostic struct {
	Code     string
	Severity Severity
	Message  string
	Primary  Span
	HasSpan  bool
	Labels   []Label
	Notes    []string
	Help     string
	Fixits   []Fixit
	// Source identifies which stage/component produced this diagnostic,
	// useful for triage; not part of the ordering contract.
	Source string
}

// New constructs a diagnostic with no span.
func New(code string, severity Severity, message string) Diagnostic {
	return Diagnostic{Code: code, Severity: severity, Message: message}
}

// WithSpan returns a copy of this diagnostic carrying the given primary
// span.
func (d Diagnostic) WithSpan(span Span) Diagnostic {
	d.Primary = span
	d.HasSpan = true
	return d
}

// WithNote appends a note to this diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithLabel appends a secondary label to this diagnostic.
func (d Diagnostic) WithLabel(span Span, message string) Diagnostic {
	d.Labels = append(d.Labels, Label{span, message})
	return d
}

// WithHelp sets the help text of this diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// WithSource tags the producing component, e.g. "importer", "graphir".
func (d Diagnostic) WithSource(source string) Diagnostic {
	d.Source = source
	return d
}

// Error implements the error interface so a Diagnostic can be wrapped by
// conventional Go error handling at the CLI boundary without the core
// itself ever raising one.
func (d Diagnostic) Error() string {
	if d.HasSpan {
		return fmt.Sprintf("%s:%d:%d: %s: %s", d.Primary.File, d.Primary.Start.Line, d.Primary.Start.Column,
			d.Severity, d.Message)
	}

	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}
