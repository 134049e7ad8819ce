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

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Renderer prints diagnostics to an io.Writer, colorizing severity tags
// when the target looks like a terminal.  go-corset imports
// golang.org/x/term for exactly this kind of terminal introspection; here
// it decides whether ANSI escapes are safe to emit.
type Renderer struct {
	out     io.Writer
	colored bool
}

// NewRenderer constructs a renderer for out, auto-detecting color support
// when out is an *os.File.
func NewRenderer(out io.Writer) *Renderer {
	colored := false

	if f, ok := out.(*os.File); ok {
		colored = term.IsTerminal(int(f.Fd()))
	}

	return &Renderer{out, colored}
}

// Render writes every diagnostic in diags (assumed already sorted) to the
// renderer's writer, one per line plus any notes/help.
func (r *Renderer) Render(diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(r.out, r.formatHeadline(d))

		for _, label := range d.Labels {
			fmt.Fprintf(r.out, "    %s: %s\n", spanString(label.Span), label.Message)
		}

		for _, note := range d.Notes {
			fmt.Fprintf(r.out, "    note: %s\n", note)
		}

		if d.Help != "" {
			fmt.Fprintf(r.out, "    help: %s\n", d.Help)
		}
	}
}

func (r *Renderer) formatHeadline(d Diagnostic) string {
	sev := d.Severity.String()

	if r.colored {
		sev = colorize(d.Severity, sev)
	}

	if d.HasSpan {
		return fmt.Sprintf("%s: %s[%s]: %s", spanString(d.Primary), sev, d.Code, d.Message)
	}

	return fmt.Sprintf("%s[%s]: %s", sev, d.Code, d.Message)
}

func spanString(s Span) string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Start.Line, s.Start.Column)
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiBold   = "\x1b[1m"
)

func colorize(sev Severity, text string) string {
	switch sev {
	case Fatal, Error:
		return ansiBold + ansiRed + text + ansiReset
	case Warning:
		return ansiYellow + text + ansiReset
	default:
		return ansiCyan + text + ansiReset
	}
}
