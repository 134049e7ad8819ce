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
	"context"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// ToLSP converts diagnostics belonging to a single file into the LSP
// wire shape, grouped by protocol.PublishDiagnosticsParams.  This is the
// one concrete interface the core exposes toward the externally
// specified VS Code language-tools extension (spec.md §1): the extension
// is out of scope, but the shape of what the core hands it is not.
func ToLSP(file string, diags []Diagnostic) protocol.PublishDiagnosticsParams {
	out := make([]protocol.Diagnostic, 0, len(diags))

	for _, d := range diags {
		dFile := ""
		if d.HasSpan {
			dFile = d.Primary.File
		}

		if dFile != file {
			continue
		}

		out = append(out, protocol.Diagnostic{
			Range:    toRange(d.Primary),
			Severity: toLSPSeverity(d.Severity),
			Code:     d.Code,
			Source:   "asdlc",
			Message:  d.Message,
		})
	}

	return protocol.PublishDiagnosticsParams{
		URI:         uri.File(file),
		Diagnostics: out,
	}
}

// GroupByFile partitions a sorted diagnostic list into one
// PublishDiagnosticsParams per distinct file, in the order files first
// appear.
func GroupByFile(diags []Diagnostic) []protocol.PublishDiagnosticsParams {
	var (
		order []string
		seen  = make(map[string]bool)
	)

	for _, d := range diags {
		file := ""
		if d.HasSpan {
			file = d.Primary.File
		}

		if !seen[file] {
			seen[file] = true
			order = append(order, file)
		}
	}

	out := make([]protocol.PublishDiagnosticsParams, 0, len(order))
	for _, file := range order {
		out = append(out, ToLSP(file, diags))
	}

	return out
}

func toRange(span Span) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{
			Line:      uint32(max0(span.Start.Line - 1)),
			Character: uint32(max0(span.Start.Column - 1)),
		},
		End: protocol.Position{
			Line:      uint32(max0(span.End.Line - 1)),
			Character: uint32(max0(span.End.Column - 1)),
		},
	}
}

func max0(v int) int {
	if v < 0 {
		return 0
	}

	return v
}

func toLSPSeverity(s Severity) protocol.DiagnosticSeverity {
	switch s {
	case Fatal, Error:
		return protocol.DiagnosticSeverityError
	case Warning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

// Publisher streams diagnostics to a jsonrpc2 stream as
// "textDocument/publishDiagnostics" notifications, mirroring
// miaomiao1992-dingo's pkg/lsp.Server.handlePublishDiagnostics forwarding
// path but driving it from our own Bag rather than from gopls.
type Publisher struct {
	conn jsonrpc2.Conn
}

// NewPublisher wraps an already-established jsonrpc2 connection. The
// CLI's --lsp-diagnostics mode does not use it; it prints GroupByFile's
// result as plain JSON instead.
func NewPublisher(conn jsonrpc2.Conn) *Publisher {
	return &Publisher{conn}
}

// Publish sends one publishDiagnostics notification per file represented
// in diags.
func (p *Publisher) Publish(ctx context.Context, diags []Diagnostic) error {
	for _, params := range GroupByFile(diags) {
		if err := p.conn.Notify(ctx, "textDocument/publishDiagnostics", params); err != nil {
			return err
		}
	}

	return nil
}
