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
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/asdl-lang/asdlc/internal/backend"
	"github.com/asdl-lang/asdlc/internal/diag"
	"github.com/asdl-lang/asdlc/internal/graphir"
	"github.com/asdl-lang/asdlc/internal/importer"
	"github.com/asdl-lang/asdlc/internal/lower"
	"github.com/asdl-lang/asdlc/internal/netlist"
)

var netlistCmd = &cobra.Command{
	Use:   "netlist <file.asdl>",
	Short: "Lower an ASDL design into a backend-specific netlist.",
	Long: `Resolve a design's imports, expand its parametric patterns, verify
its structural invariants, and emit deterministic netlist text through a
template-driven backend.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runNetlist(cmd, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(netlistCmd)
	netlistCmd.Flags().StringP("output", "o", "", "output path (default: {basename}{backend.extension} next to the input)")
	netlistCmd.Flags().Bool("verify", true, "run port-consistency verification (the default)")
	netlistCmd.Flags().Bool("no-verify", false, "skip port-consistency verification")
	netlistCmd.Flags().String("backend", "sim.ngspice", "backend to emit for")
	netlistCmd.Flags().Bool("top-as-subckt", false, "wrap the top module in a subckt instead of emitting it inline")
	netlistCmd.Flags().StringArray("lib", nil, "library search root (repeatable)")
	netlistCmd.Flags().Bool("lsp-diagnostics", false, "print diagnostics as LSP PublishDiagnosticsParams JSON instead of plain text")
	netlistCmd.Flags().String("dump-graphir", "", "also dump the lowered GraphIR program as JSON to this path")
}

// runNetlist drives C1-C8 end to end for a single invocation and returns
// the process exit code (spec.md §6.2's 0/1 policy).
func runNetlist(cmd *cobra.Command, entry string) int {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}

	verify := !GetFlag(cmd, "no-verify")
	backendName := GetString(cmd, "backend")
	topAsSubckt := GetFlag(cmd, "top-as-subckt")
	lspDiagnostics := GetFlag(cmd, "lsp-diagnostics")
	dumpGraphirPath := GetString(cmd, "dump-graphir")
	output := GetString(cmd, "output")
	libRoots := GetStringArray(cmd, "lib")

	bag := diag.NewBag()

	db, loadBag := importer.Load(entry, importer.NewResolver(libRoots), importer.OSReadFile)
	bag.Merge(loadBag)

	if db == nil {
		report(bag, lspDiagnostics)
		return 1
	}

	prog, lowerBag := lower.Lower(db)
	bag.Merge(lowerBag)

	if bag.HasErrors() {
		report(bag, lspDiagnostics)
		return 1
	}

	bundle, bundleBag := backend.LoadBundle(backend.BundlePath())
	bag.Merge(bundleBag)

	if bundle == nil {
		report(bag, lspDiagnostics)
		return 1
	}

	be, selectBag := bundle.Select(backendName)
	bag.Merge(selectBag)

	if selectBag.HasErrors() {
		report(bag, lspDiagnostics)
		return 1
	}

	top, topBag := backend.SelectTop(prog, db.Docs[db.EntryFileID].Top, db.EntryFileID)
	bag.Merge(topBag)

	if topBag.HasErrors() {
		report(bag, lspDiagnostics)
		return 1
	}

	order := prog.DesignOrder(top)

	names, namesBag := prog.ResolveEmitNames(order)
	bag.Merge(namesBag)

	topEmitted := ""

	for _, en := range names {
		if en.ModuleID == top {
			topEmitted = en.Emitted
		}
	}

	if dumpGraphirPath != "" {
		if err := dumpGraphir(prog, dumpGraphirPath); err != nil {
			bag.Add(diag.New(diag.CodeToolIO, diag.Error,
				fmt.Sprintf("could not write GraphIR dump %q: %s", dumpGraphirPath, err.Error())))
		}
	}

	design, projectBag := netlist.Project(prog, order, names, topEmitted, db.EntryFileID, verify)
	bag.Merge(projectBag)

	if bag.HasErrors() {
		report(bag, lspDiagnostics)
		return 1
	}

	text, emitBag := backend.EmitNetlist(design, db, be, backendName, topAsSubckt)
	bag.Merge(emitBag)

	if bag.HasErrors() {
		report(bag, lspDiagnostics)
		return 1
	}

	if output == "" {
		output = defaultOutputPath(entry, be.Extension)
	}

	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		bag.Add(diag.New(diag.CodeToolIO, diag.Error, fmt.Sprintf("could not write %q: %s", output, err.Error())))
	}

	report(bag, lspDiagnostics)

	if bag.HasErrors() {
		return 1
	}

	return 0
}

// defaultOutputPath implements spec.md §6.2's "{basename}{backend.extension}
// next to the input" rule.
func defaultOutputPath(entry, extension string) string {
	dir := filepath.Dir(entry)
	base := strings.TrimSuffix(filepath.Base(entry), filepath.Ext(entry))

	return filepath.Join(dir, base+extension)
}

func dumpGraphir(prog *graphir.Program, path string) error {
	data, err := prog.DumpJSON()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// report renders the bag's diagnostics either as plain text (the default,
// go-corset's own style) or, under --lsp-diagnostics, as the LSP wire
// shape a consuming editor extension understands (spec.md §6.6).
func report(bag *diag.Bag, lsp bool) {
	sorted := bag.Sorted()

	if lsp {
		out, err := json.Marshal(diag.GroupByFile(sorted))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}

		fmt.Println(string(out))

		return
	}

	diag.NewRenderer(os.Stderr).Render(sorted)
}
