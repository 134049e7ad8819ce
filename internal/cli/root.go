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

// Package cli wires the compiler's stages (C1-C8) into the single "netlist"
// command a user actually runs, following the cobra-based command tree
// pkg/cmd/root.go builds for go-corset.
package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is filled when building with make, but *not* when installing via
// "go install".
var Version string

var rootCmd = &cobra.Command{
	Use:   "asdlc",
	Short: "A compiler for the ASDL analog description language.",
	Long:  "A compiler that lowers a net-first YAML authoring surface into backend-specific SPICE-family netlists.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("asdlc ")

			switch {
			case Version != "":
				fmt.Printf("%s", Version)
			default:
				if info, ok := debug.ReadBuildInfo(); ok {
					fmt.Printf("%s", info.Main.Version)
				} else {
					fmt.Printf("(unknown version)")
				}
			}

			fmt.Println()
		}
	},
}

// Execute adds all child commands to the root command and runs it. This is
// called by main.main() and only needs to happen once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
}
