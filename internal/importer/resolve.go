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

// Package importer implements the Import Resolver (spec component C4):
// raw import path resolution against library roots, file_id
// normalization, DFS loading with cycle detection, and the per-file name
// environment used to resolve "ns.symbol" references.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/asdl-lang/asdlc/internal/diag"
)

// Resolver holds the ordered library search path: CLI "--lib" roots
// first, then the ASDL_LIB_PATH-style environment list, each probed in
// order (spec.md §4.4).
type Resolver struct {
	LibRoots []string
	EnvRoots []string
}

// NewResolver builds a Resolver from explicit --lib roots plus the
// ASDL_LIB_PATH environment variable (os.PathListSeparator-joined, same
// convention as PATH/GOPATH).
func NewResolver(libRoots []string) *Resolver {
	var envRoots []string

	if v := os.Getenv("ASDL_LIB_PATH"); v != "" {
		envRoots = strings.Split(v, string(os.PathListSeparator))
	}

	return &Resolver{LibRoots: libRoots, EnvRoots: envRoots}
}

// Resolve turns a raw import path (as written in an "imports" mapping)
// into a normalized file_id, relative to the file fromFile that declared
// it.
func (r *Resolver) Resolve(fromFile, raw string) (string, *diag.Bag) {
	bag := diag.NewBag()

	expanded, err := expandEnv(raw)
	if err != nil {
		bag.Add(diag.New(diag.CodeImportEmptyExpansion, diag.Error,
			fmt.Sprintf("import %q: %s", raw, err.Error())))

		return "", bag
	}

	switch {
	case strings.HasPrefix(expanded, "./") || strings.HasPrefix(expanded, "../"):
		base := filepath.Dir(fromFile)
		return filepath.Clean(filepath.Join(base, expanded)), bag
	case filepath.IsAbs(expanded):
		return filepath.Clean(expanded), bag
	default:
		return r.resolveLogical(raw, expanded, bag)
	}
}

// resolveLogical probes each library root in order, collecting every
// root under which the logical path exists.
func (r *Resolver) resolveLogical(raw, expanded string, bag *diag.Bag) (string, *diag.Bag) {
	var matches []string

	for _, root := range append(append([]string{}, r.LibRoots...), r.EnvRoots...) {
		candidate := filepath.Join(root, expanded)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			matches = append(matches, filepath.Clean(candidate))
		}
	}

	switch len(matches) {
	case 0:
		bag.Add(diag.New(diag.CodeImportNotFound, diag.Error,
			fmt.Sprintf("logical import %q did not resolve against any library root", raw)))

		return "", bag
	case 1:
		return matches[0], bag
	default:
		bag.Add(diag.New(diag.CodeImportAmbiguous, diag.Error,
			fmt.Sprintf("logical import %q resolved against more than one library root: %s",
				raw, strings.Join(matches, ", "))))

		return "", bag
	}
}

// expandEnv expands a leading "~" to the user's home directory and any
// "$VAR"/"${VAR}" references to environment variable values.  An
// expansion to the empty string is itself an error (AST-011): a
// reference to an unset/blank variable silently producing "" would
// otherwise resolve against the wrong root.
func expandEnv(raw string) (string, error) {
	s := raw

	if s == "~" || strings.HasPrefix(s, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not resolve \"~\": %w", err)
		}

		s = home + s[1:]
	}

	var out strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] != '$' {
			out.WriteByte(s[i])
			continue
		}

		name, rest, braced := readVarName(s[i+1:])

		if name == "" {
			out.WriteByte(s[i])
			continue
		}

		val := os.Getenv(name)
		if val == "" {
			return "", fmt.Errorf("environment variable %q expanded to the empty string", name)
		}

		out.WriteString(val)

		if braced {
			i += len(name) + 2
		} else {
			i += len(name)
		}
	}

	return out.String(), nil
}

// readVarName reads a "VAR" or "{VAR}" reference immediately following a
// '$', returning the variable name and whether it was brace-delimited.
func readVarName(s string) (name string, rest string, braced bool) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return "", s, false
		}

		return s[1:end], s[end+1:], true
	}

	i := 0
	for i < len(s) && isVarNameByte(s[i]) {
		i++
	}

	return s[:i], s[i:], false
}

func isVarNameByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
