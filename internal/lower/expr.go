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

// Package lower implements the AST -> GraphIR lowering pass (spec
// component C5): instance-expression parsing, "<@name>" macro
// pre-expansion, "{variable}" substitution, instance_defaults merging,
// port-order derivation, and endpoint-token splitting, materializing the
// result into a graphir.Program.
package lower

import (
	"fmt"
	"strings"

	"github.com/asdl-lang/asdlc/internal/diag"
)

// instanceExpr is the parsed form of a raw "<ref> [k=v ...]" instance
// expression.
type instanceExpr struct {
	Ref    string
	Params map[string]string
	// ParamOrder preserves the authoring order of parameter keys, needed
	// downstream by the backend emitter's deterministic rendering order
	// (spec.md §4.8).
	ParamOrder []string
}

// parseInstanceExpr parses "<ref> [k=v ...]": the first whitespace-
// separated token is the reference, every subsequent token must be a
// "key=value" pair.
func parseInstanceExpr(raw string) (instanceExpr, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return instanceExpr{}, fmt.Errorf("empty instance expression")
	}

	expr := instanceExpr{Ref: fields[0], Params: map[string]string{}}

	for _, f := range fields[1:] {
		eq := strings.IndexByte(f, '=')
		if eq <= 0 {
			return instanceExpr{}, fmt.Errorf("malformed parameter %q: expected key=value", f)
		}

		key, val := f[:eq], f[eq+1:]
		expr.Params[key] = val
		expr.ParamOrder = append(expr.ParamOrder, key)
	}

	return expr, nil
}

// splitEndpointAtom splits a single atomized endpoint token
// "inst.port" on its single required '.'.
func splitEndpointAtom(atom string) (inst, port string, err error) {
	i := strings.IndexByte(atom, '.')
	if i < 0 || strings.IndexByte(atom[i+1:], '.') >= 0 {
		return "", "", fmt.Errorf("endpoint token %q must contain exactly one '.'", atom)
	}

	return atom[:i], atom[i+1:], nil
}

// broadcastOrZip implements spec.md §4.7 step 2 for instance-parameter
// values: a bracketed "[a,b,c]" list of length n zips one value per
// expanded instance index; any other value (including a length-1 list)
// broadcasts as a scalar to every instance. A bracketed list whose
// length is neither 1 nor n is a binding-length mismatch.
func broadcastOrZip(raw string, n int) ([]string, error) {
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return repeat(raw, n), nil
	}

	inner := raw[1 : len(raw)-1]
	if inner == "" {
		return repeat(raw, n), nil
	}

	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch {
	case len(parts) == 1:
		return repeat(parts[0], n), nil
	case len(parts) == n:
		return parts, nil
	default:
		return nil, fmt.Errorf("list value %q has %d element(s), but %d instance(s) were produced",
			raw, len(parts), n)
	}
}

func repeat(v string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = v
	}

	return out
}

// maxVarDepth bounds {variable} substitution recursion so a cyclic
// variable reference fails closed as IR-013 rather than looping forever.
const maxVarDepth = 64

// substituteVars expands every "{name}" reference in raw using vars,
// recursively (a variable's own value may reference another variable),
// failing on an undefined reference (IR-012) or apparent infinite
// recursion (IR-013).
func substituteVars(raw string, vars map[string]string) (string, *diag.Bag) {
	bag := diag.NewBag()

	out, err := substituteVarsDepth(raw, vars, 0)
	if err != nil {
		bag.Add(*err)
	}

	return out, bag
}

func substituteVarsDepth(raw string, vars map[string]string, depth int) (string, *diag.Diagnostic) {
	if !strings.ContainsRune(raw, '{') {
		return raw, nil
	}

	if depth >= maxVarDepth {
		d := diag.New(diag.CodeRecursiveVariable, diag.Error,
			fmt.Sprintf("recursive {variable} substitution while expanding %q", raw))
		return raw, &d
	}

	var out strings.Builder

	i := 0
	for i < len(raw) {
		if raw[i] != '{' {
			out.WriteByte(raw[i])
			i++

			continue
		}

		end := strings.IndexByte(raw[i+1:], '}')
		if end < 0 {
			out.WriteString(raw[i:])
			break
		}

		name := raw[i+1 : i+1+end]

		val, ok := vars[name]
		if !ok {
			d := diag.New(diag.CodeUndefinedVariable, diag.Error,
				fmt.Sprintf("undefined variable %q referenced in %q", name, raw))
			return raw, &d
		}

		expanded, derr := substituteVarsDepth(val, vars, depth+1)
		if derr != nil {
			return raw, derr
		}

		out.WriteString(expanded)
		i += 2 + end
	}

	return out.String(), nil
}
