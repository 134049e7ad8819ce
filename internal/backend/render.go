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
package backend

import (
	"fmt"
	"os"
	"strings"

	"github.com/asdl-lang/asdlc/internal/diag"
)

// Render expands every "{name}" placeholder in tmpl against values. A
// placeholder of the form "{env:NAME}" instead resolves against the
// process environment (EMIT-011 if unset). An unterminated "{" is a
// malformed template (EMIT-008). An unknown placeholder uses EMIT-007
// when system reports true (a "__xxx__" system template), EMIT-003
// otherwise (a device/backend template) — the same hand-rolled
// strings.Builder scanner as the {variable} substitution in C5, not
// text/template: the grammar is a single delimiter pair with no
// conditionals or loops to justify a general templating engine.
func Render(tmpl string, values map[string]string, system bool) (string, *diag.Bag) {
	bag := diag.NewBag()

	var out strings.Builder

	i := 0
	for i < len(tmpl) {
		if tmpl[i] != '{' {
			out.WriteByte(tmpl[i])
			i++

			continue
		}

		end := strings.IndexByte(tmpl[i+1:], '}')
		if end < 0 {
			bag.Add(diag.New(diag.CodeMalformedTemplate, diag.Error,
				fmt.Sprintf("unterminated placeholder in template %q", tmpl)))

			return out.String(), bag
		}

		name := tmpl[i+1 : i+1+end]
		i += 2 + end

		if envName, ok := strings.CutPrefix(name, "env:"); ok {
			val, ok := os.LookupEnv(envName)
			if !ok {
				bag.Add(diag.New(diag.CodeUnresolvedTemplateEnv, diag.Error,
					fmt.Sprintf("template references unset environment variable %q", envName)))

				continue
			}

			out.WriteString(val)

			continue
		}

		val, ok := values[name]
		if !ok {
			code := diag.CodeUnknownPlaceholder
			if system {
				code = diag.CodeUnknownSystemPlaceholder
			}

			bag.Add(diag.New(code, diag.Error, fmt.Sprintf("unknown placeholder %q in template %q", name, tmpl)))

			continue
		}

		out.WriteString(val)
	}

	return out.String(), bag
}
