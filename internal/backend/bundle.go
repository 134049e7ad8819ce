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

// Package backend implements Backend Config & Template Emitter (spec
// component C8): the backend bundle loader, device-parameter merge
// precedence, the `{placeholder}` template renderer, and the per-module
// emission state machine that turns a NetlistDesign into backend text.
package backend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/asdl-lang/asdlc/internal/diag"
)

// DefaultBundlePath is used when ASDL_BACKEND_CONFIG is unset (spec.md
// §6.3).
const DefaultBundlePath = "config/backends.yaml"

// requiredTemplates are the system templates every backend must declare
// (spec.md §4.8).
var requiredTemplates = []string{
	"__subckt_header__",
	"__subckt_footer__",
	"__subckt_call__",
	"__netlist_header__",
	"__netlist_footer__",
}

// Backend is one backend's emission config.
type Backend struct {
	Extension     string            `yaml:"extension"`
	CommentPrefix string            `yaml:"comment_prefix"`
	Templates     map[string]string `yaml:"templates"`
}

// Bundle is the full backend config file (spec.md §6.4).
type Bundle struct {
	Backends map[string]Backend `yaml:"backends"`
}

// LoadBundle reads and decodes the backend bundle at path. A read failure
// is reported as TOOL-001; bundles are decoded with the same
// gopkg.in/yaml.v3 library the authoring-surface schema gate uses,
// though here a plain struct unmarshal suffices since this file is build
// config, not user-authored circuit text needing span/order tracking.
func LoadBundle(path string) (*Bundle, *diag.Bag) {
	bag := diag.NewBag()

	data, err := os.ReadFile(path)
	if err != nil {
		bag.Add(diag.New(diag.CodeToolIO, diag.Fatal,
			fmt.Sprintf("cannot read backend config %q: %s", path, err.Error())))

		return nil, bag
	}

	var bundle Bundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		bag.Add(diag.New(diag.CodeToolIO, diag.Fatal,
			fmt.Sprintf("cannot parse backend config %q: %s", path, err.Error())))

		return nil, bag
	}

	return &bundle, bag
}

// BundlePath resolves the backend bundle path from ASDL_BACKEND_CONFIG,
// falling back to DefaultBundlePath.
func BundlePath() string {
	if p := os.Getenv("ASDL_BACKEND_CONFIG"); p != "" {
		return p
	}

	return DefaultBundlePath
}

// Select looks up a named backend and validates it declares every
// required system template. A missing backend or missing required
// template is EMIT-004, fatal.
func (b *Bundle) Select(name string) (Backend, *diag.Bag) {
	bag := diag.NewBag()

	be, ok := b.Backends[name]
	if !ok {
		bag.Add(diag.New(diag.CodeMissingSystemTemplate, diag.Fatal,
			fmt.Sprintf("backend %q is not declared in the backend bundle", name)))

		return Backend{}, bag
	}

	for _, key := range requiredTemplates {
		if _, ok := be.Templates[key]; !ok {
			bag.Add(diag.New(diag.CodeMissingSystemTemplate, diag.Fatal,
				fmt.Sprintf("backend %q is missing required system template %q", name, key)))
		}
	}

	return be, bag
}
