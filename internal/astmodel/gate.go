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
package astmodel

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/asdl-lang/asdlc/internal/diag"
	"github.com/asdl-lang/asdlc/internal/pattern"
	"github.com/asdl-lang/asdlc/internal/util"
)

// Load parses raw YAML bytes into a Document, applying the shape gate.
// The shape gate does not resolve references, expand patterns, or apply
// defaults (spec.md §4.2) — it only validates the document's shape and
// preserves authoring order.  Returns (nil, bag) with bag.HasErrors() on
// any failure; otherwise returns the document and a bag that may still
// carry info/warning diagnostics.
func Load(filename string, data []byte) (*Document, *diag.Bag) {
	bag := diag.NewBag()

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		bag.Add(diag.New(diag.CodeParseRootNotMapping, diag.Error, "malformed YAML: "+err.Error()).
			WithSpan(fileSpan(filename)))
		return nil, bag
	}

	if len(root.Content) == 0 {
		bag.Add(diag.New(diag.CodeParseRootNotMapping, diag.Error, "empty document").
			WithSpan(fileSpan(filename)))
		return nil, bag
	}

	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		bag.Add(diag.New(diag.CodeParseRootNotMapping, diag.Error, "document root is not a mapping").
			WithSpan(nodeSpan(filename, mapping)))
		return nil, bag
	}

	doc := &Document{
		File: filename,
		Span: nodeSpan(filename, mapping),
	}

	var sawModules, sawDevices bool

	for _, pair := range pairs(mapping) {
		key := pair.key.Value

		switch key {
		case "top":
			top := pair.value.Value
			doc.Top = &top
		case "imports":
			doc.Imports = loadStringMap(filename, pair.value, bag)
		case "modules":
			doc.Modules, sawModules = loadModules(filename, pair.value, bag)
		case "devices":
			doc.Devices, sawDevices = loadDevices(filename, pair.value, bag)
		}
	}

	if !sawModules && !sawDevices {
		bag.Add(diag.New(diag.CodeParseMissingField, diag.Error,
			"document must declare at least one of \"modules\" or \"devices\"").
			WithSpan(nodeSpan(filename, mapping)))
		return nil, bag
	}

	if doc.Modules != nil && doc.Modules.Len() > 1 && doc.Top == nil {
		bag.Add(diag.New(diag.CodeParseMissingField, diag.Error,
			"\"top\" is required when more than one module is declared").
			WithSpan(nodeSpan(filename, mapping)))
		return nil, bag
	}

	if bag.HasErrors() {
		return nil, bag
	}

	return doc, bag
}

type kv struct {
	key   *yaml.Node
	value *yaml.Node
}

// pairs returns the key/value pairs of a mapping node in document order.
func pairs(n *yaml.Node) []kv {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}

	out := make([]kv, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, kv{n.Content[i], n.Content[i+1]})
	}

	return out
}

// sequence returns the items of a sequence node.
func sequence(n *yaml.Node) []*yaml.Node {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}

	return n.Content
}

func loadStringMap(filename string, n *yaml.Node, bag *diag.Bag) *util.OrderedMap[string] {
	out := util.NewOrderedMap[string]()

	if n == nil {
		return out
	}

	if n.Kind != yaml.MappingNode {
		bag.Add(diag.New(diag.CodeParseMissingField, diag.Error, "expected a mapping").
			WithSpan(nodeSpan(filename, n)))
		return out
	}

	for _, p := range pairs(n) {
		out.Set(p.key.Value, p.value.Value)
	}

	return out
}

func loadStringList(n *yaml.Node) []string {
	items := sequence(n)
	out := make([]string, len(items))

	for i, it := range items {
		out[i] = it.Value
	}

	return out
}

func loadModules(filename string, n *yaml.Node, bag *diag.Bag) (*util.OrderedMap[Module], bool) {
	out := util.NewOrderedMap[Module]()

	if n == nil {
		return out, false
	}

	if n.Kind != yaml.MappingNode {
		bag.Add(diag.New(diag.CodeParseMissingField, diag.Error, "\"modules\" must be a mapping").
			WithSpan(nodeSpan(filename, n)))
		return out, true
	}

	for _, p := range pairs(n) {
		name := p.key.Value
		if !validSymbolKey(name) {
			bag.Add(diag.New(diag.CodeParseMissingField, diag.Error,
				"invalid module symbol key \""+name+"\"").WithSpan(nodeSpan(filename, p.key)))
			continue
		}

		out.Set(name, loadModule(filename, name, p.value, bag))
	}

	return out, true
}

func loadModule(filename, name string, n *yaml.Node, bag *diag.Bag) Module {
	m := Module{
		Name:             name,
		Instances:        util.NewOrderedMap[string](),
		Nets:             util.NewOrderedMap[[]string](),
		Patterns:         util.NewOrderedMap[PatternDef](),
		InstanceDefaults: util.NewOrderedMap[*util.OrderedMap[string]](),
		Parameters:       util.NewOrderedMap[string](),
		Variables:        util.NewOrderedMap[string](),
		Span:             nodeSpan(filename, n),
	}

	if n == nil || n.Kind != yaml.MappingNode {
		bag.Add(diag.New(diag.CodeParseMissingField, diag.Error, "module \""+name+"\" must be a mapping").
			WithSpan(nodeSpan(filename, n)))
		return m
	}

	for _, p := range pairs(n) {
		switch p.key.Value {
		case "instances":
			m.Instances = loadStringMap(filename, p.value, bag)
		case "nets":
			m.Nets = loadNets(filename, p.value, bag)
		case "patterns":
			m.Patterns = loadPatterns(filename, p.value, bag)
		case "instance_defaults":
			m.InstanceDefaults = loadInstanceDefaults(filename, p.value, bag)
		case "parameters":
			m.Parameters = loadStringMap(filename, p.value, bag)
		case "variables":
			m.Variables = loadStringMap(filename, p.value, bag)
		}
	}

	return m
}

func loadNets(filename string, n *yaml.Node, bag *diag.Bag) *util.OrderedMap[[]string] {
	out := util.NewOrderedMap[[]string]()

	if n == nil {
		return out
	}

	if n.Kind != yaml.MappingNode {
		bag.Add(diag.New(diag.CodeParseMissingField, diag.Error, "\"nets\" must be a mapping").
			WithSpan(nodeSpan(filename, n)))
		return out
	}

	for _, p := range pairs(n) {
		out.Set(p.key.Value, loadStringList(p.value))
	}

	return out
}

func loadPatterns(filename string, n *yaml.Node, bag *diag.Bag) *util.OrderedMap[PatternDef] {
	out := util.NewOrderedMap[PatternDef]()

	if n == nil {
		return out
	}

	if n.Kind != yaml.MappingNode {
		bag.Add(diag.New(diag.CodeParseMissingField, diag.Error, "\"patterns\" must be a mapping").
			WithSpan(nodeSpan(filename, n)))
		return out
	}

	for _, p := range pairs(n) {
		def := PatternDef{Span: nodeSpan(filename, p.value)}

		switch p.value.Kind {
		case yaml.ScalarNode:
			def.Expr = p.value.Value
		case yaml.MappingNode:
			for _, inner := range pairs(p.value) {
				switch inner.key.Value {
				case "expr":
					def.Expr = inner.value.Value
				case "tag":
					def.Tag = inner.value.Value
				}
			}
		default:
			bag.Add(diag.New(diag.CodeParseMissingField, diag.Error,
				"pattern \""+p.key.Value+"\" must be a string or {expr, tag} mapping").
				WithSpan(nodeSpan(filename, p.value)))
		}

		out.Set(p.key.Value, def)
	}

	checkAxisLengths(out, bag)

	return out
}

// checkAxisLengths enforces spec.md §4.3's "patterns sharing an axis_id
// must have identical length" rule at definition time: two named
// patterns that resolve to the same axis_id (their explicit tag, or
// their own name when no tag is given) but expand to different lengths
// are rejected with PASS-107, before any binding ever has a chance to
// use them together.
func checkAxisLengths(defs *util.OrderedMap[PatternDef], bag *diag.Bag) {
	type axisMember struct {
		name   string
		length int
		span   diag.Span
	}

	byAxis := make(map[string][]axisMember)

	var axisOrder []string

	for _, name := range defs.Keys() {
		def, _ := defs.Get(name)

		axis := def.Tag
		if axis == "" {
			axis = name
		}

		n, err := pattern.Length(def.Expr, nil)
		if err != nil {
			continue // malformed patterns are reported at expansion time
		}

		if _, seen := byAxis[axis]; !seen {
			axisOrder = append(axisOrder, axis)
		}

		byAxis[axis] = append(byAxis[axis], axisMember{name: name, length: n, span: def.Span})
	}

	for _, axis := range axisOrder {
		members := byAxis[axis]
		if len(members) < 2 {
			continue
		}

		want := members[0].length

		for _, m := range members[1:] {
			if m.length != want {
				bag.Add(diag.New(diag.CodeAxisLengthMismatch, diag.Error,
					fmt.Sprintf("pattern %q has length %d but shares axis %q with pattern %q of length %d",
						m.name, m.length, axis, members[0].name, want)).
					WithSpan(m.span))
			}
		}
	}
}

func loadInstanceDefaults(filename string, n *yaml.Node, bag *diag.Bag) *util.OrderedMap[*util.OrderedMap[string]] {
	out := util.NewOrderedMap[*util.OrderedMap[string]]()

	if n == nil {
		return out
	}

	if n.Kind != yaml.MappingNode {
		bag.Add(diag.New(diag.CodeParseMissingField, diag.Error, "\"instance_defaults\" must be a mapping").
			WithSpan(nodeSpan(filename, n)))
		return out
	}

	for _, p := range pairs(n) {
		out.Set(p.key.Value, loadStringMap(filename, p.value, bag))
	}

	return out
}

func loadDevices(filename string, n *yaml.Node, bag *diag.Bag) (*util.OrderedMap[Device], bool) {
	out := util.NewOrderedMap[Device]()

	if n == nil {
		return out, false
	}

	if n.Kind != yaml.MappingNode {
		bag.Add(diag.New(diag.CodeParseMissingField, diag.Error, "\"devices\" must be a mapping").
			WithSpan(nodeSpan(filename, n)))
		return out, true
	}

	for _, p := range pairs(n) {
		name := p.key.Value
		if !validSymbolKey(name) {
			bag.Add(diag.New(diag.CodeParseMissingField, diag.Error,
				"invalid device symbol key \""+name+"\"").WithSpan(nodeSpan(filename, p.key)))
			continue
		}

		out.Set(name, loadDevice(filename, name, p.value, bag))
	}

	return out, true
}

func loadDevice(filename, name string, n *yaml.Node, bag *diag.Bag) Device {
	d := Device{
		Name:       name,
		Parameters: util.NewOrderedMap[string](),
		Variables:  util.NewOrderedMap[string](),
		Backends:   util.NewOrderedMap[BackendEntry](),
		Span:       nodeSpan(filename, n),
	}

	if n == nil || n.Kind != yaml.MappingNode {
		bag.Add(diag.New(diag.CodeParseMissingField, diag.Error, "device \""+name+"\" must be a mapping").
			WithSpan(nodeSpan(filename, n)))
		return d
	}

	var sawBackends bool

	for _, p := range pairs(n) {
		switch p.key.Value {
		case "ports":
			d.Ports = loadStringList(p.value)
		case "parameters":
			d.Parameters = loadStringMap(filename, p.value, bag)
		case "variables":
			d.Variables = loadStringMap(filename, p.value, bag)
		case "backends":
			d.Backends = loadBackends(filename, p.value, bag)
			sawBackends = true
		}
	}

	if !sawBackends || d.Backends.Len() == 0 {
		bag.Add(diag.New(diag.CodeParseMissingField, diag.Error,
			"device \""+name+"\" must declare a non-empty \"backends\" map").WithSpan(d.Span))
	}

	return d
}

func loadBackends(filename string, n *yaml.Node, bag *diag.Bag) *util.OrderedMap[BackendEntry] {
	out := util.NewOrderedMap[BackendEntry]()

	if n == nil {
		return out
	}

	if n.Kind != yaml.MappingNode {
		bag.Add(diag.New(diag.CodeParseMissingField, diag.Error, "\"backends\" must be a mapping").
			WithSpan(nodeSpan(filename, n)))
		return out
	}

	for _, p := range pairs(n) {
		out.Set(p.key.Value, loadBackendEntry(filename, p.key.Value, p.value, bag))
	}

	return out
}

func loadBackendEntry(filename, name string, n *yaml.Node, bag *diag.Bag) BackendEntry {
	e := BackendEntry{
		Parameters: util.NewOrderedMap[string](),
		Variables:  util.NewOrderedMap[string](),
		Props:      util.NewOrderedMap[string](),
		Span:       nodeSpan(filename, n),
	}

	if n == nil || n.Kind != yaml.MappingNode {
		bag.Add(diag.New(diag.CodeParseMissingField, diag.Error, "backend \""+name+"\" must be a mapping").
			WithSpan(nodeSpan(filename, n)))
		return e
	}

	var sawTemplate bool

	for _, p := range pairs(n) {
		switch p.key.Value {
		case "template":
			e.Template = p.value.Value
			sawTemplate = true
		case "parameters":
			e.Parameters = loadStringMap(filename, p.value, bag)
		case "variables":
			e.Variables = loadStringMap(filename, p.value, bag)
		default:
			if p.value.Kind == yaml.ScalarNode {
				e.Props.Set(p.key.Value, p.value.Value)
			}
		}
	}

	if !sawTemplate {
		bag.Add(diag.New(diag.CodeParseMissingField, diag.Error,
			"backend \""+name+"\" is missing required field \"template\"").WithSpan(e.Span))
	}

	return e
}

// validSymbolKey accepts "cell" or "cell@view" (a single '@').
func validSymbolKey(key string) bool {
	if key == "" {
		return false
	}

	parts := strings.Split(key, "@")
	return len(parts) == 1 || len(parts) == 2
}

func nodeSpan(filename string, n *yaml.Node) diag.Span {
	if n == nil {
		return fileSpan(filename)
	}

	pos := diag.Position{Line: n.Line, Column: n.Column}
	return diag.Span{File: filename, Start: pos, End: pos}
}

func fileSpan(filename string) diag.Span {
	return diag.Span{File: filename, Start: diag.Position{Line: 1, Column: 1}, End: diag.Position{Line: 1, Column: 1}}
}
