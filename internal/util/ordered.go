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
package util

// OrderedMap is a map which remembers the order in which keys were first
// inserted.  The authoring surface is deeply order-sensitive (port
// derivation, parameter merge order, §9 "Ordered maps" design note), so
// every "map" field in the AST is backed by this rather than a plain Go
// map.  GraphIR's Net.Attrs and Instance.Props are plain Go maps.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// NewOrderedMap constructs an empty ordered map.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{values: make(map[string]V)}
}

// Set inserts or updates the value for key.  The key's position is only
// recorded the first time it is set; updating an existing key does not
// move it.
func (p *OrderedMap[V]) Set(key string, value V) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}

	p.values[key] = value
}

// Get returns the value bound to key, and whether it was present.
func (p *OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Has determines whether key is bound in this map.
func (p *OrderedMap[V]) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Keys returns the keys of this map in insertion order.
func (p *OrderedMap[V]) Keys() []string {
	return p.keys
}

// Len returns the number of entries in this map.
func (p *OrderedMap[V]) Len() int {
	return len(p.keys)
}

// Values returns the values of this map in the same order as Keys.
func (p *OrderedMap[V]) Values() []V {
	vs := make([]V, len(p.keys))
	for i, k := range p.keys {
		vs[i] = p.values[k]
	}

	return vs
}
