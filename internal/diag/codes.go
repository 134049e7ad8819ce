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

// Stable diagnostic codes (spec.md §6.5).  Domain prefixes: PARSE-, AST-,
// IR-, PASS-, EMIT-, LINT-, TOOL-.
const (
	// PARSE-002: document root is not a mapping.
	CodeParseRootNotMapping = "PARSE-002"
	// PARSE-003: a required field is missing.
	CodeParseMissingField = "PARSE-003"

	// AST-010: logical import path resolved against no root.
	CodeImportNotFound = "AST-010"
	// AST-011: empty environment-variable expansion in an import path.
	CodeImportEmptyExpansion = "AST-011"
	// AST-012: import cycle detected.
	CodeImportCycle = "AST-012"
	// AST-014: an imported file defines neither modules nor devices.
	CodeImportEmptyFile = "AST-014"
	// AST-015: logical import path resolved against more than one root.
	CodeImportAmbiguous = "AST-015"

	// IR-003: pattern binding length mismatch / invalid broadcast.
	CodeBindingLengthMismatch = "IR-003"
	// IR-004: literal collision after pattern expansion.
	CodeLiteralCollision = "IR-004"
	// IR-010: unresolved unqualified instance reference.
	CodeUnresolvedRef = "IR-010"
	// IR-011: unresolved qualified instance reference.
	CodeUnresolvedQualifiedRef = "IR-011"
	// IR-012: undefined {variable} in an instance parameter value.
	CodeUndefinedVariable = "IR-012"
	// IR-013: recursive {variable} substitution.
	CodeRecursiveVariable = "IR-013"
	// IR-032: endpoint refers to an unknown instance.
	CodeUnknownInstance = "IR-032"
	// IR-033: endpoint refers to a port unknown to the referenced module/device.
	CodeUnknownPort = "IR-033"
	// IR-020: duplicate net name within a module.
	CodeDuplicateNet = "IR-020"
	// IR-021: duplicate instance name within a module.
	CodeDuplicateInstance = "IR-021"
	// IR-022: duplicate (instance, port) endpoint key.
	CodeDuplicateEndpoint = "IR-022"
	// IR-023: duplicate port name within a module.
	CodeDuplicatePort = "IR-023"

	// PASS-104: duplicate literal name in a pattern expansion.
	CodeDuplicateAtom = "PASS-104"
	// PASS-105: pattern expansion length exceeds the 10000-atom cap.
	CodeExpansionTooLong = "PASS-105"
	// PASS-106: malformed pattern syntax.
	CodeMalformedPattern = "PASS-106"
	// PASS-107: two named patterns sharing an axis_id have different
	// lengths, rejected at definition time.
	CodeAxisLengthMismatch = "PASS-107"

	// EMIT-001: no unambiguous top module could be selected.
	CodeNoTopModule = "EMIT-001"
	// EMIT-002: unknown instance-parameter override key (ignored).
	CodeUnknownParamKey = "EMIT-002"
	// EMIT-003: unknown placeholder in a device template.
	CodeUnknownPlaceholder = "EMIT-003"
	// EMIT-004: backend bundle missing a required system template.
	CodeMissingSystemTemplate = "EMIT-004"
	// EMIT-007: unknown placeholder in a system template.
	CodeUnknownSystemPlaceholder = "EMIT-007"
	// EMIT-008: malformed template string.
	CodeMalformedTemplate = "EMIT-008"
	// EMIT-011: unresolved environment variable in a template expansion.
	CodeUnresolvedTemplateEnv = "EMIT-011"

	// LINT-002: explicit net binding silently overrides an instance
	// default (emitted unless the endpoint token carries a "!" prefix).
	CodeDefaultOverride = "LINT-002"
	// LINT-003: a module was renamed with a collision suffix at emission.
	CodeEmitNameCollision = "LINT-003"

	// TOOL-001: generic tool-level I/O failure (e.g. cannot read backend
	// config file).
	CodeToolIO = "TOOL-001"
)
