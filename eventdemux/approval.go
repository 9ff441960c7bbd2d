// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eventdemux

import "strings"

// parseApprovalResponse is total: every input yields (bool, reason).
// Only a leading "APPROVE" (case-insensitive) grants approval; a
// leading "DENY" denies explicitly; anything else is ambiguous and
// defaults to deny, per §9's "default to deny" security property.
func parseApprovalResponse(response string) (approved bool, reason string) {
	trimmed := strings.TrimSpace(response)
	upper := strings.ToUpper(trimmed)
	switch {
	case strings.HasPrefix(upper, "APPROVE"):
		return true, stripApprovalKeyword(trimmed, len("APPROVE"))
	case strings.HasPrefix(upper, "DENY"):
		return false, stripApprovalKeyword(trimmed, len("DENY"))
	default:
		return false, "ambiguous response treated as deny: " + trimmed
	}
}

// stripApprovalKeyword removes the leading APPROVE/DENY keyword (keywordLen
// bytes) and an optional " - " separator, leaving just the reason text.
func stripApprovalKeyword(trimmed string, keywordLen int) string {
	rest := strings.TrimSpace(trimmed[keywordLen:])
	rest = strings.TrimPrefix(rest, "-")
	return strings.TrimSpace(rest)
}

// parseGeneralApproval implements the general approval gate's looser
// rule (§4.5): any occurrence of "approve" (case-insensitive) anywhere
// in the response grants approval; everything else denies. Two-way
// mapping only.
func parseGeneralApproval(response string) bool {
	return strings.Contains(strings.ToLower(response), "approve")
}
