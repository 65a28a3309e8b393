// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

import (
	"testing"
)

func TestHTTPHeaderConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		expected string
	}{
		{
			name:     "AuthorizationHeader",
			constant: AuthorizationHeader,
			expected: "authorization",
		},
		{
			name:     "RequestIDHeader",
			constant: RequestIDHeader,
			expected: "X-REQUEST-ID",
		},
		{
			name:     "EtagHeader",
			constant: EtagHeader,
			expected: "ETag",
		},
		{
			name:     "IfMatchHeader",
			constant: IfMatchHeader,
			expected: "If-Match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.constant)
			}
		})
	}
}

func TestContextIDConstantsAreUnique(t *testing.T) {
	contextIDs := map[string]string{
		"RequestIDContextID":     string(RequestIDContextID),
		"AuthorizationContextID": string(AuthorizationContextID),
		"PrincipalContextID":     string(PrincipalContextID),
		"ETagContextID":          string(ETagContextID),
	}

	seen := make(map[string]string)
	for name, value := range contextIDs {
		if existingName, exists := seen[value]; exists {
			t.Errorf("duplicate context ID value %q found in both %s and %s", value, existingName, name)
		}
		seen[value] = name
	}
}

func TestContextMappingConsistency(t *testing.T) {
	if string(RequestIDContextID) != RequestIDHeader {
		t.Errorf("RequestIDContextID (%q) should match RequestIDHeader (%q)", RequestIDContextID, RequestIDHeader)
	}

	if string(AuthorizationContextID) != AuthorizationHeader {
		t.Errorf("AuthorizationContextID (%q) should match AuthorizationHeader (%q)", AuthorizationContextID, AuthorizationHeader)
	}
}

func TestMeetingCreatorRoles(t *testing.T) {
	want := map[string]bool{RoleOfficer: true, RoleFaculty: true, RoleAdmin: true}
	if len(MeetingCreatorRoles) != len(want) {
		t.Fatalf("expected %d creator roles, got %d", len(want), len(MeetingCreatorRoles))
	}
	for _, r := range MeetingCreatorRoles {
		if !want[r] {
			t.Errorf("unexpected creator role %q", r)
		}
	}
	for _, r := range MeetingCreatorRoles {
		if r == RoleMember {
			t.Errorf("member must not be a creator role")
		}
	}
}
