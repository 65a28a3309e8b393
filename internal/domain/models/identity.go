// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "slices"

// Identity is the authenticated caller as supplied by the auth layer.
type Identity struct {
	ID   string
	Role string
}

// IsAuthenticated reports whether the identity names a caller.
func (i *Identity) IsAuthenticated() bool {
	return i != nil && i.ID != ""
}

// HasAnyRole reports whether the identity carries one of the given roles.
func (i *Identity) HasAnyRole(roles ...string) bool {
	if !i.IsAuthenticated() {
		return false
	}
	return slices.Contains(roles, i.Role)
}
