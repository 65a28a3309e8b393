// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package design

import (
	. "goa.design/goa/v3/dsl" //nolint:staticcheck // ST1001: the recommended way of using the goa DSL package is with the . import
	"goa.design/goa/v3/expr"
)

// BearerTokenAttribute is a reusable token attribute for JWT authentication.
func BearerTokenAttribute() {
	Token("bearer_token", String, func() {
		Description("JWT token issued by Heimdall")
		Example("eyJhbGci...")
	})
}

// EtagAttribute is a reusable ETag header attribute.
func EtagAttribute() {
	Attribute("etag", String, "ETag header value", func() {
		Example("123")
	})
}

// IfMatchAttribute is a reusable If-Match header attribute.
func IfMatchAttribute() {
	Attribute("if_match", String, "If-Match header value for conditional requests", func() {
		Example("123")
	})
}

// MeetingUIDAttribute is the meeting identifier path parameter.
func MeetingUIDAttribute() {
	Attribute("uid", String, "The UID of the meeting", func() {
		Format(FormatUUID)
		Example("7cad5a8d-19d0-41a4-81a6-043453daf9ee")
	})
}

// CreatedAtAttribute is a reusable created timestamp attribute.
func CreatedAtAttribute() {
	// Read-only attribute
	Attribute("created_at", String, "The date and time the resource was created", func() {
		Example("2021-01-01T00:00:00Z")
		Format(FormatDateTime)
	})
}

// UpdatedAtAttribute is a reusable updated timestamp attribute.
func UpdatedAtAttribute() {
	// Read-only attribute
	Attribute("updated_at", String, "The date and time the resource was last updated", func() {
		Example("2021-01-01T00:00:00Z")
		Format(FormatDateTime)
	})
}

//
// Error types
//

// errorType declares an error body with a code and a message.
func errorType(name, code, message string) expr.UserType {
	return Type(name, func() {
		Attribute("code", String, "HTTP status code", func() {
			Example(code)
		})
		Attribute("message", String, "Error message", func() {
			Example(message)
		})
		Required("code", "message")
	})
}

// BadRequestError is the DSL type for a bad request error.
var BadRequestError = errorType("BadRequestError", "400", "The request was invalid.")

// UnauthorizedError is the DSL type for an unauthorized error.
var UnauthorizedError = errorType("UnauthorizedError", "401", "Authentication required.")

// ForbiddenError is the DSL type for a forbidden error.
var ForbiddenError = errorType("ForbiddenError", "403", "Only the meeting creator may do this.")

// NotFoundError is the DSL type for a not found error.
var NotFoundError = errorType("NotFoundError", "404", "The resource was not found.")

// ConflictError is the DSL type for a conflict error.
var ConflictError = errorType("ConflictError", "409", "The resource was modified concurrently.")

// InternalServerError is the DSL type for an internal server error.
var InternalServerError = errorType("InternalServerError", "500", "An internal server error occurred.")

// ServiceUnavailableError is the DSL type for a service unavailable error.
var ServiceUnavailableError = errorType("ServiceUnavailableError", "503", "The service is unavailable.")
