// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package design describes the commeet HTTP API with the goa DSL. It is the source of
// the OpenAPI document.
package design

import (
	. "goa.design/goa/v3/dsl" //nolint:staticcheck // ST1001: the recommended way of using the goa DSL package is with the . import
)

// JWTAuth is the DSL JWT security type for authentication.
var JWTAuth = JWTSecurity("jwt", func() {
	Description("Heimdall authorization")
})

var _ = API("commeet", func() {
	Title("Commeet availability service")
	Description("Collects participant availability for meetings and summarizes it per slot.")
})

// commonErrors declares the errors every API method can return.
func commonErrors() {
	Error("BadRequest", BadRequestError, "Bad request")
	Error("NotFound", NotFoundError, "Resource not found")
	Error("InternalServerError", InternalServerError, "Internal server error")
	Error("ServiceUnavailable", ServiceUnavailableError, "Service unavailable")
}

// authErrors declares the errors of authenticated methods.
func authErrors() {
	Error("Unauthorized", UnauthorizedError, "Unauthorized")
	Error("Forbidden", ForbiddenError, "Forbidden")
	Error("Conflict", ConflictError, "Conflict")
}

// commonResponses maps the common errors to status codes.
func commonResponses() {
	Response("BadRequest", StatusBadRequest)
	Response("NotFound", StatusNotFound)
	Response("InternalServerError", StatusInternalServerError)
	Response("ServiceUnavailable", StatusServiceUnavailable)
}

// authResponses maps the errors of authenticated methods to status codes.
func authResponses() {
	Response("Unauthorized", StatusUnauthorized)
	Response("Forbidden", StatusForbidden)
	Response("Conflict", StatusConflict)
}

var _ = Service("Commeet Service", func() {
	Description("Meetings and the availability participants report for them.")

	Method("readyz", func() {
		Description("Check if the service is able to take inbound requests.")
		Meta("swagger:generate", "false")
		Result(Bytes, func() {
			Example("OK")
		})
		Error("ServiceUnavailable", ServiceUnavailableError, "Service is unavailable")
		HTTP(func() {
			GET("/readyz")
			Response(StatusOK, func() {
				ContentType("text/plain")
			})
			Response("ServiceUnavailable", StatusServiceUnavailable)
		})
	})

	Method("livez", func() {
		Description("Check if the service is alive.")
		Meta("swagger:generate", "false")
		Result(Bytes, func() {
			Example("OK")
		})
		HTTP(func() {
			GET("/livez")
			Response(StatusOK, func() {
				ContentType("text/plain")
			})
		})
	})

	Method("list-meetings", func() {
		Description("List every meeting, newest first.")
		Result(func() {
			Attribute("meetings", ArrayOf(Meeting), "The meetings")
			Required("meetings")
		})
		commonErrors()
		HTTP(func() {
			GET("/meetings")
			Response(StatusOK)
			commonResponses()
		})
	})

	Method("create-meeting", func() {
		Description("Create a meeting. Only officers, faculty and admins may create meetings.")
		Security(JWTAuth)
		Payload(func() {
			BearerTokenAttribute()
			MeetingInputAttributes()
			Required("title", "start_time", "end_time")
		})
		Result(Meeting)
		commonErrors()
		authErrors()
		HTTP(func() {
			POST("/meetings")
			Header("bearer_token:Authorization")
			Response(StatusCreated)
			commonResponses()
			authResponses()
		})
	})

	Method("get-meeting", func() {
		Description("Get a meeting. The ETag header carries its revision.")
		Payload(func() {
			MeetingUIDAttribute()
			Required("uid")
		})
		Result(func() {
			Attribute("meeting", Meeting)
			EtagAttribute()
			Required("meeting")
		})
		commonErrors()
		HTTP(func() {
			GET("/meetings/{uid}")
			Param("uid")
			Response(StatusOK, func() {
				Body("meeting")
				Header("etag:ETag")
			})
			commonResponses()
		})
	})

	Method("update-meeting", func() {
		Description("Replace the editable fields of a meeting. Only its creator may update it.")
		Security(JWTAuth)
		Payload(func() {
			BearerTokenAttribute()
			IfMatchAttribute()
			MeetingUIDAttribute()
			MeetingInputAttributes()
			Required("uid", "title", "start_time", "end_time")
		})
		Result(Meeting)
		commonErrors()
		authErrors()
		HTTP(func() {
			PUT("/meetings/{uid}")
			Param("uid")
			Header("bearer_token:Authorization")
			Header("if_match:If-Match")
			Response(StatusOK)
			commonResponses()
			authResponses()
		})
	})

	Method("delete-meeting", func() {
		Description("Delete a meeting and, asynchronously, all of its availability.")
		Security(JWTAuth)
		Payload(func() {
			BearerTokenAttribute()
			IfMatchAttribute()
			MeetingUIDAttribute()
			Required("uid")
		})
		commonErrors()
		authErrors()
		HTTP(func() {
			DELETE("/meetings/{uid}")
			Param("uid")
			Header("bearer_token:Authorization")
			Header("if_match:If-Match")
			Response(StatusNoContent)
			commonResponses()
			authResponses()
		})
	})

	Method("get-availability", func() {
		Description("List every participant's stored slots for a meeting.")
		Payload(func() {
			MeetingUIDAttribute()
			Required("uid")
		})
		Result(ArrayOf(ParticipantAvailability))
		commonErrors()
		HTTP(func() {
			GET("/meetings/{uid}/availability")
			Param("uid")
			Response(StatusOK)
			commonResponses()
		})
	})

	Method("get-my-availability", func() {
		Description("Get the caller's stored slots, empty when the caller has not submitted.")
		Security(JWTAuth)
		Payload(func() {
			BearerTokenAttribute()
			MeetingUIDAttribute()
			Required("uid")
		})
		Result(func() {
			SlotsAttribute()
			Required("slots")
		})
		commonErrors()
		Error("Unauthorized", UnauthorizedError, "Unauthorized")
		HTTP(func() {
			GET("/meetings/{uid}/availability/me")
			Param("uid")
			Header("bearer_token:Authorization")
			Response(StatusOK)
			commonResponses()
			Response("Unauthorized", StatusUnauthorized)
		})
	})

	Method("set-my-availability", func() {
		Description("Replace the caller's slots. Slots outside the meeting's dates or window are dropped.")
		Security(JWTAuth)
		Payload(func() {
			BearerTokenAttribute()
			MeetingUIDAttribute()
			SlotsAttribute()
			Required("uid", "slots")
		})
		Result(func() {
			SlotsAttribute()
			Required("slots")
		})
		commonErrors()
		Error("Unauthorized", UnauthorizedError, "Unauthorized")
		HTTP(func() {
			PUT("/meetings/{uid}/availability/me")
			Param("uid")
			Header("bearer_token:Authorization")
			Response(StatusOK)
			commonResponses()
			Response("Unauthorized", StatusUnauthorized)
		})
	})

	Method("get-availability-summary", func() {
		Description("Count, per slot, how many participants are free.")
		Payload(func() {
			MeetingUIDAttribute()
			Required("uid")
		})
		Result(AvailabilitySummary)
		commonErrors()
		HTTP(func() {
			GET("/meetings/{uid}/availability/summary")
			Param("uid")
			Response(StatusOK)
			commonResponses()
		})
	})

	Files("/_commeet/openapi.json", "gen/http/openapi.json", func() {
		Meta("swagger:generate", "false")
	})
})
