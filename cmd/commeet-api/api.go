// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	goahttp "goa.design/goa/v3/http"
	"goa.design/goa/v3/security"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-commeet-service/pkg/constants"
)

// CommeetAPI serves the HTTP surface of the commeet service.
type CommeetAPI struct {
	authService         *service.AuthService
	meetingService      *service.MeetingService
	availabilityService *service.AvailabilityService
	meetingHandler      domain.MessageHandler
	mux                 goahttp.Muxer
	// readyChecks are extra dependencies Readyz waits for, such as the NATS connection.
	readyChecks []func() bool
}

// NewCommeetAPI creates a new CommeetAPI.
func NewCommeetAPI(
	authService *service.AuthService,
	meetingService *service.MeetingService,
	availabilityService *service.AvailabilityService,
	meetingHandler domain.MessageHandler,
) *CommeetAPI {
	return &CommeetAPI{
		authService:         authService,
		meetingService:      meetingService,
		availabilityService: availabilityService,
		meetingHandler:      meetingHandler,
	}
}

// addReadinessCheck makes Readyz fail while check reports false.
func (s *CommeetAPI) addReadinessCheck(check func() bool) {
	s.readyChecks = append(s.readyChecks, check)
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorStatus maps the semantic type of an error to an HTTP status code.
func errorStatus(err error) int {
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrorTypeForbidden:
		return http.StatusForbidden
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeConflict:
		return http.StatusConflict
	case domain.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes the error response of err. Internal details are logged, never returned.
func (s *CommeetAPI) handleError(ctx context.Context, w http.ResponseWriter, err error) {
	code := errorStatus(err)
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", logging.ErrKey, err, "status", code)
	} else {
		slog.DebugContext(ctx, "request rejected", logging.ErrKey, err, "status", code)
	}

	s.encode(ctx, w, code, &ErrorBody{
		Code:    strconv.Itoa(code),
		Message: domain.GetErrorMessage(err),
	})
}

// encode writes v as the response body with the given status.
func (s *CommeetAPI) encode(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := goahttp.ResponseEncoder(ctx, w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "error encoding response", logging.ErrKey, err)
	}
}

// decode reads the JSON request body into v. Bodies above MaxRequestBodyBytes are
// rejected without being read in full.
func (s *CommeetAPI) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyBytes)
	if err := goahttp.RequestDecoder(r).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewValidationError("request body is required", domain.ErrValidationFailed)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.NewValidationError(
				fmt.Sprintf("request body must be at most %d bytes", tooLarge.Limit), domain.ErrValidationFailed, err)
		}
		return domain.NewValidationError("request body is not valid JSON", domain.ErrValidationFailed, err)
	}
	return nil
}

// pathUID returns the meeting uid path parameter.
func (s *CommeetAPI) pathUID(r *http.Request) (string, error) {
	uid := s.mux.Vars(r)["uid"]
	if strings.TrimSpace(uid) == "" {
		return "", domain.NewValidationError("meeting uid is required", domain.ErrValidationFailed)
	}
	return uid, nil
}

// bearerToken extracts the token of the Authorization header.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get(constants.AuthorizationHeader))
	if len(header) > len("bearer ") && strings.EqualFold(header[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return ""
}

// JWTAuth validates the bearer token and stores the caller identity in the context.
func (s *CommeetAPI) JWTAuth(ctx context.Context, token string, _ *security.JWTScheme) (context.Context, error) {
	if s.authService == nil || !s.authService.ServiceReady() {
		return ctx, domain.NewUnavailableError("service unavailable", domain.ErrServiceUnavailable)
	}
	if token == "" {
		return ctx, domain.NewUnauthorizedError("authentication required", domain.ErrAuthenticationRequired)
	}

	identity, err := s.authService.ParseIdentity(ctx, token, slog.Default())
	if err != nil {
		slog.WarnContext(ctx, "failed to parse identity from token", logging.ErrKey, err)
		return ctx, err
	}

	ctx = context.WithValue(ctx, constants.PrincipalContextID, identity.ID)
	ctx = context.WithValue(ctx, identityContextID, identity)
	ctx = logging.AppendCtx(ctx, slog.String("principal", identity.ID))
	return ctx, nil
}

type contextIdentity string

const identityContextID contextIdentity = "identity"

// authenticate runs JWTAuth on the request token.
func (s *CommeetAPI) authenticate(r *http.Request) (context.Context, *models.Identity, error) {
	ctx, err := s.JWTAuth(r.Context(), bearerToken(r), &security.JWTScheme{Name: "jwt"})
	if err != nil {
		return r.Context(), nil, err
	}
	identity, _ := ctx.Value(identityContextID).(*models.Identity)
	return ctx, identity, nil
}

// EtagValidator validates ETag format and converts to uint64 for optimistic locking
// Supports standard HTTP ETag formats: "123", W/"123", and plain numeric "123"
func EtagValidator(etag string) (uint64, error) {
	if etag == "" {
		return 0, domain.NewValidationError("If-Match header is required", domain.ErrValidationFailed)
	}

	raw := strings.TrimSpace(etag)

	// Handle weak ETags: W/"123" -> "123"
	if strings.HasPrefix(raw, "W/") || strings.HasPrefix(raw, "w/") {
		raw = strings.TrimSpace(raw[2:])
	}

	// Strip surrounding quotes if present: "123" -> 123
	raw = strings.Trim(raw, `"`)

	parsedRevision, errParse := strconv.ParseUint(raw, 10, 64)
	if errParse != nil {
		return 0, domain.NewValidationError("If-Match header is not a valid ETag", domain.ErrValidationFailed, errParse)
	}

	return parsedRevision, nil
}

// revisionFromRequest returns the If-Match revision. When ETag validation is skipped a
// missing header is accepted and the service uses the current revision.
func (s *CommeetAPI) revisionFromRequest(r *http.Request) (uint64, error) {
	ifMatch := r.Header.Get(constants.IfMatchHeader)
	if ifMatch == "" && s.meetingService.Config.SkipEtagValidation {
		return 0, nil
	}
	return EtagValidator(ifMatch)
}

// Readyz checks if the service is able to take inbound requests.
func (s *CommeetAPI) Readyz(w http.ResponseWriter, r *http.Request) {
	ready := s.meetingService != nil && s.meetingService.ServiceReady() &&
		s.availabilityService != nil && s.availabilityService.ServiceReady() &&
		s.authService != nil && s.authService.ServiceReady() &&
		(s.meetingHandler == nil || s.meetingHandler.HandlerReady())
	for _, check := range s.readyChecks {
		ready = ready && check()
	}
	if !ready {
		s.handleError(r.Context(), w, domain.NewUnavailableError("service unavailable", domain.ErrServiceUnavailable))
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK\n"))
}

// Livez checks if the service is alive.
func (s *CommeetAPI) Livez(w http.ResponseWriter, _ *http.Request) {
	// This always returns as long as the service is still running. As this
	// endpoint is expected to be used as a Kubernetes liveness check, this
	// service must likewise self-detect non-recoverable errors and
	// self-terminate.
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK\n"))
}
