// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	goahttp "goa.design/goa/v3/http"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-commeet-service/pkg/constants"
)

// newHandler mounts every route of the API and wraps the muxer in the middleware chain.
func newHandler(svc *CommeetAPI) http.Handler {
	mux := goahttp.NewMuxer()
	svc.mux = mux

	mux.Handle(http.MethodGet, constants.ReadinessPath, svc.Readyz)
	mux.Handle(http.MethodGet, constants.LivenessPath, svc.Livez)

	mux.Handle(http.MethodGet, "/meetings", svc.ListMeetings)
	mux.Handle(http.MethodPost, "/meetings", svc.CreateMeeting)
	mux.Handle(http.MethodGet, "/meetings/{uid}", svc.GetMeeting)
	mux.Handle(http.MethodPut, "/meetings/{uid}", svc.UpdateMeeting)
	mux.Handle(http.MethodDelete, "/meetings/{uid}", svc.DeleteMeeting)

	mux.Handle(http.MethodGet, "/meetings/{uid}/availability", svc.GetAvailability)
	mux.Handle(http.MethodGet, "/meetings/{uid}/availability/me", svc.GetMyAvailability)
	mux.Handle(http.MethodPut, "/meetings/{uid}/availability/me", svc.SetMyAvailability)
	mux.Handle(http.MethodGet, "/meetings/{uid}/availability/summary", svc.GetAvailabilitySummary)

	var handler http.Handler = mux

	// Add HTTP middleware
	// Note: Order matters - RequestIDMiddleware should come first in the chain,
	// so it should be the last middleware added to the handler since it is executed in reverse order.
	handler = middleware.RequestLoggerMiddleware()(handler)
	handler = middleware.RequestIDMiddleware()(handler)
	handler = middleware.AuthorizationMiddleware()(handler)

	// Health checks are not traced.
	return otelhttp.NewHandler(handler, constants.ServiceName,
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != constants.LivenessPath && r.URL.Path != constants.ReadinessPath
		}),
	)
}

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, svc *CommeetAPI, gracefulCloseWG *sync.WaitGroup) *http.Server {
	handler := newHandler(svc)

	// Set up http listener in a goroutine using provided command line parameters.
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}
