// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the commeet service API. It serves the meeting and availability REST
// API and handles NATS messages for the commeet service.
package main

import (
	"context"
	_ "expvar"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-commeet-service/pkg/utils"
)

func main() {
	loadDotEnv()
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry")
		return
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			slog.With(logging.ErrKey, err).Error("error shutting down OpenTelemetry")
		}
	}()

	// Set up JWT validator needed by the [CommeetAPI.JWTAuth] security handler.
	jwtAuth, err := setupJWTAuth(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up JWT authentication")
		return
	}

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	repos, err := setupRepositories(ctx, env, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up storage")
		natsConn.Close()
		return
	}

	// Initialize services
	serviceConfig := service.ServiceConfig{
		SkipEtagValidation: env.SkipEtagValidation,
		Workers:            env.Workers,
	}
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	authService := service.NewAuthService(jwtAuth)
	meetingService := service.NewMeetingService(
		repos.Meeting,
		messageBuilder,
		serviceConfig,
	)
	availabilityService := service.NewAvailabilityService(
		repos.Meeting,
		repos.Availability,
		messageBuilder,
		serviceConfig,
	)

	// Initialize handlers
	meetingHandler := handlers.NewMeetingHandler(
		meetingService,
		availabilityService,
	)

	svc := NewCommeetAPI(
		authService,
		meetingService,
		availabilityService,
		meetingHandler,
	)
	svc.addReadinessCheck(messageBuilder.IsReady)

	httpServer := setupHTTPServer(flags, svc, &gracefulCloseWG)

	// Create NATS subscriptions for the service.
	err = createNatsSubcriptions(ctx, meetingHandler, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, repos, &gracefulCloseWG, cancel)
}
