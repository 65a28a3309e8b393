// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/infrastructure/auth"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-commeet-service/pkg/constants"
)

const gracefulShutdownSeconds = 25

// repositories are the storage adapters selected by STORE_BACKEND.
type repositories struct {
	Meeting      domain.MeetingRepository
	Availability domain.AvailabilityRepository
	close        func() error
}

// setupJWTAuth configures JWT authentication for the service
func setupJWTAuth(env environment) (*auth.JWTAuth, error) {
	jwtAuthConfig := auth.JWTAuthConfig{
		JWKSURL:            env.JWT.JWKSURL,
		Audience:           env.JWT.Audience,
		Issuer:             env.JWT.Issuer,
		HMACSecret:         env.JWT.HMACSecret,
		MockLocalPrincipal: env.JWT.MockPrincipal,
		MockLocalRole:      env.JWT.MockRole,
	}
	return auth.NewJWTAuth(jwtAuthConfig)
}

// setupNATS connects to NATS. Losing the connection for good stops the service.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	slog.With("nats_url", env.NatsURL).Info("attempting to connect to NATS")

	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.Name(constants.ServiceName),
		nats.Timeout(env.NatsTimeout),
		nats.MaxReconnects(env.NatsMaxReconnect),
		nats.ReconnectWait(env.NatsReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.With(logging.ErrKey, err).Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.With("nats_url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if ctx.Err() != nil {
				// Expected during a graceful shutdown.
				return
			}
			slog.Error("NATS max-reconnects exhausted; connection closed")
			// Send a synthetic interrupt and give any graceful-shutdown tasks 5
			// seconds to clean up.
			done <- os.Interrupt
			go func() {
				time.Sleep(5 * time.Second)
				os.Exit(1)
			}()
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
			} else {
				slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating NATS client: %w", err)
	}

	gracefulCloseWG.Add(1)
	return natsConn, nil
}

// getKeyValueStores creates or binds the JetStream key-value buckets of the service.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (meetings, availability jetstream.KeyValue, err error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating JetStream context: %w", err)
	}

	meetings, err = js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      constants.KVBucketNameMeetings,
		Description: "Commeet meetings",
		History:     1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("error binding bucket %s: %w", constants.KVBucketNameMeetings, err)
	}

	availability, err = js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      constants.KVBucketNameAvailability,
		Description: "Commeet participant availability",
		History:     1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("error binding bucket %s: %w", constants.KVBucketNameAvailability, err)
	}

	return meetings, availability, nil
}

// setupRepositories builds the storage adapters for the configured backend.
func setupRepositories(ctx context.Context, env environment, natsConn *nats.Conn) (*repositories, error) {
	switch env.StoreBackend {
	case storeBackendPostgres:
		if env.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres backend")
		}
		db, err := sqlx.ConnectContext(ctx, "postgres", env.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("error connecting to postgres: %w", err)
		}
		if err := store.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		slog.Info("using postgres storage")
		return &repositories{
			Meeting:      store.NewSQLMeetingRepository(db),
			Availability: store.NewSQLAvailabilityRepository(db),
			close:        db.Close,
		}, nil

	case storeBackendMemory:
		slog.Warn("using in-memory storage, data is lost on restart")
		return &repositories{
			Meeting:      store.NewNatsMeetingRepository(store.NewMemoryKeyValue(constants.KVBucketNameMeetings)),
			Availability: store.NewNatsAvailabilityRepository(store.NewMemoryKeyValue(constants.KVBucketNameAvailability)),
			close:        func() error { return nil },
		}, nil

	default:
		meetings, availability, err := getKeyValueStores(ctx, natsConn)
		if err != nil {
			return nil, err
		}
		slog.Info("using NATS key-value storage")
		return &repositories{
			Meeting:      store.NewNatsMeetingRepository(meetings),
			Availability: store.NewNatsAvailabilityRepository(availability),
			close:        func() error { return nil },
		}, nil
	}
}

// createNatsSubcriptions subscribes the message handler to every subject it serves.
// All replicas share one queue group so each event is handled once.
func createNatsSubcriptions(ctx context.Context, handler domain.MessageHandler, natsConn *nats.Conn) error {
	subjects := []string{
		models.MeetingDeletedSubject,
		models.MeetingGetSummarySubject,
		models.MeetingGetTitleSubject,
	}

	for _, subject := range subjects {
		slog.With("subject", subject, "queue", models.MeetingsAPIQueue).Info("subscribing to NATS subject")
		_, err := natsConn.QueueSubscribe(subject, models.MeetingsAPIQueue, func(msg *nats.Msg) {
			handler.HandleMessage(ctx, messaging.NewNatsMessage(msg))
		})
		if err != nil {
			return fmt.Errorf("error subscribing to %s: %w", subject, err)
		}
	}

	return nil
}

// gracefulShutdown stops the HTTP server and drains NATS before exiting.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, repos *repositories, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.With("graceful_shutdown_seconds", gracefulShutdownSeconds).Info("graceful shutdown started")

	// Cancel the background context first so the NATS closed handler sees an expected close.
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()

	go func() {
		if err := httpServer.Shutdown(ctx); err != nil {
			slog.With(logging.ErrKey, err).Error("http shutdown error")
		}
		gracefulCloseWG.Done()
	}()

	if natsConn != nil {
		go func() {
			// Drain flushes pending publishes and lets in-flight handlers finish.
			if err := natsConn.Drain(); err != nil {
				slog.With(logging.ErrKey, err).Error("error draining NATS connection")
				natsConn.Close()
			}
			gracefulCloseWG.Done()
		}()
	}

	gracefulCloseWG.Wait()

	if repos != nil && repos.close != nil {
		if err := repos.close(); err != nil {
			slog.With(logging.ErrKey, err).Error("error closing storage")
		}
	}

	slog.Info("graceful shutdown complete")
}
