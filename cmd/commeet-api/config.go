// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/logging"
)

// Storage backends selectable with STORE_BACKEND.
const (
	storeBackendNATS     = "nats"
	storeBackendPostgres = "postgres"
	storeBackendMemory   = "memory"
)

// flags are the command line flags for the commeet service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the commeet service.
type environment struct {
	Port               string
	StoreBackend       string
	NatsURL            string
	NatsTimeout        time.Duration
	NatsMaxReconnect   int
	NatsReconnectWait  time.Duration
	DatabaseURL        string
	SkipEtagValidation bool
	Workers            int
	JWT                jwtConfig
}

// jwtConfig holds the token validation settings.
type jwtConfig struct {
	JWKSURL       string
	Audience      string
	Issuer        string
	HMACSecret    string
	MockPrincipal string
	MockRole      string
}

// loadDotEnv loads a .env file when present. Variables already set in the environment win.
func loadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.With(logging.ErrKey, err, "file", f).Warn("error loading env file")
		}
	}
}

// parseFlags parses command line flags for the commeet service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the commeet service
func parseEnv() environment {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	backend := os.Getenv("STORE_BACKEND")
	switch backend {
	case storeBackendNATS, storeBackendPostgres, storeBackendMemory:
	case "":
		backend = storeBackendNATS
	default:
		slog.Warn("unknown STORE_BACKEND, using nats", "value", backend)
		backend = storeBackendNATS
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	return environment{
		Port:               port,
		StoreBackend:       backend,
		NatsURL:            natsURL,
		NatsTimeout:        durationEnv("NATS_TIMEOUT", 10*time.Second),
		NatsMaxReconnect:   intEnv("NATS_MAX_RECONNECT", 3),
		NatsReconnectWait:  durationEnv("NATS_RECONNECT_WAIT", 2*time.Second),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SkipEtagValidation: boolEnv("SKIP_ETAG_VALIDATION"),
		Workers:            intEnv("WORKERS", 4),
		JWT: jwtConfig{
			JWKSURL:       os.Getenv("JWKS_URL"),
			Audience:      os.Getenv("JWT_AUDIENCE"),
			Issuer:        os.Getenv("JWT_ISSUER"),
			HMACSecret:    os.Getenv("JWT_HMAC_SECRET"),
			MockPrincipal: os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL"),
			MockRole:      os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_ROLE"),
		},
	}
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		slog.Warn("invalid integer environment variable, using default", "key", key, "value", raw)
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		slog.Warn("invalid duration environment variable, using default", "key", key, "value", raw)
		return fallback
	}
	return v
}
