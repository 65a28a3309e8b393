// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package auth validates bearer tokens and turns them into caller identities.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/golang-jwt/jwt/v5"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
)

const (
	// PS256 is the default for Heimdall's JWT finalizer.
	PS256 = validator.PS256

	defaultIssuer   = "heimdall"
	defaultAudience = "lfx-v2-commeet-service"
	defaultJWKSURL  = "http://heimdall:4457/.well-known/jwks"
	defaultMockRole = "officer"

	jwksCacheTTL  = 5 * time.Minute
	allowedSkew   = 5 * time.Second
	hmacAlgorithm = "HS256"
)

// IJWTAuth is a JWT authentication interface needed for the [AuthService].
type IJWTAuth interface {
	ParseIdentity(ctx context.Context, token string, logger *slog.Logger) (*models.Identity, error)
}

// JWTAuthConfig holds the JWT validation settings.
type JWTAuthConfig struct {
	// JWKSURL is the URL of the JSON Web Key Set used to verify PS256 tokens.
	JWKSURL string
	// Audience is the expected audience of the tokens.
	Audience string
	// Issuer is the expected issuer of the tokens.
	Issuer string
	// HMACSecret switches validation to HS256 tokens signed with this shared secret.
	HMACSecret string
	// MockLocalPrincipal disables validation and authenticates every request as this
	// principal. Only meant for local development.
	MockLocalPrincipal string
	// MockLocalRole is the role given to the mock principal.
	MockLocalRole string
}

// HeimdallClaims contains the custom claims of tokens issued by Heimdall.
type HeimdallClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Validate implements validator.CustomClaims.
func (c *HeimdallClaims) Validate(_ context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// hmacClaims are the claims of HS256 tokens.
type hmacClaims struct {
	HeimdallClaims
	jwt.RegisteredClaims
}

// JWTAuth validates bearer tokens.
type JWTAuth struct {
	validator *validator.Validator
	config    JWTAuthConfig
}

// NewJWTAuth creates a JWT validator. With an HMAC secret no JWKS provider is set up.
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	if config.JWKSURL == "" {
		config.JWKSURL = defaultJWKSURL
	}
	if config.Audience == "" {
		config.Audience = defaultAudience
	}
	if config.Issuer == "" {
		config.Issuer = defaultIssuer
	}
	if config.MockLocalRole == "" {
		config.MockLocalRole = defaultMockRole
	}

	auth := &JWTAuth{config: config}
	if config.HMACSecret != "" || config.MockLocalPrincipal != "" {
		return auth, nil
	}

	jwksURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWKS URL: %w", err)
	}
	issuer, err := url.Parse(config.Issuer)
	if err != nil {
		return nil, fmt.Errorf("invalid issuer: %w", err)
	}

	provider := jwks.NewCachingProvider(issuer, jwksCacheTTL, jwks.WithCustomJWKSURI(jwksURL))

	customClaims := func() validator.CustomClaims {
		return &HeimdallClaims{}
	}

	auth.validator, err = validator.New(
		provider.KeyFunc,
		PS256,
		config.Issuer,
		[]string{config.Audience},
		validator.WithCustomClaims(customClaims),
		validator.WithAllowedClockSkew(allowedSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the JWT validator: %w", err)
	}

	return auth, nil
}

// ParseIdentity validates the token and returns the caller it names.
func (j *JWTAuth) ParseIdentity(ctx context.Context, token string, logger *slog.Logger) (*models.Identity, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if j.config.MockLocalPrincipal != "" {
		logger.InfoContext(ctx, "JWT validation is disabled, returning mock principal",
			"principal", j.config.MockLocalPrincipal,
			"role", j.config.MockLocalRole,
		)
		return &models.Identity{ID: j.config.MockLocalPrincipal, Role: j.config.MockLocalRole}, nil
	}

	if j.config.HMACSecret != "" {
		return j.parseHMAC(ctx, token, logger)
	}

	if j.validator == nil {
		return nil, errors.New("JWT validator is not set up")
	}

	parsed, err := j.validator.ValidateToken(ctx, token)
	if err != nil {
		logger.WarnContext(ctx, "token validation failed", "error", err)
		return nil, err
	}

	claims, ok := parsed.(*validator.ValidatedClaims)
	if !ok {
		return nil, errors.New("failed to get validated authorization claims")
	}

	custom, ok := claims.CustomClaims.(*HeimdallClaims)
	if !ok {
		return nil, errors.New("failed to get custom authorization claims")
	}

	return &models.Identity{ID: custom.Principal, Role: custom.Role}, nil
}

func (j *JWTAuth) parseHMAC(ctx context.Context, token string, logger *slog.Logger) (*models.Identity, error) {
	claims := &hmacClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return []byte(j.config.HMACSecret), nil },
		jwt.WithValidMethods([]string{hmacAlgorithm}),
		jwt.WithAudience(j.config.Audience),
		jwt.WithIssuer(j.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(allowedSkew),
	)
	if err != nil {
		logger.WarnContext(ctx, "token validation failed", "error", err)
		return nil, err
	}

	if err := claims.HeimdallClaims.Validate(ctx); err != nil {
		return nil, err
	}

	return &models.Identity{ID: claims.Principal, Role: claims.Role}, nil
}
