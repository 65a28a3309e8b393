// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/infrastructure/auth"
)

type AuthService struct {
	auth auth.IJWTAuth
}

func NewAuthService(auth auth.IJWTAuth) *AuthService {
	return &AuthService{
		auth: auth,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *AuthService) ServiceReady() bool {
	return s.auth != nil
}

// ParseIdentity validates the bearer token and returns the caller identity.
func (s *AuthService) ParseIdentity(ctx context.Context, bearerToken string, logger *slog.Logger) (*models.Identity, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("auth service not ready", domain.ErrServiceUnavailable)
	}

	identity, err := s.auth.ParseIdentity(ctx, bearerToken, logger)
	if err != nil {
		return nil, domain.NewUnauthorizedError("authentication required", domain.ErrAuthenticationRequired, err)
	}
	return identity, nil
}
