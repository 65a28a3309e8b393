// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
)

// MockAvailabilityRepository implements AvailabilityRepository for testing
type MockAvailabilityRepository struct {
	mock.Mock
}

func (m *MockAvailabilityRepository) UpsertAvailability(ctx context.Context, availability *models.Availability) error {
	args := m.Called(ctx, availability)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) GetAvailability(ctx context.Context, meetingUID, userID string) (*models.Availability, error) {
	args := m.Called(ctx, meetingUID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Availability), args.Error(1)
}

func (m *MockAvailabilityRepository) ListAvailabilityByMeeting(ctx context.Context, meetingUID string) ([]*models.Availability, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Availability), args.Error(1)
}

func (m *MockAvailabilityRepository) DeleteAvailabilityByMeeting(ctx context.Context, meetingUID string) (int, error) {
	args := m.Called(ctx, meetingUID)
	return args.Int(0), args.Error(1)
}
