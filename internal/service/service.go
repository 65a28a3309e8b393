// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service holds the meeting and availability business logic.
package service

type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// SkipEtagValidation is a flag to skip the Etag validation - only meant for local development.
	SkipEtagValidation bool
	// Workers bounds the concurrency used for fan-out work such as publishing messages.
	Workers int
}

func (c ServiceConfig) workers() int {
	if c.Workers <= 0 {
		return 4
	}
	return c.Workers
}
