// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

//go:build integration

package testinfra

import (
	"context"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMinIOImage is the S3-compatible server used by objectstore tests.
	DefaultMinIOImage = "minio/minio:RELEASE.2024-10-13T13-34-11Z"

	// MinIOAccessKey and MinIOSecretKey are the root credentials.
	MinIOAccessKey = "fashionrec"
	MinIOSecretKey = "fashionrec-secret"

	minioPort = "9000/tcp"
)

// MinIOContainer is a running MinIO server.
type MinIOContainer struct {
	testcontainers.Container

	// Endpoint is host:port, without scheme.
	Endpoint string
}

// NewMinIOContainer starts MinIO and waits for its liveness endpoint.
func NewMinIOContainer(ctx context.Context) (*MinIOContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultMinIOImage,
		ExposedPorts: []string{minioPort},
		Cmd:          []string{"server", "/data"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     MinIOAccessKey,
			"MINIO_ROOT_PASSWORD": MinIOSecretKey,
		},
		WaitingFor: wait.ForHTTP("/minio/health/live").
			WithPort(minioPort).
			WithStartupTimeout(startupTimeout),
	}

	mc := &MinIOContainer{}
	c, err := startContainer(ctx, "minio", req, func(c testcontainers.Container) error {
		endpoint, err := c.PortEndpoint(ctx, minioPort, "")
		mc.Endpoint = endpoint
		return err
	})
	if err != nil {
		return nil, err
	}
	mc.Container = c
	return mc, nil
}
