// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

//go:build integration

package testinfra

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultPostgresImage is the PostgreSQL image used by catalog tests.
	DefaultPostgresImage = "postgres:16-alpine"

	postgresPort     = "5432/tcp"
	postgresUser     = "fashionrec"
	postgresPassword = "fashionrec"
	postgresDB       = "fashionrec"
)

// PostgresContainer is a running PostgreSQL server.
type PostgresContainer struct {
	testcontainers.Container

	// DSN is a lib/pq connection URL for the test database.
	DSN string
}

// NewPostgresContainer starts PostgreSQL and waits until it accepts
// connections.
func NewPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultPostgresImage,
		ExposedPorts: []string{postgresPort},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
		},
		// The ready line is printed once for the init server and again for
		// the real one.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(startupTimeout),
	}

	pc := &PostgresContainer{}
	c, err := startContainer(ctx, "postgres", req, func(c testcontainers.Container) error {
		host, err := c.Host(ctx)
		if err != nil {
			return err
		}
		port, err := c.MappedPort(ctx, postgresPort)
		if err != nil {
			return err
		}
		pc.DSN = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			postgresUser, postgresPassword, host, port.Port(), postgresDB)
		return nil
	})
	if err != nil {
		return nil, err
	}
	pc.Container = c
	return pc, nil
}
