// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// startupTimeout bounds how long a container may take to become ready.
const startupTimeout = 60 * time.Second

// SkipIfNoDocker skips t when no Docker daemon answers.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	if !IsDockerAvailable() {
		t.Skip("docker daemon not reachable; skipping container test")
	}
}

// IsDockerAvailable reports whether `docker info` succeeds within five
// seconds.
func IsDockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "docker", "info").Run() == nil
}

// TerminateOnCleanup stops c when t finishes. Termination errors are logged.
func TerminateOnCleanup(t *testing.T, c testcontainers.Container) {
	t.Helper()
	if c == nil {
		return
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.Terminate(ctx); err != nil {
			t.Logf("terminate %s container: %v", c.GetContainerID(), err)
		}
	})
}

// startContainer runs req and hands the started container to inspect. If
// inspect fails the container is terminated before the error is returned.
func startContainer(ctx context.Context, name string, req testcontainers.ContainerRequest,
	inspect func(testcontainers.Container) error) (testcontainers.Container, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start %s container: %w", name, err)
	}
	if err := inspect(c); err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("inspect %s container: %w", name, err)
	}
	return c, nil
}
