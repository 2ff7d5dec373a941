// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

// Package logging provides centralized zerolog-based structured logging for
// FashionRec.
//
// # Overview
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output format for batch runs and the lookup API
//   - Console output format for interactive use
//   - Context-aware logging with run and request ID propagation
//   - Stage-scoped loggers for pipeline stages
//   - An slog.Handler adapter for libraries that expect log/slog
//
// # Injection
//
// Pipeline code never reaches for a process-wide logger. Each stage receives
// its logger through the context:
//
//	sl := logging.NewStageLogger(ctx, "fit_model")
//	ctx = sl.Context()
//	logging.Ctx(ctx).Info().Int("k", k).Msg("Fitting model")
//
// # Configuration
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller info (default: false)
//
// Always terminate log chains with .Msg() or .Send().
package logging
