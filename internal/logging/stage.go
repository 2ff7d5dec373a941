// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package logging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// StageLogger records the lifecycle of one pipeline stage run with a fixed
// set of field names, so runs can be followed across log lines.
type StageLogger struct {
	stage  string
	ctx    context.Context
	logger zerolog.Logger
}

// ForStage returns a child of the context logger scoped to a pipeline stage.
func ForStage(ctx context.Context, stage string) zerolog.Logger {
	l := LoggerFromContext(ctx)
	return l.With().Str("component", "pipeline").Str("stage", stage).Logger()
}

// NewStageLogger creates a StageLogger that writes through the context
// logger of ctx.
func NewStageLogger(ctx context.Context, stage string) *StageLogger {
	stageCtx := ContextWithLogger(ctx, ForStage(ctx, stage))
	return &StageLogger{
		stage:  stage,
		ctx:    stageCtx,
		logger: CtxWith(stageCtx).Logger(),
	}
}

// Context returns ctx carrying the stage-scoped logger, for passing to the
// stage's own code.
func (s *StageLogger) Context() context.Context {
	return s.ctx
}

// Logger returns the underlying stage-scoped logger.
func (s *StageLogger) Logger() zerolog.Logger {
	return s.logger
}

// Started logs the beginning of a stage with its input locations.
func (s *StageLogger) Started(inputs ...string) {
	s.logger.Info().Strs("inputs", inputs).Msg("Stage started")
}

// Completed logs a successful stage with its output location.
func (s *StageLogger) Completed(output string, elapsed time.Duration) {
	s.logger.Info().
		Str("output", output).
		Dur("duration_ms", elapsed).
		Msg("Stage completed")
}

// Failed logs a failed stage with the error kind and the implicated path,
// column or parameter.
func (s *StageLogger) Failed(err error, kind, subject string, elapsed time.Duration) {
	event := s.logger.Error().Err(err).Str("error_kind", kind)
	if subject != "" {
		event = event.Str("subject", subject)
	}
	event.Dur("duration_ms", elapsed).Msg("Stage failed")
}
