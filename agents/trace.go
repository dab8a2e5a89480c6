package agents

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bububa/qa-agents/components"
)

type traceKey struct{}

// TraceIDFromContext returns the id of the enclosing trace, empty outside one
func TraceIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(traceKey{}).(string); ok {
		return v
	}
	return ""
}

// Trace groups the runs fn makes under one workflow, logging its start and end
func (r *Runner) Trace(ctx context.Context, workflow string, fn func(ctx context.Context) error) error {
	traceID := components.NewTurnID()
	ctx = context.WithValue(ctx, traceKey{}, traceID)
	logger := r.logger.With(zap.String("workflow", workflow), zap.String("trace_id", traceID))
	logger.Info("trace start")
	start := time.Now()
	err := fn(ctx)
	if err != nil {
		logger.Info("trace end", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return err
	}
	logger.Info("trace end", zap.Duration("elapsed", time.Since(start)))
	return nil
}
