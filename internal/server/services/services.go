// Package services contains the server-side business logic: the coin
// ledger, the session lifecycle, reviews, the directory adapter and the
// wallet read side. Every mutating operation runs in one database
// transaction; events and metrics are emitted only after commit.
package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/logging"
	"github.com/dmitrijs2005/skillswap/internal/server/events"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

var tracer = otel.Tracer("github.com/dmitrijs2005/skillswap/internal/server/services")

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}

// endSpan records err on the span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// normalizeLimit applies the list defaults: 0 means default, values above
// the maximum are clamped, negatives are rejected.
func normalizeLimit(limit int) (int, error) {
	switch {
	case limit < 0:
		return 0, fmt.Errorf("%w: limit must not be negative", common.ErrValidation)
	case limit == 0:
		return defaultListLimit, nil
	case limit > maxListLimit:
		return maxListLimit, nil
	}
	return limit, nil
}

// publish sends an event after commit. Failures are logged and swallowed.
func publish(ctx context.Context, p events.Publisher, logger logging.Logger, subject string, ev any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, subject, ev); err != nil {
		logger.Warn(ctx, "event publish failed", "subject", subject, "error", err)
	}
}
