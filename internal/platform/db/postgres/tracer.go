package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type queryStartKey struct{}

type queryStart struct {
	sql   string
	begin time.Time
}

// queryTracer は pgx.QueryTracer を実装し、クエリの所要時間と失敗を記録します。
type queryTracer struct {
	logger *zap.Logger
	now    func() time.Time
}

func newQueryTracer(logger *zap.Logger) *queryTracer {
	return &queryTracer{logger: logger, now: time.Now}
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, begin: t.now()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	fields := []zap.Field{
		zap.String("sql", start.sql),
		zap.Duration("duration", t.now().Sub(start.begin)),
		zap.String("command", data.CommandTag.String()),
	}
	if data.Err != nil {
		t.logger.Warn("query failed", append(fields, zap.Error(data.Err))...)
		return
	}
	t.logger.Debug("query", fields...)
}
