package database

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AMAShyp/declare/internal/metrics"
)

// MetricsTracer times every pool query and counts its errors, labeled
// by the query's leading SQL verb.
type MetricsTracer struct{}

var _ pgx.QueryTracer = (*MetricsTracer)(nil)

type traceKey struct{}

type trace struct {
	begun time.Time
	label string
}

func (t *MetricsTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, trace{
		begun: time.Now(),
		label: queryLabel(data.SQL),
	})
}

func (t *MetricsTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	tr, ok := ctx.Value(traceKey{}).(trace)
	if !ok {
		return
	}

	metrics.DBQueryDuration.WithLabelValues(tr.label).Observe(time.Since(tr.begun).Seconds())
	if data.Err != nil {
		metrics.DBErrorsTotal.WithLabelValues(tr.label).Inc()
	}
}

// queryLabel keeps the metric cardinality to one series per statement
// verb: every SELECT shares a label no matter which table it reads.
func queryLabel(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	verb := strings.ToLower(fields[0])
	if len(verb) > 20 {
		verb = verb[:20]
	}
	return verb
}
