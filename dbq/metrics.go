package dbq

import (
	"context"
	"time"

	"github.com/architeacher/queryscope/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PagerMetrics instruments page fetches. A nil receiver records nothing,
// so pagers work without a meter wired in.
type PagerMetrics struct {
	pages    metric.Int64Counter
	rows     metric.Int64Histogram
	duration metric.Float64Histogram
}

func NewPagerMetrics(m metric.Meter) (*PagerMetrics, error) {
	pages, err := metrics.RegisterInt64Counter(m, metrics.Descriptor{
		Description: "Number of pages served",
		Unit:        "{page}",
	}, "queryscope.pager.pages")
	if err != nil {
		return nil, err
	}

	rows, err := metrics.RegisterInt64Histogram(m, metrics.Descriptor{
		Description: "Rows returned per page",
		Unit:        "{row}",
	}, "queryscope.pager.rows")
	if err != nil {
		return nil, err
	}

	duration, err := metrics.RegisterFloat64Histogram(m, metrics.Descriptor{
		Description: "Page fetch duration",
		Unit:        "s",
	}, "queryscope.pager.duration")
	if err != nil {
		return nil, err
	}

	return &PagerMetrics{
		pages:    pages,
		rows:     rows,
		duration: duration,
	}, nil
}

func (m *PagerMetrics) observeFetch(ctx context.Context, table string, rows int, elapsed time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("table", table))

	m.pages.Add(ctx, 1, attrs)
	m.rows.Record(ctx, int64(rows), attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
