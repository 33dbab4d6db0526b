package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const meterNamespace = "github.com/JospenWolongwo/barber-shop-website/internal/observability"

type httpMetrics struct {
	latency  metric.Float64Histogram
	requests metric.Int64Counter
}

var (
	metricsOnce   sync.Once
	serverMetrics httpMetrics
)

// instruments registers the request instruments on the global meter provider
// the first time a request completes. Registration failures fall back to no-ops.
func instruments() httpMetrics {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter(meterNamespace)
		fallback := noop.NewMeterProvider().Meter(meterNamespace)

		latency, err := meter.Float64Histogram(
			"http.server.request.duration",
			metric.WithUnit("ms"),
			metric.WithDescription("Latency in milliseconds for handled requests"),
		)
		if err != nil {
			latency, _ = fallback.Float64Histogram("http.server.request.duration")
		}
		requests, err := meter.Int64Counter(
			"http.server.requests",
			metric.WithDescription("Count of handled requests by route and status"),
		)
		if err != nil {
			requests, _ = fallback.Int64Counter("http.server.requests")
		}
		serverMetrics = httpMetrics{latency: latency, requests: requests}
	})
	return serverMetrics
}

func recordRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	m := instruments()
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		semconv.HTTPRoute(route),
		semconv.HTTPResponseStatusCode(status),
	)
	m.requests.Add(ctx, 1, attrs)
	m.latency.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}
