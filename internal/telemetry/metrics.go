package telemetry

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/detectors/aws/ecs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/IliaW/scrape-legality/config"
	"github.com/google/uuid"
)

var meter metric.Meter

type MetricsProvider struct {
	ApiMetrics *ApiMetrics
	AppMetrics *AppMetrics
	Close      func()
}

type ApiMetrics struct {
	SuccessResponseCounter func(count int64)
	ErrorResponseCounter   func(count int64)
}

type AppMetrics struct {
	CheckCounter         func(count int64)
	ProbeFailureCounter  func(probe string)
	AnalyzerErrorCounter func(count int64)
}

func SetupMetrics(ctx context.Context, cfg *config.Config) *MetricsProvider {
	metricsProvider := new(MetricsProvider)
	var meterProvider *sdkmetric.MeterProvider
	enabled := cfg.TelemetrySettings != nil && cfg.TelemetrySettings.Enabled

	if enabled {
		r, err := newResource(cfg)
		if err != nil {
			slog.Error("failed to get resource.", slog.String("err", err.Error()))
			os.Exit(1)
		}
		exporter, err := newMetricExporter(ctx, cfg.TelemetrySettings)
		if err != nil {
			slog.Error("failed to get metric exporter.", slog.String("err", err.Error()))
			os.Exit(1)
		}
		meterProvider = newMeterProvider(exporter, *r)
		otel.SetMeterProvider(meterProvider)
	}

	meter = otel.Meter(cfg.ServiceName)
	metricsProvider.Close = func() {
		if meterProvider != nil {
			err := meterProvider.Shutdown(ctx)
			if err != nil {
				slog.Error("failed to shutdown metrics provider.", slog.String("err", err.Error()))
			}
		}
	}

	// Set up api metrics
	successResponseCounter, err := meter.Int64Counter("scrape-legality.response.success",
		metric.WithDescription("The number of success responses from [get] /legality-check."),
		metric.WithUnit("{messages}"))
	if err != nil {
		slog.Error("failed to create telemetry counters for the api.", slog.String("err", err.Error()))
		os.Exit(1)
	}
	errorResponseCounter, err := meter.Int64Counter("scrape-legality.response.error",
		metric.WithDescription("The number of error responses from [get] /legality-check."),
		metric.WithUnit("{messages}"))
	if err != nil {
		slog.Error("failed to create telemetry counters for the api.", slog.String("err", err.Error()))
		os.Exit(1)
	}
	metricsProvider.ApiMetrics = &ApiMetrics{
		SuccessResponseCounter: func(count int64) {
			if enabled {
				successResponseCounter.Add(ctx, count)
			}
		},
		ErrorResponseCounter: func(count int64) {
			if enabled {
				errorResponseCounter.Add(ctx, count)
			}
		},
	}

	// Set up check metrics
	checkCounter, err := meter.Int64Counter("scrape-legality.check.completed",
		metric.WithDescription("The number of completed legality checks."),
		metric.WithUnit("{checks}"))
	if err != nil {
		slog.Error("failed to create telemetry counters for the checker.", slog.String("err", err.Error()))
		os.Exit(1)
	}
	probeFailureCounter, err := meter.Int64Counter("scrape-legality.probe.failure",
		metric.WithDescription("The number of probe requests that failed and fell back to a default value."),
		metric.WithUnit("{requests}"))
	if err != nil {
		slog.Error("failed to create telemetry counters for the checker.", slog.String("err", err.Error()))
		os.Exit(1)
	}
	analyzerErrorCounter, err := meter.Int64Counter("scrape-legality.analyzer.error",
		metric.WithDescription("The number of legal analyses that returned an error instead of a verdict."),
		metric.WithUnit("{requests}"))
	if err != nil {
		slog.Error("failed to create telemetry counters for the checker.", slog.String("err", err.Error()))
		os.Exit(1)
	}
	metricsProvider.AppMetrics = &AppMetrics{
		CheckCounter: func(count int64) {
			if enabled {
				checkCounter.Add(ctx, count)
			}
		},
		ProbeFailureCounter: func(probe string) {
			if enabled {
				probeFailureCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("probe", probe)))
			}
		},
		AnalyzerErrorCounter: func(count int64) {
			if enabled {
				analyzerErrorCounter.Add(ctx, count)
			}
		},
	}

	return metricsProvider
}

func newResource(cfg *config.Config) (*resource.Resource, error) {
	ecsResourceDetector := ecs.NewResourceDetector()
	ecsResource, err := ecsResourceDetector.Detect(context.Background())
	if err != nil {
		slog.Error("ecs detection failed", slog.String("err", err.Error()))
	}
	mergedResource, err := resource.Merge(ecsResource, resource.Default())
	if err != nil {
		slog.Error("failed to merge resources", slog.String("err", err.Error()))
	}
	keyValue, found := ecsResource.Set().Value("container.id")
	var serviceId string
	if found {
		serviceId = keyValue.AsString()
	} else {
		serviceId = uuid.New().String()
	}
	return resource.Merge(mergedResource,
		resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Env),
			semconv.ServiceInstanceID(serviceId),
		))
}

func newMetricExporter(ctx context.Context, cfg *config.TelemetryConfig) (sdkmetric.Exporter, error) {
	return otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(cfg.CollectorUrl),
		otlpmetrichttp.WithInsecure())
}

func newMeterProvider(meterExporter sdkmetric.Exporter, resource resource.Resource) *sdkmetric.MeterProvider {
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(meterExporter)),
		sdkmetric.WithResource(&resource),
	)
	return meterProvider
}
