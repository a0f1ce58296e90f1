package observability

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/grafana/pyroscope-go"
	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/riskibarqy/hoops-feed/internal/config"
	"github.com/riskibarqy/hoops-feed/internal/platform/logging"
)

// Telemetry holds the exporters started for one process. Both are optional;
// with neither enabled the spans opened by httpapi and usecase go to the
// global no-op provider.
type Telemetry struct {
	logger   *logging.Logger
	tracing  bool
	profiler *pyroscope.Profiler
}

// Setup starts the Uptrace span exporter and the Pyroscope profiler that cfg
// enables.
func Setup(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger.Named("telemetry")}

	if cfg.UptraceEnabled && cfg.UptraceDSN != "" {
		uptrace.ConfigureOpentelemetry(
			uptrace.WithDSN(cfg.UptraceDSN),
			uptrace.WithServiceName(cfg.ServiceName),
			uptrace.WithServiceVersion(cfg.ServiceVersion),
			uptrace.WithDeploymentEnvironment(cfg.AppEnv),
			uptrace.WithLoggingEnabled(false),
		)
		t.tracing = true
	}

	if cfg.PyroscopeEnabled {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: cfg.PyroscopeAppName,
			ServerAddress:   cfg.PyroscopeServerAddress,
			AuthToken:       cfg.PyroscopeAuthToken,
			UploadRate:      cfg.PyroscopeUploadRate,
			Tags:            map[string]string{"env": cfg.AppEnv, "service": cfg.ServiceName},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileInuseSpace,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileGoroutines,
			},
		})
		if err != nil {
			// The partial Telemetry still flushes spans on Shutdown.
			return t, errors.Wrap(err, "start pyroscope")
		}
		t.profiler = profiler
	}

	t.logger.Info("telemetry ready",
		"tracing", t.tracing,
		"profiling", t.profiler != nil,
		"pprof_routes", cfg.PprofEnabled,
	)
	return t, nil
}

func (t *Telemetry) Tracing() bool { return t != nil && t.tracing }

func (t *Telemetry) Profiling() bool { return t != nil && t.profiler != nil }

// Shutdown stops the profiler and flushes pending spans. It is safe on a nil
// or partially started Telemetry.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var err error
	if t.profiler != nil {
		err = errors.CombineErrors(err, errors.Wrap(t.profiler.Stop(), "stop pyroscope"))
		t.profiler = nil
	}
	if t.tracing {
		err = errors.CombineErrors(err, errors.Wrap(uptrace.Shutdown(ctx), "flush uptrace"))
		t.tracing = false
	}
	return err
}
