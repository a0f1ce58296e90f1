package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/hoops-feed/internal/platform/logging"
)

type RouterConfig struct {
	Handler            *Handler
	Stream             *StreamHub
	Metrics            http.Handler
	Logger             *logging.Logger
	SwaggerEnabled     bool
	ProfilingEnabled   bool
	CORSAllowedOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, cfg.Handler, cfg.Metrics)
	if cfg.SwaggerEnabled {
		registerDocsRoutes(mux)
	}
	if cfg.ProfilingEnabled {
		registerProfilingRoutes(mux)
	}
	registerFeatureRoutes(mux, cfg.Handler)
	registerFeedRoutes(mux, cfg.Handler, cfg.Stream)

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "path", r.URL.Path)
				writeError(w, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
