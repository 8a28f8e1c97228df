package httpserver

import (
	"net/http"

	"github.com/ohrn/loghive-go/internal/core/miner"
	"github.com/ohrn/loghive-go/internal/server/httpserver/handler"
	"github.com/ohrn/loghive-go/internal/telemetry/logger"
	"github.com/ohrn/loghive-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Miner is the mining pipeline behind the API.
	Miner *miner.Miner

	// Metrics backs the /metrics endpoint and is updated by the miner.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger logger.Logger

	// RateLimit is the per-client request rate in requests/second;
	// zero or negative disables limiting. RateBurst is the burst size.
	RateLimit float64
	RateBurst int
}

// NewRouter assembles the route table and middleware chain.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := handler.New(cfg.Miner, log)

	api := func(endpoint http.Handler) http.Handler {
		return Chain(endpoint,
			Recover(log),
			RequestID(),
			RateLimit(cfg.RateLimit, cfg.RateBurst),
		)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/v1/logs", api(http.HandlerFunc(h.Ingest)))
	mux.Handle("GET /api/v1/clusters", api(http.HandlerFunc(h.Clusters)))

	// Liveness and metrics stay outside the rate limiter so probes and
	// scrapes never contend with ingest traffic.
	mux.Handle("GET /healthz", Chain(http.HandlerFunc(h.Health), Recover(log), RequestID()))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), Recover(log)))
	}

	return mux
}
