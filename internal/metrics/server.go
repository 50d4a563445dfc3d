package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"go.uber.org/zap"
)

// AnalysisLookup returns the last analysis a strategy recorded for a symbol.
type AnalysisLookup interface {
	Analysis(strategyName string, symbol string) (types.AnalysisSummary, bool)
}

// Server exposes operational endpoints: prometheus metrics, health and analysis inspection.
type Server struct {
	srv *http.Server
	log *logger.Logger
}

// NewRouter builds the ops routes.
func NewRouter(gatherer prometheus.Gatherer, lookup AnalysisLookup) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.HandleFunc("/strategies/{name}/analysis/{symbol}", func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		summary, ok := lookup.Analysis(vars["name"], vars["symbol"])
		if !ok {
			http.Error(w, "analysis not found", http.StatusNotFound)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(summary)
	}).Methods(http.MethodGet)

	return router
}

// Serve starts the ops server in the background.
func Serve(addr string, gatherer prometheus.Gatherer, lookup AnalysisLookup, log *logger.Logger) *Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(gatherer, lookup),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Ops server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()

	return &Server{srv: srv, log: log}
}

// Shutdown stops the ops server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
