// Package prometheus exposes the sharding node's monitoring surface: the
// /metrics route for the default Prometheus registerer and a /healthz route
// reporting the health of every service in the node's registry.
package prometheus

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prysmaticlabs/geth-sharding/shared"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "prometheus")

// shutdownTimeout bounds how long Stop waits for in-flight scrapes.
const shutdownTimeout = 2 * time.Second

// Service serves the node's metrics and health endpoints.
type Service struct {
	server      *http.Server
	svcRegistry *shared.ServiceRegistry

	mu       sync.RWMutex
	serveErr error
}

// NewPrometheusService sets up a new instance for a given address host:port.
// An empty host will match with any IP so an address like ":2121" is perfectly acceptable.
func NewPrometheusService(addr string, svcRegistry *shared.ServiceRegistry) *Service {
	s := &Service{svcRegistry: svcRegistry}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", s.healthzHandler)

	s.server = &http.Server{Addr: addr, Handler: mux}

	return s
}

// healthzHandler reports one line per registered service, in stable name
// order, and answers 503 as soon as any service is unhealthy.
func (s *Service) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	statuses := s.svcRegistry.Statuses()
	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)

	healthy := true
	var report strings.Builder
	for _, name := range names {
		if err := statuses[name]; err != nil {
			healthy = false
			fmt.Fprintf(&report, "%s: ERROR %v\n", name, err)
		} else {
			fmt.Fprintf(&report, "%s: OK\n", name)
		}
	}

	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if _, err := fmt.Fprint(w, report.String()); err != nil {
		log.WithError(err).Error("Could not write healthz response")
	}
}

// Start the prometheus service.
func (s *Service) Start() {
	log.WithField("endpoint", s.server.Addr).Info("Starting service")
	go func() {
		err := s.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).WithField("endpoint", s.server.Addr).Error("Monitoring server failed")
			s.mu.Lock()
			s.serveErr = err
			s.mu.Unlock()
		}
	}()
}

// Stop the service gracefully.
func (s *Service) Stop() error {
	log.Info("Stopping service")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Status returns the error that took the monitoring server down, if any.
func (s *Service) Status() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serveErr
}
