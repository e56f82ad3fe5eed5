package handler

import (
	"context"
	"net/http"
	"time"

	"medilink/internal/delivery/dto"
	"medilink/pkg/response"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

const (
	serviceName  = "MediLink Backend API"
	checkTimeout = 2 * time.Second
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	log     *logrus.Logger
	version string
	checks  map[string]HealthCheck
}

func NewHealthHandler(log *logrus.Logger, version string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		log:     log,
		version: version,
		checks:  checks,
	}
}

// Health runs every check concurrently. Any failing check turns the status
// into DEGRADED and the response into 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	type result struct {
		name string
		err  error
	}
	p := pool.NewWithResults[result]()
	for name, check := range h.checks {
		p.Go(func() result {
			return result{name: name, err: check(ctx)}
		})
	}

	status, code := "OK", http.StatusOK
	checks := make(map[string]string, len(h.checks))
	for _, res := range p.Wait() {
		if res.err != nil {
			h.log.Warnf("Health check %s failed: %+v", res.name, res.err)
			checks[res.name] = "down"
			status, code = "DEGRADED", http.StatusServiceUnavailable
			continue
		}
		checks[res.name] = "up"
	}

	response.Success(w, code, dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   serviceName,
		Version:   h.version,
		Checks:    checks,
	})
}
