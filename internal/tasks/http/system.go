package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tasktrack/pkg/httpx"
	"github.com/aussiebroadwan/tasktrack/pkg/jwtx"
	"github.com/aussiebroadwan/tasktrack/pkg/tasksdk"
)

// SystemHandler serves the unauthenticated health and key endpoints.
type SystemHandler struct {
	Started time.Time
	Version string
	DB      Pinger
	Keys    *jwtx.KeySet
	Cache   Pinger // nil when revocations live in memory
}

func (h *SystemHandler) health(status string, checks *tasksdk.HealthChecks) tasksdk.HealthResponse {
	return tasksdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(h.Started).String(),
		Version: h.Version,
		Checks:  checks,
	}
}

// HandleLivez godoc
//
//	@Summary		Liveness check
//	@Description	Always 200 while the process is up.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	tasksdk.HealthResponse
//	@Router			/livez [get].
func (h *SystemHandler) HandleLivez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.health("ok", nil))
}

// HandleReadyz godoc
//
//	@Summary		Readiness check
//	@Description	Checks the database, the signing keys and, when configured, the revocation cache.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	tasksdk.HealthResponse
//	@Failure		503	{object}	tasksdk.HealthResponse	"one or more checks failed"
//	@Router			/readyz [get].
func (h *SystemHandler) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	ready := true
	check := func(ctx context.Context, p Pinger) string {
		if err := p.Ping(ctx); err != nil {
			ready = false
			return "error: " + err.Error()
		}
		return "ok"
	}

	checks := &tasksdk.HealthChecks{
		Database: check(r.Context(), h.DB),
		Signer:   "ok",
	}
	if !h.Keys.IsReady() {
		ready = false
		checks.Signer = "error: no keys loaded"
	}
	if h.Cache != nil {
		checks.Cache = check(r.Context(), h.Cache)
	}

	if !ready {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, h.health("degraded", checks))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.health("ok", checks))
}

// HandleJWKS godoc
//
//	@Summary		JSON Web Key Set
//	@Description	Public keys that verify access tokens.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	tasksdk.JWKSResponse
//	@Router			/.well-known/jwks.json [get].
func (h *SystemHandler) HandleJWKS(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, tasksdk.JWKSResponse(h.Keys.PublicJWKS()))
}
