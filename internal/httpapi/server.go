package httpapi

import (
	"net/http"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/schedule"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/store"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/telemetry"
)

// Handler groups the dependencies every job-CRUD endpoint needs.
type Handler struct {
	store     store.JobStore
	engine    Reloader
	validator *schedule.Validator
	token     string
}

// NewHandler constructs a Handler. token is the expected bearer token for
// write endpoints; an empty token disables auth (local development).
func NewHandler(s store.JobStore, engine Reloader, validator *schedule.Validator, token string) *Handler {
	return &Handler{store: s, engine: engine, validator: validator, token: token}
}

// Routes builds the net/http.ServeMux for the job control plane, using the
// Go 1.22+ method+path pattern syntax the way the teacher's gateway layer
// does for its own handler registration.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/jobs", h.listJobs)
	mux.HandleFunc("GET /api/jobs/{id}", h.getJob)
	mux.HandleFunc("POST /api/jobs", requireAuth(h.token, h.createJob))
	mux.HandleFunc("PUT /api/jobs/{id}", requireAuth(h.token, h.updateJob))
	mux.HandleFunc("DELETE /api/jobs/{id}", requireAuth(h.token, h.deleteJob))
	mux.HandleFunc("GET /healthz", h.healthz)

	return traced(mux)
}

// traced wraps the mux with one span per request.
func traced(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := telemetry.Tracer().Start(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
