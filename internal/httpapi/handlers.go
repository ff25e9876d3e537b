package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nextlevelbuilder/goclaw-scheduler/internal/domain"
	"github.com/nextlevelbuilder/goclaw-scheduler/internal/store"
)

// jobDTO is the wire representation of a job: task_type/payload stay as an
// opaque string tag + JSON fragment pair, mirroring the persisted JobRaw
// shape rather than the lifted runtime TaskPayload.
type jobDTO struct {
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Cron     string          `json:"cron"`
	TaskType string          `json:"task_type"`
	Payload  json.RawMessage `json:"payload"`
	LastRun  *time.Time      `json:"last_run,omitempty"`
	Status   string          `json:"status,omitempty"`
	Message  string          `json:"message,omitempty"`
}

func rawToDTO(raw domain.JobRaw) jobDTO {
	return jobDTO{
		ID:       raw.ID,
		Name:     raw.Name,
		Cron:     raw.Cron,
		TaskType: raw.TaskType,
		Payload:  json.RawMessage(raw.Payload),
		LastRun:  raw.LastRun,
		Status:   string(raw.Status),
		Message:  raw.Message,
	}
}

// Reloader is the subset of engine.Engine the HTTP layer depends on — the
// control interface to the engine. Declared as an interface here so
// handler tests can supply a fake without constructing a real engine.
type Reloader interface {
	ReloadJobByID(ctx context.Context, id string)
}

func (h *Handler) decodeJob(w http.ResponseWriter, r *http.Request) (jobDTO, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var dto jobDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return jobDTO{}, false
	}
	return dto, true
}

// createJob handles POST /api/jobs.
func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	dto, ok := h.decodeJob(w, r)
	if !ok {
		return
	}
	if dto.Name == "" || dto.Cron == "" || dto.TaskType == "" {
		writeError(w, http.StatusBadRequest, "name, cron, and task_type are required")
		return
	}
	if !h.validator.IsValid(dto.Cron) {
		writeError(w, http.StatusBadRequest, "invalid cron expression")
		return
	}
	if _, err := domain.LiftTaskPayload(dto.TaskType, string(dto.Payload)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := dto.ID
	if id == "" {
		id = uuid.New().String()
	}

	raw := domain.JobRaw{
		ID:       id,
		Name:     dto.Name,
		Cron:     dto.Cron,
		TaskType: dto.TaskType,
		Payload:  string(dto.Payload),
		Status:   domain.StatusScheduled,
	}

	if err := h.store.Create(r.Context(), raw); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "job id already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	h.engine.ReloadJobByID(r.Context(), id)
	writeJSON(w, http.StatusCreated, rawToDTO(raw))
}

// listJobs handles GET /api/jobs.
func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	dtos := make([]jobDTO, 0, len(jobs))
	for _, j := range jobs {
		dtos = append(dtos, rawToDTO(j))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// getJob handles GET /api/jobs/{id}.
func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get job")
		return
	}
	writeJSON(w, http.StatusOK, rawToDTO(job))
}

// updateJob handles PUT /api/jobs/{id}.
func (h *Handler) updateJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	dto, ok := h.decodeJob(w, r)
	if !ok {
		return
	}
	if dto.Cron != "" && !h.validator.IsValid(dto.Cron) {
		writeError(w, http.StatusBadRequest, "invalid cron expression")
		return
	}

	existing, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get job")
		return
	}

	if dto.Name != "" {
		existing.Name = dto.Name
	}
	if dto.Cron != "" {
		existing.Cron = dto.Cron
	}
	if dto.TaskType != "" {
		existing.TaskType = dto.TaskType
	}
	if len(dto.Payload) > 0 {
		existing.Payload = string(dto.Payload)
	}
	if dto.Status != "" {
		status := domain.JobStatus(dto.Status)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		existing.Status = status
	}

	if _, err := domain.LiftTaskPayload(existing.TaskType, existing.Payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Update(r.Context(), existing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update job")
		return
	}

	h.engine.ReloadJobByID(r.Context(), id)
	writeJSON(w, http.StatusOK, rawToDTO(existing))
}

// deleteJob handles DELETE /api/jobs/{id}.
func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete job")
		return
	}
	// No explicit cancel: the corresponding loop detects the absence on
	// its next store re-read and exits (spec §4.9 / §9 S6). We still call
	// reload here so the common case (no in-flight tick) tears the loop
	// down immediately instead of waiting out its current sleep.
	h.engine.ReloadJobByID(r.Context(), id)
	w.WriteHeader(http.StatusOK)
}
