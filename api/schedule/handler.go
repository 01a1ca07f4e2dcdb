package schedule

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/dutymgr/dutymgr/core/roster"
	"github.com/dutymgr/dutymgr/infra/logger"
	"github.com/dutymgr/dutymgr/internal/store"
)

// maxBodyBytes caps accepted request payloads.
const maxBodyBytes = 4 << 20

// Handler exposes the schedule HTTP API.
type Handler struct {
	mgr   *roster.ScheduleManager
	store *store.FileStore
	log   logger.Logger
}

// NewHandler builds a Handler around the manager and schedule store.
func NewHandler(mgr *roster.ScheduleManager, st *store.FileStore) *Handler {
	return &Handler{
		mgr:   mgr,
		store: st,
		log:   logger.New("schedule-api"),
	}
}

// Register attaches the API routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.health)
	mux.HandleFunc("POST /api/save", h.save)
	mux.HandleFunc("GET /api/load", h.load)
	mux.HandleFunc("GET /api/export", h.export)
	mux.HandleFunc("POST /api/generate", h.generate)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"dataFileExists": h.store.Exists(),
	})
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if err := h.store.Save(body); err != nil {
		h.log.Errorf("save failed: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Handler) load(w http.ResponseWriter, _ *http.Request) {
	doc, err := h.store.Load()
	if err != nil {
		h.log.Errorf("load failed: %v", err)
		writeError(w, http.StatusInternalServerError, "load failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *Handler) export(w http.ResponseWriter, _ *http.Request) {
	doc, err := h.store.Load()
	if err != nil {
		h.log.Errorf("export failed: %v", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	name := "schedule_export_" + time.Now().Format("20060102") + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req roster.GenerateRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	sched, err := h.mgr.Generate(req)
	if err != nil {
		h.log.Warnf("generation rejected: %v", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
