package files

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/file-lab/internal/uploads"
	"github.com/JaimeStill/file-lab/pkg/handlers"
	"github.com/google/uuid"
)

// memoryBufferSize caps the in-memory portion of multipart parsing.
// Larger parts spill to disk before normalization.
const memoryBufferSize = 32 << 20

// Handler provides HTTP endpoints for file operations.
type Handler struct {
	sys          System
	orchestrator *uploads.Orchestrator
	logger       *slog.Logger
	tmpDir       string
}

// NewHandler creates a file handler with the specified configuration.
func NewHandler(sys System, orchestrator *uploads.Orchestrator, logger *slog.Logger, tmpDir string) *Handler {
	return &Handler{
		sys:          sys,
		orchestrator: orchestrator,
		logger:       logger.With("handler", "files"),
		tmpDir:       tmpDir,
	}
}

// Register attaches the file endpoints to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /files", h.List)
	mux.HandleFunc("GET /files/{id}", h.Find)
	mux.HandleFunc("POST /files", h.Upload)
	mux.HandleFunc("PUT /files/{id}", h.Rename)
	mux.HandleFunc("DELETE /files/{id}", h.Delete)
	mux.HandleFunc("POST /files/bulk-delete", h.BulkDelete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"files": records})
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	f, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, f)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(memoryBufferSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	raw := uploads.FormPayload(r.MultipartForm, h.tmpDir)
	results := h.orchestrator.Process(r.Context(), raw)
	if len(results) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoFiles)
		return
	}

	var successful, failed int
	for _, res := range results {
		if res.Error == "" {
			successful++
		} else {
			failed++
		}
	}

	status := http.StatusCreated
	if successful == 0 {
		status = http.StatusBadRequest
	}

	handlers.RespondJSON(w, status, map[string]any{
		"message":    "File upload processing complete",
		"successful": successful,
		"failed":     failed,
		"results":    results,
	})
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var cmd struct {
		OriginalName string `json:"original_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	name := strings.TrimSpace(cmd.OriginalName)
	if name == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidName)
		return
	}

	f, err := h.sys.Rename(r.Context(), id, name)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, f)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{"message": "File deleted successfully"})
}

func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var cmd struct {
		FileIDs []uuid.UUID `json:"fileIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if len(cmd.FileIDs) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoIDs)
		return
	}

	result, err := h.sys.DeleteMany(r.Context(), cmd.FileIDs)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
