// Package handler exposes the wizard over a JSON API plus the embedded
// static frontend. Responses carry localized error messages; the raw error
// detail stays in the server log.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/edutools-id/bikinsoal/internal/catalog"
	"github.com/edutools-id/bikinsoal/internal/exam"
	"github.com/edutools-id/bikinsoal/internal/export"
	"github.com/edutools-id/bikinsoal/internal/history"
	"github.com/edutools-id/bikinsoal/internal/i18n"
	"github.com/edutools-id/bikinsoal/internal/ingest"
	"github.com/edutools-id/bikinsoal/internal/model"
	"github.com/edutools-id/bikinsoal/internal/wizard"
)

// Uploads larger than this are rejected before extraction.
const maxUploadBytes = 10 << 20

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	cat  *catalog.Catalog
	ctrl *wizard.Controller
	hist *history.Store
}

// New creates a new Handler.
func New(cat *catalog.Catalog, ctrl *wizard.Controller, hist *history.Store) *Handler {
	return &Handler{cat: cat, ctrl: ctrl, hist: hist}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", h.handleCatalog)
		r.Post("/validate", h.handleValidate)
		r.Post("/upload", h.handleUpload)
		r.Post("/generate", h.handleGenerate)
		r.Post("/refine", h.handleRefine)
		r.Post("/view", h.handleView)
		r.Post("/export", h.handleExport)
		r.Get("/history", h.handleHistoryList)
		r.Delete("/history", h.handleHistoryClear)
		r.Delete("/history/{id}", h.handleHistoryDelete)
	})
	r.Get("/*", h.handleStatic)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// writeError sends a localized error payload. The message id resolves via
// the request's localizer; msgID is the fallback when no translation exists.
func writeError(ctx context.Context, w http.ResponseWriter, status int, msgID string) {
	writeJSON(w, status, map[string]string{"error": i18n.T(ctx, msgID)})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cat)
}

type validateRequest struct {
	Step    int                   `json:"step,omitempty"` // 0 = all steps
	Request model.QuestionRequest `json:"request"`
}

type validateResponse struct {
	Valid   bool             `json:"valid"`
	Missing map[int][]string `json:"missing,omitempty"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "ErrInvalidJSON")
		return
	}

	if req.Step != 0 {
		missing := wizard.StepMissing(req.Request, req.Step)
		resp := validateResponse{Valid: len(missing) == 0}
		if len(missing) > 0 {
			resp.Missing = map[int][]string{req.Step: missing}
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	if err := wizard.Validate(req.Request); err != nil {
		writeJSON(w, http.StatusOK, validateResponse{Valid: false, Missing: err.Missing})
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: true})
}

type uploadResponse struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "ErrFileRead")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "ErrFileRead")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "ErrFileRead")
		return
	}

	text, err := ingest.ExtractText(header.Filename, data)
	if err != nil {
		slog.Warn("upload rejected", "file", header.Filename, "error", err)
		if errors.Is(err, ingest.ErrUnsupportedFile) {
			writeError(r.Context(), w, http.StatusUnsupportedMediaType, "ErrUnsupportedFile")
		} else {
			writeError(r.Context(), w, http.StatusBadRequest, "ErrFileRead")
		}
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{FileName: header.Filename, Content: text})
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "ErrInvalidJSON")
		return
	}

	item, err := h.ctrl.Generate(r.Context(), req)
	if err != nil {
		h.writeWizardError(r.Context(), w, err, "ErrGenerationFailed")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type refineRequest struct {
	Action  string `json:"action"`
	Content string `json:"content"`
}

type refineResponse struct {
	Result string `json:"result"`
}

func (h *Handler) handleRefine(w http.ResponseWriter, r *http.Request) {
	var req refineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "ErrInvalidJSON")
		return
	}
	if !model.IsValidRefineAction(req.Action) {
		writeError(r.Context(), w, http.StatusBadRequest, "ErrUnknownAction")
		return
	}

	result, err := h.ctrl.Refine(r.Context(), model.RefineAction(req.Action), req.Content)
	if err != nil {
		h.writeWizardError(r.Context(), w, err, "ErrRefineFailed")
		return
	}
	writeJSON(w, http.StatusOK, refineResponse{Result: result})
}

// writeWizardError maps controller failures onto the response taxonomy:
// incomplete requests and busy rejections are client-visible conditions,
// everything else is an upstream failure with a generic localized message.
func (h *Handler) writeWizardError(ctx context.Context, w http.ResponseWriter, err error, fallbackID string) {
	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr):
		var fields []string
		for _, step := range []int{wizard.StepMaterial, wizard.StepFormat, wizard.StepStyle} {
			fields = append(fields, verr.Missing[step]...)
		}
		msg := i18n.Td(ctx, "ErrIncompleteRequest", map[string]any{"Fields": strings.Join(fields, ", ")})
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": msg, "missing": verr.Missing})
	case errors.Is(err, wizard.ErrBusy):
		writeError(ctx, w, http.StatusConflict, "ErrBusy")
	default:
		slog.Error("wizard call failed", "error", err)
		writeError(ctx, w, http.StatusBadGateway, fallbackID)
	}
}

type viewRequest struct {
	Content string `json:"content"`
	Mode    string `json:"mode"`
}

type viewResponse struct {
	Mode     string         `json:"mode"`
	Content  string         `json:"content"`
	Elements []exam.Element `json:"elements"`
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "ErrInvalidJSON")
		return
	}
	if !exam.IsValidViewMode(req.Mode) {
		writeError(r.Context(), w, http.StatusBadRequest, "ErrUnknownView")
		return
	}

	content := exam.ProjectRaw(req.Content, exam.ViewMode(req.Mode))
	writeJSON(w, http.StatusOK, viewResponse{
		Mode:     req.Mode,
		Content:  content,
		Elements: exam.ParseElements(content),
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "ErrInvalidJSON")
		return
	}
	if !exam.IsValidViewMode(req.Mode) {
		writeError(r.Context(), w, http.StatusBadRequest, "ErrUnknownView")
		return
	}

	doc := export.Build(req.Content, exam.ViewMode(req.Mode))
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		slog.Error("writing export", "error", err)
	}
}

func (h *Handler) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	items, err := h.hist.List()
	if err != nil {
		slog.Error("listing history", "error", err)
		writeError(r.Context(), w, http.StatusInternalServerError, "ErrHistory")
		return
	}
	if items == nil {
		items = []model.HistoryItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.hist.Delete(chi.URLParam(r, "id")); err != nil {
		slog.Error("deleting history item", "error", err)
		writeError(r.Context(), w, http.StatusInternalServerError, "ErrHistory")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	if err := h.hist.Clear(); err != nil {
		slog.Error("clearing history", "error", err)
		writeError(r.Context(), w, http.StatusInternalServerError, "ErrHistory")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
