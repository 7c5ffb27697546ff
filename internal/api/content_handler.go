package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/content-generator/internal/api/shared"
	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/phrazzld/content-generator/internal/platform/logger"
	"github.com/phrazzld/content-generator/internal/service"
)

// GenerateContentRequest represents the request body for content generation.
type GenerateContentRequest struct {
	Prompt   string                     `json:"prompt"`
	Settings *domain.GenerationSettings `json:"settings"`
	Model    string                     `json:"model"`
	UserID   string                     `json:"userId"`
}

// hasRequiredFields reports whether prompt, settings and userId are present.
func (r GenerateContentRequest) hasRequiredFields() bool {
	return r.Prompt != "" && r.Settings != nil && r.UserID != ""
}

// ContentHandler handles content generation HTTP requests
type ContentHandler struct {
	contentService service.ContentService
	logger         *slog.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService service.ContentService, logger *slog.Logger) *ContentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentHandler{
		contentService: contentService,
		logger:         logger.With("component", "content_handler"),
	}
}

// GenerateContent handles POST /generate-content requests
func (h *ContentHandler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req GenerateContentRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, ErrInvalidJSON, "")
		return
	}

	if !req.hasRequiredFields() {
		HandleAPIError(w, r, ErrMissingFields, "")
		return
	}

	if err := shared.ValidateRequest(req.Settings); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if subject, ok := shared.GetSubject(r.Context()); ok && subject != req.UserID {
		log.Warn("request user does not match token subject", "subject", subject, "user_id", req.UserID)
		HandleAPIError(w, r, ErrSubjectMismatch, "")
		return
	}

	genReq, err := domain.NewGenerationRequest(req.Prompt, *req.Settings, strings.TrimSpace(req.Model), req.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("generating content",
		"user_id", genReq.RequesterID,
		"model", genReq.RequestedModel,
		"content_length", genReq.Settings.TargetLength())

	content, err := h.contentService.GenerateContent(r.Context(), genReq)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, content)
}

// Options answers CORS preflight requests with an empty 200.
func (h *ContentHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
