package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/bosun-marine/bosun-engine/pkg/apperrors"
	"github.com/bosun-marine/bosun-engine/pkg/auth"
	"github.com/bosun-marine/bosun-engine/pkg/logging"
	"github.com/bosun-marine/bosun-engine/pkg/models"
	"github.com/bosun-marine/bosun-engine/pkg/services"
)

// SearchRequest for POST /api/search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// SearchHandler adapts HTTP to the search service. It only decodes the
// request, resolves the caller's identity, and relays the response; the
// pipeline itself lives behind services.SearchService.
type SearchHandler struct {
	searchService services.SearchService
	maxResults    int
	logger        *zap.Logger
}

// NewSearchHandler creates a new search handler. maxResults caps the
// per-response result count; non-positive values fall back to the
// service default.
func NewSearchHandler(searchService services.SearchService, maxResults int, logger *zap.Logger) *SearchHandler {
	if maxResults <= 0 {
		maxResults = services.DefaultResultLimit
	}
	return &SearchHandler{searchService: searchService, maxResults: maxResults, logger: logger}
}

// RegisterRoutes registers the search handler's routes on the given mux.
func (h *SearchHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/search", h.Search)
}

// Search handles POST /api/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	identity, err := h.resolveIdentity(r)
	if err != nil {
		_ = ErrorResponse(w, http.StatusUnauthorized, "invalid_identity", err.Error())
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "empty_query", "Query text is required")
		return
	}
	if req.Limit <= 0 || req.Limit > h.maxResults {
		req.Limit = h.maxResults
	}

	resp, err := h.searchService.Resolve(r.Context(), identity, req.Query, req.Limit)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrServiceUnavailable):
			// Degraded infrastructure, not an empty result set.
			_ = ErrorResponse(w, http.StatusServiceUnavailable, "service_error", "Search backend unavailable")
		case errors.Is(err, apperrors.ErrInvalidIdentity):
			_ = ErrorResponse(w, http.StatusUnauthorized, "invalid_identity", err.Error())
		case errors.Is(err, apperrors.ErrContractViolation):
			h.logger.Error("Search hit a pipeline contract violation",
				zap.String("code", string(apperrors.CodeContractViolation)),
				zap.String("yacht_id", identity.YachtID.String()),
				zap.String("error", logging.SanitizeError(err)))
			_ = ErrorResponse(w, http.StatusInternalServerError, "search_failed", "Search failed")
		default:
			h.logger.Error("Search resolution failed",
				zap.String("yacht_id", identity.YachtID.String()),
				zap.String("error", logging.SanitizeError(err)))
			_ = ErrorResponse(w, http.StatusInternalServerError, "search_failed", "Search failed")
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to write search response", zap.Error(err))
	}
}

// resolveIdentity prefers an identity already placed in context by
// upstream middleware, falling back to decoding the bearer token the
// gateway has already validated.
func (h *SearchHandler) resolveIdentity(r *http.Request) (models.Identity, error) {
	if identity, ok := auth.GetIdentity(r.Context()); ok {
		return identity, nil
	}

	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return models.Identity{}, apperrors.ErrInvalidIdentity
	}
	return auth.IdentityFromToken(token)
}
