package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bosun-marine/bosun-engine/pkg/actions"
	"github.com/bosun-marine/bosun-engine/pkg/apperrors"
	"github.com/bosun-marine/bosun-engine/pkg/capability"
	"github.com/bosun-marine/bosun-engine/pkg/classify"
	"github.com/bosun-marine/bosun-engine/pkg/extract"
	"github.com/bosun-marine/bosun-engine/pkg/logging"
	"github.com/bosun-marine/bosun-engine/pkg/models"
	"github.com/bosun-marine/bosun-engine/pkg/search"
)

// DefaultResultLimit caps a response when the caller does not ask for less.
const DefaultResultLimit = 25

// SearchService resolves free-form queries into results and gated actions.
// It is the pipeline's single entry point: extraction, classification,
// composition, execution, normalization and gating, in that order.
type SearchService interface {
	// Resolve runs the full pipeline for one query. Ambiguous or sparse
	// input degrades to explore mode and still returns a response; only
	// total backend failure or internal contract violations error.
	Resolve(ctx context.Context, identity models.Identity, query string, limit int) (*models.SearchResponse, error)
}

type searchService struct {
	extractor  extract.Extractor
	classifier classify.Classifier
	composer   capability.Composer
	executor   search.Executor
	gate       actions.Gate
	logger     *zap.Logger
}

// NewSearchService wires the pipeline stages together.
func NewSearchService(
	extractor extract.Extractor,
	classifier classify.Classifier,
	composer capability.Composer,
	executor search.Executor,
	gate actions.Gate,
	logger *zap.Logger,
) SearchService {
	return &searchService{
		extractor:  extractor,
		classifier: classifier,
		composer:   composer,
		executor:   executor,
		gate:       gate,
		logger:     logger.Named("search-service"),
	}
}

var _ SearchService = (*searchService)(nil)

func (s *searchService) Resolve(ctx context.Context, identity models.Identity, query string, limit int) (*models.SearchResponse, error) {
	if !identity.Valid() {
		return nil, fmt.Errorf("%w: yacht, user and role are required", apperrors.ErrInvalidIdentity)
	}
	if limit <= 0 {
		limit = DefaultResultLimit
	}

	entities := s.extractor.Extract(ctx, query)
	if len(entities) == 0 {
		s.logger.Debug("No entities extracted",
			zap.String("code", string(apperrors.CodeExtractionDegraded)),
			zap.String("query", logging.TruncateString(query, 80)))
	}
	dc := s.classifier.Classify(ctx, entities, query)
	if dc.Mode == models.ModeExplore && len(entities) > 0 {
		s.logger.Debug("Domain ambiguous, exploring",
			zap.String("code", string(apperrors.CodeClassificationAmbiguous)),
			zap.Float64("domain_confidence", dc.DomainConfidence))
	}
	waves := s.composer.Compose(&dc)

	resp := &models.SearchResponse{
		Query:           query,
		Entities:        entities,
		Domain:          dc.Domain,
		Intent:          dc.Intent,
		Mode:            dc.Mode,
		Results:         []models.NormalizedResult{},
		ActionsByResult: map[uuid.UUID][]models.ActionDescriptor{},
	}

	if len(waves) == 0 {
		// Nothing searchable was recognized. An empty explore response
		// beats an error: the caller can still render "no matches".
		s.logger.Info("Query produced no searchable plan",
			zap.String("yacht_id", identity.YachtID.String()),
			zap.String("query", logging.TruncateString(query, 80)))
		return resp, nil
	}

	exec, err := s.executor.Execute(ctx, waves, identity.YachtID, limit)
	if err != nil {
		return nil, err
	}
	resp.Results = exec.Results
	resp.Degraded = exec.Degraded

	// Gating happens only for requests that survived to completion; a
	// cancelled context must never hand back dispatchable actions.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i := range resp.Results {
		r := &resp.Results[i]
		resp.ActionsByResult[r.ID] = s.gate.Allowed(r, identity)
	}

	s.logger.Info("Query resolved",
		zap.String("yacht_id", identity.YachtID.String()),
		zap.String("mode", string(dc.Mode)),
		zap.Int("entities", len(entities)),
		zap.Int("results", len(resp.Results)),
		zap.Bool("degraded", resp.Degraded))

	return resp, nil
}
