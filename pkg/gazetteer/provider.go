package gazetteer

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/bosun-marine/bosun-engine/pkg/models"
)

// Provider hands out the current gazetteer snapshot. The store behind it is
// immutable; Reload builds a replacement and swaps the pointer atomically,
// so in-flight requests keep the snapshot they started with.
type Provider struct {
	current   atomic.Pointer[Store]
	overrides map[models.EntityType]int
	logger    *zap.Logger
}

// NewProvider loads the embedded gazetteer and returns a provider for it.
func NewProvider(overrides map[models.EntityType]int, logger *zap.Logger) (*Provider, error) {
	store, err := Load(overrides)
	if err != nil {
		return nil, err
	}
	p := &Provider{overrides: overrides, logger: logger.Named("gazetteer")}
	p.current.Store(store)
	p.logger.Info("Gazetteer loaded",
		zap.String("version", store.Version()),
		zap.Int("phrases", store.EntryCount()))
	return p, nil
}

// Current returns the active snapshot.
func (p *Provider) Current() *Store {
	return p.current.Load()
}

// Reload parses a new source and swaps it in. On parse failure the active
// snapshot stays in place.
func (p *Provider) Reload(source []byte) error {
	store, err := LoadSource(source, p.overrides)
	if err != nil {
		p.logger.Error("Gazetteer reload rejected", zap.Error(err))
		return err
	}
	p.current.Store(store)
	p.logger.Info("Gazetteer reloaded",
		zap.String("version", store.Version()),
		zap.Int("phrases", store.EntryCount()))
	return nil
}
