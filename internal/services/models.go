package services

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/agentchat/internal/logging"
)

// ModelLister lists the models installed on the inference backend.
type ModelLister interface {
	Models(ctx context.Context) ([]string, error)
}

// ModelService offers the models a chat can pick from.
type ModelService struct {
	lister       ModelLister
	defaultModel string
	fallback     []string
	logger       logging.Logger
}

func NewModelService(l ModelLister, defaultModel string, fallback []string, logger logging.Logger) *ModelService {
	return &ModelService{
		lister:       l,
		defaultModel: defaultModel,
		fallback:     slices.Clone(fallback),
		logger:       logger.With("module", "models"),
	}
}

func (s *ModelService) Default() string {
	return s.defaultModel
}

// Available returns the installed models, or the fallback list when the
// backend cannot be asked or reports none.
func (s *ModelService) Available(ctx context.Context) []string {
	names, err := s.lister.Models(ctx)
	if err != nil {
		s.logger.Warn(ctx, "listing models failed, using fallback", "error", err)
		return slices.Clone(s.fallback)
	}
	if len(names) == 0 {
		s.logger.Info(ctx, "no models installed, using fallback")
		return slices.Clone(s.fallback)
	}
	return names
}

// Resolve returns model, or the default model when model is empty.
func (s *ModelService) Resolve(model string) string {
	if model == "" {
		return s.defaultModel
	}
	return model
}
