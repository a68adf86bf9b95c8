package service

import (
	"context"
	"fmt"

	"url-shortener-web/internal/client"
	"url-shortener-web/internal/domain"
	"url-shortener-web/pkg/logger"
	"url-shortener-web/pkg/validator"
)

// resolver implements Resolver on top of the link service
type resolver struct {
	links  client.LinkService
	logger *logger.Logger
}

// NewResolver creates a resolver with dependencies injected
func NewResolver(links client.LinkService, logger *logger.Logger) Resolver {
	return &resolver{
		links:  links,
		logger: logger,
	}
}

// Resolve looks the code up once; nothing is cached between calls
func (r *resolver) Resolve(ctx context.Context, code string) (string, error) {
	resp, err := r.links.Lookup(ctx, code)
	if err != nil {
		r.logger.Warn("Short code lookup failed", "short_code", code, "error", err)
		return "", &domain.ResolutionError{Code: code, Err: err}
	}

	if err := validator.ValidateDestination(resp.URL); err != nil {
		r.logger.Warn("Link service returned unusable destination", "short_code", code, "error", err)
		return "", &domain.ResolutionError{
			Code: code,
			Err:  fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err),
		}
	}

	r.logger.Info("Short code resolved", "short_code", code)
	return resp.URL, nil
}
