package service

import (
	"context"
	"errors"

	"url-shortener-web/internal/client"
	"url-shortener-web/internal/domain"
	"url-shortener-web/pkg/logger"
	"url-shortener-web/pkg/validator"
)

// submitter implements Submitter on top of the link service
type submitter struct {
	links  client.LinkService
	logger *logger.Logger
}

// NewSubmitter creates a submitter with dependencies injected
func NewSubmitter(links client.LinkService, logger *logger.Logger) Submitter {
	return &submitter{
		links:  links,
		logger: logger,
	}
}

// Submit sends rawURL as-is and composes the displayed short link from origin.
// No retry is attempted; the user resubmits.
func (s *submitter) Submit(ctx context.Context, rawURL, origin string) (string, error) {
	if err := validator.RequireURL(rawURL); err != nil {
		return "", domain.ErrEmptyURL
	}

	resp, err := s.links.Shorten(ctx, &domain.ShortenRequest{OriginalURL: rawURL})
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			s.logger.Warn("Link service rejected URL", "status", apiErr.StatusCode, "detail", apiErr.Detail)
			return "", domain.NewSubmissionError(err, apiErr.Detail)
		}

		s.logger.Error("Shorten request failed", "error", err)
		return "", domain.NewSubmissionError(err, "")
	}

	if resp.ShortURL == "" {
		s.logger.Error("Link service returned empty short url")
		return "", domain.NewSubmissionError(domain.ErrMalformedResponse, "")
	}

	display := domain.DisplayShortURL(origin, resp.ShortURL)
	s.logger.Info("URL shortened successfully", "short_url", display)

	return display, nil
}
