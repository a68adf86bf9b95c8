package service

import (
	"context"
)

// Resolver turns a short code into the destination URL
type Resolver interface {
	// Resolve performs one lookup; every failure is a *domain.ResolutionError
	Resolve(ctx context.Context, code string) (string, error)
}

// Submitter turns a long URL into a fully-qualified short link
type Submitter interface {
	// Submit performs one shorten call; failures are *domain.SubmissionError
	// or domain.ErrEmptyURL when rawURL is blank
	Submit(ctx context.Context, rawURL, origin string) (string, error)
}
