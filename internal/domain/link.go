package domain

import (
	"encoding/json"
	"strings"
)

// ShortenRequest is the payload sent to the remote shorten endpoint
type ShortenRequest struct {
	OriginalURL string `json:"original_url"`
}

// ShortenResponse is the remote service's answer to a successful shorten call
type ShortenResponse struct {
	ShortURL string `json:"short_url"`
}

// LookupResponse is the remote service's answer to a successful lookup
// The URL is consumed once to trigger a full navigation and is not retained
type LookupResponse struct {
	URL string `json:"url"`
}

// ErrorResponse is the error body returned by the remote service
// Detail is either a plain string or a list of validation issues
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail,omitempty"`
}

// validationIssue is one entry of a list-shaped detail
type validationIssue struct {
	Msg string `json:"msg"`
}

// Message extracts the most specific human readable message from Detail
// Returns empty string when the body carries no usable detail
func (r ErrorResponse) Message() string {
	if len(r.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(r.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var issues []validationIssue
	if err := json.Unmarshal(r.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if issue.Msg != "" {
				msgs = append(msgs, issue.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}

// DisplayShortURL composes the fully-qualified short link shown to the user
func DisplayShortURL(origin, shortURL string) string {
	return strings.TrimSuffix(origin, "/") + "/" + shortURL
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
