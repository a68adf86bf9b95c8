package validator

import (
	"net/url"
	"strings"
)

var (
	// navigableSchemes lists schemes a resolved destination may use
	navigableSchemes = map[string]bool{
		"http":  true,
		"https": true,
	}

	// dangerousSchemes are never followed even if the service returns them
	dangerousSchemes = map[string]bool{
		"javascript": true,
		"data":       true,
		"vbscript":   true,
	}
)

// RequireURL enforces the required-field constraint of the submission form.
// Only the empty string is rejected; syntax is left to the link service.
func RequireURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL cannot be empty"}
	}
	return nil
}

// ValidateDestination checks that a resolved URL can be used for a full navigation
func ValidateDestination(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "Destination is empty"}
	}

	if !IsSafeURL(rawURL) {
		return &ValidationError{Field: "url", Message: "Destination uses a blocked scheme"}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: "Invalid URL structure"}
	}

	if !navigableSchemes[strings.ToLower(parsed.Scheme)] {
		return &ValidationError{Field: "url", Message: "Unsupported URL scheme"}
	}

	if parsed.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must contain a host"}
	}

	return nil
}

// IsSafeURL checks if URL points to potentially dangerous protocols
func IsSafeURL(rawURL string) bool {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}

	return !dangerousSchemes[strings.ToLower(parsed.Scheme)]
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
