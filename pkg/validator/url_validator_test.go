package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireURL(t *testing.T) {
	assert.Error(t, RequireURL(""))

	// Blank but non-empty input is the service's to judge
	assert.NoError(t, RequireURL("   "))

	// No syntax checks client side
	assert.NoError(t, RequireURL("not a url"))
	assert.NoError(t, RequireURL("https://example.com/very/long/path"))
}

func TestValidateDestination(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://example.com/very/long/path", true},
		{"http://example.com", true},
		{"HTTPS://EXAMPLE.COM/x", true},
		{"", false},
		{"javascript:alert(1)", false},
		{"data:text/html,hi", false},
		{"ftp://example.com/file", false},
		{"/relative/path", false},
		{"https://", false},
		{"://broken", false},
	}

	for _, tt := range tests {
		err := ValidateDestination(tt.url)
		if tt.valid {
			assert.NoError(t, err, tt.url)
		} else {
			assert.Error(t, err, tt.url)
		}
	}
}

func TestIsSafeURL(t *testing.T) {
	assert.True(t, IsSafeURL("https://example.com"))
	assert.False(t, IsSafeURL("JavaScript:alert(1)"))
	assert.False(t, IsSafeURL(" vbscript:msgbox"))
}
