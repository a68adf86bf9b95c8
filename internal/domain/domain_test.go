package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Visible(t *testing.T) {
	tests := []struct {
		name    string
		status  Status
		visible bool
		isError bool
	}{
		{"zero", Status{}, false, false},
		{"idle", Idle(), false, false},
		{"pending", Pending(), false, false},
		{"succeeded", Succeeded(MsgShortened), true, false},
		{"failed", Failed(MsgInvalidOrExpired), true, true},
		{"failed without message", Failed(""), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.visible, tt.status.Visible())
			assert.Equal(t, tt.isError, tt.status.IsError())
		})
	}
}

func TestStatus_Normalize(t *testing.T) {
	assert.Equal(t, Idle(), Status{}.Normalize())
	assert.Equal(t, Pending(), Pending().Normalize())
	assert.True(t, Pending().IsPending())
	assert.True(t, Status{}.IsZero())
	assert.False(t, Idle().IsZero())
}

func TestErrorResponse_Message(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"URL already exists"}`, "URL already exists"},
		{"validation list", `{"detail":[{"msg":"invalid url"},{"msg":"too long"}]}`, "invalid url; too long"},
		{"list without msg", `{"detail":[{"loc":["body"]}]}`, ""},
		{"no detail", `{}`, ""},
		{"object detail", `{"detail":{"code":1}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp ErrorResponse
			assert.NoError(t, json.Unmarshal([]byte(tt.body), &resp))
			assert.Equal(t, tt.want, resp.Message())
		})
	}
}

func TestDisplayShortURL(t *testing.T) {
	assert.Equal(t, "https://sho.rt/abc123", DisplayShortURL("https://sho.rt", "abc123"))
	assert.Equal(t, "https://sho.rt/abc123", DisplayShortURL("https://sho.rt/", "abc123"))
}

func TestUserMessage(t *testing.T) {
	resErr := &ResolutionError{Code: "abc", Err: ErrNotFound}
	assert.Equal(t, MsgInvalidOrExpired, UserMessage(resErr))
	assert.Equal(t, MsgInvalidOrExpired, UserMessage(fmt.Errorf("wrapped: %w", resErr)))
	assert.True(t, errors.Is(resErr, ErrNotFound))

	assert.Equal(t, "URL already exists", UserMessage(NewSubmissionError(errors.New("400"), "URL already exists")))
	assert.Equal(t, MsgGenericError, UserMessage(NewSubmissionError(ErrMalformedResponse, "")))
	assert.True(t, errors.Is(NewSubmissionError(ErrMalformedResponse, ""), ErrMalformedResponse))

	assert.Equal(t, MsgGenericError, UserMessage(errors.New("boom")))
}
