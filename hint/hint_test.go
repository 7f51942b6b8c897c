package hint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyText(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Kind
	}{
		{name: "invalid api key", text: "AuthenticationError: invalid_api_key provided", want: KindAuth},
		{name: "incorrect key", text: "Incorrect API key provided: sk-...", want: KindAuth},
		{name: "anthropic key", text: "anthropic authentication failed: set ANTHROPIC_API_KEY", want: KindAuth},
		{name: "google key", text: "missing GOOGLE_API_KEY environment variable", want: KindAuth},
		{name: "rate limit beats api substrings", text: "RateLimitError: rate_limit_exceeded on api requests", want: KindRateLimited},
		{name: "429", text: "HTTP 429 Too Many Requests", want: KindRateLimited},
		{name: "quota beats api key", text: "insufficient_quota: your api key has no remaining credits", want: KindQuota},
		{name: "billing", text: "billing hard limit reached", want: KindQuota},
		{name: "invalid request", text: "InvalidRequestError: unsupported parameter", want: KindInvalidRequest},
		{name: "model missing", text: "The model `gpt-99` does not exist", want: KindModelNotFound},
		{name: "connection refused", text: "ConnectionError: could not connect to host", want: KindUnavailable},
		{name: "dial failure", text: "dial tcp 10.0.0.1:443: connect: connection refused", want: KindUnavailable},
		{name: "timeout", text: "request timed out after 60s", want: KindTimeout},
		{name: "deadline", text: "context deadline exceeded", want: KindTimeout},
		{name: "unmatched falls back", text: "something inexplicable happened", want: KindUnknown},
		{name: "empty falls back", text: "", want: KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyText(tc.text)
			assert.Equal(t, tc.want, got.Kind)
			assert.NotEmpty(t, got.Title)
			assert.NotEmpty(t, got.Message)
			assert.NotEmpty(t, got.Advice)
		})
	}
}

func TestClassify(t *testing.T) {
	got := Classify(errors.New("could not connect: connection refused"))
	require.Equal(t, KindUnavailable, got.Kind)
}

func TestClassifyNil(t *testing.T) {
	got := Classify(nil)
	require.Equal(t, KindUnknown, got.Kind)
}

// Rule order is part of the contract: quota and rate-limit rules must win over
// the key rules for texts that mention both.
func TestRuleOrdering(t *testing.T) {
	require.Equal(t, KindQuota, ClassifyText("insufficient_quota for this api_key").Kind)
	require.Equal(t, KindRateLimited, ClassifyText("rate limit reached for api key sk-1").Kind)
}
