// Package hint classifies agent execution failures into human-readable
// remediation hints. Classification is purely textual: the failure text is
// matched against an ordered list of substring rules and the first matching
// rule wins. Unmatched failures fall back to a generic hint; classification
// itself never fails.
package hint

import "strings"

// Kind is the coarse-grained failure category. The set mirrors the categories
// providers actually surface: it is intentionally small and suitable for UX
// decisions, not for retry logic.
type Kind string

const (
	// KindQuota indicates exhausted credits or a billing problem.
	KindQuota Kind = "quota"

	// KindRateLimited indicates the provider is throttling requests.
	KindRateLimited Kind = "rate_limited"

	// KindAuth indicates a missing or invalid provider API key.
	KindAuth Kind = "auth"

	// KindInvalidRequest indicates a malformed request that will not succeed
	// on retry without changes.
	KindInvalidRequest Kind = "invalid_request"

	// KindModelNotFound indicates the requested model does not exist or is not
	// accessible.
	KindModelNotFound Kind = "model_not_found"

	// KindUnavailable indicates a network or connectivity failure.
	KindUnavailable Kind = "unavailable"

	// KindTimeout indicates the request timed out.
	KindTimeout Kind = "timeout"

	// KindUnknown indicates an unclassified failure.
	KindUnknown Kind = "unknown"
)

// Hint is the remediation guidance derived from a failure. All fields are
// display-ready; Advice entries are independent suggestions ordered by
// likelihood of helping.
type Hint struct {
	// Kind is the failure category the hint was derived from.
	Kind Kind
	// Title is a short headline suitable for a status label.
	Title string
	// Message is a one-sentence explanation of what went wrong.
	Message string
	// Advice lists concrete remediation steps.
	Advice []string
}

// rule maps a set of lowercase substrings to a hint. The first rule with any
// matching substring wins, so rule order is part of the contract: quota and
// rate-limit rules precede the key rules because provider quota errors often
// mention "api" as well.
type rule struct {
	patterns []string
	hint     Hint
}

var rules = []rule{
	{
		patterns: []string{"insufficient_quota", "insufficientquota", "billing", "exceeded your current quota"},
		hint: Hint{
			Kind:    KindQuota,
			Title:   "Out of credits",
			Message: "The provider account has insufficient API credits.",
			Advice: []string{
				"Top up credits on the provider's billing page.",
				"Check whether a spending cap was reached.",
			},
		},
	},
	{
		patterns: []string{"ratelimit", "rate_limit", "rate limit", "429", "too many requests"},
		hint: Hint{
			Kind:    KindRateLimited,
			Title:   "Rate limit exceeded",
			Message: "The provider is throttling requests for this account.",
			Advice: []string{
				"Wait a moment and retry.",
				"Review the account's usage tier and request rate.",
			},
		},
	},
	{
		patterns: []string{"anthropic_api_key", "anthropic authentication"},
		hint: Hint{
			Kind:    KindAuth,
			Title:   "Anthropic API key error",
			Message: "The Anthropic API key is missing or invalid.",
			Advice: []string{
				"Set the ANTHROPIC_API_KEY environment variable.",
				"Issue a key at https://console.anthropic.com/.",
			},
		},
	},
	{
		patterns: []string{"google_api_key", "google api key"},
		hint: Hint{
			Kind:    KindAuth,
			Title:   "Google API key error",
			Message: "The Google API key is missing or invalid.",
			Advice: []string{
				"Set the GOOGLE_API_KEY environment variable.",
				"Issue a key at https://aistudio.google.com/apikey.",
			},
		},
	},
	{
		patterns: []string{"authenticationerror", "invalid_api_key", "incorrect api key", "openai_api_key", "api key", "api_key", "401", "unauthorized"},
		hint: Hint{
			Kind:    KindAuth,
			Title:   "API key error",
			Message: "The provider API key is missing or invalid.",
			Advice: []string{
				"Set the provider's API key environment variable or pass the key explicitly.",
				"Verify the key has not been revoked or rotated.",
			},
		},
	},
	{
		patterns: []string{"invalidrequesterror", "invalid_request", "invalid request", "400"},
		hint: Hint{
			Kind:    KindInvalidRequest,
			Title:   "Invalid request",
			Message: "The request sent to the provider was malformed.",
			Advice: []string{
				"Check the input payload and the model name.",
			},
		},
	},
	{
		patterns: []string{"model_not_found", "model not found", "does not exist", "invalid model", "no such model"},
		hint: Hint{
			Kind:    KindModelNotFound,
			Title:   "Model error",
			Message: "The requested model could not be found.",
			Advice: []string{
				"Verify the model name and that the account has access to it.",
			},
		},
	},
	{
		patterns: []string{"connectionerror", "connection refused", "could not connect", "connection reset", "network", "no such host", "dial tcp"},
		hint: Hint{
			Kind:    KindUnavailable,
			Title:   "Network error",
			Message: "The provider API could not be reached.",
			Advice: []string{
				"Check the network connection, firewall and proxy settings.",
			},
		},
	},
	{
		patterns: []string{"timeouterror", "timed out", "timeout", "deadline exceeded"},
		hint: Hint{
			Kind:    KindTimeout,
			Title:   "Request timed out",
			Message: "The provider did not respond in time.",
			Advice: []string{
				"Check the network connection and retry shortly.",
			},
		},
	},
}

// fallback is returned when no rule matches.
var fallback = Hint{
	Kind:    KindUnknown,
	Title:   "Agent error",
	Message: "The agent run failed with an unrecognized error.",
	Advice: []string{
		"Inspect the raw error message below for details.",
	},
}

// Classify derives a remediation hint from err. A nil error yields the generic
// fallback hint.
func Classify(err error) Hint {
	if err == nil {
		return fallback
	}
	return ClassifyText(err.Error())
}

// ClassifyText derives a remediation hint from the textual representation of a
// failure. Matching is case-insensitive; the first rule with any matching
// substring wins.
func ClassifyText(text string) Hint {
	lowered := strings.ToLower(text)
	for _, r := range rules {
		for _, p := range r.patterns {
			if strings.Contains(lowered, p) {
				return r.hint
			}
		}
	}
	return fallback
}
