package taxonomy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_PatternFamilies(t *testing.T) {
	classifier := NewClassifier()

	tests := map[string]struct {
		messages []string
		expected Code
	}{
		"rate limited": {
			messages: []string{
				"Rate limit exceeded",
				"Too many requests",
				"429 from upstream",
				"request throttled by provider",
				"quota exceeded for model",
			},
			expected: RateLimited,
		},
		"authentication": {
			messages: []string{
				"Invalid API key",
				"invalid credentials supplied",
				"token has expired",
				"expired session",
				"authentication failure",
				"401 returned by provider",
			},
			expected: Authentication,
		},
		"authorization": {
			messages: []string{
				"Permission denied",
				"access denied for user",
				"Forbidden",
				"caller is not authorized to delete missions",
				"403 from control plane",
			},
			expected: Authorization,
		},
		"validation": {
			messages: []string{
				"Validation failed for field name",
				"invalid request body",
				"missing required parameter sessionId",
				"bad request",
			},
			expected: Validation,
		},
		"memory serialization": {
			messages: []string{
				"failed to parse JSON response",
				"unexpected end of JSON input",
				"could not decode memory payload",
				"malformed embedding record",
			},
			expected: MemorySerialization,
		},
		"delegation adapter": {
			messages: []string{
				"delegation adapter not registered for agent",
				"adapter unavailable",
			},
			expected: DelegationAdapterError,
		},
		"delegation execution": {
			messages: []string{
				"delegated task execution failed",
				"delegation timed out waiting for agent",
			},
			expected: DelegationExecutionError,
		},
		"remediation not found": {
			messages: []string{
				"remediation task abc123 not found",
				"no remediation record for id",
			},
			expected: RemediationTaskNotFound,
		},
		"remediation failed": {
			messages: []string{
				"remediation attempt failed",
				"could not apply remediation",
			},
			expected: RemediationFailed,
		},
		"internal fallthrough": {
			messages: []string{
				"something unexpected happened",
				"",
				"nil pointer dereference",
			},
			expected: Internal,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for _, message := range tc.messages {
				assert.Equal(t, tc.expected, classifier.Classify(message), "message: %q", message)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	classifier := NewClassifier()
	for i := 0; i < 3; i++ {
		assert.Equal(t, RateLimited, classifier.Classify("Rate limit exceeded"))
		assert.Equal(t, RateLimited, classifier.Classify("Too many requests"))
	}
}

func TestClassify_IgnoresIncidentalSubstrings(t *testing.T) {
	classifier := NewClassifier()
	// The same semantic failure with varying embedded ids classifies
	// identically.
	for i := 0; i < 5; i++ {
		message := fmt.Sprintf("Rate limit exceeded for request req-%d at 2026-08-%02dT10:00:00Z", i, i+1)
		assert.Equal(t, RateLimited, classifier.Classify(message))
	}
}

func TestClassify_CardinalityBound(t *testing.T) {
	classifier := NewClassifier()
	messages := []string{
		"Rate limit exceeded",
		"Too many requests",
		"Invalid API key",
		"token has expired",
		"Permission denied",
		"Forbidden",
		"Validation failed for field x",
		"missing required parameter",
		"failed to parse JSON response",
		"disk exploded",
		"some other novel failure",
		"delegation timed out waiting for agent",
	}
	seen := map[Code]bool{}
	for _, message := range messages {
		seen[classifier.Classify(message)] = true
	}
	assert.LessOrEqual(t, len(seen), 9)
	for _, expected := range []Code{RateLimited, Validation, Authentication, Authorization, Internal} {
		assert.True(t, seen[expected], "expected code %s", expected)
	}
}

func TestClassifyError(t *testing.T) {
	classifier := NewClassifier()
	assert.Equal(t, Authorization, classifier.ClassifyError(errors.New("permission denied")))
	assert.Equal(t, Internal, classifier.ClassifyError(nil))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "rate_limited", Label(RateLimited))
	assert.Equal(t, "memory_serialization", Label(MemorySerialization))
	assert.Equal(t, "internal", Label(Internal))
	for _, code := range Codes {
		assert.Equal(t, Label(code), Label(code))
	}
}

func TestDefaultClassifier(t *testing.T) {
	assert.Equal(t, RateLimited, Classify("Too many requests"))
	assert.Equal(t, Internal, ClassifyError(nil))
}
