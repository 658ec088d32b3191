package taxonomy

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// Code is a canonical error category. The set of codes is closed: raw error
// messages of arbitrary diversity always collapse onto one of these, which
// bounds label cardinality in the exposition format.
type Code string

const (
	RateLimited              Code = "RATE_LIMITED"
	Authentication           Code = "AUTHENTICATION"
	Authorization            Code = "AUTHORIZATION"
	Validation               Code = "VALIDATION"
	MemorySerialization      Code = "MEMORY_SERIALIZATION"
	DelegationAdapterError   Code = "DELEGATION_ADAPTER_ERROR"
	DelegationExecutionError Code = "DELEGATION_EXECUTION_ERROR"
	RemediationFailed        Code = "REMEDIATION_FAILED"
	RemediationTaskNotFound  Code = "REMEDIATION_TASK_NOT_FOUND"
	Internal                 Code = "INTERNAL"
)

// Codes lists every member of the taxonomy.
var Codes = []Code{
	RateLimited,
	Authentication,
	Authorization,
	Validation,
	MemorySerialization,
	DelegationAdapterError,
	DelegationExecutionError,
	RemediationFailed,
	RemediationTaskNotFound,
	Internal,
}

// Label returns the stable lowercase label used in exposition output.
func Label(code Code) string {
	return strings.ToLower(string(code))
}

type rule struct {
	pattern *regexp.Regexp
	code    Code
}

// Rules are evaluated top to bottom, first match wins. Order matters:
// domain-specific codes come before the generic families so that e.g.
// "remediation task abc not found" does not fall into VALIDATION, and
// RATE_LIMITED precedes VALIDATION so "too many requests" is not caught by
// the request-shaped validation patterns.
var defaultRules = []rule{
	{regexp.MustCompile(`(?i)rate.?limit|too many requests|throttl|quota exceeded|\b429\b`), RateLimited},
	{regexp.MustCompile(`(?i)remediation\b.*\bnot found|no remediation (task|record)`), RemediationTaskNotFound},
	{regexp.MustCompile(`(?i)remediation`), RemediationFailed},
	{regexp.MustCompile(`(?i)delegat\w*\s+adapter|adapter (error|failure|unavailable|not registered)`), DelegationAdapterError},
	{regexp.MustCompile(`(?i)delegat`), DelegationExecutionError},
	{regexp.MustCompile(`(?i)invalid (api.?key|credential|token|signature)|(token|credential|session|api.?key)\w*( has| is)? expired|expired (token|credential|session|api.?key)|unauthenticated|authentication|login fail|\b401\b`), Authentication},
	{regexp.MustCompile(`(?i)permission denied|access denied|forbidden|unauthori[sz]ed|not authori[sz]ed|authori[sz]ation|insufficient (permission|privilege)|\b403\b`), Authorization},
	{regexp.MustCompile(`(?i)json|unmarshal|marshal|pars(e|ing)|decod(e|ing)|seriali[sz]|malformed`), MemorySerialization},
	{regexp.MustCompile(`(?i)validation|invalid (request|input|argument|parameter|field|value|format)|missing required|bad request|out of range|\b400\b`), Validation},
}

const cacheSize = 512

// Classifier maps raw error messages onto the closed Code taxonomy. It is a
// total function: any input, including the empty string, yields a code, with
// INTERNAL as the fallthrough. A bounded LRU memoises repeated messages so
// hot producers do not pay the regex walk on every call.
type Classifier struct {
	rules []rule
	cache *lru.Cache
}

func NewClassifier() *Classifier {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New(cacheSize)
	return &Classifier{
		rules: defaultRules,
		cache: cache,
	}
}

// Classify returns the taxonomy code for a raw error message.
func (c *Classifier) Classify(message string) Code {
	if cached, ok := c.cache.Get(message); ok {
		return cached.(Code)
	}
	code := Internal
	for _, r := range c.rules {
		if r.pattern.MatchString(message) {
			code = r.code
			break
		}
	}
	c.cache.Add(message, code)
	return code
}

// ClassifyError classifies err by its message. A nil error maps to INTERNAL.
func (c *Classifier) ClassifyError(err error) Code {
	if err == nil {
		return Internal
	}
	return c.Classify(err.Error())
}

var defaultClassifier = NewClassifier()

// Classify runs the process-wide default classifier.
func Classify(message string) Code {
	return defaultClassifier.Classify(message)
}

// ClassifyError runs the process-wide default classifier.
func ClassifyError(err error) Code {
	return defaultClassifier.ClassifyError(err)
}
