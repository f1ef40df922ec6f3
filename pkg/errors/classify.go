package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
)

// retriableKeywords are matched against the lower-cased error message.
var retriableKeywords = []string{
	"quota",
	"rate limit",
	"overload",
	"unavailable",
	"network",
	"fetch failed",
	"503",
	"429",
}

type httpStatusCoder interface{ HTTPStatusCode() int }

type statusCoder interface{ StatusCode() int }

// StatusCode extracts an HTTP-like status from err, or 0 when none is exposed.
// It looks through wrapped errors for *LLMError and for any error exposing
// HTTPStatusCode() or StatusCode().
func StatusCode(err error) int {
	if err == nil {
		return 0
	}
	var llmErr *LLMError
	if stderrors.As(err, &llmErr) {
		return llmErr.StatusCode
	}
	var hc httpStatusCoder
	if stderrors.As(err, &hc) {
		return hc.HTTPStatusCode()
	}
	var sc statusCoder
	if stderrors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}

// IsRetriable reports whether trying a different provider may succeed where
// err failed. Status 429 and 503 and a fixed set of message keywords are
// retriable; everything else (bad request, auth, invalid model) is not.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	switch StatusCode(err) {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, kw := range retriableKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
