// Package errors defines the typed errors produced by provider adapters and
// the routing layer. Adapter failures are normalized to LLMError; routing
// failures that span several attempts are reported as RoutingError.
package errors

import (
	"fmt"
	"net/http"
)

// LLMError represents a standardized error from an LLM provider.
type LLMError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	// Body holds the raw upstream error payload. It is only logged in development mode.
	Body      string `json:"-"`
	Retryable bool   `json:"-"`
}

// Error implements the error interface.
func (e *LLMError) Error() string {
	return fmt.Sprintf("[%s] %s (provider=%s, model=%s, code=%d)",
		e.Type, e.Message, e.Provider, e.Model, e.StatusCode)
}

// HTTPStatusCode returns the appropriate HTTP status code for the error.
func (e *LLMError) HTTPStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// WithModel returns a copy of e attributed to model.
func (e *LLMError) WithModel(model string) *LLMError {
	cp := *e
	cp.Model = model
	return &cp
}

// Common error types as constants for consistency.
const (
	TypeAuthentication     = "authentication_error"
	TypeRateLimit          = "rate_limit_error"
	TypeInvalidRequest     = "invalid_request_error"
	TypeNotFound           = "not_found_error"
	TypeTimeout            = "timeout_error"
	TypeServiceUnavailable = "service_unavailable_error"
	TypeInternalError      = "internal_error"
	TypeContentPolicy      = "content_policy_violation"
	TypeNetwork            = "network_error"
	TypeEmptyResponse      = "empty_response"
	TypeConfiguration      = "configuration_error"
)

func newError(status int, typ, provider, model, message string, retryable bool) *LLMError {
	return &LLMError{
		StatusCode: status,
		Message:    message,
		Type:       typ,
		Provider:   provider,
		Model:      model,
		Retryable:  retryable,
	}
}

// NewAuthenticationError creates an authentication error (401).
func NewAuthenticationError(provider, model, message string) *LLMError {
	return newError(http.StatusUnauthorized, TypeAuthentication, provider, model, message, false)
}

// NewRateLimitError creates a rate limit error (429).
func NewRateLimitError(provider, model, message string) *LLMError {
	return newError(http.StatusTooManyRequests, TypeRateLimit, provider, model, message, true)
}

// NewInvalidRequestError creates an invalid request error (400).
func NewInvalidRequestError(provider, model, message string) *LLMError {
	return newError(http.StatusBadRequest, TypeInvalidRequest, provider, model, message, false)
}

// NewNotFoundError creates a not found error (404).
func NewNotFoundError(provider, model, message string) *LLMError {
	return newError(http.StatusNotFound, TypeNotFound, provider, model, message, false)
}

// NewTimeoutError creates a timeout error (408).
func NewTimeoutError(provider, model, message string) *LLMError {
	return newError(http.StatusRequestTimeout, TypeTimeout, provider, model, message, false)
}

// NewServiceUnavailableError creates a service unavailable error (503).
func NewServiceUnavailableError(provider, model, message string) *LLMError {
	return newError(http.StatusServiceUnavailable, TypeServiceUnavailable, provider, model, message, true)
}

// NewInternalError creates an internal server error (500).
func NewInternalError(provider, model, message string) *LLMError {
	return newError(http.StatusInternalServerError, TypeInternalError, provider, model, message, false)
}

// NewContentPolicyError creates a content policy rejection (400).
func NewContentPolicyError(provider, model, message string) *LLMError {
	return newError(http.StatusBadRequest, TypeContentPolicy, provider, model, message, false)
}

// NewNetworkError wraps a transport failure. The message always carries the
// "network error" prefix so keyword classification treats it as transient.
func NewNetworkError(provider, model string, cause error) *LLMError {
	return newError(0, TypeNetwork, provider, model, "network error: "+cause.Error(), true)
}

// NewEmptyResponseError reports a 200 response without usable content.
func NewEmptyResponseError(provider, model, message string) *LLMError {
	return newError(http.StatusOK, TypeEmptyResponse, provider, model, message, false)
}

// NewMissingKeyError reports a provider whose credential is not configured.
func NewMissingKeyError(provider, keyName string) *LLMError {
	return newError(http.StatusUnauthorized, TypeConfiguration, provider, "",
		fmt.Sprintf("missing API key: %s is not configured", keyName), false)
}

// FromStatus maps an upstream HTTP status to the matching error class.
func FromStatus(statusCode int, provider, model, message string) *LLMError {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		e := NewAuthenticationError(provider, model, message)
		e.StatusCode = statusCode
		return e
	case http.StatusTooManyRequests:
		return NewRateLimitError(provider, model, message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		e := NewInvalidRequestError(provider, model, message)
		e.StatusCode = statusCode
		return e
	case http.StatusNotFound:
		return NewNotFoundError(provider, model, message)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		e := NewTimeoutError(provider, model, message)
		e.StatusCode = statusCode
		return e
	case http.StatusServiceUnavailable:
		return NewServiceUnavailableError(provider, model, message)
	default:
		e := NewInternalError(provider, model, message)
		if statusCode > 0 {
			e.StatusCode = statusCode
		}
		return e
	}
}
