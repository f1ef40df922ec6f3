package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes carried by RoutingError.
const (
	// CodeAllProvidersFailed means every candidate was tried and failed.
	CodeAllProvidersFailed = "LLM_ALL_PROVIDERS_FAILED"
	// CodeNoProviders means no candidate could be built. It is a configuration
	// problem and is never retried.
	CodeNoProviders = "LLM_NO_PROVIDERS_CONFIGURED"
)

// Attempt records one failed (provider, model) call.
type Attempt struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Err      error  `json:"-"`
}

// Label returns "provider/model".
func (a Attempt) Label() string {
	if a.Model == "" {
		return a.Provider
	}
	return a.Provider + "/" + a.Model
}

// RoutingError is returned when routing as a whole fails.
type RoutingError struct {
	Code     string
	Message  string
	Category string
	Attempts []Attempt
}

// Error implements the error interface.
func (e *RoutingError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	last := e.Attempts[len(e.Attempts)-1]
	return fmt.Sprintf("%s: %s (tried %v, last error: %v)", e.Code, e.Message, e.ProvidersTried(), last.Err)
}

// Unwrap exposes every attempt error to errors.Is and errors.As.
func (e *RoutingError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

// ProvidersTried lists "provider/model" labels in attempt order.
func (e *RoutingError) ProvidersTried() []string {
	out := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		out[i] = a.Label()
	}
	return out
}

// LastError returns the error of the final attempt, or nil.
func (e *RoutingError) LastError() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// NewAllProvidersFailed aggregates attempts into a CodeAllProvidersFailed error.
func NewAllProvidersFailed(attempts []Attempt) *RoutingError {
	return &RoutingError{
		Code:     CodeAllProvidersFailed,
		Message:  fmt.Sprintf("all %d LLM providers failed, try again later", len(attempts)),
		Attempts: attempts,
	}
}

// NewNoProviders reports that no AI providers are configured.
func NewNoProviders() *RoutingError {
	return &RoutingError{
		Code:    CodeNoProviders,
		Message: "no AI providers configured",
	}
}

// Code returns the routing code carried by err, or "".
func Code(err error) string {
	var re *RoutingError
	if stderrors.As(err, &re) {
		return re.Code
	}
	return ""
}
