package api //nolint:revive // package name is intentional

import (
	"context"
	stderrors "errors"
	"net/http"

	llmerrors "github.com/aimichat/llmrouter/pkg/errors"
)

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Error          ErrorDetail `json:"error"`
	ProvidersTried []string    `json:"providers_tried,omitempty"`
	Category       string      `json:"category,omitempty"`
}

// ErrorDetail describes the error payload.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

const (
	typeAllProvidersFailed = "all_providers_failed"
	typeCanceled           = "request_canceled"

	// statusClientClosedRequest is used when the caller went away.
	statusClientClosedRequest = 499

	noProvidersMessage = "No AI providers are configured. Set at least one provider API key."
)

// errorResponse maps err onto a status code and envelope.
//
// Exhausted chains are 503 with the tried providers, a missing configuration
// is 500, provider errors keep their own status.
func errorResponse(err error) (int, ErrorResponse) {
	var routingErr *llmerrors.RoutingError
	if stderrors.As(err, &routingErr) {
		switch routingErr.Code {
		case llmerrors.CodeNoProviders:
			return http.StatusInternalServerError, ErrorResponse{
				Error:    ErrorDetail{Message: noProvidersMessage, Type: llmerrors.TypeConfiguration, Code: routingErr.Code},
				Category: routingErr.Category,
			}
		default:
			return http.StatusServiceUnavailable, ErrorResponse{
				Error:          ErrorDetail{Message: routingErr.Message, Type: typeAllProvidersFailed, Code: routingErr.Code},
				ProvidersTried: routingErr.ProvidersTried(),
				Category:       routingErr.Category,
			}
		}
	}

	var llmErr *llmerrors.LLMError
	if stderrors.As(err, &llmErr) {
		return llmErr.HTTPStatusCode(), ErrorResponse{
			Error: ErrorDetail{Message: llmErr.Message, Type: llmErr.Type},
		}
	}

	if stderrors.Is(err, context.Canceled) {
		return statusClientClosedRequest, ErrorResponse{
			Error: ErrorDetail{Message: "request canceled", Type: typeCanceled},
		}
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, ErrorResponse{
			Error: ErrorDetail{Message: "request timed out", Type: llmerrors.TypeTimeout},
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{Message: "internal error", Type: llmerrors.TypeInternalError},
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, resp := errorResponse(err)
	logger := h.logger.WithRequestID(r.Context())
	if code >= http.StatusInternalServerError {
		logger.RedactedError("request failed", "path", r.URL.Path, "status", code, "error", err.Error())
	} else {
		logger.RedactedDebug("request rejected", "path", r.URL.Path, "status", code, "error", err.Error())
	}
	h.writeJSON(w, code, resp)
}
