// Package providers wires the vendor adapters into provider.Client values and
// builds the registry the router resolves providers from.
package providers

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aimichat/llmrouter/pkg/errors"
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Executor turns an Adapter into a Client by executing its requests.
type Executor struct {
	adapter provider.Adapter
	client  *http.Client
	timeout time.Duration
}

// NewExecutor creates a Client for adapter. timeout bounds each call when > 0.
func NewExecutor(adapter provider.Adapter, client *http.Client, timeout time.Duration) *Executor {
	if client == nil {
		client = http.DefaultClient
	}
	return &Executor{adapter: adapter, client: client, timeout: timeout}
}

// Name returns the provider identifier.
func (e *Executor) Name() types.ProviderID { return e.adapter.Name() }

// DefaultModel returns the adapter's default model.
func (e *Executor) DefaultModel() string { return e.adapter.DefaultModel() }

// Adapter returns the wrapped adapter.
func (e *Executor) Adapter() provider.Adapter { return e.adapter }

// Generate sends req and returns the reply text.
func (e *Executor) Generate(ctx context.Context, req *provider.Request) (string, error) {
	name := string(e.adapter.Name())
	model := provider.ResolveModel(req, e.adapter.DefaultModel())

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	httpReq, err := e.adapter.BuildRequest(ctx, req)
	if err != nil {
		return "", err
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		switch {
		case stderrors.Is(ctx.Err(), context.Canceled):
			return "", fmt.Errorf("%s request canceled: %w", name, ctx.Err())
		case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
			return "", errors.NewTimeoutError(name, model, "request timed out")
		}
		return "", errors.NewNetworkError(name, model, transportCause(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", e.adapter.MapError(resp.StatusCode, body, model)
	}
	return e.adapter.ParseResponse(resp, model)
}

// transportCause drops the request URL from a client error. Some vendors
// authenticate through the URL, and network errors reach API responses.
func transportCause(err error) error {
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
