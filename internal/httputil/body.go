// Package httputil bounds reads of upstream response bodies.
package httputil

import (
	"errors"
	"io"
)

// MaxResponseBody caps a provider response body at 4MB. Chat completions
// are far smaller; anything larger is treated as a broken upstream.
const MaxResponseBody int64 = 4 << 20

// ErrBodyTooLarge is returned when a body exceeds the limit.
var ErrBodyTooLarge = errors.New("response body too large")

// ReadBody reads at most limit bytes from r. When r holds more, the first
// limit bytes are returned together with ErrBodyTooLarge. A non-positive
// limit reads everything.
func ReadBody(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return body, err
	}
	if int64(len(body)) > limit {
		return body[:limit], ErrBodyTooLarge
	}
	return body, nil
}
