package api

import "context"

// Sender issues a single JSON request. *Client satisfies it; tests substitute
// fakes to observe ordering and payloads.
type Sender interface {
	Send(ctx context.Context, method, path string, body any, includeCredentials bool) (Value, error)
}

var _ Sender = (*Client)(nil)
