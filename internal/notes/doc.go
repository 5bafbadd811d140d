// Package notes submits note drafts to the service.
//
// A submission runs a fixed sequence: resolve LLM tags (when enabled and a
// provider is available), merge them after the manual tags, then POST the
// note. The draft is only reset after the service reports success; any
// failure leaves it untouched so the user can retry.
//
// Drafts are not reentrant. A second Submit on a draft that is still being
// submitted returns ErrSubmitInProgress without contacting the service.
package notes
