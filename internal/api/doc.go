// Package api is the JSON-over-HTTP transport for the braindump note service.
//
// Client.Send issues exactly one request per call: no retries, no caching.
// Requests flagged as credentialed carry the cookies held in the client's jar.
// Cookies returned by any response (login included) are always captured.
//
// Transport failures are returned wrapped in services.ErrNetwork. A response
// body that does not parse as JSON is not an error at this layer. Send returns
// an absent Value and callers decide how to degrade.
//
// # Entry Points
//
// NewClient: construct a client for a base origin.
// Client.Send: issue one JSON request and decode the response.
// Value: shape-tolerant accessors over decoded JSON (Field, Index, AsBool, AsString).
package api
