// Package services defines shared utilities consumed by the braindump core
// components and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp component names and correlation identifiers
//     for logging.
//   - Structured error markers (network, malformed response, application
//     failure) plus the Wrap helper so callers can classify failures with
//     errors.Is.
//
// Use these helpers when wiring new components so failure classification and
// observability stay uniform across the client.
package services
