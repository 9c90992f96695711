// Package client talks to the evidence server over HTTP.
//
// The Client interface is the transport-agnostic contract used by the
// services layer; HTTPClient implements it against the JSON/multipart API.
//
// # Error Handling
//
// Error responses carry a kind that is mapped back to the sentinels in
// internal/common, so callers match them with errors.Is exactly as they
// would on the server. Transport failures wrap ErrUnavailable.
package client
