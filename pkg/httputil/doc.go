// Package httputil provides the JSON plumbing shared by the HTTP API.
//
// # Overview
//
//   - [WriteJSON]: encode a value with a status code
//   - [WriteError]: encode an error as {"error": {"code", "message"}} with
//     the status its [derrors.Code] maps to
//   - [DecodeJSON]: strict, size-limited request body decoding
//
// # Status Mapping
//
// [StatusFor] translates error codes into HTTP statuses:
//
//   - INVALID_EVENT: 422 Unprocessable Entity
//   - INVALID_INPUT, INVALID_FORMAT, INVALID_CONFIG: 400 Bad Request
//   - NOT_FOUND, SESSION_NOT_FOUND: 404 Not Found
//   - UNAVAILABLE: 503 Service Unavailable
//   - UNSUPPORTED: 501 Not Implemented
//   - anything else: 500 Internal Server Error
//
// Internal errors are logged by the caller and reported to the client
// without their cause.
//
// [derrors.Code]: github.com/matzehuels/driftgrid/pkg/errors.Code
package httputil
