package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
)

// MaxBodyBytes caps request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of an error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable code and a message.
type ErrorDetail struct {
	Code    derrors.Code `json:"code"`
	Message string       `json:"message"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteRaw writes pre-encoded bytes with the given content type.
func WriteRaw(w http.ResponseWriter, status int, contentType string, data []byte) error {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, err := w.Write(data)
	return err
}

// WriteError writes err with the status from StatusFor. Errors without a
// code, and internal errors, are reported as a generic internal error.
func WriteError(w http.ResponseWriter, err error) error {
	status := StatusFor(err)
	return WriteJSON(w, status, NewErrorBody(err))
}

// NewErrorBody builds the response body for err.
func NewErrorBody(err error) ErrorBody {
	code := derrors.GetCode(err)
	if code == "" || code == derrors.ErrCodeInternal {
		return ErrorBody{Error: ErrorDetail{Code: derrors.ErrCodeInternal, Message: "internal error"}}
	}
	return ErrorBody{Error: ErrorDetail{Code: code, Message: derrors.UserMessage(err)}}
}

// StatusFor maps an error's code to an HTTP status.
func StatusFor(err error) int {
	switch derrors.GetCode(err) {
	case derrors.ErrCodeInvalidEvent:
		return http.StatusUnprocessableEntity
	case derrors.ErrCodeInvalidInput, derrors.ErrCodeInvalidFormat, derrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case derrors.ErrCodeNotFound, derrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case derrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case derrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// DecodeJSON decodes the request body into v. Unknown fields, trailing data
// and bodies over MaxBodyBytes are rejected as INVALID_INPUT. An empty body
// leaves v unchanged when allowEmpty is set.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return derrors.Wrap(derrors.ErrCodeInvalidInput, err, "decode request body")
	}
	if dec.More() {
		return derrors.New(derrors.ErrCodeInvalidInput, "request body has trailing data")
	}
	return nil
}
