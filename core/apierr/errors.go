package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Error kinds. Every failure of a remote call wraps exactly one of these so
// callers can classify it with errors.Is.
var (
	// ErrTransport is returned when the PoS export answers with a status other than 200.
	ErrTransport = errors.New("transport error")
	// ErrAuth is returned when the CMINE password grant fails.
	ErrAuth = errors.New("authentication error")
	// ErrNotFound is returned when no CMINE user matches the configured owner email.
	ErrNotFound = errors.New("not found")
	// ErrWrite is returned when a venture create or update is not answered with 200 or 201.
	ErrWrite = errors.New("write error")
	// ErrDelete is returned when a venture delete is not answered with 204.
	ErrDelete = errors.New("delete error")
)

// ResponseError describes an unexpected HTTP response.
// It keeps the headers and body so an operator can diagnose the failure.
type ResponseError struct {
	// Kind is one of the sentinel errors of this package.
	Kind error
	// Op names the operation that failed (e.g. "get ventures").
	Op string
	// Method and URL identify the request.
	Method string
	URL    string
	// StatusCode is the HTTP status that was received.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// Body holds the (possibly truncated) response body.
	Body string
}

// NewResponseError builds a ResponseError from a received response and its body.
func NewResponseError(kind error, op string, resp *http.Response, body []byte) *ResponseError {
	e := &ResponseError{
		Kind: kind,
		Op:   op,
		Body: string(body),
	}
	if resp != nil {
		e.StatusCode = resp.StatusCode
		e.Header = resp.Header.Clone()
		if resp.Request != nil {
			e.Method = resp.Request.Method
			if resp.Request.URL != nil {
				e.URL = resp.Request.URL.String()
			}
		}
	}
	return e
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %v: status %d: %s", e.Op, e.Kind, e.StatusCode, strings.TrimSpace(e.Body))
}

// Unwrap exposes the error kind to errors.Is.
func (e *ResponseError) Unwrap() error {
	return e.Kind
}

// MarshalLogObject lets the error be logged with zap.Object.
func (e *ResponseError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("op", e.Op)
	if e.Method != "" {
		enc.AddString("method", e.Method)
	}
	if e.URL != "" {
		enc.AddString("url", e.URL)
	}
	enc.AddInt("status", e.StatusCode)
	if err := enc.AddObject("headers", headerMarshaler(e.Header)); err != nil {
		return err
	}
	enc.AddString("body", e.Body)
	return nil
}

type headerMarshaler http.Header

func (h headerMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "Authorization" {
			continue
		}
		enc.AddString(k, strings.Join(h[k], ", "))
	}
	return nil
}
