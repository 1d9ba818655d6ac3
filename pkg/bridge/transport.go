package bridge

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Transport is an http.RoundTripper that serves every request directly on an
// embedded http.Handler. No socket is opened; the URL host acts purely as a
// routing namespace.
//
// The handler runs in its own goroutine per call with a private in-memory
// response writer, so concurrent round trips share nothing but the handler
// itself. The handler must therefore be safe for concurrent use — that is a
// precondition, not something the transport enforces.
type Transport struct {
	handler http.Handler
}

// NewTransport creates an in-process transport bound to the given handler.
func NewTransport(handler http.Handler) *Transport {
	return &Transport{handler: handler}
}

// RoundTrip implements http.RoundTripper. It honors the request context: when
// the context expires before the handler finishes, the call returns the
// context error and the handler goroutine is abandoned with its private
// response state. In-flight sibling calls are unaffected.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.handler == nil {
		return nil, fmt.Errorf("in-process transport has no handler")
	}

	// The handler contract requires a readable body even for bodyless
	// requests.
	if req.Body == nil {
		req.Body = http.NoBody
	}

	rec := newResponseCapture()
	done := make(chan error, 1)

	go func() {
		done <- t.serve(rec, req)
	}()

	select {
	case <-req.Context().Done():
		return nil, req.Context().Err()
	case err := <-done:
		if err != nil {
			return nil, err
		}
	}

	return rec.result(req), nil
}

// serve invokes the handler, converting a panic into an ordinary error so a
// misbehaving engine cannot take down the calling goroutine.
func (t *Transport) serve(rec *responseCapture, req *http.Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine handler panicked: %v", r)
		}
	}()

	t.handler.ServeHTTP(rec, req)
	return nil
}

// CloseIdleConnections implements the optional http.Client hook. The
// transport holds no connections, so this is a no-op; it exists so the shared
// client's Close path works uniformly.
func (t *Transport) CloseIdleConnections() {}

// responseCapture is a minimal in-memory http.ResponseWriter. Each round trip
// gets its own instance, which is only ever touched by the single handler
// goroutine serving that call.
type responseCapture struct {
	header      http.Header
	body        bytes.Buffer
	statusCode  int
	wroteHeader bool
}

func newResponseCapture() *responseCapture {
	return &responseCapture{
		header:     make(http.Header),
		statusCode: http.StatusOK,
	}
}

// Header implements http.ResponseWriter.
func (c *responseCapture) Header() http.Header {
	return c.header
}

// WriteHeader implements http.ResponseWriter. Subsequent calls are ignored,
// matching net/http server behavior.
func (c *responseCapture) WriteHeader(code int) {
	if c.wroteHeader {
		return
	}
	c.statusCode = code
	c.wroteHeader = true
}

// Write implements http.ResponseWriter.
func (c *responseCapture) Write(p []byte) (int, error) {
	if !c.wroteHeader {
		c.WriteHeader(http.StatusOK)
	}
	return c.body.Write(p)
}

// result converts the captured state into an *http.Response for the client
// machinery.
func (c *responseCapture) result(req *http.Request) *http.Response {
	body := c.body.Bytes()
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", c.statusCode, http.StatusText(c.statusCode)),
		StatusCode:    c.statusCode,
		Proto:         req.Proto,
		ProtoMajor:    req.ProtoMajor,
		ProtoMinor:    req.ProtoMinor,
		Header:        c.header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
