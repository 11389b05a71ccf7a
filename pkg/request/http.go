// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package request

import (
	"io"
	"mime"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

type httpOptions struct {
	contextPath   string
	sessionCookie string
}

// HTTPOption tunes the net/http adapter.
type HTTPOption func(*httpOptions)

// WithContextPath sets the path prefix the application is mounted under.
func WithContextPath(path string) HTTPOption {
	return func(o *httpOptions) { o.contextPath = path }
}

// WithSessionCookie names the cookie that carries the session id.
func WithSessionCookie(name string) HTTPOption {
	return func(o *httpOptions) { o.sessionCookie = name }
}

// httpRequest adapts *http.Request. Go maps carry no order, so parameter and
// header names are reported sorted; values keep their received order.
type httpRequest struct {
	r *http.Request
	o httpOptions
}

// FromHTTP adapts a net/http request. It returns nil for a nil request so the
// result can be passed straight to a notifier.
func FromHTTP(r *http.Request, opts ...HTTPOption) Request {
	if r == nil {
		return nil
	}
	return newHTTPRequest(r, opts...)
}

func newHTTPRequest(r *http.Request, opts ...HTTPOption) *httpRequest {
	req := &httpRequest{r: r}
	for _, opt := range opts {
		opt(&req.o)
	}
	return req
}

func (h *httpRequest) RemoteAddr() string {
	host, _, err := net.SplitHostPort(h.r.RemoteAddr)
	if err != nil {
		return h.r.RemoteAddr
	}
	return host
}

func (h *httpRequest) RemotePort() int {
	_, port, err := net.SplitHostPort(h.r.RemoteAddr)
	if err != nil {
		return 0
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return 0
	}
	return p
}

func (h *httpRequest) ContentType() string {
	return h.r.Header.Get("Content-Type")
}

func (h *httpRequest) ContentLength() int64 {
	return h.r.ContentLength
}

func (h *httpRequest) CharacterEncoding() string {
	ct := h.r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return params["charset"]
}

func (h *httpRequest) Protocol() string {
	return h.r.Proto
}

func (h *httpRequest) Scheme() string {
	if h.r.URL != nil && h.r.URL.Scheme != "" {
		return h.r.URL.Scheme
	}
	if h.r.TLS != nil {
		return "https"
	}
	return "http"
}

// Locales lists the Accept-Language tags without their quality weights.
func (h *httpRequest) Locales() []string {
	header := h.r.Header.Get("Accept-Language")
	if header == "" {
		return nil
	}
	var locales []string
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(part, ";")
		tag = strings.TrimSpace(tag)
		if tag != "" {
			locales = append(locales, tag)
		}
	}
	return locales
}

// Parameters reports the query parameters. The form body is not parsed so
// the body stays available for capture.
func (h *httpRequest) Parameters() []Parameter {
	if h.r.URL == nil {
		return nil
	}
	query := h.r.URL.Query()
	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]Parameter, 0, len(names))
	for _, name := range names {
		params = append(params, Parameter{Name: name, Values: query[name]})
	}
	return params
}

func (h *httpRequest) Body() io.Reader {
	if h.r.Body == nil || h.r.Body == http.NoBody {
		return nil
	}
	return h.r.Body
}

func (h *httpRequest) HTTP() (HTTPRequest, bool) {
	return h, true
}

func (h *httpRequest) AuthType() string {
	auth := h.r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	scheme, _, _ := strings.Cut(auth, " ")
	return strings.ToUpper(scheme)
}

func (h *httpRequest) Cookies() []string {
	cookies := h.r.Cookies()
	if len(cookies) == 0 {
		return nil
	}
	out := make([]string, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, c.String())
	}
	return out
}

func (h *httpRequest) ContextPath() string {
	return h.o.contextPath
}

func (h *httpRequest) Headers() []Header {
	names := make([]string, 0, len(h.r.Header)+1)
	for name := range h.r.Header {
		names = append(names, name)
	}
	// The server strips Host from the header map.
	_, hasHost := h.r.Header["Host"]
	if h.r.Host != "" && !hasHost {
		names = append(names, "Host")
	}
	sort.Strings(names)

	headers := make([]Header, 0, len(names))
	for _, name := range names {
		values := h.r.Header[name]
		if name == "Host" && !hasHost {
			values = []string{h.r.Host}
		}
		headers = append(headers, Header{Name: name, Values: values})
	}
	return headers
}

func (h *httpRequest) Method() string {
	return h.r.Method
}

func (h *httpRequest) PathInfo() string {
	return ""
}

func (h *httpRequest) PathTranslated() string {
	return ""
}

func (h *httpRequest) QueryString() string {
	if h.r.URL == nil {
		return ""
	}
	return h.r.URL.RawQuery
}

func (h *httpRequest) RemoteUser() string {
	user, _, ok := h.r.BasicAuth()
	if !ok {
		return ""
	}
	return user
}

func (h *httpRequest) RequestedSessionID() string {
	if h.o.sessionCookie == "" {
		return ""
	}
	c, err := h.r.Cookie(h.o.sessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func (h *httpRequest) RequestURI() string {
	if h.r.URL == nil {
		return ""
	}
	return h.r.URL.EscapedPath()
}

// RequestURL is the reconstructed URL without the query string.
func (h *httpRequest) RequestURL() string {
	if h.r.URL == nil {
		return ""
	}
	host := h.r.Host
	if host == "" {
		host = h.r.URL.Host
	}
	if host == "" {
		return h.r.URL.EscapedPath()
	}
	return h.Scheme() + "://" + host + h.r.URL.EscapedPath()
}

func (h *httpRequest) ServletPath() string {
	return ""
}
