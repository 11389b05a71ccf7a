// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package request

import "io"

// Request exposes the accessors of an in-flight request that are captured in
// an exception report. Empty strings are treated as absent values.
type Request interface {
	RemoteAddr() string
	RemotePort() int
	ContentType() string
	// ContentLength returns -1 when the length is unknown.
	ContentLength() int64
	CharacterEncoding() string
	Protocol() string
	Scheme() string
	// Locales returns nil when the request carries no locale information.
	Locales() []string
	// Parameters returns nil when parameters are unavailable.
	Parameters() []Parameter
	// Body returns nil when the request has no body stream.
	Body() io.Reader
	// HTTP reports whether the request exposes the richer HTTP accessors.
	HTTP() (HTTPRequest, bool)
}

// HTTPRequest is the optional HTTP capability of a Request.
type HTTPRequest interface {
	AuthType() string
	// Cookies returns nil when the request has no cookies.
	Cookies() []string
	ContextPath() string
	// Headers returns nil when header names cannot be enumerated.
	Headers() []Header
	Method() string
	PathInfo() string
	PathTranslated() string
	QueryString() string
	RemoteUser() string
	RequestedSessionID() string
	RequestURI() string
	RequestURL() string
	ServletPath() string
}

// Parameter is a single named request parameter with all of its values.
type Parameter struct {
	Name   string
	Values []string
}

// Header is a single header name with its values in received order.
type Header struct {
	Name   string
	Values []string
}
