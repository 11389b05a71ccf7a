// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package request

import (
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// absent is rendered for every accessor that returned no value.
const absent = "null"

// Field is one labelled entry of a Snapshot. Block fields carry a pre-rendered
// multi-line value that is printed below the label instead of next to it.
type Field struct {
	Label string
	Value string
	Block bool
}

// Snapshot is the ordered textual capture of a request.
type Snapshot struct {
	Fields []Field
}

// Get returns the value of the first field with the given label.
func (s Snapshot) Get(label string) (string, bool) {
	for _, f := range s.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}

// String renders the snapshot as "label: value" lines in field order.
func (s Snapshot) String() string {
	var b strings.Builder
	for _, f := range s.Fields {
		if f.Block {
			b.WriteString(f.Label)
			b.WriteString(":\n")
			b.WriteString(f.Value)
			continue
		}
		b.WriteString(f.Label)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\n")
	}
	return b.String()
}

type options struct {
	maxBodyBytes int64
	logger       *zap.SugaredLogger
}

// Option tunes Serialize.
type Option func(*options)

// WithMaxBodyBytes bounds how much of the request body is captured. Values
// <= 0 leave the capture unbounded.
func WithMaxBodyBytes(n int64) Option {
	return func(o *options) { o.maxBodyBytes = n }
}

// WithLogger sets the logger used to report swallowed body read failures.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Serialize captures req into a Snapshot. The HTTP specific fields are only
// appended when req exposes the HTTP capability.
func Serialize(req Request, opts ...Option) Snapshot {
	o := options{logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&o)
	}

	s := Snapshot{Fields: make([]Field, 0, 23)}
	add := func(label, value string) {
		s.Fields = append(s.Fields, Field{Label: label, Value: value})
	}

	add("remote address", scalar(req.RemoteAddr()))
	add("remote port", strconv.Itoa(req.RemotePort()))
	add("content type", scalar(req.ContentType()))
	add("content length", strconv.FormatInt(req.ContentLength(), 10))
	add("character encoding", scalar(req.CharacterEncoding()))
	add("protocol", scalar(req.Protocol()))
	add("scheme", scalar(req.Scheme()))
	add("locales", lines(req.Locales()))
	add("parameters", parameters(req.Parameters()))
	add("body", readBody(req.Body(), o))

	httpReq, ok := req.HTTP()
	if !ok || httpReq == nil {
		return s
	}

	add("auth", scalar(httpReq.AuthType()))
	add("cookies", lines(httpReq.Cookies()))
	add("context path", scalar(httpReq.ContextPath()))
	if headers := httpReq.Headers(); headers != nil {
		s.Fields = append(s.Fields, Field{Label: "headers", Value: headerBlock(headers), Block: true})
	}
	add("method", scalar(httpReq.Method()))
	add("path info", scalar(httpReq.PathInfo()))
	add("path translated", scalar(httpReq.PathTranslated()))
	add("query string", scalar(httpReq.QueryString()))
	add("remote user", scalar(httpReq.RemoteUser()))
	add("requested session id", scalar(httpReq.RequestedSessionID()))
	add("request uri", scalar(httpReq.RequestURI()))
	add("request url", scalar(httpReq.RequestURL()))
	add("servlet path", scalar(httpReq.ServletPath()))
	return s
}

func scalar(v string) string {
	if v == "" {
		return absent
	}
	return v
}

func lines(values []string) string {
	if values == nil {
		return absent
	}
	return strings.Join(values, "\n")
}

// parameters renders every entry as "name = {v1, v2}" with no separator
// between entries, matching the historical report layout.
func parameters(params []Parameter) string {
	if params == nil {
		return absent
	}
	var b strings.Builder
	for _, p := range params {
		b.WriteString(p.Name)
		b.WriteString(" = {")
		b.WriteString(strings.Join(p.Values, ", "))
		b.WriteString("}")
	}
	return b.String()
}

func headerBlock(headers []Header) string {
	var b strings.Builder
	for _, h := range headers {
		b.WriteString("\t")
		b.WriteString(h.Name)
		b.WriteString(":\n")
		for _, v := range h.Values {
			b.WriteString("\t\t")
			b.WriteString(v)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// readBody drains r. Read failures are swallowed and whatever was read
// before the failure is kept.
func readBody(r io.Reader, o options) string {
	if r == nil {
		return ""
	}
	if o.maxBodyBytes > 0 {
		r = io.LimitReader(r, o.maxBodyBytes)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		o.logger.Debugw("Request body read failed, keeping partial body",
			"bytesRead", len(data),
			"error", err)
	}
	return string(data)
}
