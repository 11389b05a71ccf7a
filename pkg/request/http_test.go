package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTTPNil(t *testing.T) {
	assert.Nil(t, FromHTTP(nil))
	assert.Nil(t, FromGin(nil))
}

func TestFromHTTPAccessors(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://api.example.com/orders/42?b=2&a=1&a=3", strings.NewReader("payload"))
	r.RemoteAddr = "10.0.0.1:51234"
	r.Header.Set("Content-Type", "text/plain; charset=ISO-8859-1")
	r.Header.Set("Accept-Language", "de-DE, en;q=0.8")
	r.Header.Add("X-Trace", "one")
	r.Header.Add("X-Trace", "two")
	r.SetBasicAuth("alice", "secret")
	r.AddCookie(&http.Cookie{Name: "sid", Value: "abc"})
	r.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})

	req := FromHTTP(r, WithSessionCookie("sid"), WithContextPath("/app"))

	assert.Equal(t, "10.0.0.1", req.RemoteAddr())
	assert.Equal(t, 51234, req.RemotePort())
	assert.Equal(t, "text/plain; charset=ISO-8859-1", req.ContentType())
	assert.Equal(t, int64(7), req.ContentLength())
	assert.Equal(t, "ISO-8859-1", req.CharacterEncoding())
	assert.Equal(t, "HTTP/1.1", req.Protocol())
	assert.Equal(t, "http", req.Scheme())
	assert.Equal(t, []string{"de-DE", "en"}, req.Locales())
	assert.Equal(t, []Parameter{
		{Name: "a", Values: []string{"1", "3"}},
		{Name: "b", Values: []string{"2"}},
	}, req.Parameters())

	httpReq, ok := req.HTTP()
	require.True(t, ok)
	assert.Equal(t, "BASIC", httpReq.AuthType())
	assert.Equal(t, []string{"sid=abc", "theme=dark"}, httpReq.Cookies())
	assert.Equal(t, "/app", httpReq.ContextPath())
	assert.Equal(t, "POST", httpReq.Method())
	assert.Equal(t, "b=2&a=1&a=3", httpReq.QueryString())
	assert.Equal(t, "alice", httpReq.RemoteUser())
	assert.Equal(t, "abc", httpReq.RequestedSessionID())
	assert.Equal(t, "/orders/42", httpReq.RequestURI())
	assert.Equal(t, "http://api.example.com/orders/42", httpReq.RequestURL())

	var trace *Header
	for _, h := range httpReq.Headers() {
		if h.Name == "X-Trace" {
			h := h
			trace = &h
		}
	}
	require.NotNil(t, trace)
	assert.Equal(t, []string{"one", "two"}, trace.Values)
}

func TestFromHTTPHeadersIncludeHost(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://svc.local/", nil)
	r.Header.Set("Accept", "*/*")

	httpReq, _ := FromHTTP(r).HTTP()
	headers := httpReq.Headers()

	require.Len(t, headers, 2)
	assert.Equal(t, Header{Name: "Accept", Values: []string{"*/*"}}, headers[0])
	assert.Equal(t, Header{Name: "Host", Values: []string{"svc.local"}}, headers[1])
}

func TestFromHTTPWithoutOptionalData(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.RemoteAddr = "not-an-address"

	req := FromHTTP(r)
	httpReq, _ := req.HTTP()

	assert.Equal(t, "not-an-address", req.RemoteAddr())
	assert.Equal(t, 0, req.RemotePort())
	assert.Empty(t, req.CharacterEncoding())
	assert.Nil(t, req.Locales())
	assert.Nil(t, req.Body())
	assert.Empty(t, httpReq.AuthType())
	assert.Nil(t, httpReq.Cookies())
	assert.Empty(t, httpReq.RemoteUser())
	assert.Empty(t, httpReq.RequestedSessionID())
}

func TestFromHTTPSerializedBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPut, "/items", strings.NewReader(`{"id":1}`))

	body, ok := Serialize(FromHTTP(r)).Get("body")

	require.True(t, ok)
	assert.Equal(t, `{"id":1}`, body)
}

func TestFromGin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var snap Snapshot
	router := gin.New()
	router.GET("/users/:id", func(c *gin.Context) {
		c.Set(UsernameKey, "bob")
		snap = Serialize(FromGin(c))
		c.Status(http.StatusNoContent)
	})

	r := httptest.NewRequest(http.MethodGet, "/users/7?verbose=true", nil)
	r.RemoteAddr = "192.168.1.10:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusNoContent, w.Code)
	out := snap.String()
	assert.Contains(t, out, "remote address: 192.168.1.10\n")
	assert.Contains(t, out, "servlet path: /users/:id\n")
	assert.Contains(t, out, "remote user: bob\n")
	assert.Contains(t, out, "parameters: verbose = {true}\n")
	assert.Contains(t, out, "request uri: /users/7\n")
}
