package notifier

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/telekom/exception-notifier/pkg/mail"
	"github.com/telekom/exception-notifier/pkg/request"
)

// MockSender records every message and fails when err is set.
type MockSender struct {
	mu       sync.Mutex
	messages []*mail.Message
	err      error
}

func (m *MockSender) Send(msg *mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return m.err
}

func (m *MockSender) GetHost() string { return "mock.example.com" }

func (m *MockSender) GetPort() int { return 25 }

func (m *MockSender) sent() []*mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*mail.Message(nil), m.messages...)
}

type DivideByZeroError struct {
	msg string
}

func (e DivideByZeroError) Error() string { return e.msg }

func newTestNotifier(t *testing.T, sender mail.Sender) *Notifier {
	t.Helper()
	n, err := New(Configuration{
		Sender:        sender,
		SubjectPrefix: "TEST",
		Recipients:    []string{"a@b.com"},
		From:          "f@x.com",
	})
	require.NoError(t, err)
	return n
}

func TestNewRequiresSender(t *testing.T) {
	_, err := New(Configuration{SubjectPrefix: "TEST"})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestNotifierCopiesRecipients(t *testing.T) {
	recipients := []string{"a@b.com"}
	n, err := New(Configuration{Sender: &MockSender{}, Recipients: recipients})
	require.NoError(t, err)

	recipients[0] = "changed@b.com"
	got := n.Recipients()
	got[0] = "also-changed@b.com"

	assert.Equal(t, []string{"a@b.com"}, n.Recipients())
	assert.Equal(t, []string{"a@b.com"}, n.Configuration().Recipients)
}

func TestHandleExceptionWithoutRequest(t *testing.T) {
	sender := &MockSender{}
	n := newTestNotifier(t, sender)

	err := n.HandleException("boom-msg", DivideByZeroError{msg: "boom"}, nil)
	require.NoError(t, err)

	sent := sender.sent()
	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Equal(t, "[TEST] notifier.DivideByZeroError: boom-msg", msg.Subject)
	assert.Equal(t, []string{"a@b.com"}, msg.To)
	assert.Equal(t, "f@x.com", msg.From)
	assert.True(t, strings.HasPrefix(msg.Body, exceptionBanner))
	assert.Contains(t, msg.Body, "Exception:")
	assert.Contains(t, msg.Body, "boom")
	assert.NotContains(t, msg.Body, "Request:")
	assert.NotEmpty(t, msg.Headers[ReportIDHeader])
}

func TestHandleExceptionWithRequest(t *testing.T) {
	sender := &MockSender{}
	n := newTestNotifier(t, sender)

	r := httptest.NewRequest(http.MethodGet, "/orders", nil)
	r.RemoteAddr = "10.0.0.1:40000"

	err := n.HandleException("msg", errors.New("failed"), request.FromHTTP(r))
	require.NoError(t, err)

	body := sender.sent()[0].Body
	assert.True(t, strings.HasPrefix(body, requestBanner), "body should begin with the request section")
	assert.Contains(t, body, "remote address: 10.0.0.1\n")
	assert.Contains(t, body, "method: GET\n")
	assert.Contains(t, body, "body: \n")
	assert.Less(t, strings.Index(body, "Request:"), strings.Index(body, "Exception:"))
}

func TestHandleExceptionNilErrorIsRejected(t *testing.T) {
	sender := &MockSender{}
	n := newTestNotifier(t, sender)
	body := &trackingReader{}
	req := &bodyOnlyRequest{body: body}

	var nilPathErr *pathError

	for _, tt := range []struct {
		name    string
		message string
		err     error
		req     request.Request
	}{
		{name: "no request", message: "msg"},
		{name: "empty message", message: ""},
		{name: "with request", message: "msg", req: req},
		{name: "typed nil pointer", message: "msg", err: nilPathErr},
		{name: "typed nil pointer with request", message: "msg", err: nilPathErr, req: req},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				err = n.HandleException(tt.message, tt.err, tt.req)
			})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Empty(t, sender.sent(), "nothing should be sent")
	assert.False(t, body.read, "request body should not be consumed")
}

// pathError dereferences its receiver, so a nil *pathError panics in Error.
type pathError struct {
	path string
}

func (e *pathError) Error() string { return "cannot open " + e.path }

func TestHandleExceptionAddsCallerStack(t *testing.T) {
	sender := &MockSender{}
	n := newTestNotifier(t, sender)

	err := n.HandleException("m", fmt.Errorf("outer: %w", errors.New("boom")), nil)
	require.NoError(t, err)

	msg := sender.sent()[0]
	assert.Equal(t, "[TEST] *fmt.wrapError: m", msg.Subject)
	lines := strings.Split(strings.TrimPrefix(msg.Body, exceptionBanner), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "*fmt.wrapError: outer: boom", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "\tat "), "expected frame line, got %q", lines[1])
	assert.Contains(t, lines[1], "TestHandleExceptionAddsCallerStack")
	assert.Contains(t, lines[1], "notifier_test.go:")
	assert.NotContains(t, msg.Body, "(*Notifier)")
	assert.Contains(t, msg.Body, "\nCaused by: *errors.errorString: boom\n")
}

func TestPackageHandleExceptionStackStartsAtCaller(t *testing.T) {
	resetInstance(t)
	sender := &MockSender{}
	require.NoError(t, Configure(sender, "TEST", nil, ""))

	require.NoError(t, HandleException("m", errors.New("boom"), nil))

	body := sender.sent()[0].Body
	lines := strings.Split(strings.TrimPrefix(body, exceptionBanner), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "*errors.errorString: boom", lines[0])
	assert.Contains(t, lines[1], "TestPackageHandleExceptionStackStartsAtCaller")
}

func TestHandleExceptionTransportError(t *testing.T) {
	sendErr := errors.New("dial tcp 127.0.0.1:25: connect: connection refused")
	sender := &MockSender{err: sendErr}
	n := newTestNotifier(t, sender)

	err := n.HandleException("msg", errors.New("failed"), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, sendErr)
	assert.Equal(t, sendErr.Error(), err.Error())
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Same(t, sendErr, terr.Err)
	assert.Len(t, sender.sent(), 1, "exactly one attempt")
}

func TestHandleExceptionLogs(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	n, err := New(Configuration{Sender: &MockSender{}, SubjectPrefix: "TEST"}, WithLogger(zap.New(core).Sugar()))
	require.NoError(t, err)

	require.NoError(t, n.HandleException("msg", errors.New("failed"), nil))

	entries := recorded.FilterMessage("Sending exception report").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "exception-notifier", entries[0].LoggerName)
	assert.Equal(t, "[TEST] *errors.errorString: msg", entries[0].ContextMap()["subject"])
}

func TestHandleExceptionAppliesBodyLimit(t *testing.T) {
	sender := &MockSender{}
	n, err := New(Configuration{Sender: sender, MaxBodyBytes: 5})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("0123456789"))
	require.NoError(t, n.HandleException("msg", errors.New("failed"), request.FromHTTP(r)))

	assert.Contains(t, sender.sent()[0].Body, "body: 01234\n")
}

type trackingReader struct {
	read bool
}

func (r *trackingReader) Read(p []byte) (int, error) {
	r.read = true
	return 0, errors.New("unexpected read")
}

// bodyOnlyRequest is a basic request without the HTTP capability.
type bodyOnlyRequest struct {
	body *trackingReader
}

func (b *bodyOnlyRequest) RemoteAddr() string                { return "" }
func (b *bodyOnlyRequest) RemotePort() int                   { return 0 }
func (b *bodyOnlyRequest) ContentType() string               { return "" }
func (b *bodyOnlyRequest) ContentLength() int64              { return -1 }
func (b *bodyOnlyRequest) CharacterEncoding() string         { return "" }
func (b *bodyOnlyRequest) Protocol() string                  { return "" }
func (b *bodyOnlyRequest) Scheme() string                    { return "" }
func (b *bodyOnlyRequest) Locales() []string                 { return nil }
func (b *bodyOnlyRequest) Parameters() []request.Parameter   { return nil }
func (b *bodyOnlyRequest) Body() io.Reader                   { return b.body }
func (b *bodyOnlyRequest) HTTP() (request.HTTPRequest, bool) { return nil, false }

func TestHandleExceptionBasicRequestOmitsHTTPFields(t *testing.T) {
	sender := &MockSender{}
	n := newTestNotifier(t, sender)

	require.NoError(t, n.HandleException("msg", errors.New("failed"), &bodyOnlyRequest{body: &trackingReader{}}))

	body := sender.sent()[0].Body
	assert.Contains(t, body, "content length: -1\n")
	assert.Contains(t, body, "body: \n")
	assert.NotContains(t, body, "method:")
	assert.NotContains(t, body, "headers:")
}
