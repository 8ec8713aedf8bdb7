package nicolive

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

type recordedCall struct {
	URL     string
	Method  Method
	Form    map[string]string
	Cookies map[string]string
}

// fakeTransport replays scripted responses in order and records each request.
type fakeTransport struct {
	t         *testing.T
	responses []*Response
	errs      []error
	calls     []recordedCall
}

func (f *fakeTransport) Request(rawURL string, method Method, form map[string]string, jar *Jar) (*Response, error) {
	formCopy := make(map[string]string, len(form))
	for k, v := range form {
		formCopy[k] = v
	}
	f.calls = append(f.calls, recordedCall{URL: rawURL, Method: method, Form: formCopy, Cookies: jar.Values()})

	i := len(f.calls) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.responses) {
		f.t.Fatalf("unexpected request %d: %s %s", i+1, method, rawURL)
		return nil, errors.New("unexpected request")
	}
	return f.responses[i], nil
}

// reply builds a response whose status is only present in the raw head.
func reply(code int, body string, setCookies ...string) *Response {
	header := []string{fmt.Sprintf("HTTP/1.1 %d %s", code, http.StatusText(code)), "Content-Type: text/xml; charset=utf-8"}
	for _, c := range setCookies {
		header = append(header, "Set-Cookie: "+c)
	}
	return &Response{Body: []byte(body), Header: header}
}

func newTestClient(t *testing.T, responses ...*Response) (*Client, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{t: t, responses: responses}
	c := New(Config{}, WithTransport(ft), WithClock(func() time.Time {
		return time.Unix(1700000000, 0)
	}))
	return c, ft
}

var testCreds = Credentials{Mail: "user@example.com", Password: "p@ss w&rd"}

const (
	pubStatLive     = `<getpublishstatus status="ok"><stream><id>12345</id></stream></getpublishstatus>`
	pubStatNotFound = `<getpublishstatus status="fail"><error><code>notfound</code></error></getpublishstatus>`
	pubStatUnknown  = `<getpublishstatus status="fail"><error><code>unknown</code></error></getpublishstatus>`

	profileOK = `<?xml version="1.0" encoding="utf-8"?>
<flashmedialiveencoder_profile>
  <output>
    <rtmp>
      <url>rtmp://nlpoca.live.nicovideo.jp:1935/publicorigin/777</url>
      <stream>abc</stream>
    </rtmp>
  </output>
</flashmedialiveencoder_profile>`
	profileNoStream = `<flashmedialiveencoder_profile><output><rtmp><url>rtmp://example/777</url></rtmp></output></flashmedialiveencoder_profile>`
)
