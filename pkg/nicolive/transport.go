package nicolive

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

type Method string

const (
	MethodGet  Method = http.MethodGet
	MethodPost Method = http.MethodPost
)

const formContentType = "application/x-www-form-urlencoded"

// Response is the outcome of one exchange. Header holds the response head as
// raw lines, starting with the status line.
type Response struct {
	StatusCode int
	Body       []byte
	Header     []string
}

// Transport performs a single blocking HTTP exchange. Implementations must not
// modify jar; cookie updates are applied by the caller from Response.Header.
type Transport interface {
	Request(rawURL string, method Method, form map[string]string, jar *Jar) (*Response, error)
}

type HTTPTransport struct {
	client        *http.Client
	userAgent     string
	cookieDomains []string
}

type TransportOption func(*transportOptions)

type transportOptions struct {
	timeout       time.Duration
	userAgent     string
	cookieDomains []string
	rootCAs       *x509.CertPool
}

func WithTimeout(d time.Duration) TransportOption {
	return func(o *transportOptions) { o.timeout = d }
}

func WithUserAgent(ua string) TransportOption {
	return func(o *transportOptions) { o.userAgent = ua }
}

// WithCookieDomains limits the Cookie header to hosts whose registrable
// domain is one of domains.
func WithCookieDomains(domains ...string) TransportOption {
	return func(o *transportOptions) { o.cookieDomains = domains }
}

// WithRootCAs replaces the system roots used to verify servers. Verification
// itself stays on.
func WithRootCAs(pool *x509.CertPool) TransportOption {
	return func(o *transportOptions) { o.rootCAs = pool }
}

func NewHTTPTransport(opts ...TransportOption) *HTTPTransport {
	o := transportOptions{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	rt := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   o.timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			RootCAs:    o.rootCAs,
		},
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: o.timeout,
	}

	domains := make([]string, 0, len(o.cookieDomains))
	for _, d := range o.cookieDomains {
		if d = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), ".")); d != "" {
			domains = append(domains, d)
		}
	}

	return &HTTPTransport{
		client: &http.Client{
			Timeout:   o.timeout,
			Transport: rt,
			// The login endpoint signals success with a 302.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent:     o.userAgent,
		cookieDomains: domains,
	}
}

func (t *HTTPTransport) Request(rawURL string, method Method, form map[string]string, jar *Jar) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedScheme, err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	var body io.Reader
	switch method {
	case MethodGet:
	case MethodPost:
		body = strings.NewReader(EncodeForm(form))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	req, err := http.NewRequest(string(method), u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if method == MethodPost {
		req.Header.Set("Content-Type", formContentType)
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if jar.Len() > 0 && t.cookieAllowed(u.Hostname()) {
		req.Header.Set("Cookie", CookieString(jar))
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, u.Host, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       data,
		Header:     headerLines(resp),
	}, nil
}

func (t *HTTPTransport) cookieAllowed(host string) bool {
	if len(t.cookieDomains) == 0 {
		return true
	}
	scope := cookieScope(host)
	for _, d := range t.cookieDomains {
		if scope == d {
			return true
		}
	}
	return false
}

// cookieScope is the registrable domain of host, or host itself when it has
// none (IP addresses, single-label names).
func cookieScope(host string) string {
	host = strings.ToLower(host)
	if net.ParseIP(host) != nil {
		return host
	}
	if scope, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return scope
	}
	return host
}

func headerLines(resp *http.Response) []string {
	lines := []string{fmt.Sprintf("HTTP/%d.%d %s", resp.ProtoMajor, resp.ProtoMinor, resp.Status)}
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range resp.Header[name] {
			lines = append(lines, name+": "+value)
		}
	}
	return lines
}
