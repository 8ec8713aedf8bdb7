package nicolive

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// exchange runs one request and folds any rotated cookies from the response
// back into jar.
func (c *Client) exchange(endpoint, rawURL string, method Method, form map[string]string, jar *Jar) (*Response, error) {
	log := c.log.With().Str("endpoint", endpoint).Logger()

	resp, err := c.transport.Request(rawURL, method, form, jar)
	if err != nil {
		log.Error().Err(err).Msg("request failed")
		return nil, err
	}

	if ParseSetCookie(resp.Header, jar) > 0 {
		log.Debug().Strs("cookies", jar.Names()).Msg("cookies updated")
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = ParseStatusLine(resp.Header)
	}

	log.Debug().Int("status", resp.StatusCode).Int("bytes", len(resp.Body)).Msg("response received")
	return resp, nil
}

func (c *Client) login(site string, creds Credentials) error {
	c.jar.Clear()
	c.profile = LiveProfile{}

	if creds.Empty() {
		return fmt.Errorf("%w: mail and password are required", ErrAuthenticationFailed)
	}

	form := map[string]string{
		"mail":     creds.Mail,
		"password": creds.Password,
	}

	c.log.Info().Str("site", site).Msg("login site")
	resp, err := c.exchange("login", withQuery(c.endpoints.Login, "site", site), MethodPost, form, c.jar)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if resp.StatusCode != http.StatusFound {
		c.jar.Clear()
		c.log.Warn().Int("status", resp.StatusCode).Msg("login rejected: unexpected status")
		return fmt.Errorf("%w: %w", ErrAuthenticationFailed, &StatusError{Endpoint: "login", Code: resp.StatusCode})
	}

	if !c.jar.Authenticated() {
		_, present := c.jar.Get(SessionCookie)
		c.jar.Clear()
		if present {
			c.log.Warn().Msg("login rejected: session cookie invalidated")
			return fmt.Errorf("%w: session cookie invalidated", ErrAuthenticationFailed)
		}
		c.log.Warn().Msg("login rejected: no session cookie")
		return fmt.Errorf("%w: no session cookie", ErrAuthenticationFailed)
	}

	c.log.Info().Msg("login success")
	return nil
}

func (c *Client) loginByTicket(site string, creds Credentials) (string, error) {
	if creds.Empty() {
		return "", fmt.Errorf("%w: mail and password are required", ErrAuthenticationFailed)
	}

	form := map[string]string{
		"site":     site,
		"time":     strconv.FormatInt(c.now().Unix(), 10),
		"mail":     creds.Mail,
		"password": creds.Password,
	}

	// The ticket exchange is independent of the cookie session.
	c.log.Info().Str("site", site).Msg("login api site")
	resp, err := c.exchange("ticket_login", c.endpoints.TicketLogin, MethodPost, form, NewJar())
	if err != nil {
		return "", fmt.Errorf("ticket login: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Endpoint: "ticket_login", Code: resp.StatusCode}
	}

	fields, err := Extract(resp.Body, QueryUserStatus, QueryUserTicket)
	if err != nil {
		c.log.Warn().Err(err).Msg("login api fail parse xml")
		return "", fmt.Errorf("ticket login: %w", err)
	}

	status, ok := fields.First(QueryUserStatus)
	if !ok {
		return "", fmt.Errorf("ticket login: %w: no status", ErrMalformedResponse)
	}
	if status != "ok" {
		c.log.Warn().Str("status", status).Msg("login api fail status")
		return "", fmt.Errorf("%w: ticket login status %q", ErrAuthenticationFailed, status)
	}

	ticket, ok := fields.First(QueryUserTicket)
	if !ok {
		return "", fmt.Errorf("ticket login: %w: no ticket", ErrMalformedResponse)
	}

	c.log.Info().Msg("login api success")
	return ticket, nil
}

func (c *Client) setSession(token string) {
	c.jar.Clear()
	c.profile = LiveProfile{}
	if token != "" {
		c.jar.Set(SessionCookie, token)
	}
}

func (c *Client) session() (string, bool) {
	if !c.jar.Authenticated() {
		return "", false
	}
	return c.jar.Get(SessionCookie)
}

func withQuery(base, key, value string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + URLEncode(key) + "=" + URLEncode(value)
}
