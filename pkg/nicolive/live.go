package nicolive

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/antchfx/xmlquery"
)

func (c *Client) publishStatus() (LiveStatus, error) {
	if !c.jar.Authenticated() {
		return Unknown(""), fmt.Errorf("%w: no session", ErrAuthenticationFailed)
	}

	resp, err := c.exchange("publish_status", c.endpoints.PublishStatus, MethodGet, nil, c.jar)
	if err != nil {
		return Unknown(""), fmt.Errorf("publish status: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Unknown(""), &StatusError{Endpoint: "publish_status", Code: resp.StatusCode}
	}

	fields, err := Extract(resp.Body, QueryPubStatStatus, QueryPubStatLiveID, QueryPubStatErrorCode)
	if err != nil {
		c.log.Warn().Err(err).Msg("publish status read error")
		return Unknown(""), fmt.Errorf("publish status: %w", err)
	}

	status, err := interpretPublishStatus(fields)
	if err != nil {
		return status, fmt.Errorf("publish status: %w", err)
	}

	switch status.State {
	case StateLive:
		c.log.Info().Str("live_id", status.LiveID).Msg("live waku")
	case StateNotLive:
		c.log.Info().Msg("no live waku")
	default:
		if status.ErrorCode == "unknown" {
			c.log.Warn().Msg("login session failed")
		} else {
			st, _ := fields.First(QueryPubStatStatus)
			c.log.Error().Str("status", st).Str("code", status.ErrorCode).Msg("unknown publish status")
		}
	}
	return status, nil
}

func interpretPublishStatus(fields Fields) (LiveStatus, error) {
	status, ok := fields.First(QueryPubStatStatus)
	if !ok {
		return Unknown(""), fmt.Errorf("%w: no status attribute", ErrMalformedResponse)
	}

	switch status {
	case "ok":
		id, ok := fields.First(QueryPubStatLiveID)
		if !ok {
			return Unknown(""), fmt.Errorf("%w: status ok without live id", ErrMalformedResponse)
		}
		return Live(id), nil
	case "fail":
		code, ok := fields.First(QueryPubStatErrorCode)
		if !ok {
			return Unknown(""), fmt.Errorf("%w: status fail without error code", ErrMalformedResponse)
		}
		if code == "notfound" {
			return NotLive(), nil
		}
		return Unknown(code), nil
	default:
		return Unknown(""), nil
	}
}

func (c *Client) publishStatusByTicket(ticket string, queries []string) (Fields, error) {
	if ticket == "" {
		return nil, fmt.Errorf("%w: empty ticket", ErrAuthenticationFailed)
	}
	if len(queries) == 0 {
		queries = PublishStatusQueries
	}

	form := map[string]string{
		"ticket":       ticket,
		"accept-multi": "0",
	}
	resp, err := c.exchange("publish_status_ticket", c.endpoints.PublishStatus, MethodPost, form, NewJar())
	if err != nil {
		return nil, fmt.Errorf("publish status ticket: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Endpoint: "publish_status_ticket", Code: resp.StatusCode}
	}

	fields, err := Extract(resp.Body, queries...)
	if err != nil {
		return nil, fmt.Errorf("publish status ticket: %w", err)
	}
	return fields, nil
}

// liveProfile fetches the RTMP endpoint for id. Any stored profile is dropped
// first, so a failed fetch never leaves a stale endpoint behind.
func (c *Client) liveProfile(id string) (LiveProfile, error) {
	c.profile = LiveProfile{}

	if id == "" {
		return LiveProfile{}, errors.New("live profile: empty live id")
	}
	if !c.jar.Authenticated() {
		return LiveProfile{}, fmt.Errorf("%w: no session", ErrAuthenticationFailed)
	}

	resp, err := c.exchange("live_profile", withQuery(c.endpoints.LiveProfile, "v", id), MethodGet, nil, c.jar)
	if err != nil {
		return LiveProfile{}, fmt.Errorf("live profile: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return LiveProfile{}, &StatusError{Endpoint: "live_profile", Code: resp.StatusCode}
	}

	profile, err := parseLiveProfile(resp.Body)
	if err != nil {
		c.log.Error().Err(err).Str("live_id", id).Msg("invalid live profile")
		return LiveProfile{}, fmt.Errorf("live profile: %w", err)
	}
	profile.LiveID = id

	c.profile = profile
	return profile, nil
}

func parseLiveProfile(body []byte) (LiveProfile, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return LiveProfile{}, err
	}

	rtmp, err := xmlquery.Query(doc, QueryProfileRTMP)
	if err != nil {
		return LiveProfile{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if rtmp == nil {
		return LiveProfile{}, fmt.Errorf("%w: no rtmp element", ErrMalformedResponse)
	}

	url := childText(rtmp, QueryProfileURL)
	if url == "" {
		return LiveProfile{}, fmt.Errorf("%w: rtmp without url", ErrMalformedResponse)
	}
	key := childText(rtmp, QueryProfileStream)
	if key == "" {
		return LiveProfile{}, fmt.Errorf("%w: rtmp without stream", ErrMalformedResponse)
	}

	return LiveProfile{URL: url, Key: key}, nil
}

func childText(parent *xmlquery.Node, name string) string {
	n, err := xmlquery.Query(parent, name)
	if err != nil || n == nil {
		return ""
	}
	return strings.TrimSpace(n.InnerText())
}
