package nicolive

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

const (
	QueryUserStatus = "/nicovideo_user_response/@status"
	QueryUserTicket = "/nicovideo_user_response/ticket/text()"

	QueryPubStatStatus    = "/getpublishstatus/@status"
	QueryPubStatLiveID    = "/getpublishstatus/stream/id"
	QueryPubStatErrorCode = "/getpublishstatus/error/code"
	QueryPubStatRTMPURL   = "/getpublishstatus/rtmp/url"
	QueryPubStatRTMPKey   = "/getpublishstatus/rtmp/stream"
	QueryPubStatTicket    = "/getpublishstatus/rtmp/ticket"

	QueryProfileRTMP   = "//rtmp"
	QueryProfileURL    = "url"
	QueryProfileStream = "stream"
)

var PublishStatusQueries = []string{
	QueryPubStatStatus,
	QueryPubStatLiveID,
	QueryPubStatErrorCode,
	QueryPubStatRTMPURL,
	QueryPubStatRTMPKey,
	QueryPubStatTicket,
}

// Fields maps each XPath query to its matches in document order.
type Fields map[string][]string

// First returns the first non-blank match of query, trimmed.
func (f Fields) First(query string) (string, bool) {
	for _, v := range f[query] {
		if v = strings.TrimSpace(v); v != "" {
			return v, true
		}
	}
	return "", false
}

func parseDocument(body []byte) (*xmlquery.Node, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !hasRootElement(doc) {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedResponse)
	}
	return doc, nil
}

func hasRootElement(doc *xmlquery.Node) bool {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return true
		}
	}
	return false
}

// Extract evaluates every query against body. A query without matches maps
// to an empty slice; only an unparseable body or an invalid query fails.
func Extract(body []byte, queries ...string) (Fields, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}
	fields := make(Fields, len(queries))
	for _, q := range queries {
		values, err := queryValues(doc, q)
		if err != nil {
			return nil, err
		}
		fields[q] = values
	}
	return fields, nil
}

func queryValues(top *xmlquery.Node, query string) ([]string, error) {
	nodes, err := xmlquery.QueryAll(top, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query %q: %v", ErrMalformedResponse, query, err)
	}
	values := make([]string, 0, len(nodes))
	for _, n := range nodes {
		values = append(values, nodeValue(n))
	}
	return values, nil
}

func nodeValue(n *xmlquery.Node) string {
	if n.Type == xmlquery.AttributeNode && n.FirstChild == nil && n.Parent != nil {
		return n.Parent.SelectAttr(n.Data)
	}
	return n.InnerText()
}
