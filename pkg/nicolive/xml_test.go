package nicolive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userResponseOK = `<?xml version="1.0" encoding="utf-8"?>
<nicovideo_user_response status="ok">
  <ticket>nicolive_encoder_abcdef</ticket>
</nicovideo_user_response>`

func TestExtract(t *testing.T) {
	fields, err := Extract([]byte(userResponseOK), QueryUserStatus, QueryUserTicket, "/nicovideo_user_response/ticket", "/nicovideo_user_response/missing")
	require.NoError(t, err)

	assert.Equal(t, []string{"ok"}, fields[QueryUserStatus])
	assert.Equal(t, []string{"nicolive_encoder_abcdef"}, fields[QueryUserTicket])
	assert.Equal(t, []string{"nicolive_encoder_abcdef"}, fields["/nicovideo_user_response/ticket"])
	assert.Empty(t, fields["/nicovideo_user_response/missing"])
	assert.Contains(t, fields, "/nicovideo_user_response/missing")
}

func TestExtractMultipleMatches(t *testing.T) {
	body := `<list><item id="a">1</item><item id="b">2</item></list>`

	fields, err := Extract([]byte(body), "/list/item", "/list/item/@id")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, fields["/list/item"])
	assert.Equal(t, []string{"a", "b"}, fields["/list/item/@id"])
}

func TestExtractMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t"},
		{"not xml", "Service Unavailable"},
		{"html error page", "<html><body><p>oops</body></html>"},
		{"truncated", `<getpublishstatus status="ok"><stream><id>lv1`},
		{"mismatched tags", `<a><b></a></b>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := Extract([]byte(tt.body), QueryPubStatStatus)
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.Nil(t, fields)
		})
	}
}

func TestExtractInvalidQuery(t *testing.T) {
	_, err := Extract([]byte(userResponseOK), "///[")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestFieldsFirst(t *testing.T) {
	fields := Fields{
		"a": {"", "  ", " x ", "y"},
		"b": {},
	}

	v, ok := fields.First("a")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = fields.First("b")
	assert.False(t, ok)

	_, ok = fields.First("missing")
	assert.False(t, ok)
}
