package nicolive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name    string
		resp    *Response
		wantErr bool
	}{
		{"302 with valid cookie", reply(302, "", "user_session=user_session_1_abc; Path=/; Domain=.nicovideo.jp"), false},
		{"302 with deleted cookie", reply(302, "", "user_session=deleted; Max-Age=0"), true},
		{"302 with empty cookie", reply(302, "", "user_session=; Path=/"), true},
		{"200 with valid cookie", reply(200, "<html/>", "user_session=user_session_1_abc; Path=/"), true},
		{"302 without set-cookie", reply(302, ""), true},
		{"302 with other cookies only", reply(302, "", "nicosid=1.2; Path=/"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ft := newTestClient(t, tt.resp)

			err := c.LoginWith(SiteNicolive, testCreds)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrAuthenticationFailed)
				assert.False(t, c.Authenticated())
				_, ok := c.Session()
				assert.False(t, ok)
			} else {
				require.NoError(t, err)
				assert.True(t, c.Authenticated())
				session, ok := c.Session()
				assert.True(t, ok)
				assert.Equal(t, "user_session_1_abc", session)
			}

			require.Len(t, ft.calls, 1)
			call := ft.calls[0]
			assert.Equal(t, LoginSiteURL+"?site=nicolive", call.URL)
			assert.Equal(t, MethodPost, call.Method)
			assert.Equal(t, map[string]string{"mail": testCreds.Mail, "password": testCreds.Password}, call.Form)
		})
	}
}

func TestLoginReasonsAreDistinct(t *testing.T) {
	c, _ := newTestClient(t, reply(200, ""), reply(302, "", "user_session=deleted"), reply(302, ""))

	err := c.LoginNicolive(testCreds)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 200, statusErr.Code)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	err = c.LoginNicolive(testCreds)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Contains(t, err.Error(), "invalidated")

	err = c.LoginNicolive(testCreds)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Contains(t, err.Error(), "no session cookie")
}

func TestLoginClearsPreviousSession(t *testing.T) {
	c, ft := newTestClient(t, reply(403, ""))
	c.SetSession("user_session_old")
	require.True(t, c.Authenticated())

	err := c.LoginWith("nicolive", testCreds)
	assert.Error(t, err)
	assert.False(t, c.Authenticated())

	require.Len(t, ft.calls, 1)
	assert.Empty(t, ft.calls[0].Cookies, "login must start from an empty jar")
}

func TestLoginUsesStoredAccountOnce(t *testing.T) {
	c, ft := newTestClient(t, reply(302, "", "user_session=user_session_2"))
	c.SetAccount(testCreds)

	require.NoError(t, c.Login())
	assert.Equal(t, testCreds.Mail, ft.calls[0].Form["mail"])

	err := c.Login()
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Len(t, ft.calls, 1, "credentials are dropped after the first attempt")
}

func TestLoginMissingCredentials(t *testing.T) {
	c, ft := newTestClient(t)

	err := c.LoginWith("nicolive", Credentials{Mail: "user@example.com"})
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Empty(t, ft.calls)
}

func TestLoginTransportError(t *testing.T) {
	c, _ := newTestClient(t)
	c.transport.(*fakeTransport).errs = []error{errors.Join(ErrTransport, errors.New("dial tcp: connection refused"))}

	err := c.LoginWith("nicolive", testCreds)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotContains(t, err.Error(), testCreds.Password)
}

func TestLoginSiteIsEncoded(t *testing.T) {
	c, ft := newTestClient(t, reply(302, "", "user_session=s"))

	require.NoError(t, c.LoginWith("nico live&x", testCreds))
	assert.Equal(t, LoginSiteURL+"?site=nico+live%26x", ft.calls[0].URL)
}

func TestLoginByTicket(t *testing.T) {
	c, ft := newTestClient(t, reply(200, userResponseOK, "user_session=should_be_ignored"))
	c.SetSession("user_session_existing")

	ticket, err := c.LoginEncoder(testCreds)
	require.NoError(t, err)
	assert.Equal(t, "nicolive_encoder_abcdef", ticket)

	require.Len(t, ft.calls, 1)
	call := ft.calls[0]
	assert.Equal(t, LoginAPIURL, call.URL)
	assert.Equal(t, MethodPost, call.Method)
	assert.Equal(t, map[string]string{
		"site":     SiteNicoliveEncoder,
		"time":     "1700000000",
		"mail":     testCreds.Mail,
		"password": testCreds.Password,
	}, call.Form)
	assert.Empty(t, call.Cookies, "session cookies are not sent to the ticket api")

	session, ok := c.Session()
	assert.True(t, ok)
	assert.Equal(t, "user_session_existing", session)
}

func TestLoginByTicketDefaultSite(t *testing.T) {
	c, ft := newTestClient(t, reply(200, userResponseOK))

	_, err := c.LoginByTicket("", testCreds)
	require.NoError(t, err)
	assert.Equal(t, SiteNicoliveEncoder, ft.calls[0].Form["site"])
}

func TestLoginByTicketFailures(t *testing.T) {
	tests := []struct {
		name   string
		resp   *Response
		target error
	}{
		{"bad status code", reply(500, userResponseOK), ErrUnexpectedStatus},
		{"fail status", reply(200, `<nicovideo_user_response status="fail"><error><code>1</code></error></nicovideo_user_response>`), ErrAuthenticationFailed},
		{"no ticket", reply(200, `<nicovideo_user_response status="ok"></nicovideo_user_response>`), ErrMalformedResponse},
		{"blank ticket", reply(200, `<nicovideo_user_response status="ok"><ticket>  </ticket></nicovideo_user_response>`), ErrMalformedResponse},
		{"no status", reply(200, `<nicovideo_user_response><ticket>t</ticket></nicovideo_user_response>`), ErrMalformedResponse},
		{"not xml", reply(200, `maintenance`), ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.resp)

			ticket, err := c.LoginByTicket(SiteNicoliveEncoder, testCreds)
			assert.ErrorIs(t, err, tt.target)
			assert.Empty(t, ticket)
		})
	}
}

func TestSetSession(t *testing.T) {
	c, _ := newTestClient(t)

	c.SetSession("deleted")
	assert.False(t, c.Authenticated())

	c.SetSession("")
	assert.False(t, c.Authenticated())

	c.SetSession("user_session_42")
	session, ok := c.Session()
	assert.True(t, ok)
	assert.Equal(t, "user_session_42", session)

	c.Logout()
	_, ok = c.Session()
	assert.False(t, ok)
}

func TestCredentialsString(t *testing.T) {
	s := testCreds.String()
	assert.NotContains(t, s, testCreds.Password)
	assert.NotContains(t, s, "user@")
	assert.Contains(t, s, "[redacted]")
	assert.Equal(t, "Credentials{}", Credentials{}.String())
}
