package nicolive

import (
	"fmt"
	"strings"
)

const (
	LoginSiteURL   = "https://secure.nicovideo.jp/secure/login"
	LoginAPIURL    = "https://account.nicovideo.jp/api/v1/login"
	PubStatURL     = "http://live.nicovideo.jp/api/getpublishstatus"
	LiveProfileURL = "http://live.nicovideo.jp/api/getfmeprofile"

	SiteNicolive        = "nicolive"
	SiteNicoliveEncoder = "nicolive_encoder"

	SessionCookie = "user_session"
)

// Endpoints holds the URLs of every API the client talks to.
type Endpoints struct {
	Login         string `toml:"login" validate:"required,url"`
	TicketLogin   string `toml:"ticket_login" validate:"required,url"`
	PublishStatus string `toml:"publish_status" validate:"required,url"`
	LiveProfile   string `toml:"live_profile" validate:"required,url"`
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login:         LoginSiteURL,
		TicketLogin:   LoginAPIURL,
		PublishStatus: PubStatURL,
		LiveProfile:   LiveProfileURL,
	}
}

type Credentials struct {
	Mail     string
	Password string
}

// String never includes the password.
func (c Credentials) String() string {
	if c.Mail == "" {
		return "Credentials{}"
	}
	return fmt.Sprintf("Credentials{Mail: %s, Password: [redacted]}", maskMail(c.Mail))
}

func (c Credentials) Empty() bool {
	return c.Mail == "" || c.Password == ""
}

func maskMail(mail string) string {
	at := strings.IndexByte(mail, '@')
	if at <= 1 {
		return "***"
	}
	return mail[:1] + "***" + mail[at:]
}

type LiveState int

const (
	StateNotLive LiveState = iota
	StateLive
	StateUnknown
)

func (s LiveState) String() string {
	switch s {
	case StateNotLive:
		return "not-live"
	case StateLive:
		return "live"
	default:
		return "unknown"
	}
}

// LiveStatus is the interpreted publish status. LiveID is set only for
// StateLive, ErrorCode only for StateUnknown.
type LiveStatus struct {
	State     LiveState
	LiveID    string
	ErrorCode string
}

func NotLive() LiveStatus {
	return LiveStatus{State: StateNotLive}
}

func Live(id string) LiveStatus {
	return LiveStatus{State: StateLive, LiveID: id}
}

func Unknown(code string) LiveStatus {
	return LiveStatus{State: StateUnknown, ErrorCode: code}
}

func (s LiveStatus) String() string {
	switch s.State {
	case StateLive:
		return "live(" + s.LiveID + ")"
	case StateUnknown:
		return "unknown(" + s.ErrorCode + ")"
	default:
		return s.State.String()
	}
}

// LiveProfile is the ingestion endpoint of one broadcast.
type LiveProfile struct {
	LiveID string
	URL    string
	Key    string
}

func (p LiveProfile) Valid() bool {
	return p.LiveID != "" && p.URL != "" && p.Key != ""
}
