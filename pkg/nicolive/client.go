package nicolive

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Config struct {
	Endpoints     Endpoints
	Site          string
	TicketSite    string
	Timeout       time.Duration
	UserAgent     string
	CookieDomains []string
}

type Option func(*Client)

// WithTransport replaces the HTTP transport built from Config.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// Client is the public surface for one account. Every method holds the client
// lock for its whole duration, so operations never interleave.
type Client struct {
	mu sync.Mutex

	endpoints  Endpoints
	site       string
	ticketSite string

	transport Transport
	log       zerolog.Logger
	now       func() time.Time

	jar     *Jar
	account Credentials
	profile LiveProfile
}

func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		endpoints:  fillEndpoints(cfg.Endpoints),
		site:       cfg.Site,
		ticketSite: cfg.TicketSite,
		log:        zerolog.Nop(),
		now:        time.Now,
		jar:        NewJar(),
	}
	if c.site == "" {
		c.site = SiteNicolive
	}
	if c.ticketSite == "" {
		c.ticketSite = SiteNicoliveEncoder
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		topts := []TransportOption{WithUserAgent(cfg.UserAgent), WithCookieDomains(cfg.CookieDomains...)}
		if cfg.Timeout > 0 {
			topts = append(topts, WithTimeout(cfg.Timeout))
		}
		c.transport = NewHTTPTransport(topts...)
	}
	c.log = c.log.With().Str("client", uuid.NewString()).Logger()

	return c
}

func fillEndpoints(e Endpoints) Endpoints {
	d := DefaultEndpoints()
	if e.Login == "" {
		e.Login = d.Login
	}
	if e.TicketLogin == "" {
		e.TicketLogin = d.TicketLogin
	}
	if e.PublishStatus == "" {
		e.PublishStatus = d.PublishStatus
	}
	if e.LiveProfile == "" {
		e.LiveProfile = d.LiveProfile
	}
	return e
}

// SetAccount stores credentials for the next Login. They are dropped once
// that login completes.
func (c *Client) SetAccount(creds Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.account = creds
}

// Login authenticates the stored account against the configured site.
func (c *Client) Login() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	creds := c.account
	c.account = Credentials{}
	return c.login(c.site, creds)
}

func (c *Client) LoginWith(site string, creds Credentials) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.login(site, creds)
}

func (c *Client) LoginNicolive(creds Credentials) error {
	return c.LoginWith(SiteNicolive, creds)
}

// LoginByTicket exchanges credentials for a ticket without touching the
// cookie session. An empty site uses the configured ticket site.
func (c *Client) LoginByTicket(site string, creds Credentials) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if site == "" {
		site = c.ticketSite
	}
	return c.loginByTicket(site, creds)
}

func (c *Client) LoginEncoder(creds Credentials) (string, error) {
	return c.LoginByTicket(SiteNicoliveEncoder, creds)
}

// SetSession adopts an existing user_session token in place of a login.
func (c *Client) SetSession(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSession(token)
}

func (c *Client) Session() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session()
}

func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jar.Authenticated()
}

func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jar.Clear()
	c.profile = LiveProfile{}
}

// CheckSession reports whether the server accepts the current session. Both
// live and not-live answers count as valid.
func (c *Client) CheckSession() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	status, err := c.publishStatus()
	if err != nil {
		return false
	}
	return status.State != StateUnknown
}

func (c *Client) PublishStatus() (LiveStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publishStatus()
}

// PublishStatusByTicket returns the raw extraction for queries, or for
// PublishStatusQueries when none are given.
func (c *Client) PublishStatusByTicket(ticket string, queries ...string) (Fields, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publishStatusByTicket(ticket, queries)
}

func (c *Client) LiveProfile(id string) (LiveProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liveProfile(id)
}

// LiveID returns the current broadcast id, only once its profile has been
// fetched as well.
func (c *Client) LiveID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liveID()
}

func (c *Client) liveID() (string, bool) {
	c.profile = LiveProfile{}

	status, err := c.publishStatus()
	if err != nil || status.State != StateLive {
		return "", false
	}
	profile, err := c.liveProfile(status.LiveID)
	if err != nil {
		return "", false
	}
	return profile.LiveID, true
}

// LiveURL returns the stream URL of the last fetched profile if it belongs
// to id. It never refetches.
func (c *Client) LiveURL(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.profile.Valid() || c.profile.LiveID != id {
		return "", false
	}
	return c.profile.URL, true
}

func (c *Client) LiveKey(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.profile.Valid() || c.profile.LiveID != id {
		return "", false
	}
	return c.profile.Key, true
}

// Live resolves the current broadcast and its endpoint in one call.
func (c *Client) Live() (LiveProfile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.liveID(); !ok {
		return LiveProfile{}, false
	}
	return c.profile, true
}
