package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"

	"github.com/pmjdystats/pmjdy/internal/config"
	"github.com/pmjdystats/pmjdy/internal/model"
)

// maxRedirects bounds redirect chains; the archive redirects at most once
// (http -> https).
const maxRedirects = 10

// Client performs the archive's form exchange over one HTTP session.
// Cookies set by the landing page are kept in the client's jar and sent with
// every later request.
type Client struct {
	http       *resty.Client
	archiveURL string
	dateField  string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.http.SetHeader("User-Agent", ua)
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithDateField sets the name of the form field carrying the report date.
func WithDateField(name string) Option {
	return func(c *Client) {
		c.dateField = name
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the archive at archiveURL.
// No request is made until FetchFormState is called.
func NewClient(archiveURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(archiveURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, archiveURL)
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	h := resty.New()
	h.SetCookieJar(jar)
	h.SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))
	h.SetHeader("User-Agent", config.DefaultUserAgent)
	h.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.SetTimeout(config.DefaultTimeout)

	c := &Client{
		http:       h,
		archiveURL: u.String(),
		dateField:  config.DefaultDateField,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// URL returns the archive URL.
func (c *Client) URL() string {
	return c.archiveURL
}

// FetchFormState GETs the landing page and scrapes every named input
// element into a FormSession. The raw landing page is returned as well; it
// carries the datepicker settings the walk starts from.
func (c *Client) FetchFormState(ctx context.Context) (string, model.FormSession, error) {
	c.logger.Debug("fetching form state", "url", c.archiveURL)

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.archiveURL)
	body, err := c.readBody(res, err)
	if err != nil {
		return "", model.FormSession{}, err
	}

	fields, err := ParseFormFields(body)
	if err != nil {
		return "", model.FormSession{}, err
	}
	if len(fields) == 0 {
		return "", model.FormSession{}, ErrParse
	}

	c.logger.Debug("form state scraped", "fields", len(fields))
	return body, model.NewFormSession(fields), nil
}

// FetchPage POSTs the form for one report date and returns the response
// body. The date is written into a copy of session as DD/MM/YYYY; every
// other field is replayed unchanged. The response content is not checked.
func (c *Client) FetchPage(ctx context.Context, date time.Time, session model.FormSession) (string, error) {
	payload := session.WithField(c.dateField, model.FormDate(date))

	c.logger.Debug("fetching archive page",
		"date", model.ISODate(date),
		"url", c.archiveURL,
		"fields", payload.Len(),
	)

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(payload.Values()).
		Post(c.archiveURL)
	return c.readBody(res, err)
}

// readBody turns a resty result into UTF-8 text, mapping every failure onto
// ErrTransport.
func (c *Client) readBody(res *resty.Response, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if !res.IsSuccess() {
		return "", fmt.Errorf("%w: %s %s: %s",
			ErrTransport, res.Request.Method, res.Request.URL, res.Status())
	}

	r, err := charset.NewReader(bytes.NewReader(res.Body()), res.Header().Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("%w: decode body: %w", ErrTransport, err)
	}
	text, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: decode body: %w", ErrTransport, err)
	}
	return string(text), nil
}
