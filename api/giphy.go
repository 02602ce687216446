package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	clientTimeout  = 30 * time.Second
	defaultBaseURL = "https://api.giphy.com"
	userAgent      = "giphydl"

	// redactedKey replaces the api key in the URLs of returned errors.
	redactedKey = "REDACTED"
)

var (
	ErrCreateRequest     = errors.New("error creating a request")
	ErrInvalidStatusCode = errors.New("invalid status code")
	ErrMalformedResponse = errors.New("malformed response")
	ErrEmptyOptions      = errors.New("empty options")
)

// Client is the client used to make requests to giphy and to the hosts serving the media.
type Client struct {
	Search *SearchService

	client *http.Client
	base   *url.URL
	apiKey string
}

// NewClient returns a client for the public giphy api, authenticated by the api key.
//
// The timeout bounds connecting and waiting for the response headers,
// so large files are not cut off while their body is streamed.
func NewClient(apiKey string) *Client {
	baseURL, _ := url.Parse(defaultBaseURL)
	c := &Client{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: clientTimeout,
				}).DialContext,
				TLSHandshakeTimeout:   clientTimeout,
				ResponseHeaderTimeout: clientTimeout,
			},
		},
		base:   baseURL,
		apiKey: apiKey,
	}
	c.Search = &SearchService{client: c}
	return c
}

func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.client.Timeout = timeout
	return c
}

func (c *Client) WithBaseURL(u *url.URL) *Client {
	c.base = u
	return c
}

func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

// SearchOptions are the parameters of a single search page.
type SearchOptions struct {
	Category Category
	Query    string
	Rating   string
	Limit    int
	Offset   int
}

// Do performs a search request described by opts.
func (c *Client) Do(ctx context.Context, opts *SearchOptions) (*http.Response, error) {
	if opts == nil {
		return nil, ErrEmptyOptions
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.optsURL(opts), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCreateRequest, err)
	}
	req.Header.Add("User-Agent", userAgent)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, redact(err)
	}
	return res, nil
}

// GetURL performs a plain GET request, it is used to fetch the media files.
func (c *Client) GetURL(ctx context.Context, surl string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, surl, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCreateRequest, err)
	}
	req.Header.Add("User-Agent", userAgent)

	return c.client.Do(req)
}

func (c *Client) optsURL(opts *SearchOptions) string {
	u := c.base.
		JoinPath("v1").
		JoinPath(opts.Category.Endpoint()).
		JoinPath("search")

	values := u.Query()
	values.Add("api_key", c.apiKey)
	values.Add("q", opts.Query)
	values.Add("limit", strconv.Itoa(opts.Limit))
	values.Add("offset", strconv.Itoa(opts.Offset))
	values.Add("rating", opts.Rating)

	u.RawQuery = values.Encode()

	return u.String()
}

func (c *Client) BaseURL() *url.URL {
	return c.base
}

func (c *Client) APIKey() string {
	return c.apiKey
}

// redact removes the api key from the URL a *url.Error carries in its message.
func redact(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	return &url.Error{Op: uerr.Op, URL: redactURL(uerr.URL), Err: uerr.Err}
}

func redactURL(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	values := u.Query()
	if values.Has("api_key") {
		values.Set("api_key", redactedKey)
		u.RawQuery = values.Encode()
	}
	return u.String()
}
