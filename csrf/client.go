// Package csrf performs HTTP exchanges the way a browser talking to a Django
// backend does: cookies are sent for the page's own origin and every unsafe
// request echoes the csrftoken cookie back in the X-CSRFToken header.
//
// Each exchange runs as a pipeline of named stages. The request stages build
// the options, the send stage performs the call and the response stages
// classify the result:
//
//	FetchText: headers => method => credentials => token => send => read => status
//	FetchJSON: json headers => headers => ... => read => empty body => parse => status
//
// FetchJSON separates bodies that do not parse (*InvalidJSONError) from bodies
// that parse but came with a failing status (*ResponseError). Transport errors
// are returned unchanged.
package csrf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mitodl/redux-hammock/logging"
)

// Doer performs a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(*http.Request) (*http.Response, error)

func (f DoerFunc) Do(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Client issues CSRF-protected requests. It is safe for concurrent use.
type Client struct {
	doer    Doer
	base    *url.URL
	jar     http.CookieJar
	cookies CookieSource
	logger  logging.Logger
}

type Option func(*Client) error

// WithDoer replaces the HTTP primitive requests are sent with. The doer should
// not carry its own cookie jar; the client manages cookies itself.
func WithDoer(d Doer) Option {
	return func(c *Client) error {
		c.doer = d
		return nil
	}
}

// WithBaseURL sets the origin relative URLs are resolved against. It is also
// the origin the same-origin credentials policy compares with.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("csrf: base url: %w", err)
		}
		if !u.IsAbs() {
			return fmt.Errorf("csrf: base url %q is not absolute", raw)
		}
		c.base = u
		return nil
	}
}

// WithJar replaces the cookie jar. A nil jar disables cookie handling.
func WithJar(jar http.CookieJar) Option {
	return func(c *Client) error {
		c.jar = jar
		return nil
	}
}

// WithCookies sets where the CSRF token cookie is read from. By default it is
// read from the client's jar.
func WithCookies(src CookieSource) Option {
	return func(c *Client) error {
		c.cookies = src
		return nil
	}
}

func WithLogger(lgr logging.Logger) Option {
	return func(c *Client) error {
		c.logger = lgr
		return nil
	}
}

// NewClient builds a client. Without options it sends requests with a plain
// http.Client and keeps cookies in a fresh jar.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		doer: &http.Client{},
		jar:  NewJar(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.cookies == nil && c.jar != nil {
		c.cookies = JarCookies{Jar: c.jar}
	}
	return c, nil
}

// DefaultClient is used by FetchWithCSRF and FetchJSONWithCSRF.
var DefaultClient = mustClient()

func mustClient() *Client {
	c, err := NewClient()
	if err != nil {
		panic(err)
	}
	return c
}

// FetchWithCSRF calls DefaultClient.FetchText.
func FetchWithCSRF(ctx context.Context, rawURL string, init Init) (string, error) {
	return DefaultClient.FetchText(ctx, rawURL, init)
}

// FetchJSONWithCSRF calls DefaultClient.FetchJSON.
func FetchJSONWithCSRF(ctx context.Context, rawURL string, init Init) (any, error) {
	return DefaultClient.FetchJSON(ctx, rawURL, init)
}

// FetchText sends the request and returns the response body as text. A status
// outside [200, 300) fails with a *StatusError.
func (c *Client) FetchText(ctx context.Context, rawURL string, init Init) (string, error) {
	x, err := c.exchange(rawURL, init)
	if err != nil {
		return "", err
	}

	pipeline := Append(formatRequest(), First(
		sendStage()).Then(
		readStage()).Then(
		textStatusStage()))

	if err := c.run(ctx, pipeline, x); err != nil {
		return "", err
	}
	return x.Text, nil
}

// FetchJSON sends the request with JSON content headers and returns the parsed
// body. An empty body counts as "{}".
func (c *Client) FetchJSON(ctx context.Context, rawURL string, init Init) (any, error) {
	x, err := c.exchange(rawURL, init)
	if err != nil {
		return nil, err
	}

	pipeline := Append(formatJSONRequest(), First(
		sendStage()).Then(
		readStage()).Then(
		emptyBodyStage()).Then(
		parseStage()).Then(
		jsonStatusStage()))

	if err := c.run(ctx, pipeline, x); err != nil {
		return nil, err
	}
	return x.Value, nil
}

// FormatRequest returns the options FetchText would send to rawURL.
func (c *Client) FormatRequest(rawURL string, init Init) (Init, error) {
	return c.format(rawURL, init, formatRequest())
}

// FormatJSONRequest returns the options FetchJSON would send to rawURL.
func (c *Client) FormatJSONRequest(rawURL string, init Init) (Init, error) {
	return c.format(rawURL, init, formatJSONRequest())
}

func (c *Client) format(rawURL string, init Init, ch *Chain) (Init, error) {
	x, err := c.exchange(rawURL, init)
	if err != nil {
		return Init{}, err
	}
	if err := Execute(context.Background(), ch, x, nil); err != nil {
		return Init{}, err
	}
	return x.Init, nil
}

func (c *Client) exchange(rawURL string, init Init) (*Exchange, error) {
	target, err := c.resolve(rawURL)
	if err != nil {
		return nil, err
	}
	return &Exchange{URL: rawURL, Init: init, target: target, client: c}, nil
}

func (c *Client) run(ctx context.Context, ch *Chain, x *Exchange) error {
	if c.logger != nil {
		c.logger.LogMessage("csrf: fetch " + x.target.String())
	}
	err := Execute(ctx, ch, x, c.logger)
	if x.Response != nil {
		x.Response.Body.Close()
	}
	return err
}

func (c *Client) resolve(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if c.base != nil {
		u = c.base.ResolveReference(u)
	}
	return u, nil
}

// sendsCredentials applies the credentials policy to a request for u.
func (c *Client) sendsCredentials(cred Credentials, u *url.URL) bool {
	if c.jar == nil {
		return false
	}
	switch cred {
	case Omit:
		return false
	case Include:
		return true
	}
	return c.base == nil || sameOrigin(c.base, u)
}

func sameOrigin(a, b *url.URL) bool {
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.NewReader(b), nil
	case []byte:
		return bytes.NewReader(b), nil
	case io.Reader:
		return b, nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("csrf: encode body: %w", err)
	}
	return bytes.NewReader(raw), nil
}

func sendStage() *Stage {
	return &Stage{
		Name: "  => send =>",
		F: func(ctx context.Context, x *Exchange) error {

			body, err := encodeBody(x.Init.Body)
			if err != nil {
				return err
			}

			req, err := http.NewRequestWithContext(ctx, x.Init.Method, x.target.String(), body)
			if err != nil {
				return err
			}
			for k, v := range x.Init.Headers {
				req.Header.Set(k, v)
			}

			credentials := x.client.sendsCredentials(x.Init.Credentials, x.target)
			if credentials {
				for _, ck := range x.client.jar.Cookies(x.target) {
					req.AddCookie(ck)
				}
			}

			resp, err := x.client.doer.Do(req)
			if err != nil {
				return err
			}

			if credentials {
				if cookies := resp.Cookies(); len(cookies) > 0 {
					x.client.jar.SetCookies(x.target, cookies)
				}
			}

			x.Response = resp
			return nil
		},
	}
}

func readStage() *Stage {
	return &Stage{
		Name: "  => Response.Text =>",
		F: func(ctx context.Context, x *Exchange) error {
			b, err := io.ReadAll(x.Response.Body)
			if err != nil {
				return err
			}
			x.Text = string(b)
			return nil
		},
	}
}

func statusOK(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func textStatusStage() *Stage {
	return &Stage{
		Name: "  => Response.Status",
		F: func(ctx context.Context, x *Exchange) error {
			if !statusOK(x.Response) {
				return &StatusError{Body: x.Text, StatusCode: x.Response.StatusCode}
			}
			return nil
		},
	}
}

func emptyBodyStage() *Stage {
	return &Stage{
		Name: "  => Response.Text(default \"{}\") =>",
		F: func(ctx context.Context, x *Exchange) error {
			if x.Text == "" {
				x.Text = "{}"
			}
			return nil
		},
	}
}

func parseStage() *Stage {
	return &Stage{
		Name: "  => .(JSON) =>",
		F: func(ctx context.Context, x *Exchange) error {
			var v any
			if err := json.Unmarshal([]byte(x.Text), &v); err != nil {
				return &InvalidJSONError{URL: x.URL, StatusCode: x.Response.StatusCode, Err: err}
			}
			x.Value = v
			return nil
		},
	}
}

func jsonStatusStage() *Stage {
	return &Stage{
		Name: "  => Response.Status",
		F: func(ctx context.Context, x *Exchange) error {
			if !statusOK(x.Response) {
				return &ResponseError{StatusCode: x.Response.StatusCode, Data: x.Value}
			}
			return nil
		},
	}
}
