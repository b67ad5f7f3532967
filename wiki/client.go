package wiki

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
)

// APIError - an error object returned by the MediaWiki Action API
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wiki api: %s: %s", e.Code, e.Info)
}

// Options - how to reach and authenticate against the wiki
type Options struct {
	API        string // e.g. https://stellasora.miraheze.org/w/api.php
	User       string // bot password user, "Name@bot"
	Password   string
	UserAgent  string
	DryRun     bool // log writes instead of performing them
	Timeout    time.Duration
	HTTPClient *http.Client
}

const defaultUserAgent = "wikigen/1.0"

// Client talks to one MediaWiki site.
type Client struct {
	api  string
	opts Options
	http *http.Client
	mu   sync.Mutex
	csrf string
}

// New creates a client. It does not log in; call Login before writing.
func New(opts Options) (*Client, error) {
	if opts.API == "" {
		return nil, errors.New("wiki api url is empty")
	}
	if _, err := url.Parse(opts.API); err != nil {
		return nil, fmt.Errorf("bad wiki api url: %w", err)
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		hc.Jar = jar
	}
	return &Client{api: opts.API, opts: opts, http: hc}, nil
}

func (c *Client) DryRun() bool {
	return c.opts.DryRun
}

// Login authenticates with a bot password. Without credentials the client
// stays anonymous, which is enough for reads and dry runs.
func (c *Client) Login(ctx context.Context) error {
	if c.opts.User == "" {
		log.Warn().Msg("[Wiki] no credentials configured, staying anonymous")
		return nil
	}
	token, err := c.token(ctx, "login")
	if err != nil {
		return err
	}
	var resp struct {
		Login struct {
			Result   string `json:"result"`
			Reason   string `json:"reason"`
			Username string `json:"lgusername"`
		} `json:"login"`
	}
	err = c.post(ctx, url.Values{
		"action":     {"login"},
		"lgname":     {c.opts.User},
		"lgpassword": {c.opts.Password},
		"lgtoken":    {token},
	}, &resp)
	if err != nil {
		return err
	}
	if resp.Login.Result != "Success" {
		return fmt.Errorf("wiki login failed: %s %s", resp.Login.Result, resp.Login.Reason)
	}
	c.mu.Lock()
	c.csrf = ""
	c.mu.Unlock()
	log.Info().Str("user", resp.Login.Username).Msg("[Wiki] logged in")
	return nil
}

func (c *Client) token(ctx context.Context, kind string) (string, error) {
	var resp struct {
		Query struct {
			Tokens map[string]string `json:"tokens"`
		} `json:"query"`
	}
	err := c.get(ctx, url.Values{"action": {"query"}, "meta": {"tokens"}, "type": {kind}}, &resp)
	if err != nil {
		return "", err
	}
	token, ok := resp.Query.Tokens[kind+"token"]
	if !ok || token == "" {
		return "", fmt.Errorf("wiki returned no %s token", kind)
	}
	return token, nil
}

// csrfToken returns the cached edit token, fetching it once.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.csrf
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}
	token, err := c.token(ctx, "csrf")
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.csrf = token
	c.mu.Unlock()
	return token, nil
}

func withDefaults(params url.Values) url.Values {
	params.Set("format", "json")
	params.Set("formatversion", "2")
	return params
}

func (c *Client) get(ctx context.Context, params url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.api+"?"+withDefaults(params).Encode(), nil)
	if err != nil {
		return err
	}
	return c.do(req, v)
}

func (c *Client) post(ctx context.Context, params url.Values, v any) error {
	body := withDefaults(params).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.api, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, v)
}

func (c *Client) postMultipart(ctx context.Context, params url.Values, field, filename string, content io.Reader, v any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vals := range withDefaults(params) {
		for _, val := range vals {
			if err := mw.WriteField(k, val); err != nil {
				return err
			}
		}
	}
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, content); err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.api, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v any) error {
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("wiki request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("wiki response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wiki returned status %d", resp.StatusCode)
	}
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode wiki response: %w", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if v == nil {
		return nil
	}
	if err := sonic.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode wiki response: %w", err)
	}
	return nil
}
