package connectors

import (
	"context"
	"fmt"
	"strings"

	"crashwatch/src/crash"
	"crashwatch/src/model"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"
)

// CrashLogger is the part of the crash reporter the client needs.
type CrashLogger interface {
	LogCrash(errorLike any, opts ...crash.Option) *model.CrashReport
}

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Status)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + truncate(body, 200)
	}
	return msg
}

func (e *HTTPError) Name() string { return "HTTPError" }

// NetworkError wraps a transport failure: no response was received.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Name() string { return "NetworkError" }

// Client calls the board backend. Requests that end in a transport error or
// a 5xx status, after retries, are reported as crashes carrying a
// NetworkHint.
type Client struct {
	baseURL  string
	http     *resty.Client
	reporter CrashLogger
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	if r == nil {
		return false
	}

	code := r.StatusCode()

	if code >= 500 && code <= 599 {
		return true
	}
	if code == 429 {
		return true
	}
	if code == 408 {
		return true
	}
	return false
}

func NewClient(config Config, reporter CrashLogger) *Client {
	retryCount := config.RetryAttempts - 1
	if retryCount < 0 {
		retryCount = 0
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
		logger.Warnf("No base URL provided, using default: %s", baseURL)
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(config.Timeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(config.RetryBaseDelay).
		SetRetryMaxWaitTime(config.RetryMaxDelay).
		AddRetryCondition(isRetryableResp)

	return &Client{
		baseURL:  baseURL,
		http:     httpClient,
		reporter: reporter,
	}
}

// Do sends one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded JSON response.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)

	url := c.baseURL + path
	if resp != nil && resp.Request != nil && resp.Request.URL != "" {
		url = resp.Request.URL
	}

	if err != nil {
		netErr := &NetworkError{Method: method, URL: url, Err: err}
		// a cancelled caller is not a backend failure
		if ctx.Err() == nil {
			c.report(netErr, model.NetworkHint{URL: url, Method: method})
		}
		return netErr
	}

	status := resp.StatusCode()
	if status >= 200 && status <= 299 {
		return nil
	}

	httpErr := &HTTPError{Method: method, URL: url, Status: status, Body: resp.String()}
	if status >= 500 {
		c.report(httpErr, model.NetworkHint{URL: url, Status: status, Method: method})
	}
	return httpErr
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, resty.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, resty.MethodPost, path, body, out)
}

func (c *Client) report(err error, hint model.NetworkHint) {
	if c.reporter == nil {
		return
	}
	c.reporter.LogCrash(err, crash.WithNetworkHint(hint))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
