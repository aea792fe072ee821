// Package mediawiki provides a resilient MediaWiki Action API client
package mediawiki

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "editledger/internal/platform/errors"
	"editledger/internal/platform/logger"
)

const (
	baseTemplateDefault = "https://{wiki}.wikipedia.org/w/api.php"
	defaultTimeout      = 10 * time.Second
	defaultUA           = "editledger"
	defaultMaxRetry     = 5
	defaultRetryBase    = 500 * time.Millisecond
)

// Options configures the Client
type Options struct {
	// BaseTemplate is the api.php URL with a {wiki} placeholder that is
	// replaced by the wiki id on every call
	BaseTemplate string
	UserAgent    string
	Timeout      time.Duration

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client is a minimal Action API client with retries and maxlag handling
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseTemplate == "" {
		o.BaseTemplate = baseTemplateDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("mediawiki"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// endpoint resolves the api.php URL for one wiki
func (c *Client) endpoint(wiki string) string {
	return strings.ReplaceAll(c.opts.BaseTemplate, "{wiki}", wiki)
}

// Do issues one GET with retries. Every call carries format=json and
// formatversion=2 on top of the given params
func (c *Client) Do(ctx context.Context, wiki string, params url.Values) ([]byte, error) {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("format", "json")
	q.Set("formatversion", "2")
	full := c.endpoint(wiki) + "?" + q.Encode()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "mediawiki new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "mediawiki do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Str("wiki", wiki).Msg("mediawiki transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("wiki", wiki).
			Str("action", params.Get("action")).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("mediawiki http response")

		switch resp.StatusCode {
		case http.StatusOK:
			body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
			_ = resp.Body.Close()
			if err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "mediawiki read body failed")
			}
			return body, nil
		case http.StatusTooManyRequests:
			// maxlag and throttling both respond with Retry-After
			wait := retryAfter(resp.Header)
			if wait <= 0 {
				wait = c.backoff(attempts)
			}
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return nil, perr.Unavailablef("mediawiki rate limited")
			}
			c.log.Warn().Dur("sleep", wait).Str("wiki", wiki).Msg("mediawiki rate limited backing off")
			c.sleep(wait)
			attempts++
			continue
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return nil, perr.Unavailablef("mediawiki transient server error")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Str("wiki", wiki).Msg("mediawiki transient error retrying")
			c.sleep(back)
			attempts++
			continue
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, perr.Newf(perr.ErrorCodeUnknown, "mediawiki unexpected status %d body %s", resp.StatusCode, string(body))
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	// simple exponential with cap
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	max := int64(30 * time.Second / time.Millisecond)
	if ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}
