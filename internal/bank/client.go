package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

// Config for the remote question-bank client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration // per-request timeout
	Retries int           // attempts per subject variant
	// PageDelay is the pause between page requests in FetchPages, to stay
	// under the bank's rate limits during bulk fetches.
	PageDelay time.Duration
}

// Client performs paginated requests against the external question-bank
// service. It never surfaces transport errors to callers: an unrecoverable
// failure is an empty result plus a log line.
type Client struct {
	cfg   Config
	http  *http.Client
	cache *Cache
	log   *slog.Logger

	// sleep is a seam for tests; honors context cancellation.
	sleep func(ctx context.Context, d time.Duration) bool
}

func NewClient(cfg Config, cache *Cache) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 4
	}
	if cfg.PageDelay <= 0 {
		cfg.PageDelay = 100 * time.Millisecond
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{},
		cache: cache,
		log:   slog.Default().With("component", "bank"),
		sleep: sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Fetch requests one page of questions. It walks the subject's spelling
// variants in order and returns the first variant's non-empty normalized
// batch; year 0 means all years. On total failure it returns nil.
func (c *Client) Fetch(ctx context.Context, examType question.ExamType, subject string, year, limit, page int) []question.Question {
	if c.cfg.BaseURL == "" {
		c.log.Warn("no question bank URL configured, using local questions only")
		return nil
	}

	key := CacheKey{ExamType: examType, Subject: subject, Year: year, Page: page}
	if qs, ok := c.cache.Get(key); ok {
		return qs
	}

	variants := question.SubjectVariants(subject)
	for _, variant := range variants {
		qs := c.fetchVariant(ctx, examType, variant, year, limit, page)
		if len(qs) > 0 {
			c.cache.Put(key, qs)
			c.log.Info("fetched questions from bank",
				"exam", examType, "subject", subject, "variant", variant, "count", len(qs))
			return qs
		}
		if ctx.Err() != nil {
			return nil
		}
	}
	c.log.Warn("no bank result for subject",
		"exam", examType, "subject", subject, "variants", len(variants))
	return nil
}

// fetchVariant issues the request for one spelling variant, retrying
// transient failures up to the retry budget. A client rejection (4xx other
// than 429) or an unparseable body abandons the variant immediately.
func (c *Client) fetchVariant(ctx context.Context, examType question.ExamType, variant string, year, limit, page int) []question.Question {
	endpoint := c.endpoint(variant, year, limit, page)

	for attempt := 1; attempt <= c.cfg.Retries; attempt++ {
		payload, retry := c.attempt(ctx, endpoint, variant, attempt)
		if payload != nil {
			return question.Normalize(payload, examType)
		}
		if !retry || ctx.Err() != nil {
			return nil
		}
	}
	return nil
}

// attempt performs a single HTTP round trip. It returns the decoded body
// on success, or nil plus whether the variant is still worth retrying.
func (c *Client) attempt(ctx context.Context, endpoint, variant string, attempt int) (payload any, retry bool) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.log.Error("build bank request", "error", err)
		return nil, false
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("AccessToken", c.cfg.APIKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("bank request failed", "variant", variant, "attempt", attempt, "error", err)
		return nil, c.sleep(ctx, time.Duration(attempt)*time.Second)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		wait := retryAfter(res, time.Duration(attempt)*2*time.Second)
		c.log.Warn("bank rate limited", "variant", variant, "wait", wait)
		return nil, c.sleep(ctx, wait)
	case res.StatusCode >= 500:
		c.log.Warn("bank server error", "variant", variant, "status", res.StatusCode)
		return nil, c.sleep(ctx, time.Duration(attempt)*time.Second)
	case res.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(res.Body, 200))
		c.log.Warn("bank rejected variant", "variant", variant, "status", res.StatusCode, "body", string(body))
		return nil, false
	}

	var data any
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		c.log.Warn("non-JSON bank response", "variant", variant, "error", err)
		return nil, false
	}
	return data, false
}

func retryAfter(res *http.Response, fallback time.Duration) time.Duration {
	if h := res.Header.Get("Retry-After"); h != "" {
		if secs, err := strconv.Atoi(h); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

func (c *Client) endpoint(variant string, year, limit, page int) string {
	params := url.Values{}
	params.Set("subject", variant)
	params.Set("page", strconv.Itoa(page))
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}
	// the bank exposes a bulk endpoint for page sizes above 40
	path := "/q"
	if limit > 40 {
		path = fmt.Sprintf("/m/%d", limit)
	}
	return c.cfg.BaseURL + path + "?" + params.Encode()
}

// FetchPages concatenates pages in increasing order until total questions
// are gathered or a page comes back empty. Later pages only top up the
// earlier ones, so ordering matters; the result is truncated to total.
func (c *Client) FetchPages(ctx context.Context, examType question.ExamType, subject string, year, total, pageSize int) []question.Question {
	if total <= 0 || pageSize <= 0 {
		return nil
	}
	pages := (total + pageSize - 1) / pageSize
	var all []question.Question
	for page := 1; page <= pages; page++ {
		qs := c.Fetch(ctx, examType, subject, year, pageSize, page)
		if len(qs) == 0 {
			break
		}
		all = append(all, qs...)
		if len(all) >= total {
			break
		}
		if page < pages && !c.sleep(ctx, c.cfg.PageDelay) {
			break
		}
	}
	if len(all) > total {
		all = all[:total]
	}
	return all
}
