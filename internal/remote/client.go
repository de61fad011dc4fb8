package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/RSSNext/Folo-sub005/internal/model"
)

// DefaultQPS is used when a non-positive rate is configured.
const DefaultQPS = 10

const maxErrorBody = 4 << 10

// HTTPClientFactory is satisfied by network.ClientFactory.
type HTTPClientFactory interface {
	NewHTTPClient(timeout time.Duration) *http.Client
}

type ClientOptions struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
	QPS       int
}

// Client talks JSON over HTTP. Every response is an envelope
// {"code": 0, "data": ..., "message": "..."}; code != 0 is an error.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *http.Client

	mu      sync.RWMutex
	limiter *rate.Limiter
}

func NewClient(factory HTTPClientFactory, opts ClientOptions) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		token:     opts.Token,
		userAgent: opts.UserAgent,
		http:      factory.NewHTTPClient(opts.Timeout),
	}
	c.SetQPS(opts.QPS)
	return c
}

// SetQPS replaces the request rate; burst equals qps.
func (c *Client) SetQPS(qps int) {
	if qps <= 0 {
		qps = DefaultQPS
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.limiter == nil {
		c.limiter = rate.NewLimiter(rate.Limit(qps), qps)
		return
	}
	c.limiter.SetLimit(rate.Limit(qps))
	c.limiter.SetBurst(qps)
}

func (c *Client) QPS() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int(c.limiter.Limit())
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	c.mu.RLock()
	limiter := c.limiter
	c.mu.RUnlock()
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait rate limit: %w", err)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var env envelope
		if json.Unmarshal(raw, &env) == nil && env.Message != "" {
			apiErr.Code = env.Code
			apiErr.Message = env.Message
		}
		return apiErr
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if err == io.EOF && out == nil {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if env.Code != 0 {
		return &APIError{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}

func (c *Client) GetFeed(ctx context.Context, id string) (FeedBundle, error) {
	var out FeedBundle
	err := c.do(ctx, http.MethodGet, "/feeds", url.Values{"id": {id}}, nil, &out)
	return out, err
}

func (c *Client) ClaimFeed(ctx context.Context, id string) (model.Feed, error) {
	var out model.Feed
	err := c.do(ctx, http.MethodPost, "/feeds/claim", nil, map[string]string{"feedId": id}, &out)
	return out, err
}

func (c *Client) ListSubscriptions(ctx context.Context) (SubscriptionBundle, error) {
	var out SubscriptionBundle
	err := c.do(ctx, http.MethodGet, "/subscriptions", nil, nil, &out)
	return out, err
}

func (c *Client) Subscribe(ctx context.Context, req SubscribeRequest) (SubscriptionBundle, error) {
	var out SubscriptionBundle
	err := c.do(ctx, http.MethodPost, "/subscriptions", nil, req, &out)
	return out, err
}

func (c *Client) Unsubscribe(ctx context.Context, subscriptionID string) error {
	return c.do(ctx, http.MethodDelete, "/subscriptions", nil, map[string]string{"subscriptionId": subscriptionID}, nil)
}

func (c *Client) UpdateSubscription(ctx context.Context, sub model.Subscription) error {
	return c.do(ctx, http.MethodPatch, "/subscriptions", nil, sub, nil)
}

func (c *Client) ListUnread(ctx context.Context) ([]model.Unread, error) {
	var out []model.Unread
	err := c.do(ctx, http.MethodGet, "/reads", nil, nil, &out)
	return out, err
}

func (c *Client) ListEntries(ctx context.Context, query EntryQuery) ([]model.Entry, error) {
	var out []model.Entry
	err := c.do(ctx, http.MethodPost, "/entries", nil, query, &out)
	return out, err
}

func (c *Client) GetEntry(ctx context.Context, id string) (model.Entry, error) {
	var out model.Entry
	err := c.do(ctx, http.MethodGet, "/entries", url.Values{"id": {id}}, nil, &out)
	return out, err
}

func (c *Client) MarkEntriesRead(ctx context.Context, ids []string, read bool) error {
	method := http.MethodPost
	if !read {
		method = http.MethodDelete
	}
	return c.do(ctx, method, "/reads", nil, map[string][]string{"entryIds": ids}, nil)
}

func (c *Client) MarkAllRead(ctx context.Context, feedIDs []string) error {
	return c.do(ctx, http.MethodPost, "/reads/all", nil, map[string][]string{"feedIdList": feedIDs}, nil)
}

func (c *Client) StarEntry(ctx context.Context, id string, starred bool) error {
	method := http.MethodPost
	if !starred {
		method = http.MethodDelete
	}
	return c.do(ctx, method, "/collections", nil, map[string]string{"entryId": id}, nil)
}

func (c *Client) GetList(ctx context.Context, id string) (ListBundle, error) {
	var out ListBundle
	err := c.do(ctx, http.MethodGet, "/lists", url.Values{"listId": {id}}, nil, &out)
	return out, err
}

func (c *Client) CreateList(ctx context.Context, req CreateListRequest) (model.List, error) {
	var out model.List
	err := c.do(ctx, http.MethodPost, "/lists", nil, req, &out)
	return out, err
}

func (c *Client) UpdateList(ctx context.Context, list model.List) error {
	return c.do(ctx, http.MethodPatch, "/lists", nil, list, nil)
}

func (c *Client) DeleteList(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/lists", nil, map[string]string{"listId": id}, nil)
}

func (c *Client) ListInboxes(ctx context.Context) ([]model.Inbox, error) {
	var out []model.Inbox
	err := c.do(ctx, http.MethodGet, "/inboxes/list", nil, nil, &out)
	return out, err
}

func (c *Client) CreateInbox(ctx context.Context, req CreateInboxRequest) (model.Inbox, error) {
	var out model.Inbox
	err := c.do(ctx, http.MethodPost, "/inboxes", nil, req, &out)
	return out, err
}

func (c *Client) UpdateInbox(ctx context.Context, inbox model.Inbox) error {
	return c.do(ctx, http.MethodPut, "/inboxes", nil, inbox, nil)
}

func (c *Client) DeleteInbox(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/inboxes", nil, map[string]string{"handle": id}, nil)
}

func (c *Client) GetTranslation(ctx context.Context, entryID, language string) (model.Translation, error) {
	var out model.Translation
	err := c.do(ctx, http.MethodGet, "/ai/translation", url.Values{"id": {entryID}, "language": {language}}, nil, &out)
	return out, err
}

var _ API = (*Client)(nil)
