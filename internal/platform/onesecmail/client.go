// Package onesecmail implements the primary mailbox provider: the free,
// unauthenticated 1secmail GET API.
package onesecmail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/axeeeh/tempmail/internal/tempmail"
)

const BaseURL = "https://www.1secmail.com/api/v1/"

const requestTimeout = 8 * time.Second

type Client struct {
	// BaseURL is overridable for testing against a local server.
	BaseURL string
	Debug   bool

	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

func (c *Client) ID() tempmail.ProviderID { return tempmail.ProviderOneSecMail }

func (c *Client) CreateMailbox(ctx context.Context) (*tempmail.Mailbox, error) {
	params := url.Values{}
	params.Set("action", "genRandomMailbox")
	params.Set("count", "1")

	body, err := c.get(ctx, "createMailbox", params)
	if err != nil {
		return nil, err
	}

	var addresses []string
	if err := json.Unmarshal(body, &addresses); err != nil {
		return nil, tempmail.NewFetchError(c.ID(), "createMailbox", 0, fmt.Errorf("failed to parse response: %w", err))
	}
	if len(addresses) == 0 {
		return nil, tempmail.NewFetchError(c.ID(), "createMailbox", 0, fmt.Errorf("empty mailbox list in response"))
	}

	mb, err := tempmail.NewMailbox(addresses[0], c.ID())
	if err != nil {
		return nil, tempmail.NewFetchError(c.ID(), "createMailbox", 0, err)
	}
	return mb, nil
}

func (c *Client) ListMessages(ctx context.Context, mb *tempmail.Mailbox) ([]tempmail.MessageSummary, error) {
	params := url.Values{}
	params.Set("action", "getMessages")
	params.Set("login", mb.Login)
	params.Set("domain", mb.Domain)

	body, err := c.get(ctx, "listMessages", params)
	if err != nil {
		return nil, err
	}

	var raw []messageSummaryJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, tempmail.NewFetchError(c.ID(), "listMessages", 0, fmt.Errorf("failed to parse response: %w", err))
	}

	summaries := make([]tempmail.MessageSummary, 0, len(raw))
	for _, m := range raw {
		summaries = append(summaries, m.summary())
	}
	return summaries, nil
}

// ReadMessage fetches one message. 1secmail does not signal unknown ids
// distinctly, so a stale id surfaces as a plain fetch failure.
func (c *Client) ReadMessage(ctx context.Context, mb *tempmail.Mailbox, id string) (*tempmail.Message, error) {
	params := url.Values{}
	params.Set("action", "readMessage")
	params.Set("login", mb.Login)
	params.Set("domain", mb.Domain)
	params.Set("id", id)

	body, err := c.get(ctx, "readMessage", params)
	if err != nil {
		return nil, err
	}

	var raw messageJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, tempmail.NewFetchError(c.ID(), "readMessage", 0, fmt.Errorf("failed to parse response: %w", err))
	}

	return raw.message(), nil
}

func (c *Client) get(ctx context.Context, op string, params url.Values) ([]byte, error) {
	reqURL := c.BaseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, tempmail.NewFetchError(c.ID(), op, 0, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, tempmail.NewFetchError(c.ID(), op, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, tempmail.NewFetchError(c.ID(), op, resp.StatusCode, err)
	}

	if c.Debug {
		fmt.Printf("[DEBUG] 1secmail %s status: %d\n", op, resp.StatusCode)
		fmt.Printf("[DEBUG] 1secmail %s response: %s\n", op, string(body))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, tempmail.NewFetchError(c.ID(), op, resp.StatusCode, fmt.Errorf("unexpected status"))
	}

	return body, nil
}
