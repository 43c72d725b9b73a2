// Package mailtm implements the fallback mailbox provider: the mail.tm
// token-based API. Accounts are registered with client-side random
// credentials, then authenticated for a bearer token used on every
// subsequent call.
package mailtm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/axeeeh/tempmail/internal/tempmail"
)

const BaseURL = "https://api.mail.tm"

const requestTimeout = 10 * time.Second

// fallbackDomain is used when the domain listing cannot be fetched.
const fallbackDomain = "mailsac.com"

// accountState holds the credentials and token backing the active
// mailbox. It is swapped wholesale on every CreateMailbox and treated
// as read-only by in-flight calls.
type accountState struct {
	address  string
	password string
	token    string
}

type Client struct {
	// BaseURL is overridable for testing against a local server.
	BaseURL string
	Debug   bool

	httpClient *http.Client
	state      *accountState
}

func NewClient() *Client {
	return &Client{
		BaseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

func (c *Client) ID() tempmail.ProviderID { return tempmail.ProviderMailTM }

// CreateMailbox registers a fresh account and logs it in. Credentials
// are random opaque strings generated client-side, the way the service
// expects for throwaway accounts.
func (c *Client) CreateMailbox(ctx context.Context) (*tempmail.Mailbox, error) {
	address := randomHex(10) + "@" + c.pickDomain(ctx)
	password := randomHex(32)

	creds := map[string]string{"address": address, "password": password}

	body, status, err := c.do(ctx, http.MethodPost, "/accounts", creds, "")
	if err != nil {
		return nil, tempmail.NewFetchError(c.ID(), "createMailbox", 0, err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, tempmail.NewFetchError(c.ID(), "createMailbox", status, fmt.Errorf("account registration rejected: %s", body))
	}

	body, status, err = c.do(ctx, http.MethodPost, "/token", creds, "")
	if err != nil {
		return nil, tempmail.NewFetchError(c.ID(), "createMailbox", 0, err)
	}
	if status != http.StatusOK {
		return nil, tempmail.NewFetchError(c.ID(), "createMailbox", status, fmt.Errorf("token request rejected"))
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, tempmail.NewFetchError(c.ID(), "createMailbox", 0, fmt.Errorf("failed to parse token response: %w", err))
	}
	if tok.Token == "" {
		return nil, tempmail.NewFetchError(c.ID(), "createMailbox", 0, fmt.Errorf("empty token in response"))
	}

	mb, err := tempmail.NewMailbox(address, c.ID())
	if err != nil {
		return nil, tempmail.NewFetchError(c.ID(), "createMailbox", 0, err)
	}

	c.state = &accountState{address: address, password: password, token: tok.Token}
	return mb, nil
}

func (c *Client) ListMessages(ctx context.Context, mb *tempmail.Mailbox) ([]tempmail.MessageSummary, error) {
	token, err := c.token("listMessages")
	if err != nil {
		return nil, err
	}

	body, status, err := c.do(ctx, http.MethodGet, "/messages", nil, token)
	if err != nil {
		return nil, tempmail.NewFetchError(c.ID(), "listMessages", 0, err)
	}
	if status != http.StatusOK {
		return nil, tempmail.NewFetchError(c.ID(), "listMessages", status, fmt.Errorf("unexpected status"))
	}

	var list listResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, tempmail.NewFetchError(c.ID(), "listMessages", 0, fmt.Errorf("failed to parse response: %w", err))
	}

	summaries := make([]tempmail.MessageSummary, 0, len(list.Members))
	for _, m := range list.Members {
		summaries = append(summaries, m.summary())
	}
	return summaries, nil
}

func (c *Client) ReadMessage(ctx context.Context, mb *tempmail.Mailbox, id string) (*tempmail.Message, error) {
	token, err := c.token("readMessage")
	if err != nil {
		return nil, err
	}

	body, status, err := c.do(ctx, http.MethodGet, "/messages/"+id, nil, token)
	if err != nil {
		return nil, tempmail.NewFetchError(c.ID(), "readMessage", 0, err)
	}
	if status == http.StatusNotFound {
		return nil, tempmail.NewNotFoundError(c.ID(), "readMessage", id)
	}
	if status != http.StatusOK {
		return nil, tempmail.NewFetchError(c.ID(), "readMessage", status, fmt.Errorf("unexpected status"))
	}

	var raw messageJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, tempmail.NewFetchError(c.ID(), "readMessage", 0, fmt.Errorf("failed to parse response: %w", err))
	}

	return raw.message(), nil
}

// Resume restores a previously provisioned account so a stored session
// can keep reading its mailbox across process restarts.
func (c *Client) Resume(address, password, token string) {
	c.state = &accountState{address: address, password: password, token: token}
}

// Credentials exposes the active account state for session persistence.
// All values are empty when no mailbox has been provisioned.
func (c *Client) Credentials() (password, token string) {
	if c.state == nil {
		return "", ""
	}
	return c.state.password, c.state.token
}

// pickDomain asks the service for a live domain to register under. Any
// failure falls back to a built-in default rather than blocking the
// provisioning chain.
func (c *Client) pickDomain(ctx context.Context) string {
	body, status, err := c.do(ctx, http.MethodGet, "/domains", nil, "")
	if err != nil || status != http.StatusOK {
		return fallbackDomain
	}

	var list domainListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return fallbackDomain
	}
	if len(list.Members) == 0 || list.Members[0].Domain == "" {
		return fallbackDomain
	}
	return list.Members[0].Domain
}

func (c *Client) token(op string) (string, error) {
	if c.state == nil || c.state.token == "" {
		return "", tempmail.NewFetchError(c.ID(), op, 0, fmt.Errorf("no active account"))
	}
	return c.state.token, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, token string) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	if c.Debug {
		fmt.Printf("[DEBUG] mail.tm %s %s status: %d\n", method, path, resp.StatusCode)
		fmt.Printf("[DEBUG] mail.tm %s %s response: %s\n", method, path, string(body))
	}

	return body, resp.StatusCode, nil
}

func randomHex(n int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	for len(hex) < n {
		hex += strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return hex[:n]
}
