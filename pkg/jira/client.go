package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the HTTP wrapper for the Jira Cloud REST API.
// All requests use HTTP Basic auth with an account email and API token.
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
}

// NewClient creates a Jira client. domain may be a bare host
// ("acme.atlassian.net") or a full base URL.
func NewClient(domain, email, apiToken string) (*Client, error) {
	if strings.TrimSpace(domain) == "" {
		return nil, ErrMissingDomain
	}
	if email == "" || apiToken == "" {
		return nil, ErrMissingCredentials
	}
	return &Client{
		baseURL:    normalizeBaseURL(domain),
		email:      email,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// BaseURL returns the normalized base URL, without trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func normalizeBaseURL(domain string) string {
	domain = strings.TrimRight(strings.TrimSpace(domain), "/")
	if strings.HasPrefix(domain, "http://") || strings.HasPrefix(domain, "https://") {
		return domain
	}
	return "https://" + domain
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Get issues an authenticated GET against an absolute URL. The caller owns
// the response body. Used for attachment downloads.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build jira get request: %w", err)
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call jira: %w", err)
	}
	return resp, nil
}

// GetIssue fetches an issue with its attachment field.
func (c *Client) GetIssue(ctx context.Context, issueKey string) (*Issue, error) {
	if issueKey == "" {
		return nil, ErrEmptyIssueKey
	}
	u := fmt.Sprintf("%s/rest/api/2/issue/%s?fields=attachment", c.baseURL, url.PathEscape(issueKey))

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build get issue request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call jira get issue API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("jira API get issue error %d: %s", resp.StatusCode, string(raw))
	}

	var issue Issue
	if err := json.NewDecoder(resp.Body).Decode(&issue); err != nil {
		return nil, fmt.Errorf("failed to decode jira issue response: %w", err)
	}
	return &issue, nil
}

// AddComment posts a plain-text comment on an issue.
func (c *Client) AddComment(ctx context.Context, issueKey, text string) (*Comment, error) {
	if issueKey == "" {
		return nil, ErrEmptyIssueKey
	}
	u := fmt.Sprintf("%s/rest/api/2/issue/%s/comment", c.baseURL, url.PathEscape(issueKey))

	body, err := json.Marshal(AddCommentRequest{Body: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal add comment request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build add comment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call jira add comment API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("jira API add comment error %d: %s", resp.StatusCode, string(raw))
	}

	var comment Comment
	if err := json.NewDecoder(resp.Body).Decode(&comment); err != nil {
		return nil, fmt.Errorf("failed to decode jira comment response: %w", err)
	}
	return &comment, nil
}

// AddAttachment uploads a file to an issue.
func (c *Client) AddAttachment(ctx context.Context, issueKey, filename string, data []byte) ([]Attachment, error) {
	if issueKey == "" {
		return nil, ErrEmptyIssueKey
	}
	u := fmt.Sprintf("%s/rest/api/2/issue/%s/attachments", c.baseURL, url.PathEscape(issueKey))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write multipart data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build add attachment request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Atlassian-Token", "no-check")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call jira add attachment API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("jira API add attachment error %d: %s", resp.StatusCode, string(raw))
	}

	var attachments []Attachment
	if err := json.NewDecoder(resp.Body).Decode(&attachments); err != nil {
		return nil, fmt.Errorf("failed to decode jira attachment response: %w", err)
	}
	return attachments, nil
}
