// Package publisher creates Notion pages from converted blocks through the
// Notion REST API.
package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dtnitsch/web-to-notion/pkg/notion"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	NotionVersion  = "2022-06-28"

	// MaxChildren is the most blocks Notion accepts in one request.
	MaxChildren = 100
)

var (
	// ErrPublish is returned for any failed Notion API call.
	ErrPublish = errors.New("notion publish failed")
	// ErrDatabaseID is returned when the database id is not a UUID.
	ErrDatabaseID = fmt.Errorf("%w: invalid database id", ErrPublish)
)

// APIError is the error object returned by the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion API %d %s: %s", e.Status, e.Code, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		http:    &http.Client{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Page is a database entry to create.
type Page struct {
	Title  string
	URL    string
	Tags   []string
	Blocks []notion.Block
}

type parent struct {
	Type       string `json:"type"`
	DatabaseID string `json:"database_id"`
}

type createPageRequest struct {
	Parent     parent         `json:"parent"`
	Properties map[string]any `json:"properties"`
	Children   []notion.Block `json:"children,omitempty"`
}

type appendRequest struct {
	Children []notion.Block `json:"children"`
}

type pageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreatePage adds page to the database and returns the new page id. Blocks
// beyond the first MaxChildren are appended in further requests.
func (c *Client) CreatePage(ctx context.Context, databaseID string, page Page) (string, error) {
	dbID, err := uuid.Parse(databaseID)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrDatabaseID, databaseID, err)
	}

	first, rest := split(page.Blocks, MaxChildren)
	req := createPageRequest{
		Parent:     parent{Type: "database_id", DatabaseID: dbID.String()},
		Properties: properties(page),
		Children:   first,
	}

	var resp pageResponse
	if err := c.do(ctx, http.MethodPost, "/pages", req, &resp); err != nil {
		return "", err
	}
	c.logger.Info("Created Notion page", "page_id", resp.ID, "url", page.URL, "blocks", len(first))

	for len(rest) > 0 {
		var chunk []notion.Block
		chunk, rest = split(rest, MaxChildren)
		if err := c.AppendChildren(ctx, resp.ID, chunk); err != nil {
			return resp.ID, err
		}
	}
	return resp.ID, nil
}

// AppendChildren appends up to MaxChildren blocks to a page or block.
func (c *Client) AppendChildren(ctx context.Context, blockID string, blocks []notion.Block) error {
	if len(blocks) > MaxChildren {
		return fmt.Errorf("%w: %d children exceed the limit of %d", ErrPublish, len(blocks), MaxChildren)
	}
	if err := c.do(ctx, http.MethodPatch, "/blocks/"+blockID+"/children", appendRequest{Children: blocks}, nil); err != nil {
		return err
	}
	c.logger.Debug("Appended blocks", "page_id", blockID, "blocks", len(blocks))
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %w", ErrPublish, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to build request: %w", ErrPublish, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", NotionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", ErrPublish, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		apiErr.Status = resp.StatusCode
		return fmt.Errorf("%w: %w", ErrPublish, apiErr)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %w", ErrPublish, err)
		}
	}
	return nil
}

// properties builds the Name, Tags and URL columns of the database entry.
func properties(page Page) map[string]any {
	title := []rune(page.Title)
	if len(title) > notion.MaxTextLength {
		title = title[:notion.MaxTextLength]
	}

	tags := make([]map[string]string, 0, len(page.Tags))
	for _, tag := range page.Tags {
		// multi_select options may not contain commas
		tags = append(tags, map[string]string{"name": strings.ReplaceAll(tag, ",", " ")})
	}

	props := map[string]any{
		"Name": map[string]any{
			"title": []map[string]any{{"text": map[string]string{"content": string(title)}}},
		},
		"Tags": map[string]any{"multi_select": tags},
	}
	if page.URL != "" {
		props["URL"] = map[string]any{"url": page.URL}
	}
	return props
}

func split(blocks []notion.Block, n int) ([]notion.Block, []notion.Block) {
	if len(blocks) <= n {
		return blocks, nil
	}
	return blocks[:n], blocks[n:]
}
