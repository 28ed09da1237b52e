package versionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// VersionSummary is a stored version without its payload.
type VersionSummary struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Version is a stored version with its opaque conversation payload.
type Version struct {
	VersionSummary
	Payload json.RawMessage `json:"payload"`
}

// RemoteError is any failure talking to the version store. Message is the
// response body when the server sent one, otherwise "HTTP <status>".
// Status is 0 for transport failures.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the version store.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}

// Client talks to the /api/versions endpoints.
type Client struct {
	BaseURL string
	Client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) ListVersions(ctx context.Context) ([]VersionSummary, error) {
	var out []VersionSummary
	if err := c.do(ctx, "list versions", http.MethodGet, "/api/versions", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []VersionSummary{}
	}
	return out, nil
}

func (c *Client) GetVersion(ctx context.Context, id string) (Version, error) {
	var out Version
	err := c.do(ctx, "get version", http.MethodGet, "/api/versions/"+url.PathEscape(id), nil, &out)
	return out, err
}

// CreateVersion creates a version; an empty name lets the server pick one.
func (c *Client) CreateVersion(ctx context.Context, name string) (Version, error) {
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	var out Version
	err := c.do(ctx, "create version", http.MethodPost, "/api/versions", body, &out)
	return out, err
}

func (c *Client) RenameVersion(ctx context.Context, id, name string) (VersionSummary, error) {
	var out VersionSummary
	err := c.do(ctx, "rename version", http.MethodPatch, "/api/versions/"+url.PathEscape(id)+"/rename", map[string]string{"name": name}, &out)
	return out, err
}

// SaveVersion replaces the stored payload of a version.
func (c *Client) SaveVersion(ctx context.Context, id string, payload json.RawMessage) (Version, error) {
	var out Version
	err := c.do(ctx, "save version", http.MethodPut, "/api/versions/"+url.PathEscape(id), map[string]json.RawMessage{"payload": payload}, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &RemoteError{Op: op, Message: "marshal request: " + err.Error(), Err: err}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return &RemoteError{Op: op, Message: "create request: " + err.Error(), Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: "read response: " + err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(respBody))
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: "decode response: " + err.Error(), Err: err}
	}
	return nil
}
