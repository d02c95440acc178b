package geoserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"terravista/api/utils"
)

// Client talks to a GeoServer instance over its REST and WMS interfaces.
// All calls are best-effort single requests with no retries.
type Client struct {
	BaseURL  string
	username string
	password string
	http     *http.Client
}

func NewClient(baseURL, username, password string) *Client {
	return &Client{
		BaseURL:  baseURL,
		username: username,
		password: password,
		http:     &http.Client{},
	}
}

// NewClientFromEnv builds a client from environment configuration, falling
// back to the insecure local-development defaults.
func NewClientFromEnv() *Client {
	baseURL := os.Getenv("GEOSERVER_BASE_URL")
	if baseURL == "" {
		log.Println("GEOSERVER_BASE_URL environment variable not set. Using default for local development.")
		baseURL = "http://localhost:8080/geoserver"
	}

	username := os.Getenv("GEOSERVER_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("GEOSERVER_PASSWORD")
	if password == "" {
		password = "geoserver"
	}

	return NewClient(baseURL, username, password)
}

// get issues an authenticated GET and returns the response body.
// A non-2xx status is a transport error carrying a snippet of the body.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to GeoServer failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read GeoServer response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GeoServer returned status %d: %s", resp.StatusCode, utils.Truncate(string(body), 100))
	}

	return body, nil
}

// getJSON issues an authenticated GET and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, url string, v interface{}) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse GeoServer JSON from %s: %w", url, err)
	}
	return nil
}

// Workspaces lists the workspace names known to the map server.
func (c *Client) Workspaces(ctx context.Context) ([]string, error) {
	var doc struct {
		Workspaces workspaceSummary `json:"workspaces"`
	}

	url := fmt.Sprintf("%s/rest/workspaces.json", c.BaseURL)
	if err := c.getJSON(ctx, url, &doc); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(doc.Workspaces.Workspace))
	for _, ws := range doc.Workspaces.Workspace {
		names = append(names, ws.Name)
	}
	return names, nil
}
