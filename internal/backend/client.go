/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the thin sharing API.
// It supports the operations used by the desktop app under a feature flag.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// Board is a minimal projection for listing.
type Board struct {
	ID        int64     `json:"id"`
	StableID  string    `json:"stable_id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// ListBoards returns boards shared on the server.
func (c *Client) ListBoards(ctx context.Context) ([]Board, error) {
	var list []Board
	if err := c.doJSON(ctx, http.MethodGet, "/api/boards", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SnapshotEnvelope matches the server response for the latest snapshot of a board.
type SnapshotEnvelope struct {
	BoardID   int64       `json:"board_id"`
	Version   int64       `json:"version"`
	CreatedAt string      `json:"created_at"`
	Snapshot  interface{} `json:"snapshot"`
}

// GetSnapshot fetches the latest shared snapshot for a board.
func (c *Client) GetSnapshot(ctx context.Context, boardID int64) (*SnapshotEnvelope, error) {
	var env SnapshotEnvelope
	path := fmt.Sprintf("/api/boards/%d/snapshot", boardID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// PushSnapshot uploads a board manifest as the next snapshot version.
// The snapshot must be valid JSON; the server assigns the version.
func (c *Client) PushSnapshot(ctx context.Context, boardID int64, snapshot []byte) (int64, error) {
	var resp struct {
		BoardID int64 `json:"board_id"`
		Version int64 `json:"version"`
	}
	path := fmt.Sprintf("/api/boards/%d/snapshot", boardID)
	if err := c.doJSON(ctx, http.MethodPost, path, bytes.NewReader(snapshot), &resp); err != nil {
		return 0, err
	}
	return resp.Version, nil
}
