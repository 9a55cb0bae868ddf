package api

import (
	"context"
	"encoding/json"
	"fmt"
)

// ChatClient forwards questions to the assistant backend.
type ChatClient struct {
	t *transport
}

// NewChatClient creates a chat client.
func NewChatClient(cfg Config) (*ChatClient, error) {
	t, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}
	return &ChatClient{t: t}, nil
}

type chatRequest struct {
	Query   string          `json:"query"`
	Context json.RawMessage `json:"context"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Ask sends query with the current prediction object as context.
// An empty result is sent as JSON null.
func (c *ChatClient) Ask(ctx context.Context, query string, result json.RawMessage) (string, error) {
	if len(result) == 0 {
		result = json.RawMessage("null")
	}

	var resp chatResponse
	if err := c.t.postJSON(ctx, "/chat", chatRequest{Query: query, Context: result}, &resp); err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return resp.Response, nil
}
