// Package gemini calls the Gemini generateContent REST endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/linlv/internal/assistant"
	"github.com/MrSnakeDoc/linlv/internal/domain"
	"github.com/MrSnakeDoc/linlv/internal/utils"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// maxResponseBytes caps how much of a reply body is read.
const maxResponseBytes = 4 << 20

// Client implements assistant.Completer.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURL points the client at another API root (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// New builds a client. An empty apiKey is allowed; HasCredentials then
// reports false and Complete fails without touching the network.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasCredentials reports whether an API key is configured.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Complete sends history plus prompt and returns the first candidate's text.
// A response without candidates yields "" and no error.
func (c *Client) Complete(ctx context.Context, req assistant.CompletionRequest) (string, error) {
	if !c.HasCredentials() {
		return "", assistant.ErrMissingCredentials
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = assistant.DefaultModel
	}
	model = strings.TrimPrefix(model, "models/")
	endpoint := c.baseURL + "/models/" + model + ":generateContent"

	payload, err := json.Marshal(buildRequest(req))
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	res, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request %s: %w", model, err)
	}
	defer utils.Close(res.Body)

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("provider returned status %d: %s", res.StatusCode, errorMessage(body))
	}

	return parseResponse(body)
}

func buildRequest(req assistant.CompletionRequest) generateRequest {
	out := generateRequest{
		Contents: make([]content, 0, len(req.History)+1),
	}
	for _, turn := range req.History {
		out.Contents = append(out.Contents, content{
			Role:  wireRole(turn.Role),
			Parts: []part{{Text: turn.Text}},
		})
	}
	out.Contents = append(out.Contents, content{
		Role:  "user",
		Parts: []part{{Text: req.Prompt}},
	})

	if instr := strings.TrimSpace(req.SystemInstruction); instr != "" {
		out.SystemInstruction = &content{Parts: []part{{Text: instr}}}
	}
	return out
}

// wireRole maps transcript roles onto the API's user/model roles.
func wireRole(r domain.Role) string {
	if r == domain.RoleAssistant {
		return "model"
	}
	return "user"
}

func parseResponse(raw []byte) (string, error) {
	var payload generateResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("decode provider response failed: %w", err)
	}
	if len(payload.Candidates) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(payload.Candidates[0].Content.Parts))
	for _, p := range payload.Candidates[0].Content.Parts {
		if text := strings.TrimSpace(p.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// maxErrorRunes caps a non-JSON error body quoted in errors.
const maxErrorRunes = 200

func errorMessage(raw []byte) string {
	var payload errorResponse
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	msg := strings.TrimSpace(string(raw))
	if r := []rune(msg); len(r) > maxErrorRunes {
		msg = string(r[:maxErrorRunes])
	}
	if msg == "" {
		return "empty body"
	}
	return msg
}
