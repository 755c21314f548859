package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/logger"
	"github.com/julianstephens/companion/internal/models"
)

// OpenRouterConfig configures an OpenRouterClient.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Referer string
	// HTTPClient defaults to a plain http.Client; request deadlines come from ctx.
	HTTPClient *http.Client
}

// OpenRouterClient talks to an OpenAI-compatible chat/completions endpoint.
type OpenRouterClient struct {
	cfg    OpenRouterConfig
	client *http.Client
}

func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	if cfg.Model == "" {
		cfg.Model = constants.DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.DefaultOpenRouterURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Referer == "" {
		cfg.Referer = constants.DefaultReferer
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &OpenRouterClient{cfg: cfg, client: client}
}

func (c *OpenRouterClient) Name() string {
	return constants.ProviderOpenRouter + ":" + c.cfg.Model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

func ptr[T any](v T) *T {
	return &v
}

// Reply sends the conversation and then asks for quick replies to the answer.
// A failed quick-reply request leaves Response.QuickReplies nil.
func (c *OpenRouterClient) Reply(ctx context.Context, turns []Turn) (Response, error) {
	messages := make([]chatMessage, 0, len(turns)+1)
	messages = append(messages, chatMessage{Role: "system", Content: SystemPrompt(c.cfg.Model)})
	for _, t := range turns {
		messages = append(messages, chatMessage{Role: string(t.Role), Content: t.Content})
	}

	content, err := c.complete(ctx, chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: ptr(0.7),
		MaxTokens:   ptr(400),
		TopP:        ptr(0.9),
	})
	if err != nil {
		return Response{}, err
	}
	if strings.TrimSpace(content) == "" {
		return Response{}, &Error{Kind: KindMalformed, Message: "empty completion"}
	}

	replies, err := c.quickReplies(ctx, content)
	if err != nil {
		logger.Debug("quick replies unavailable", "err", err)
	}

	return Response{Content: content, QuickReplies: replies, Source: c.Name()}, nil
}

func (c *OpenRouterClient) quickReplies(ctx context.Context, content string) ([]string, error) {
	raw, err := c.complete(ctx, chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: quickReplyPrompt},
			{Role: string(models.RoleAssistant), Content: content},
			{Role: string(models.RoleUser), Content: quickReplyRequest},
		},
		Temperature: ptr(0.8),
		MaxTokens:   ptr(100),
	})
	if err != nil {
		return nil, err
	}
	return ParseQuickReplies(raw)
}

// complete performs one chat/completions call and returns the first choice.
func (c *OpenRouterClient) complete(ctx context.Context, body chatRequest) (string, error) {
	reqBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("HTTP-Referer", c.cfg.Referer)
	req.Header.Set("X-Title", constants.AppTitle)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &Error{Kind: KindTransient, Message: "failed to call chat api", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &Error{Kind: KindTransient, Status: resp.StatusCode, Message: "failed to read chat response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		message := "Unknown error"
		if json.Unmarshal(data, &e) == nil && e.Error.Message != "" {
			message = e.Error.Message
		}
		return "", statusError(resp.StatusCode, message)
	}

	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &Error{Kind: KindMalformed, Status: resp.StatusCode, Message: "invalid chat response", Err: err}
	}
	if len(out.Choices) == 0 {
		return "", &Error{Kind: KindMalformed, Status: resp.StatusCode, Message: "no choices in chat response"}
	}
	return out.Choices[0].Message.Content, nil
}

// ParseQuickReplies reads a JSON array of suggestions, tolerating a markdown
// code fence around it. At most MaxQuickReplies non-empty entries are kept.
func ParseQuickReplies(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}

	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &Error{Kind: KindMalformed, Message: "quick replies are not a JSON array", Err: err}
	}

	replies := make([]string, 0, constants.MaxQuickReplies)
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if n := len(strings.Fields(s)); n < constants.MinQuickReplyWords || n > constants.MaxQuickReplyWords {
			continue
		}
		replies = append(replies, s)
		if len(replies) == constants.MaxQuickReplies {
			break
		}
	}
	if len(replies) == 0 {
		return nil, &Error{Kind: KindMalformed, Message: "no usable quick replies"}
	}
	return replies, nil
}

// IsAuth reports whether err is a credential or quota failure.
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth) || Classify(err) == KindAuth
}
