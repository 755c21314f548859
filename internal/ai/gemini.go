package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/logger"
	"github.com/julianstephens/companion/internal/models"
)

// GeminiClient answers through the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini collaborator for apiKey.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" || !strings.HasPrefix(model, "gemini") {
		model = constants.DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Name() string {
	return constants.ProviderGemini + ":" + g.model
}

// toContents maps conversation turns onto Gemini roles.
func toContents(turns []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := genai.Role(genai.RoleUser)
		if t.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Content, role))
	}
	return contents
}

func (g *GeminiClient) Reply(ctx context.Context, turns []Turn) (Response, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, toContents(turns), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(g.model), genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
		TopP:              genai.Ptr[float32](0.9),
		MaxOutputTokens:   400,
	})
	if err != nil {
		return Response{}, classifyGenAI(err)
	}

	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return Response{}, &Error{Kind: KindMalformed, Message: "empty gemini response"}
	}

	replies, err := g.quickReplies(ctx, content)
	if err != nil {
		logger.Debug("quick replies unavailable", "err", err)
	}
	return Response{Content: content, QuickReplies: replies, Source: g.Name()}, nil
}

func (g *GeminiClient) quickReplies(ctx context.Context, content string) ([]string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(content, genai.RoleModel),
		genai.NewContentFromText(quickReplyRequest, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(quickReplyPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.8),
		MaxOutputTokens:   100,
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return nil, classifyGenAI(err)
	}
	return ParseQuickReplies(resp.Text())
}

// classifyGenAI maps Gemini API errors onto collaborator failure kinds.
func classifyGenAI(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		e := statusError(apiErr.Code, apiErr.Message)
		e.Err = err
		return e
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		e := statusError(apiErrPtr.Code, apiErrPtr.Message)
		e.Err = err
		return e
	}
	return &Error{Kind: Classify(err), Err: err}
}
