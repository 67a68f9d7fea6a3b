package narrative

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// GenAIClient generates text with Google's Gemini API.
type GenAIClient struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
}

func NewGenAIClient(ctx context.Context, apiKey, model string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("GenAI API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create GenAI client")
	}

	return &GenAIClient{
		client:          client,
		model:           model,
		temperature:     0.7,
		maxOutputTokens: 1500,
	}, nil
}

func (c *GenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(c.temperature),
			MaxOutputTokens: c.maxOutputTokens,
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "GenAI generate failed")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (c *GenAIClient) Name() string {
	return "genai:" + c.model
}
