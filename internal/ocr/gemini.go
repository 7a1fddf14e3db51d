package ocr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	ocrerrors "blair-ops/internal/ocr/errors"

	"google.golang.org/genai"
)

// Extractor sends a slip image to a vision model and returns its raw reply.
type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) (string, error)
}

type GeminiExtractor struct {
	client *genai.Client
	model  string
}

func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

func (g *GeminiExtractor) Extract(ctx context.Context, image []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(slipPrompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", classifyError(err)
	}
	return result.Text(), nil
}

// classifyError maps provider failures onto API errors. Quota exhaustion is
// reported separately so the operator knows to wait.
func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return ocrerrors.ErrRateLimited.WithCause(err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr.Code == http.StatusTooManyRequests {
		return ocrerrors.ErrRateLimited.WithCause(err)
	}
	if msg := err.Error(); strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED") {
		return ocrerrors.ErrRateLimited.WithCause(err)
	}
	return ocrerrors.ErrUpstream.WithCause(err)
}
