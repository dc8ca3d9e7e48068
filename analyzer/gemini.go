package analyzer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Analyzer produces a structured analysis from raw transcript bytes. Handlers
// and the subscriber depend on this interface so the provider can be swapped
// (or faked in tests) without touching route or validation logic.
type Analyzer interface {
	AnalyzeTranscript(ctx context.Context, data []byte, mimeType string) (*AnalysisResult, error)
}

// analysisSchema constrains the model output to the AnalysisResult shape.
var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"meeting_summary": {Type: genai.TypeString},
		"participants": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"action_items": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"description": {Type: genai.TypeString},
					"owner":       {Type: genai.TypeString},
					"due_date":    {Type: genai.TypeString},
				},
				Required: []string{"description"},
			},
		},
		"decisions": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"topics": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"participants", "action_items", "decisions", "topics"},
}

// GeminiClient wraps the Gemini SDK. The file bytes go to the API as inline
// data; Gemini does its own text extraction from .txt and .pdf content, so no
// parsing happens on this side.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiClient creates a Gemini-backed Analyzer.
func NewGeminiClient(ctx context.Context, logger *zap.Logger, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	logger.Sugar().Infow("AI analysis client initialized",
		"model", model)
	return &GeminiClient{client: client, model: model, logger: logger}, nil
}

// AnalyzeTranscript sends the transcript bytes to Gemini and returns the
// structured analysis. Any provider or parse failure comes back as an
// *UpstreamError carrying the provider's detail.
func (g *GeminiClient) AnalyzeTranscript(ctx context.Context, data []byte, mimeType string) (*AnalysisResult, error) {
	sugar := g.logger.Sugar()
	sugar.Infow("Requesting transcript analysis",
		"mime_type", mimeType,
		"size_bytes", len(data))

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(userInstruction),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		ResponseSchema:    analysisSchema,
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	})
	if err != nil {
		sugar.Errorw("Analysis request failed",
			"error", err)
		return nil, &UpstreamError{Detail: "gemini request failed", Err: err}
	}

	text := resp.Text()
	if text == "" {
		return nil, &UpstreamError{Detail: "gemini returned an empty response"}
	}

	result, err := ParseAnalysis(text)
	if err != nil {
		sugar.Errorw("Analysis response parsing failed",
			"error", err)
		return nil, &UpstreamError{Detail: "failed to parse gemini response", Err: err}
	}

	sugar.Infow("Transcript analysis completed",
		"participants", len(result.Participants),
		"action_items", len(result.ActionItems))
	return result, nil
}
