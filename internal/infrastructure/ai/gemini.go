// Package ai turns extracted document text into the import payload with a
// generative model.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"stationery/internal/domain/catalog"
	"stationery/pkg/logger"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

const promptTemplate = `You convert office stationery request records into JSON.

Return ONLY a JSON object with exactly two keys:

{
  "reports": [
    {
      "requesterName": "string",
      "campus": "string, one of: %s",
      "importDate": "YYYY-MM-DD",
      "exportDate": "YYYY-MM-DD or empty string",
      "items": {"<item name>": <positive integer>},
      "status": "Done" or "Process"
    }
  ],
  "stock": {
    "<item name>": {"quantity": <integer>, "lastInDate": "YYYY-MM-DD or empty string", "lastUpdateQuantity": <integer>}
  }
}

Known item names: %s.
Use "Process" when the status is unclear. Use an empty list or object when a
section is missing. Do not add commentary.

Document text:
%s`

// Gemini implements importer.Structurer with the Gemini API.
type Gemini struct {
	client  *genai.Client
	model   string
	catalog *catalog.Catalog
	log     *logger.Logger
}

// NewGemini creates a client. Close it when done.
func NewGemini(ctx context.Context, apiKey, model string, cat *catalog.Catalog, log *logger.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if log == nil {
		log = logger.Nop()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{
		client:  client,
		model:   model,
		catalog: cat,
		log:     log.WithComponent("gemini"),
	}, nil
}

// Prompt builds the instruction sent with text.
func Prompt(text string, cat *catalog.Catalog) string {
	return fmt.Sprintf(promptTemplate,
		strings.Join(cat.Campuses(), ", "),
		strings.Join(cat.Items(), ", "),
		text,
	)
}

// Structure implements importer.Structurer.
func (g *Gemini) Structure(ctx context.Context, text string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(Prompt(text, g.catalog)))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("model returned no text")
	}

	g.log.WithContext(ctx).Debugw("structured text received", "model", g.model, "chars", sb.Len())
	return sb.String(), nil
}

// Close releases the client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
