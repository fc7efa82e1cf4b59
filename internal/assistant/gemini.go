package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// GeminiConfig selects the Gemini model. BaseURL and HTTPClient are only set
// when talking to something other than the public endpoint.
type GeminiConfig struct {
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

type gemini struct {
	client *genai.Client
	model  string
	tools  []*genai.Tool
}

// GeminiDialer returns a Dialer that opens Gemini API clients.
func GeminiDialer(cfg GeminiConfig) Dialer {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return func(ctx context.Context, apiKey string) (Model, error) {
		if apiKey == "" {
			return nil, ErrAPIKey
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      apiKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPClient:  cfg.HTTPClient,
			HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create GenAI client: %w", err)
		}
		return &gemini{client: client, model: cfg.Model, tools: productSearchTools()}, nil
	}
}

func productSearchTools() []*genai.Tool {
	return []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        ProductSearchTool,
			Description: "Searches the product catalog for items matching a query.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "The search query, e.g., 'leather jacket', 'summer dress', 'boots'.",
					},
				},
				Required: []string{"query"},
			},
		}},
	}}
}

func (g *gemini) Send(ctx context.Context, req Request) (Reply, error) {
	contents := make([]*genai.Content, 0, len(req.History))
	for _, t := range req.History {
		contents = append(contents, toContent(t))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Tools:             g.tools,
	})
	if err != nil {
		return Reply{}, classify(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Reply{}, errors.New("gemini returned no candidates")
	}

	content := resp.Candidates[0].Content
	reply := Reply{Raw: content}
	var text strings.Builder
	for _, p := range content.Parts {
		switch {
		case p.FunctionCall != nil:
			reply.Calls = append(reply.Calls, FunctionCall{
				ID:   p.FunctionCall.ID,
				Name: p.FunctionCall.Name,
				Args: p.FunctionCall.Args,
			})
		case p.Text != "" && !p.Thought:
			text.WriteString(p.Text)
		}
	}
	reply.Text = text.String()
	return reply, nil
}

// toContent replays model turns verbatim so thought signatures survive.
func toContent(t Turn) *genai.Content {
	if raw, ok := t.Raw.(*genai.Content); ok && raw != nil {
		return raw
	}
	role := genai.Role(genai.RoleUser)
	if t.Role == RoleModel {
		role = genai.RoleModel
	}
	switch {
	case t.Response != nil:
		return genai.NewContentFromParts([]*genai.Part{{
			FunctionResponse: &genai.FunctionResponse{
				ID:       t.Response.ID,
				Name:     t.Response.Name,
				Response: t.Response.Response,
			},
		}}, role)
	case t.Call != nil:
		return genai.NewContentFromParts([]*genai.Part{{
			FunctionCall: &genai.FunctionCall{ID: t.Call.ID, Name: t.Call.Name, Args: t.Call.Args},
		}}, role)
	default:
		return genai.NewContentFromText(t.Text, role)
	}
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if strings.Contains(apiErr.Message, "API key not valid") ||
			apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
			return fmt.Errorf("%w: %s", ErrAPIKey, apiErr.Message)
		}
	}
	return fmt.Errorf("GenAI generate failed: %w", err)
}
