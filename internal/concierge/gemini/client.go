// Package gemini adapts the Gemini API to the concierge ReasoningModel port.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"fixfurn_backend/internal/concierge/domain"
	"fixfurn_backend/platform/apperr"
)

// Config for the Gemini reasoning backend.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
}

// Client implements domain.ReasoningModel on top of the Gemini
// function-calling API.
type Client struct {
	config Config
	client *genai.Client
}

// NewClient creates a Gemini-backed reasoning client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{config: cfg, client: gc}, nil
}

// Propose sends the full turn history plus the declared tool schemas and
// returns the model's next step: free text, tool-call proposals, or both.
func (c *Client) Propose(ctx context.Context, systemPrompt string, conv *domain.Conversation, tools []domain.ToolSchema) (domain.ModelTurn, error) {
	contents := convertConversation(conv)

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.config.Temperature),
	}
	if systemPrompt != "" {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}
	if decls := convertTools(tools); len(decls) > 0 {
		genConfig.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.config.Model, contents, genConfig)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.ModelTurn{}, apperr.Wrap(apperr.KindTimeout, "reasoning backend timed out", err)
		}
		return domain.ModelTurn{}, apperr.Wrap(apperr.KindUnavailable, "reasoning backend unreachable", err)
	}

	return extractTurn(resp), nil
}

// convertConversation maps domain turns onto Gemini wire contents. Tool
// results travel back as function_response parts in a user-role content.
func convertConversation(conv *domain.Conversation) []*genai.Content {
	contents := make([]*genai.Content, 0, len(conv.Turns))

	for _, turn := range conv.Turns {
		switch turn.Role {
		case domain.RoleUser:
			if turn.Text == "" {
				continue
			}
			contents = append(contents, genai.NewContentFromText(turn.Text, genai.RoleUser))

		case domain.RoleModel:
			parts := make([]*genai.Part, 0, 1+len(turn.ToolCalls))
			if turn.Text != "" {
				parts = append(parts, genai.NewPartFromText(turn.Text))
			}
			for _, call := range turn.ToolCalls {
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						Name: call.Name,
						Args: call.Args,
					},
				})
			}
			if len(parts) == 0 {
				continue
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})

		case domain.RoleTool:
			parts := make([]*genai.Part, 0, len(turn.ToolResults))
			for _, result := range turn.ToolResults {
				parts = append(parts, genai.NewPartFromFunctionResponse(result.Tool, result.Response()))
			}
			if len(parts) == 0 {
				continue
			}
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: parts})
		}
	}

	return contents
}

// convertTools maps declared schemas to Gemini function declarations.
func convertTools(tools []domain.ToolSchema) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		properties := make(map[string]*genai.Schema, len(tool.Args))
		var required []string
		for _, arg := range tool.Args {
			properties[arg.Name] = &genai.Schema{
				Type:        convertArgType(arg.Type),
				Description: arg.Description,
			}
			if arg.Required {
				required = append(required, arg.Name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   required,
			},
		})
	}
	return decls
}

func convertArgType(t domain.ArgType) genai.Type {
	switch t {
	case domain.ArgNumber:
		return genai.TypeNumber
	case domain.ArgBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// extractTurn collects text and function-call parts from the first candidate.
func extractTurn(resp *genai.GenerateContentResponse) domain.ModelTurn {
	var turn domain.ModelTurn
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return turn
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			turn.Text += part.Text
		}
		if part.FunctionCall != nil {
			turn.ToolCalls = append(turn.ToolCalls, domain.ToolCallRequest{
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		}
	}

	return turn
}
