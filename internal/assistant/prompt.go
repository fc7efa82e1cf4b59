package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/drstein77/storefront/internal/models"
)

const (
	// ProductSearchTool is the only function the assistant exposes to the model.
	ProductSearchTool = "productSearch"

	// MaxSuggestedProducts caps the product cards attached to a search answer.
	MaxSuggestedProducts = 4

	Greeting = "Hello! I'm your AI shopping assistant. How can I help you find the perfect western wear today?"

	apiKeyProblem  = "It looks like there's an issue with your API key. Please update it to continue the conversation."
	genericFailure = "Sorry, I'm having a little trouble right now. Please try again in a moment."
)

type catalogEntry struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       float64         `json:"price"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
}

type searchHit struct {
	Name     string          `json:"name"`
	Price    float64         `json:"price"`
	Category models.Category `json:"category"`
}

const instructionTemplate = `You are a friendly and helpful shopping assistant for 'Western Wear Co.', an e-commerce store specializing in western-style clothing. Your goal is to help users find products, answer their questions, compare items, and make recommendations.

You have access to a '%[1]s' tool to find specific items in the catalog. Use this tool whenever a user asks to find, search for, or look for a product. For example, if the user says 'I'm looking for a warm jacket', call the '%[1]s' tool with the query 'warm jacket'.

You also have access to the store's entire product catalog in JSON format below. Use this information to answer questions when a specific search is not required. Do not invent products or details. If a user asks about something not in the catalog, politely inform them it's not available and suggest alternatives.

Keep your responses concise, helpful, and formatted for easy readability in a chat window.

Product Catalog:
%[2]s`

// SystemInstruction embeds a JSON snapshot of the catalog in the assistant prompt.
func SystemInstruction(products []models.Product) (string, error) {
	entries := make([]catalogEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, catalogEntry{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			Category:    p.Category,
		})
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode catalog: %w", err)
	}
	return fmt.Sprintf(instructionTemplate, ProductSearchTool, raw), nil
}

// searchResult is the function response payload: the hits as a JSON string.
func searchResult(products []models.Product) (map[string]any, error) {
	hits := make([]searchHit, 0, len(products))
	for _, p := range products {
		hits = append(hits, searchHit{Name: p.Name, Price: p.Price, Category: p.Category})
	}
	raw, err := json.Marshal(hits)
	if err != nil {
		return nil, fmt.Errorf("encode search result: %w", err)
	}
	return map[string]any{"result": string(raw)}, nil
}
