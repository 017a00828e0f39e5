package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

// Parser handles parsing and validation of LLM responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseFieldMap parses a JSON object response into a header-aligned field map.
// The result contains EXACTLY the requested headers: extra keys from the model
// are dropped, missing keys become empty strings. The model never gets to
// invent or omit columns.
func (p *Parser) ParseFieldMap(jsonString string, headers []string) (map[string]string, error) {
	jsonString = extractJSON(jsonString)

	var raw map[string]string
	if err := json.Unmarshal([]byte(jsonString), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse field map response: %w", err)
	}

	fields := make(map[string]string, len(headers))
	for _, h := range headers {
		fields[h] = raw[h]
	}
	return fields, nil
}

// ParseStringList parses a JSON array of strings
func (p *Parser) ParseStringList(jsonString string) ([]string, error) {
	jsonString = extractJSON(jsonString)

	var items []string
	if err := json.Unmarshal([]byte(jsonString), &items); err != nil {
		return nil, fmt.Errorf("failed to parse list response: %w", err)
	}
	if items == nil {
		items = make([]string, 0)
	}
	return items, nil
}

// ParseHighlights parses a JSON array of highlight objects. Entries without
// text are dropped, negative timestamps are clamped to zero.
func (p *Parser) ParseHighlights(jsonString string) ([]entities.Highlight, error) {
	jsonString = extractJSON(jsonString)

	var raw []entities.Highlight
	if err := json.Unmarshal([]byte(jsonString), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse highlights response: %w", err)
	}

	highlights := make([]entities.Highlight, 0, len(raw))
	for _, h := range raw {
		if strings.TrimSpace(h.Text) == "" {
			continue
		}
		if h.Timestamp < 0 {
			h.Timestamp = 0
		}
		highlights = append(highlights, h)
	}
	return highlights, nil
}

// ParseTopicDistribution parses a JSON object of topic -> percentage and
// rescales the values so they sum to 100
func (p *Parser) ParseTopicDistribution(jsonString string) (map[string]float64, error) {
	jsonString = extractJSON(jsonString)

	var topics map[string]float64
	if err := json.Unmarshal([]byte(jsonString), &topics); err != nil {
		return nil, fmt.Errorf("failed to parse topic distribution response: %w", err)
	}
	if len(topics) == 0 {
		return map[string]float64{}, nil
	}

	var total float64
	for _, v := range topics {
		if v < 0 {
			v = 0
		}
		total += v
	}
	if total <= 0 {
		return map[string]float64{}, nil
	}

	scaled := make(map[string]float64, len(topics))
	for k, v := range topics {
		if v < 0 {
			v = 0
		}
		scaled[k] = v / total * 100
	}
	return scaled, nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
