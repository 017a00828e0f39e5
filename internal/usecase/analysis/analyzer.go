package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

// ChatClient sends a system + user prompt pair to an LLM and returns the
// assistant content. pkg/ai.GroqClient satisfies this.
type ChatClient interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Analyzer runs the individual LLM analysis passes over a normalized
// transcript. Each method is independent and safe to call concurrently.
type Analyzer interface {
	ExtractFields(ctx context.Context, segments []entities.Segment, headers []string, instructions string) (map[string]string, error)
	Summarize(ctx context.Context, segments []entities.Segment) (string, error)
	KeyPoints(ctx context.Context, segments []entities.Segment) ([]string, error)
	ActionItems(ctx context.Context, segments []entities.Segment) ([]string, error)
	Highlights(ctx context.Context, segments []entities.Segment) ([]entities.Highlight, error)
	TopicDistribution(ctx context.Context, segments []entities.Segment) (map[string]float64, error)
}

// GroqAnalyzer implements Analyzer on top of the Groq chat completion API
type GroqAnalyzer struct {
	llm    ChatClient
	parser *Parser
}

// NewGroqAnalyzer constructs an Analyzer backed by the given chat client
func NewGroqAnalyzer(llm ChatClient) *GroqAnalyzer {
	return &GroqAnalyzer{
		llm:    llm,
		parser: NewParser(),
	}
}

// formatSegments renders segments into the [MM:SS Speaker]: text layout the
// prompts reference
func formatSegments(segments []entities.Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		minutes := int(seg.StartTime) / 60
		seconds := int(seg.StartTime) % 60
		sb.WriteString(fmt.Sprintf("[%02d:%02d %s]: %s\n", minutes, seconds, seg.Speaker, seg.Text))
	}
	return sb.String()
}

// ExtractFields asks the LLM for one value per spreadsheet header. The
// response is aligned back to the header list so downstream export never sees
// an invented or missing column.
func (a *GroqAnalyzer) ExtractFields(ctx context.Context, segments []entities.Segment, headers []string, instructions string) (map[string]string, error) {
	headerJSON, err := json.Marshal(headers)
	if err != nil {
		return nil, err
	}

	system := "You extract structured information from meeting transcripts. " +
		"Respond with a single JSON object whose keys are EXACTLY the provided column names. " +
		"Use an empty string for any column the transcript does not answer. " +
		"Do not add keys, do not omit keys, do not wrap the JSON in commentary."

	var sb strings.Builder
	sb.WriteString("Columns:\n")
	sb.Write(headerJSON)
	sb.WriteString("\n\n")
	if instructions != "" {
		sb.WriteString("Additional instructions:\n")
		sb.WriteString(instructions)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Transcript:\n")
	sb.WriteString(formatSegments(segments))

	resp, err := a.llm.Chat(ctx, system, sb.String())
	if err != nil {
		return nil, err
	}
	return a.parser.ParseFieldMap(resp, headers)
}

// Summarize produces a short prose summary of the meeting
func (a *GroqAnalyzer) Summarize(ctx context.Context, segments []entities.Segment) (string, error) {
	system := "You summarize meeting transcripts. Respond with 2-4 sentences of plain prose, no markdown, no preamble."

	resp, err := a.llm.Chat(ctx, system, "Transcript:\n"+formatSegments(segments))
	if err != nil {
		return "", err
	}
	summary := strings.TrimSpace(resp)
	if summary == "" {
		return "", fmt.Errorf("empty summary from model")
	}
	return summary, nil
}

// KeyPoints extracts the main discussion points
func (a *GroqAnalyzer) KeyPoints(ctx context.Context, segments []entities.Segment) ([]string, error) {
	system := "You extract the key points from meeting transcripts. " +
		"Respond with a JSON array of strings, most important first. Return [] if the meeting had no substantive points."

	resp, err := a.llm.Chat(ctx, system, "Transcript:\n"+formatSegments(segments))
	if err != nil {
		return nil, err
	}
	return a.parser.ParseStringList(resp)
}

// ActionItems extracts concrete follow-ups agreed during the meeting
func (a *GroqAnalyzer) ActionItems(ctx context.Context, segments []entities.Segment) ([]string, error) {
	system := "You extract action items from meeting transcripts. " +
		"Respond with a JSON array of strings, each one a concrete task with its owner when one was named. Return [] if none."

	resp, err := a.llm.Chat(ctx, system, "Transcript:\n"+formatSegments(segments))
	if err != nil {
		return nil, err
	}
	return a.parser.ParseStringList(resp)
}

// Highlights extracts notable moments with their timestamps in seconds
func (a *GroqAnalyzer) Highlights(ctx context.Context, segments []entities.Segment) ([]entities.Highlight, error) {
	system := "You pick the notable moments from meeting transcripts. " +
		`Respond with a JSON array of objects shaped {"timestamp": <seconds from start>, "text": "<what happened>"}. ` +
		"Timestamps must come from the [MM:SS] markers in the transcript. Return [] if nothing stands out."

	resp, err := a.llm.Chat(ctx, system, "Transcript:\n"+formatSegments(segments))
	if err != nil {
		return nil, err
	}
	return a.parser.ParseHighlights(resp)
}

// TopicDistribution estimates how talk time was split across topics
func (a *GroqAnalyzer) TopicDistribution(ctx context.Context, segments []entities.Segment) (map[string]float64, error) {
	system := "You estimate how a meeting's time was distributed across topics. " +
		`Respond with a JSON object mapping topic name to percentage of the meeting, e.g. {"planning": 60, "hiring": 40}. ` +
		"Percentages should sum to roughly 100. Return {} if no topics can be identified."

	resp, err := a.llm.Chat(ctx, system, "Transcript:\n"+formatSegments(segments))
	if err != nil {
		return nil, err
	}
	return a.parser.ParseTopicDistribution(resp)
}
