package ai

import (
	"context"
	"encoding/json"
	"strings"
)

// Assistant implements Provider on top of any single-shot completion
// Backend. All prompt construction and degradation behavior lives here so
// vendor clients only have to complete text.
type Assistant struct {
	backend Backend
}

func NewAssistant(backend Backend) *Assistant {
	return &Assistant{backend: backend}
}

func (a *Assistant) Name() string {
	return a.backend.Name()
}

func (a *Assistant) GenerateCode(ctx context.Context, prompt string, context map[string]string) (string, error) {
	text, err := a.backend.Complete(ctx, buildCodePrompt(prompt, context))
	if err != nil {
		return "code generation failed: " + err.Error(), nil
	}
	return text, nil
}

func (a *Assistant) AnalyzeRequirements(ctx context.Context, description string) (*RequirementAnalysis, error) {
	text, err := a.backend.Complete(ctx, buildAnalysisPrompt(description))
	if err != nil {
		return &RequirementAnalysis{
			Error: "requirement analysis failed: " + err.Error(),
			TechStack: map[string]string{
				"frontend": "nextjs",
				"backend":  "fastapi",
			},
			Features:   []string{},
			Complexity: ComplexityUnknown,
		}, nil
	}
	return parseAnalysis(text), nil
}

func (a *Assistant) SuggestImprovements(ctx context.Context, code, feedback string) ([]string, error) {
	text, err := a.backend.Complete(ctx, buildImprovementPrompt(code, feedback))
	if err != nil {
		return []string{"failed to generate improvement suggestions: " + err.Error()}, nil
	}

	suggestions := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			suggestions = append(suggestions, trimmed)
		}
	}
	return suggestions, nil
}

func (a *Assistant) Chat(ctx context.Context, message string, history []Message) (string, error) {
	text, err := a.backend.Complete(ctx, buildChatPrompt(message, history))
	if err != nil {
		return "AI response generation failed: " + err.Error(), nil
	}
	return text, nil
}

// parseAnalysis extracts a RequirementAnalysis from model output. Models
// frequently wrap JSON in markdown fences or prose, so the parse is best
// effort and falls back to a default recommendation.
func parseAnalysis(text string) *RequirementAnalysis {
	raw := extractJSONObject(text)
	if raw != "" {
		var analysis RequirementAnalysis
		if err := json.Unmarshal([]byte(raw), &analysis); err == nil && len(analysis.TechStack) > 0 {
			if analysis.Features == nil {
				analysis.Features = []string{}
			}
			if analysis.Complexity == "" {
				analysis.Complexity = ComplexityMedium
			}
			return &analysis
		}
	}

	return &RequirementAnalysis{
		TechStack:     DefaultTechStack(),
		Features:      []string{"user authentication", "project management", "chat"},
		Complexity:    ComplexityMedium,
		EstimatedTime: "2-3 weeks",
	}
}

// extractJSONObject returns the outermost {...} span of the text, or ""
// when none exists.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
