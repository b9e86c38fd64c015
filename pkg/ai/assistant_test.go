package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeBackend) Complete(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeBackend) Name() string { return "fake" }

func TestChatReturnsBackendText(t *testing.T) {
	backend := &fakeBackend{response: "use a goroutine for that"}
	assistant := NewAssistant(backend)

	reply, err := assistant.Chat(context.Background(), "how do I run this concurrently?", []Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello, what are you building?"},
	})

	require.NoError(t, err)
	assert.Equal(t, "use a goroutine for that", reply)
	assert.Contains(t, backend.lastPrompt, "User: hi")
	assert.Contains(t, backend.lastPrompt, "Assistant: hello, what are you building?")
	assert.Contains(t, backend.lastPrompt, "New user message: how do I run this concurrently?")
}

func TestChatDegradesToFailureMessage(t *testing.T) {
	backend := &fakeBackend{err: errors.New("quota exceeded")}
	assistant := NewAssistant(backend)

	reply, err := assistant.Chat(context.Background(), "hello", nil)

	require.NoError(t, err)
	assert.Equal(t, "AI response generation failed: quota exceeded", reply)
}

func TestGenerateCodeUsesContextDefaults(t *testing.T) {
	backend := &fakeBackend{response: "package main"}
	assistant := NewAssistant(backend)

	code, err := assistant.GenerateCode(context.Background(), "a hello world server", map[string]string{})

	require.NoError(t, err)
	assert.Equal(t, "package main", code)
	assert.Contains(t, backend.lastPrompt, "Next.js + FastAPI")
	assert.Contains(t, backend.lastPrompt, "web application")
}

func TestGenerateCodeDegradesToFailureMessage(t *testing.T) {
	backend := &fakeBackend{err: errors.New("timeout")}
	assistant := NewAssistant(backend)

	code, err := assistant.GenerateCode(context.Background(), "anything", nil)

	require.NoError(t, err)
	assert.Equal(t, "code generation failed: timeout", code)
}

func TestAnalyzeRequirementsParsesJSON(t *testing.T) {
	backend := &fakeBackend{response: "```json\n" +
		`{"tech_stack":{"frontend":"react","backend":"go"},"features":["auth"],"complexity":"simple","estimated_time":"1 week"}` +
		"\n```"}
	assistant := NewAssistant(backend)

	analysis, err := assistant.AnalyzeRequirements(context.Background(), "a todo app")

	require.NoError(t, err)
	assert.Empty(t, analysis.Error)
	assert.Equal(t, "react", analysis.TechStack["frontend"])
	assert.Equal(t, []string{"auth"}, analysis.Features)
	assert.Equal(t, ComplexitySimple, analysis.Complexity)
	assert.Equal(t, "1 week", analysis.EstimatedTime)
}

func TestAnalyzeRequirementsFallsBackOnUnparsableOutput(t *testing.T) {
	backend := &fakeBackend{response: "I think you should use Next.js."}
	assistant := NewAssistant(backend)

	analysis, err := assistant.AnalyzeRequirements(context.Background(), "a todo app")

	require.NoError(t, err)
	assert.Empty(t, analysis.Error)
	assert.Equal(t, DefaultTechStack(), analysis.TechStack)
	assert.Equal(t, ComplexityMedium, analysis.Complexity)
}

func TestAnalyzeRequirementsDegradesOnBackendFailure(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection refused")}
	assistant := NewAssistant(backend)

	analysis, err := assistant.AnalyzeRequirements(context.Background(), "a todo app")

	require.NoError(t, err)
	assert.Equal(t, "requirement analysis failed: connection refused", analysis.Error)
	assert.Equal(t, ComplexityUnknown, analysis.Complexity)
	assert.Equal(t, "nextjs", analysis.TechStack["frontend"])
	assert.Equal(t, "fastapi", analysis.TechStack["backend"])
	assert.Empty(t, analysis.Features)
}

func TestSuggestImprovementsSplitsLines(t *testing.T) {
	backend := &fakeBackend{response: "1. Add error handling\n\n  2. Use contexts  \n"}
	assistant := NewAssistant(backend)

	suggestions, err := assistant.SuggestImprovements(context.Background(), "func main() {}", "looks fragile")

	require.NoError(t, err)
	assert.Equal(t, []string{"1. Add error handling", "2. Use contexts"}, suggestions)
}

func TestSuggestImprovementsDegradesToSingleEntry(t *testing.T) {
	backend := &fakeBackend{err: errors.New("boom")}
	assistant := NewAssistant(backend)

	suggestions, err := assistant.SuggestImprovements(context.Background(), "code", "feedback")

	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "failed to generate improvement suggestions: boom", suggestions[0])
}
