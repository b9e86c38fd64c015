package ai

import (
	"fmt"
	"strings"
)

const (
	defaultTechStackLabel = "Next.js + FastAPI"
	defaultProjectType    = "web application"
)

// DefaultTechStack is the stack recommended when analysis cannot produce
// a better one.
func DefaultTechStack() map[string]string {
	return map[string]string{
		"frontend": "nextjs",
		"backend":  "fastapi",
		"database": "sqlite",
		"styling":  "tailwind",
	}
}

func buildCodePrompt(prompt string, context map[string]string) string {
	techStack := context["tech_stack"]
	if techStack == "" {
		techStack = defaultTechStackLabel
	}
	projectType := context["project_type"]
	if projectType == "" {
		projectType = defaultProjectType
	}

	return fmt.Sprintf(`Generate code for the following requirement:

Requirement: %s

Context:
- Tech stack: %s
- Project type: %s
- File path: %s

Produce complete, runnable code with the necessary comments.`,
		prompt, techStack, projectType, context["file_path"])
}

func buildAnalysisPrompt(description string) string {
	return fmt.Sprintf(`Analyze the following project requirements and recommend a technology stack:

Description: %s

Return the analysis as JSON with these fields:
- tech_stack: recommended stack as an object of role to technology
- features: list of the main features
- complexity: one of "simple", "medium", "complex"
- estimated_time: rough development time estimate`,
		description)
}

func buildImprovementPrompt(code, feedback string) string {
	return fmt.Sprintf(`Review the following code and suggest improvements:

Code:
%s

Feedback:
%s

List concrete, actionable suggestions, one per line.`,
		code, feedback)
}

func buildChatPrompt(message string, history []Message) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		if msg.Role == "user" {
			lines = append(lines, "User: "+msg.Content)
		} else {
			lines = append(lines, "Assistant: "+msg.Content)
		}
	}

	return fmt.Sprintf(`Conversation history:
%s

New user message: %s

Reply as an AI programming assistant and help the user with their coding problem.`,
		strings.Join(lines, "\n"), message)
}
