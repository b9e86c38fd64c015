package ai

import "context"

// Message is one turn of conversation history in a provider-agnostic
// format.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

const (
	ComplexitySimple  = "simple"
	ComplexityMedium  = "medium"
	ComplexityComplex = "complex"
	ComplexityUnknown = "unknown"
)

// RequirementAnalysis is the structured result of analyzing a project
// description. Error carries a marker when the backing model failed and
// the rest of the fields hold best-effort defaults.
type RequirementAnalysis struct {
	TechStack     map[string]string `json:"tech_stack"`
	Features      []string          `json:"features"`
	Complexity    string            `json:"complexity"`
	EstimatedTime string            `json:"estimated_time"`
	Error         string            `json:"error,omitempty"`
}

// Provider is the capability set every text-generation vendor must offer.
//
// Failure semantics are part of the contract: none of the operations
// surface backend errors to the caller. GenerateCode and Chat return a
// failure-description string, AnalyzeRequirements degrades to a valid
// result with the Error marker set, SuggestImprovements returns a
// one-element failure list. Chat turns stay persistable no matter what
// the vendor does.
type Provider interface {
	GenerateCode(ctx context.Context, prompt string, context map[string]string) (string, error)
	AnalyzeRequirements(ctx context.Context, description string) (*RequirementAnalysis, error)
	SuggestImprovements(ctx context.Context, code, feedback string) ([]string, error)
	Chat(ctx context.Context, message string, history []Message) (string, error)
}

// Backend is the single low-level operation a vendor client implements:
// complete one prompt into one text response.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}
