package agent

import "context"

// Completer sends a prompt to an LLM and returns the raw text response.
// Satisfied by *llm.Client; stubbed in tests.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ModelName() string
}
