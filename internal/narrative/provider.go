// Package narrative defines the contract with the external text-generation
// collaborator and its OpenRouter implementation.
package narrative

import "context"

// Request carries one triage prompt.
type Request struct {
	System string
	Prompt string
}

// Provider produces free-text commentary for one alert. Implementations make
// a single attempt; retry policy belongs to callers outside this core.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}
