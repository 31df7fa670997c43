package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/ideabox/internal/core/ports/driven"
)

// Ensure Refiner implements the interface.
var _ driven.TextRefiner = (*Refiner)(nil)

// refineOptions leaves room for a four-part proposal.
var refineOptions = driven.GenerateOptions{
	MaxTokens:   1024,
	Temperature: 0.4,
}

// Refiner rewrites ideas as business proposals using an LLM.
type Refiner struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewRefiner creates a refiner. The prompt template is read from prompts on
// every call so edits on disk take effect after a reload.
func NewRefiner(llm driven.LLMService, prompts driven.PromptStore) *Refiner {
	return &Refiner{llm: llm, prompts: prompts}
}

// RefineText returns the proposal text for an idea.
func (r *Refiner) RefineText(ctx context.Context, title, description string) (string, error) {
	tmpl, err := r.prompts.Load(driven.PromptRefineIdea)
	if err != nil {
		return "", fmt.Errorf("load refine prompt: %w", err)
	}

	out, err := r.llm.Generate(ctx, fmt.Sprintf(tmpl, title, description), refineOptions)
	if err != nil {
		return "", fmt.Errorf("%s: %w", r.llm.ModelName(), err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", errors.New(r.llm.ModelName() + ": empty response")
	}
	return out, nil
}
