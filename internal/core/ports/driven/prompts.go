package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptRefineIdea turns a raw idea into a structured business proposal.
	// The prompt template expects two %s placeholders: title, then description.
	PromptRefineIdea = "refine_idea"

	// PromptImageBrief describes the illustration to generate for an idea.
	// The prompt template expects two %s placeholders: title, then description.
	PromptImageBrief = "image_brief"
)
