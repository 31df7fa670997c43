// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ConfigStore: Application configuration
//
// AIConfigValidator is optional; settings are saved unchecked without it.
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - IdeaRepository: Idea persistence. Without it, ideas live in memory only.
//   - TextRefiner: Rewrites ideas as proposals. Without it, refinement is disabled.
//   - ImageGenerator: Illustrates ideas. Without it, image generation is disabled.
//   - LLMService: Language model access used by the TextRefiner adapter.
//   - PromptStore: User-editable prompt templates. Without it, defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
