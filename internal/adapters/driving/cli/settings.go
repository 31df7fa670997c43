package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ideabox/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure storage and AI providers.

Settings are stored in ~/.ideabox/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting. An empty value clears free-form settings.

Keys:
  storage.backend   sqlite or memory
  llm.provider      ollama, openai, anthropic (empty disables refinement)
  llm.model         model name, provider default when empty
  llm.base_url      API endpoint, provider default when empty
  llm.api_key       API key for openai and anthropic
  image.provider    openai (empty disables image generation)
  image.model       image model, dall-e-3 when empty
  image.base_url    API endpoint, provider default when empty
  image.api_key     API key
  image.size        WIDTHxHEIGHT, e.g. 1024x1024

Changing a provider or API key checks the new configuration. Use --no-check
to skip the check, e.g. when the provider is offline.`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeSettingKeys,
	RunE:              runSettingsSet,
}

var skipCheck bool

func init() {
	settingsSetCmd.Flags().BoolVar(&skipCheck, "no-check", false, "Do not validate the provider after saving")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage)
	cmd.Println()

	cmd.Println("[LLM]")
	printProvider(cmd, settings.LLM.Provider, settings.LLM.Model, settings.LLM.BaseURL, settings.LLM.APIKey)
	cmd.Printf("  Status: %s\n", configuredLabel(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Image]")
	printProvider(cmd, settings.Image.Provider, settings.Image.Model, settings.Image.BaseURL, settings.Image.APIKey)
	cmd.Printf("  Size: %s\n", settings.Image.Size)
	cmd.Printf("  Status: %s\n", configuredLabel(settings.Image.IsConfigured()))

	return nil
}

func printProvider(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string) {
	if provider == "" {
		cmd.Println("  Provider: (none)")
		return
	}
	cmd.Printf("  Provider: %s\n", provider.Description())
	if model != "" {
		cmd.Printf("  Model: %s\n", model)
	}
	if baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("%s updated.\n", key)

	if skipCheck {
		return nil
	}

	var checkErr error
	switch key {
	case "llm.provider", "llm.api_key", "llm.base_url", "llm.model":
		checkErr = settingsService.ValidateLLMConfig()
	case "image.provider", "image.api_key":
		checkErr = settingsService.ValidateImageConfig()
	}
	if checkErr != nil {
		cmd.Printf("Warning: %v\n", checkErr)
	}
	return nil
}

func completeSettingKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || settingsService == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return settingsService.Keys(), cobra.ShellCompDirectiveNoFileComp
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
