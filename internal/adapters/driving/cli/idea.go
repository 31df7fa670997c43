package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ideabox/internal/core/domain"
)

const timeFormat = "2006-01-02 15:04"

var ideaCmd = &cobra.Command{
	Use:   "idea",
	Short: "Manage ideas",
	Long:  `Submit, list, review, enrich, or delete ideas.`,
}

var ideaSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a new idea",
	Long: `Submit a new idea for review. The idea starts in the pending review state.

Categories: operations, hr, technology, customer, product, other
Priorities: low, medium, high`,
	Args: cobra.NoArgs,
	RunE: runIdeaSubmit,
}

var ideaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ideas",
	Long:  `List ideas in submission order, optionally filtered by status and text.`,
	Args:  cobra.NoArgs,
	RunE:  runIdeaList,
}

var ideaShowCmd = &cobra.Command{
	Use:   "show [idea-id]",
	Short: "Show an idea with its AI enrichments",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdeaShow,
}

var ideaEditCmd = &cobra.Command{
	Use:   "edit [idea-id]",
	Short: "Edit idea fields",
	Long:  `Change the title, description, category, priority, or author. Only the flags given are changed.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runIdeaEdit,
}

var ideaStatusCmd = &cobra.Command{
	Use:   "status [idea-id] [status]",
	Short: "Move an idea to a new status",
	Long: `Move an idea along the review workflow:

  draft          -> pending_review
  pending_review -> approved, in_progress
  approved       -> in_progress`,
	Args: cobra.ExactArgs(2),
	RunE: runIdeaStatus,
}

var ideaDeleteCmd = &cobra.Command{
	Use:   "delete [idea-id]",
	Short: "Delete an idea permanently",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdeaDelete,
}

var ideaRefineCmd = &cobra.Command{
	Use:   "refine [idea-id]",
	Short: "Rewrite an idea as a business proposal",
	Long:  `Ask the configured LLM provider to rewrite the idea as a structured proposal.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runIdeaRefine,
}

var ideaImageCmd = &cobra.Command{
	Use:   "image [idea-id]",
	Short: "Generate an illustration for an idea",
	Long:  `Ask the configured image provider for an illustration. Running it again replaces the image.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runIdeaImage,
}

// Flags for idea commands.
var (
	ideaTitle       string
	ideaDescription string
	ideaCategory    string
	ideaPriority    string
	ideaAuthor      string
	listStatus      string
	listSearch      string
	imageOutput     string
)

func init() {
	ideaSubmitCmd.Flags().StringVarP(&ideaTitle, "title", "t", "", "Idea title")
	ideaSubmitCmd.Flags().StringVarP(&ideaDescription, "description", "d", "", "What the idea changes and why")
	ideaSubmitCmd.Flags().StringVarP(&ideaCategory, "category", "c", string(domain.CategoryOperations), "Business area")
	ideaSubmitCmd.Flags().StringVarP(&ideaPriority, "priority", "p", string(domain.PriorityMedium), "Priority")
	ideaSubmitCmd.Flags().StringVarP(&ideaAuthor, "author", "a", domain.DefaultAuthor, "Submitter name")

	ideaEditCmd.Flags().String("title", "", "New title")
	ideaEditCmd.Flags().String("description", "", "New description")
	ideaEditCmd.Flags().String("category", "", "New category")
	ideaEditCmd.Flags().String("priority", "", "New priority")
	ideaEditCmd.Flags().String("author", "", "New author")

	ideaListCmd.Flags().StringVarP(&listStatus, "status", "s", domain.StatusFilterAll, "Status filter")
	ideaListCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Text to look for in title or description")

	ideaImageCmd.Flags().StringVarP(&imageOutput, "output", "o", "", "Write the generated PNG to this file")

	ideaCmd.AddCommand(ideaSubmitCmd)
	ideaCmd.AddCommand(ideaListCmd)
	ideaCmd.AddCommand(ideaShowCmd)
	ideaCmd.AddCommand(ideaEditCmd)
	ideaCmd.AddCommand(ideaStatusCmd)
	ideaCmd.AddCommand(ideaDeleteCmd)
	ideaCmd.AddCommand(ideaRefineCmd)
	ideaCmd.AddCommand(ideaImageCmd)
	rootCmd.AddCommand(ideaCmd)
}

func runIdeaSubmit(cmd *cobra.Command, _ []string) error {
	if ideaService == nil {
		return errors.New("idea service not configured")
	}

	category, err := domain.ParseCategory(ideaCategory)
	if err != nil {
		return err
	}
	priority, err := domain.ParsePriority(ideaPriority)
	if err != nil {
		return err
	}

	idea, err := ideaService.Create(context.Background(), domain.NewIdeaInput{
		Title:       ideaTitle,
		Description: ideaDescription,
		Category:    category,
		Priority:    priority,
		Author:      ideaAuthor,
	})
	if err != nil {
		return fmt.Errorf("failed to submit idea: %w", err)
	}

	cmd.Printf("Idea submitted: %s\n", idea.ID)
	cmd.Printf("  Status: %s\n", statusBadge(cmd.OutOrStdout(), idea.Status))
	return nil
}

func runIdeaList(cmd *cobra.Command, _ []string) error {
	if ideaService == nil {
		return errors.New("idea service not configured")
	}

	status, err := domain.ParseStatusFilter(listStatus)
	if err != nil {
		return err
	}

	ideas, err := ideaService.Search(context.Background(), domain.IdeaFilter{
		Status: status,
		Search: listSearch,
	})
	if err != nil {
		return fmt.Errorf("failed to list ideas: %w", err)
	}

	if len(ideas) == 0 {
		cmd.Println("No ideas found.")
		return nil
	}

	out := cmd.OutOrStdout()
	for i := range ideas {
		idea := &ideas[i]
		cmd.Printf("%s  %s\n", idea.ID, idea.Title)
		cmd.Printf("    %s  %s  %s  %s\n",
			statusBadge(out, idea.Status),
			idea.Category.Label(),
			priorityText(out, idea.Priority),
			idea.Author,
		)
		cmd.Println()
	}

	cmd.Printf("Total: %d ideas\n", len(ideas))
	return nil
}

func runIdeaShow(cmd *cobra.Command, args []string) error {
	if ideaService == nil {
		return errors.New("idea service not configured")
	}

	idea, err := ideaService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get idea: %w", err)
	}

	out := cmd.OutOrStdout()
	cmd.Println(heading(out, idea.Title))
	cmd.Println()
	cmd.Printf("  ID:        %s\n", idea.ID)
	cmd.Printf("  Status:    %s\n", statusBadge(out, idea.Status))
	cmd.Printf("  Category:  %s\n", idea.Category.Label())
	cmd.Printf("  Priority:  %s\n", priorityText(out, idea.Priority))
	cmd.Printf("  Author:    %s\n", idea.Author)
	cmd.Printf("  Submitted: %s\n", idea.CreatedAt.Local().Format(timeFormat))
	if next := domain.NextStatuses(idea.Status); len(next) > 0 {
		names := make([]string, len(next))
		for i, s := range next {
			names[i] = s.String()
		}
		cmd.Printf("  Next:      %s\n", strings.Join(names, ", "))
	}
	cmd.Println()
	cmd.Println(idea.Description)

	if idea.AIRefinement != nil {
		cmd.Println()
		cmd.Println(heading(out, "AI proposal"))
		cmd.Println(*idea.AIRefinement)
	}
	if idea.ImageURL != nil {
		cmd.Println()
		cmd.Printf("Image: %s\n", describeImage(*idea.ImageURL))
	}

	if enrichmentService != nil {
		for _, st := range enrichmentService.Statuses(idea.ID) {
			switch st.State {
			case domain.EnrichmentLoading:
				cmd.Printf("\n%s request running since %s\n", st.Kind, st.StartedAt.Local().Format(timeFormat))
			case domain.EnrichmentFailed:
				cmd.Printf("\n%s request failed: %v\n", st.Kind, st.Err)
			}
		}
	}
	return nil
}

func runIdeaEdit(cmd *cobra.Command, args []string) error {
	if ideaService == nil {
		return errors.New("idea service not configured")
	}

	var patch domain.IdeaPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		patch.Title = &v
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		patch.Description = &v
	}
	if flags.Changed("author") {
		v, _ := flags.GetString("author")
		patch.Author = &v
	}
	if flags.Changed("category") {
		v, _ := flags.GetString("category")
		c, err := domain.ParseCategory(v)
		if err != nil {
			return err
		}
		patch.Category = &c
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		p, err := domain.ParsePriority(v)
		if err != nil {
			return err
		}
		patch.Priority = &p
	}
	if patch.IsEmpty() {
		return errors.New("nothing to change: pass at least one of --title, --description, --category, --priority, --author")
	}

	idea, err := ideaService.Update(context.Background(), args[0], patch)
	if err != nil {
		return fmt.Errorf("failed to edit idea: %w", err)
	}

	cmd.Printf("Idea %s updated.\n", idea.ID)
	return nil
}

func runIdeaStatus(cmd *cobra.Command, args []string) error {
	if ideaService == nil {
		return errors.New("idea service not configured")
	}

	status, err := domain.ParseStatus(args[1])
	if err != nil {
		return err
	}

	idea, err := ideaService.Update(context.Background(), args[0], domain.IdeaPatch{Status: &status})
	if err != nil {
		return fmt.Errorf("failed to change status: %w", err)
	}

	cmd.Printf("Idea %s is now %s\n", idea.ID, statusBadge(cmd.OutOrStdout(), idea.Status))
	return nil
}

func runIdeaDelete(cmd *cobra.Command, args []string) error {
	if ideaService == nil {
		return errors.New("idea service not configured")
	}

	id := args[0]
	if err := ideaService.Delete(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
	}
	if enrichmentService != nil {
		enrichmentService.Forget(id)
	}

	cmd.Printf("Idea %s deleted.\n", id)
	return nil
}

func runIdeaRefine(cmd *cobra.Command, args []string) error {
	if enrichmentService == nil {
		return errors.New("enrichment service not configured")
	}

	results, err := enrichmentService.Refine(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to start refinement: %w", err)
	}

	cmd.Println("Refining idea...")
	result := <-results
	switch {
	case result.Discarded:
		cmd.Println("Idea was deleted before the proposal arrived.")
	case result.Err != nil:
		return fmt.Errorf("refinement failed: %w", result.Err)
	default:
		cmd.Println()
		cmd.Println(*result.Idea.AIRefinement)
	}
	return nil
}

func runIdeaImage(cmd *cobra.Command, args []string) error {
	if enrichmentService == nil {
		return errors.New("enrichment service not configured")
	}

	results, err := enrichmentService.GenerateImage(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to start image generation: %w", err)
	}

	cmd.Println("Generating image...")
	result := <-results
	switch {
	case result.Discarded:
		cmd.Println("Idea was deleted before the image arrived.")
		return nil
	case result.Err != nil:
		return fmt.Errorf("image generation failed: %w", result.Err)
	case result.Idea == nil:
		cmd.Println("The provider returned no image.")
		return nil
	}

	uri := *result.Idea.ImageURL
	cmd.Printf("Image: %s\n", describeImage(uri))

	if imageOutput != "" {
		if err := writeImage(imageOutput, uri); err != nil {
			return err
		}
		cmd.Printf("Saved to %s\n", imageOutput)
	}
	return nil
}

const dataURIPrefix = "data:image/png;base64,"

// describeImage shortens data URIs, which can be megabytes long.
func describeImage(uri string) string {
	if payload, ok := strings.CutPrefix(uri, dataURIPrefix); ok {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "embedded PNG (unreadable)"
		}
		return fmt.Sprintf("embedded PNG (%d bytes)", len(data))
	}
	return uri
}

func writeImage(path, uri string) error {
	payload, ok := strings.CutPrefix(uri, dataURIPrefix)
	if !ok {
		return fmt.Errorf("image is hosted at %s; download it from there", uri)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing image: %w", err)
	}
	return nil
}
