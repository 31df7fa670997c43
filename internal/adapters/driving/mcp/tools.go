package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ideabox/internal/core/domain"
)

// IdeaOutput is the wire form of an idea.
type IdeaOutput struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Priority     string `json:"priority"`
	Status       string `json:"status"`
	Author       string `json:"author"`
	CreatedAt    string `json:"created_at"`
	AIRefinement string `json:"ai_refinement,omitempty"`
	HasImage     bool   `json:"has_image"`
}

func toOutput(idea *domain.Idea) IdeaOutput {
	out := IdeaOutput{
		ID:          idea.ID,
		Title:       idea.Title,
		Description: idea.Description,
		Category:    idea.Category.String(),
		Priority:    idea.Priority.String(),
		Status:      idea.Status.String(),
		Author:      idea.Author,
		CreatedAt:   idea.CreatedAt.Format(time.RFC3339),
		HasImage:    idea.HasImage(),
	}
	if idea.AIRefinement != nil {
		out.AIRefinement = *idea.AIRefinement
	}
	return out
}

// ListIdeasInput is the input schema for the list_ideas tool.
type ListIdeasInput struct {
	Status string `json:"status,omitempty" jsonschema:"draft, pending_review, approved, in_progress, or all (default all)"`
	Search string `json:"search,omitempty" jsonschema:"text to look for in title or description"`
}

// ListIdeasOutput is the output schema for the list_ideas tool.
type ListIdeasOutput struct {
	Ideas []IdeaOutput `json:"ideas"`
	Count int          `json:"count"`
}

// IdeaIDInput identifies a single idea.
type IdeaIDInput struct {
	ID string `json:"id" jsonschema:"the idea ID"`
}

// SubmitIdeaInput is the input schema for the submit_idea tool.
type SubmitIdeaInput struct {
	Title       string `json:"title" jsonschema:"short name of the idea"`
	Description string `json:"description" jsonschema:"the problem and the proposed solution"`
	Category    string `json:"category" jsonschema:"operations, hr, technology, customer, product, or other"`
	Priority    string `json:"priority,omitempty" jsonschema:"low, medium, or high (default medium)"`
	Author      string `json:"author,omitempty" jsonschema:"submitter name"`
}

// discardedResult tells the caller the idea went away while the request ran.
// Nothing was stored, and this is not a failure.
func discardedResult(id string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{
			Text: "Idea " + id + " was deleted before the proposal arrived. Nothing was stored.",
		}},
	}
}

// ChangeStatusInput is the input schema for the change_status tool.
type ChangeStatusInput struct {
	ID     string `json:"id" jsonschema:"the idea ID"`
	Status string `json:"status" jsonschema:"the target status"`
}

// StatsOutput is the output schema for the idea_stats tool.
type StatsOutput struct {
	Total        int                   `json:"total"`
	Draft        int                   `json:"draft"`
	Pending      int                   `json:"pending"`
	Approved     int                   `json:"approved"`
	Implementing int                   `json:"implementing"`
	ByStatus     []StatusCountOutput   `json:"by_status"`
	ByCategory   []CategoryCountOutput `json:"by_category"`
}

// StatusCountOutput is the number of ideas in one status.
type StatusCountOutput struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// CategoryCountOutput is one histogram bucket. Buckets keep the order in
// which categories first appear in the collection.
type CategoryCountOutput struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_ideas",
		Description: "List ideas, optionally filtered by status and text",
	}, s.handleListIdeas)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_idea",
		Description: "Get a single idea with its AI proposal",
	}, s.handleGetIdea)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "submit_idea",
		Description: "Submit a new idea for review",
	}, s.handleSubmitIdea)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "change_status",
		Description: "Move an idea along the review workflow",
	}, s.handleChangeStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "idea_stats",
		Description: "Count ideas per status and category",
	}, s.handleStats)

	if s.ports.Enrichment != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "refine_idea",
			Description: "Rewrite an idea as a business proposal using the configured LLM",
		}, s.handleRefineIdea)
	}
}

func (s *Server) handleListIdeas(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListIdeasInput,
) (*mcp.CallToolResult, ListIdeasOutput, error) {
	status, err := domain.ParseStatusFilter(input.Status)
	if err != nil {
		return nil, ListIdeasOutput{}, err
	}

	ideas, err := s.ports.Ideas.Search(ctx, domain.IdeaFilter{Status: status, Search: input.Search})
	if err != nil {
		return nil, ListIdeasOutput{}, err
	}

	output := ListIdeasOutput{
		Ideas: make([]IdeaOutput, len(ideas)),
		Count: len(ideas),
	}
	for i := range ideas {
		output.Ideas[i] = toOutput(&ideas[i])
	}
	return nil, output, nil
}

func (s *Server) handleGetIdea(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IdeaIDInput,
) (*mcp.CallToolResult, IdeaOutput, error) {
	idea, err := s.ports.Ideas.Get(ctx, input.ID)
	if err != nil {
		return nil, IdeaOutput{}, err
	}
	return nil, toOutput(&idea), nil
}

func (s *Server) handleSubmitIdea(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SubmitIdeaInput,
) (*mcp.CallToolResult, IdeaOutput, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, IdeaOutput{}, err
	}

	priority := domain.PriorityMedium
	if input.Priority != "" {
		if priority, err = domain.ParsePriority(input.Priority); err != nil {
			return nil, IdeaOutput{}, err
		}
	}

	author := input.Author
	if author == "" {
		author = domain.DefaultAuthor
	}

	idea, err := s.ports.Ideas.Create(ctx, domain.NewIdeaInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    category,
		Priority:    priority,
		Author:      author,
	})
	if err != nil {
		return nil, IdeaOutput{}, err
	}
	return nil, toOutput(&idea), nil
}

func (s *Server) handleChangeStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChangeStatusInput,
) (*mcp.CallToolResult, IdeaOutput, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, IdeaOutput{}, err
	}

	idea, err := s.ports.Ideas.Update(ctx, input.ID, domain.IdeaPatch{Status: &status})
	if err != nil {
		return nil, IdeaOutput{}, err
	}
	return nil, toOutput(&idea), nil
}

func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Ideas.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	output := StatsOutput{
		Total:        stats.Summary.Total,
		Draft:        stats.Summary.Draft,
		Pending:      stats.Summary.Pending,
		Approved:     stats.Summary.Approved,
		Implementing: stats.Summary.Implementing,
		ByStatus:     make([]StatusCountOutput, 0, len(stats.ByStatus)),
		ByCategory:   make([]CategoryCountOutput, 0, len(stats.ByCategory)),
	}
	for _, status := range domain.AllStatuses() {
		output.ByStatus = append(output.ByStatus, StatusCountOutput{
			Status: status.String(),
			Count:  stats.ByStatus[status],
		})
	}
	for _, c := range stats.ByCategory {
		output.ByCategory = append(output.ByCategory, CategoryCountOutput{
			Category: c.Category.String(),
			Count:    c.Count,
		})
	}
	return nil, output, nil
}

// handleRefineIdea waits for the proposal so the assistant gets it in the
// same call.
func (s *Server) handleRefineIdea(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IdeaIDInput,
) (*mcp.CallToolResult, IdeaOutput, error) {
	results, err := s.ports.Enrichment.Refine(ctx, input.ID)
	if err != nil {
		return nil, IdeaOutput{}, err
	}

	select {
	case result := <-results:
		switch {
		case result.Discarded:
			return discardedResult(input.ID), IdeaOutput{ID: input.ID}, nil
		case result.Err != nil:
			return nil, IdeaOutput{}, result.Err
		case result.Idea == nil:
			return nil, IdeaOutput{}, errors.New("refinement produced no result")
		}
		return nil, toOutput(result.Idea), nil
	case <-ctx.Done():
		// The request keeps running and its result is still stored.
		return nil, IdeaOutput{}, ctx.Err()
	}
}
