package domain

import "time"

// DefaultAuthor is the submitter recorded when none is given on the form.
const DefaultAuthor = "Người dùng hiện tại"

// Idea is a single proposal tracked by the innovation program.
type Idea struct {
	// ID is the unique identifier. Assigned at creation and never changed.
	ID string

	// Title is the short name of the proposal.
	Title string

	// Description explains the problem and the proposed solution.
	Description string

	// Category is the business area the idea belongs to.
	Category Category

	// Priority is the submitter's urgency rating.
	Priority Priority

	// Status is the lifecycle stage. See NextStatuses.
	Status Status

	// Author identifies the submitter.
	Author string

	// CreatedAt is when the idea was submitted. Never changed.
	CreatedAt time.Time

	// AIRefinement is the proposal text produced by the refinement service.
	// Nil until a refinement succeeds; replaced on each later success.
	AIRefinement *string

	// ImageURL is the illustration produced by the image service.
	// Nil until generation succeeds; replaced on regeneration.
	ImageURL *string
}

// Clone returns a deep copy so callers cannot alias optional fields.
func (i Idea) Clone() Idea {
	out := i
	if i.AIRefinement != nil {
		v := *i.AIRefinement
		out.AIRefinement = &v
	}
	if i.ImageURL != nil {
		v := *i.ImageURL
		out.ImageURL = &v
	}
	return out
}

// HasRefinement reports whether a refinement has been stored.
func (i Idea) HasRefinement() bool { return i.AIRefinement != nil }

// HasImage reports whether an illustration has been stored.
func (i Idea) HasImage() bool { return i.ImageURL != nil }

// NewIdeaInput carries the fields supplied on submission.
type NewIdeaInput struct {
	Title       string
	Description string
	Category    Category
	Priority    Priority
	Author      string
}

// IdeaPatch is a partial update. Nil fields are left unchanged.
type IdeaPatch struct {
	Title        *string
	Description  *string
	Category     *Category
	Priority     *Priority
	Status       *Status
	Author       *string
	AIRefinement *string
	ImageURL     *string
}

// IsEmpty reports whether the patch carries no fields.
func (p IdeaPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Priority == nil && p.Status == nil && p.Author == nil &&
		p.AIRefinement == nil && p.ImageURL == nil
}
