package driven

import "context"

// TextRefiner rewrites an idea as a professional business proposal.
// Any transport or model failure is returned as an error; callers do not retry.
type TextRefiner interface {
	RefineText(ctx context.Context, title, description string) (string, error)
}

// ImageGenerator produces an illustration for an idea.
// An empty URI with a nil error means no image was produced, which is a
// valid outcome distinct from failure.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, title, description string) (string, error)
}
