package domain

import "strings"

// Validate checks a submission. Every field is required and must be
// non-empty after trimming; enums must be members of their set.
func (in NewIdeaInput) Validate() error {
	var errs []FieldError
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "required"})
	}
	if strings.TrimSpace(in.Description) == "" {
		errs = append(errs, FieldError{Field: "description", Message: "required"})
	}
	if !in.Category.IsValid() {
		errs = append(errs, FieldError{Field: "category", Message: "unknown category " + quote(string(in.Category))})
	}
	if !in.Priority.IsValid() {
		errs = append(errs, FieldError{Field: "priority", Message: "unknown priority " + quote(string(in.Priority))})
	}
	if strings.TrimSpace(in.Author) == "" {
		errs = append(errs, FieldError{Field: "author", Message: "required"})
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Apply returns current with the patch merged in. It validates every
// supplied field first, so either all of them apply or none do; current is
// never modified.
func (p IdeaPatch) Apply(current Idea) (Idea, error) {
	var errs []FieldError
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "must not be empty"})
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		errs = append(errs, FieldError{Field: "description", Message: "must not be empty"})
	}
	if p.Author != nil && strings.TrimSpace(*p.Author) == "" {
		errs = append(errs, FieldError{Field: "author", Message: "must not be empty"})
	}
	if p.Category != nil && !p.Category.IsValid() {
		errs = append(errs, FieldError{Field: "category", Message: "unknown category " + quote(string(*p.Category))})
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		errs = append(errs, FieldError{Field: "priority", Message: "unknown priority " + quote(string(*p.Priority))})
	}
	if p.Status != nil && !p.Status.IsValid() {
		errs = append(errs, FieldError{Field: "status", Message: "unknown status " + quote(string(*p.Status))})
	}
	if len(errs) > 0 {
		return Idea{}, &ValidationError{Errors: errs}
	}
	if p.Status != nil {
		if err := CheckTransition(current.Status, *p.Status); err != nil {
			return Idea{}, err
		}
	}

	next := current.Clone()
	if p.Title != nil {
		next.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		next.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		next.Category = *p.Category
	}
	if p.Priority != nil {
		next.Priority = *p.Priority
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.Author != nil {
		next.Author = strings.TrimSpace(*p.Author)
	}
	if p.AIRefinement != nil {
		v := *p.AIRefinement
		next.AIRefinement = &v
	}
	if p.ImageURL != nil {
		v := *p.ImageURL
		next.ImageURL = &v
	}
	return next, nil
}
