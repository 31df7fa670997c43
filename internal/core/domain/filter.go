package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// StatusFilterAll is the wildcard accepted by ParseStatusFilter.
const StatusFilterAll = "all"

// statusFilterAllLabel is the wildcard label used on the list screen.
const statusFilterAllLabel = "Tất cả"

// IdeaFilter selects ideas for list views.
type IdeaFilter struct {
	// Status restricts results to one status. Nil matches every status.
	Status *Status

	// Search is matched case-insensitively as a substring of the title or
	// the description. Empty matches everything.
	Search string
}

// ParseStatusFilter resolves a status filter argument. "all" (or its display
// label, or an empty string) yields the wildcard.
func ParseStatusFilter(s string) (*Status, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, StatusFilterAll) || s == statusFilterAllLabel {
		return nil, nil
	}
	st, err := ParseStatus(s)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Filter returns the ideas matching f, in input order. The input is not modified.
func Filter(ideas []Idea, f IdeaFilter) []Idea {
	m := f.matcher()
	out := make([]Idea, 0, len(ideas))
	for i := range ideas {
		if m.matches(&ideas[i]) {
			out = append(out, ideas[i])
		}
	}
	return out
}

// Matches reports whether a single idea satisfies f.
func (f IdeaFilter) Matches(idea Idea) bool {
	return f.matcher().matches(&idea)
}

// matcher folds the search term once per filter pass.
// cases.Caser is stateful, so each pass gets its own.
type matcher struct {
	status *Status
	term   string
	fold   cases.Caser
}

func (f IdeaFilter) matcher() *matcher {
	m := &matcher{status: f.Status, fold: cases.Fold()}
	m.term = m.normalise(f.Search)
	return m
}

func (m *matcher) normalise(s string) string {
	return m.fold.String(norm.NFC.String(s))
}

func (m *matcher) matches(idea *Idea) bool {
	if m.status != nil && idea.Status != *m.status {
		return false
	}
	if m.term == "" {
		return true
	}
	return strings.Contains(m.normalise(idea.Title), m.term) ||
		strings.Contains(m.normalise(idea.Description), m.term)
}
