package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/ideabox/internal/core/domain"
)

var badgeBase = lipgloss.NewStyle().Padding(0, 1).Bold(true)

var statusColours = map[domain.Status]lipgloss.Color{
	domain.StatusDraft:         lipgloss.Color("245"),
	domain.StatusPendingReview: lipgloss.Color("214"),
	domain.StatusApproved:      lipgloss.Color("42"),
	domain.StatusInProgress:    lipgloss.Color("39"),
}

var priorityColours = map[domain.Priority]lipgloss.Color{
	domain.PriorityLow:    lipgloss.Color("245"),
	domain.PriorityMedium: lipgloss.Color("214"),
	domain.PriorityHigh:   lipgloss.Color("196"),
}

// isTerminal reports whether w is an interactive terminal. Styling is
// disabled for pipes, files and test buffers.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func statusBadge(w io.Writer, s domain.Status) string {
	if !isTerminal(w) {
		return "[" + s.Label() + "]"
	}
	return badgeBase.
		Foreground(lipgloss.Color("0")).
		Background(statusColours[s]).
		Render(s.Label())
}

func priorityText(w io.Writer, p domain.Priority) string {
	if !isTerminal(w) {
		return p.Label()
	}
	return lipgloss.NewStyle().Foreground(priorityColours[p]).Render(p.Label())
}

func heading(w io.Writer, text string) string {
	if !isTerminal(w) {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Underline(true).Render(text)
}
