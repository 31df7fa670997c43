package domain

// CategoryCount is one bar of the category histogram.
type CategoryCount struct {
	Category Category
	Count    int
}

// Summary holds the headline counts shown on the dashboard.
type Summary struct {
	Total        int
	Draft        int
	Pending      int
	Approved     int
	Implementing int
}

// StatusCounts tallies ideas per status. Every status is present in the
// result, with 0 when no idea has it, so the values always sum to len(ideas).
func StatusCounts(ideas []Idea) map[Status]int {
	counts := make(map[Status]int, len(transitions))
	for _, s := range AllStatuses() {
		counts[s] = 0
	}
	for i := range ideas {
		counts[ideas[i].Status]++
	}
	return counts
}

// CategoryHistogram counts ideas per category in first-seen order.
// Categories that no idea uses are omitted.
func CategoryHistogram(ideas []Idea) []CategoryCount {
	var out []CategoryCount
	index := make(map[Category]int)
	for i := range ideas {
		c := ideas[i].Category
		if pos, ok := index[c]; ok {
			out[pos].Count++
			continue
		}
		index[c] = len(out)
		out = append(out, CategoryCount{Category: c, Count: 1})
	}
	return out
}

// Summarize computes the dashboard headline counts.
func Summarize(ideas []Idea) Summary {
	counts := StatusCounts(ideas)
	return Summary{
		Total:        len(ideas),
		Draft:        counts[StatusDraft],
		Pending:      counts[StatusPendingReview],
		Approved:     counts[StatusApproved],
		Implementing: counts[StatusInProgress],
	}
}
