package domain

import "strings"

const unknownLabel = "Unknown"

// Status is the lifecycle stage of an idea.
type Status string

// Available statuses, in lifecycle order.
const (
	StatusDraft         Status = "draft"
	StatusPendingReview Status = "pending_review"
	StatusApproved      Status = "approved"
	StatusInProgress    Status = "in_progress"
)

// AllStatuses returns every status in lifecycle order.
func AllStatuses() []Status {
	return []Status{StatusDraft, StatusPendingReview, StatusApproved, StatusInProgress}
}

// IsValid returns true if the status is recognised.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingReview, StatusApproved, StatusInProgress:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Status) String() string { return string(s) }

// Label returns the display label shown to program participants.
func (s Status) Label() string {
	switch s {
	case StatusDraft:
		return "Nháp"
	case StatusPendingReview:
		return "Chờ duyệt"
	case StatusApproved:
		return "Đã duyệt"
	case StatusInProgress:
		return "Đang triển khai"
	default:
		return unknownLabel
	}
}

// Priority is the submitter's urgency rating.
type Priority string

// Available priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// AllPriorities returns every priority from lowest to highest.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid returns true if the priority is recognised.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p Priority) String() string { return string(p) }

// Label returns the display label shown to program participants.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Thấp"
	case PriorityMedium:
		return "Trung bình"
	case PriorityHigh:
		return "Cao"
	default:
		return unknownLabel
	}
}

// Category groups ideas by the business area they touch.
type Category string

// Available categories.
const (
	CategoryOperations Category = "operations"
	CategoryHR         Category = "hr"
	CategoryTechnology Category = "technology"
	CategoryCustomer   Category = "customer"
	CategoryProduct    Category = "product"
	CategoryOther      Category = "other"
)

// AllCategories returns every category in submission-form order.
func AllCategories() []Category {
	return []Category{
		CategoryOperations, CategoryHR, CategoryTechnology,
		CategoryCustomer, CategoryProduct, CategoryOther,
	}
}

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	switch c {
	case CategoryOperations, CategoryHR, CategoryTechnology,
		CategoryCustomer, CategoryProduct, CategoryOther:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Category) String() string { return string(c) }

// Label returns the display label shown to program participants.
func (c Category) Label() string {
	switch c {
	case CategoryOperations:
		return "Vận hành"
	case CategoryHR:
		return "Nhân sự"
	case CategoryTechnology:
		return "Công nghệ"
	case CategoryCustomer:
		return "Khách hàng"
	case CategoryProduct:
		return "Sản phẩm"
	case CategoryOther:
		return "Khác"
	default:
		return unknownLabel
	}
}

// IsValidStatus reports whether s names a status. Unknown values are rejected.
func IsValidStatus(s string) bool { return Status(s).IsValid() }

// IsValidPriority reports whether s names a priority. Unknown values are rejected.
func IsValidPriority(s string) bool { return Priority(s).IsValid() }

// IsValidCategory reports whether s names a category. Unknown values are rejected.
func IsValidCategory(s string) bool { return Category(s).IsValid() }

// ParseStatus resolves a status from its value or display label.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range AllStatuses() {
		if strings.EqualFold(s, string(st)) || s == st.Label() {
			return st, nil
		}
	}
	return "", NewValidationError("status", "unknown status "+quote(s))
}

// ParsePriority resolves a priority from its value or display label.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for _, p := range AllPriorities() {
		if strings.EqualFold(s, string(p)) || s == p.Label() {
			return p, nil
		}
	}
	return "", NewValidationError("priority", "unknown priority "+quote(s))
}

// ParseCategory resolves a category from its value or display label.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range AllCategories() {
		if strings.EqualFold(s, string(c)) || s == c.Label() {
			return c, nil
		}
	}
	return "", NewValidationError("category", "unknown category "+quote(s))
}

func quote(s string) string { return "\"" + s + "\"" }
