package model

import "strings"

// Category organizes cognitives into subdirectories of the store.
// Any string is accepted; the constants below are the well-known values.
type Category string

// Well-known categories.
const (
	CategoryGeneral    Category = "general"
	CategoryFrontend   Category = "frontend"
	CategoryBackend    Category = "backend"
	CategoryDatabase   Category = "database"
	CategoryDevOps     Category = "devops"
	CategorySecurity   Category = "security"
	CategoryTesting    Category = "testing"
	CategoryAnalytics  Category = "analytics"
	CategoryAutomation Category = "automation"
)

// DefaultCategory is used when an item declares no category.
const DefaultCategory = CategoryGeneral

// WellKnownCategories returns the built-in categories.
func WellKnownCategories() []Category {
	return []Category{
		CategoryGeneral, CategoryFrontend, CategoryBackend,
		CategoryDatabase, CategoryDevOps, CategorySecurity,
		CategoryTesting, CategoryAnalytics, CategoryAutomation,
	}
}

// IsWellKnown returns true for one of the built-in categories.
func (c Category) IsWellKnown() bool {
	for _, known := range WellKnownCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// NormalizeCategory lowercases and trims a category, falling back to DefaultCategory.
func NormalizeCategory(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultCategory
	}
	return Category(s)
}
