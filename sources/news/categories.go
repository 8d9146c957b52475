package news

import (
	"strings"

	"github.com/termdetox/terminal-detox/types"
)

const generalLabel = "General"

// Keywords per category, matched as case-insensitive substrings
// of a headline's title or source
var categoryKeywords = map[string][]string{
	"technology":    {"tech", "software", "ai", "computer", "digital", "cyber", "robot"},
	"business":      {"business", "economy", "market", "finance", "company", "bank", "trade"},
	"sports":        {"sport", "football", "basketball", "tennis", "game", "olympic", "cricket"},
	"health":        {"health", "medical", "disease", "treatment", "doctor", "hospital", "vaccine"},
	"entertainment": {"entertainment", "movie", "music", "celebrity", "film", "tv", "award"},
	"science":       {"science", "space", "nasa", "climate", "research", "study"},
	"politics":      {"politic", "election", "government", "minister", "president", "congress", "parliament"},
}

var categoryAliases = map[string]string{
	"tech":    "technology",
	"sport":   "sports",
	"finance": "business",
}

// Categories gets the names of every filterable category
func Categories() []string {
	return []string{"general", "technology", "business", "sports", "health", "entertainment", "science", "politics"}
}

// NormalizeCategory lower-cases a category and resolves aliases;
// an empty category and "all" both mean "general"
func NormalizeCategory(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == "all" {
		return "general"
	}
	if alias, ok := categoryAliases[category]; ok {
		return alias
	}

	return category
}

// Filter selects the headlines of a category and labels them with it.
// A category without keywords (or without any matching headline)
// yields an empty list
func Filter(items []types.NewsItem, category string) []types.NewsItem {
	category = NormalizeCategory(category)
	filtered := []types.NewsItem{}

	if category == "general" {
		for _, item := range items {
			item.Category = generalLabel
			filtered = append(filtered, item)
		}
		return filtered
	}

	keywords := categoryKeywords[category]
	label := strings.ToUpper(category[:1]) + category[1:]
	for _, item := range items {
		if matches(item, keywords) {
			item.Category = label
			filtered = append(filtered, item)
		}
	}

	return filtered
}

func matches(item types.NewsItem, keywords []string) bool {
	title := strings.ToLower(item.Title)
	source := strings.ToLower(item.Source)
	for _, keyword := range keywords {
		if strings.Contains(title, keyword) || strings.Contains(source, keyword) {
			return true
		}
	}

	return false
}
