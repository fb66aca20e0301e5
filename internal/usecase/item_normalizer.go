package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxItemLength = 100

var (
	// Item separators accepted in free text: commas, semicolons and newlines
	itemSeparatorPattern = regexp.MustCompile(`[,;\n\r]+`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// ItemNormalizer cleans shopping list entries before they are persisted
type ItemNormalizer struct{}

// NewItemNormalizer creates a new item normalizer
func NewItemNormalizer() *ItemNormalizer {
	return &ItemNormalizer{}
}

// ParseText splits free text into normalized items
func (n *ItemNormalizer) ParseText(text string) []string {
	return n.Normalize(itemSeparatorPattern.Split(text, -1))
}

// Normalize trims and collapses whitespace, splits entries containing
// separators, drops blanks and case-insensitive duplicates, and caps each
// item at maxItemLength characters. Order of first occurrence is kept.
func (n *ItemNormalizer) Normalize(items []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(items))

	for _, raw := range items {
		for _, part := range itemSeparatorPattern.Split(raw, -1) {
			item := normalizeItem(part)
			if item == "" {
				continue
			}

			key := strings.ToLower(item)
			if seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, item)
		}
	}

	return result
}

// normalizeItem cleans a single entry
func normalizeItem(s string) string {
	cleaned := multiSpacePattern.ReplaceAllString(s, " ")
	cleaned = strings.TrimSpace(cleaned)

	if utf8.RuneCountInString(cleaned) > maxItemLength {
		runes := []rune(cleaned)
		cut := string(runes[:maxItemLength])
		// Cut at a word boundary when one is reasonably close
		if lastSpace := strings.LastIndex(cut, " "); lastSpace > len(cut)/2 {
			cut = cut[:lastSpace]
		}
		cleaned = strings.TrimSpace(cut)
	}

	return cleaned
}
