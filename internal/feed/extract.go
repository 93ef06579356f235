package feed

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	symbolPattern     = regexp.MustCompile(`\$([A-Z]{1,5})\b`)
	tokenPattern      = regexp.MustCompile(`\W+`)
)

const maxKeywords = 10

// stopWords are tokens too common to be useful as keywords
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "day": {}, "get": {}, "has": {},
	"him": {}, "his": {}, "how": {}, "man": {}, "new": {}, "now": {},
	"old": {}, "see": {}, "two": {}, "way": {}, "who": {}, "its": {},
	"said": {}, "says": {}, "will": {}, "with": {}, "this": {}, "that": {},
	"from": {}, "they": {}, "have": {}, "been": {}, "were": {}, "more": {},
	"after": {}, "about": {}, "their": {}, "which": {}, "would": {},
	"could": {}, "should": {}, "other": {}, "than": {}, "then": {},
	"there": {}, "these": {}, "into": {}, "over": {}, "also": {},
}

// CleanText strips markup, decodes HTML entities and collapses whitespace
func CleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ExtractSymbols finds $TICKER-shaped tokens (1-5 uppercase letters after $)
func ExtractSymbols(text string) []string {
	matches := symbolPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(matches))
	symbols := make([]string, 0, len(matches))
	for _, m := range matches {
		sym := m[1]
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		symbols = append(symbols, sym)
	}
	return symbols
}

// ExtractKeywords lowercases, tokenizes on non-word boundaries, drops stop
// words and short tokens, and returns at most 10 distinct keywords.
func ExtractKeywords(text string) []string {
	tokens := tokenPattern.Split(strings.ToLower(text), -1)

	seen := make(map[string]struct{})
	keywords := make([]string, 0, maxKeywords)
	for _, tok := range tokens {
		if len(tok) <= 3 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
