package mapreduce

import (
	"fmt"
	"sort"
	"strings"
)

// Keyword is one word and its count.
type Keyword struct {
	Word  string
	Count int
}

// isValidKeyword filters malformed tokens: unmatched delimiters, trailing
// ":" or "=", unmatched quotes. Technical terms like x_train are kept.
func isValidKeyword(word string) bool {
	if strings.HasSuffix(word, ":") || strings.HasSuffix(word, "=") {
		return false
	}

	if strings.Contains(word, "(") && !strings.Contains(word, ")") {
		return false
	}
	if strings.Contains(word, "[") && !strings.Contains(word, "]") {
		return false
	}
	if strings.Contains(word, "{") && !strings.Contains(word, "}") {
		return false
	}

	if strings.Count(word, "\"")%2 != 0 || strings.Count(word, "'")%2 != 0 {
		return false
	}

	return true
}

// Top returns the n most frequent valid keywords, highest count first. Ties
// are broken alphabetically.
func Top(wordCounts map[string]int, n int) []Keyword {
	var ss []Keyword
	for k, v := range wordCounts {
		if isValidKeyword(k) {
			ss = append(ss, Keyword{k, v})
		}
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Word < ss[j].Word
	})

	limit := max(0, min(n, len(ss)))
	return ss[:limit]
}

// TopCounts is Top as a word to count map, the shape stored per URL.
func TopCounts(wordCounts map[string]int, n int) map[string]int {
	top := Top(wordCounts, n)
	out := make(map[string]int, len(top))
	for _, kw := range top {
		out[kw.Word] = kw.Count
	}
	return out
}

// TopKeywords returns the top N keywords formatted as "word:count"
// (e.g., "learning:1153").
func TopKeywords(wordCounts map[string]int, n int) []string {
	top := Top(wordCounts, n)
	keywords := make([]string, len(top))
	for i, kw := range top {
		keywords[i] = fmt.Sprintf("%s:%d", kw.Word, kw.Count)
	}
	return keywords
}
