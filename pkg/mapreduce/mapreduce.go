// Package mapreduce aggregates keyword counts across converted documents.
package mapreduce

import "github.com/dtnitsch/web-to-notion/pkg/analytics"

// Map counts the keywords of one document.
func Map(content string, a *analytics.Analytics) map[string]int {
	return a.WordFrequency(content)
}

// Reduce sums per-document counts into one map.
func Reduce(counts []map[string]int) map[string]int {
	total := make(map[string]int)
	for _, m := range counts {
		for w, n := range m {
			total[w] += n
		}
	}
	return total
}
