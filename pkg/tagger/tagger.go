// Package tagger picks tags for an article from a fixed list of candidate
// labels.
//
// A label scores by how often its word sequence occurs in the text, relative
// to the best scoring label. The threshold is then nudged until one to three
// labels remain.
package tagger

import (
	"log/slog"
	"sort"
	"strings"
	"unicode"
)

const (
	thresholdStep = 0.05
	maxRounds     = 10
	maxTags       = 3
)

type Score struct {
	Label string
	Value float64
}

type Tagger struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Tagger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tagger{logger: logger}
}

// Scores returns one score in [0, 1] per candidate, ordered by descending
// score and then by candidate order.
func (t *Tagger) Scores(text string, candidates []string) []Score {
	words := tokenize(text)

	counts := make([]int, len(candidates))
	best := 0
	for i, label := range candidates {
		counts[i] = countSequence(words, tokenize(label))
		best = max(best, counts[i])
	}

	scores := make([]Score, len(candidates))
	for i, label := range candidates {
		scores[i] = Score{Label: label}
		if best > 0 {
			scores[i].Value = float64(counts[i]) / float64(best)
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Value > scores[j].Value
	})
	return scores
}

// Label returns the tags for text. It may return none when no candidate
// occurs in the text at all.
func (t *Tagger) Label(text string, candidates []string, threshold float64) []string {
	scores := t.Scores(text, candidates)

	labels := above(scores, threshold)
	for round := 0; round < maxRounds && (len(labels) == 0 || len(labels) > maxTags); round++ {
		if len(labels) > maxTags {
			threshold += thresholdStep
		} else {
			threshold -= thresholdStep
		}
		labels = above(scores, threshold)
	}

	t.logger.Debug("Tagged text", "tags", labels, "threshold", threshold)
	return labels
}

func above(scores []Score, threshold float64) []string {
	labels := []string{}
	for _, s := range scores {
		if s.Value > 0 && s.Value > threshold {
			labels = append(labels, s.Label)
		}
	}
	return labels
}

// tokenize lowercases text and splits it into words. "+" and "#" stay part of
// a word so labels like "c++" keep their meaning.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}

func countSequence(words, seq []string) int {
	if len(seq) == 0 || len(seq) > len(words) {
		return 0
	}
	n := 0
	for i := 0; i+len(seq) <= len(words); i++ {
		match := true
		for j, w := range seq {
			if words[i+j] != w {
				match = false
				break
			}
		}
		if match {
			n++
		}
	}
	return n
}
