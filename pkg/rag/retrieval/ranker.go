package retrieval

import (
	"sort"
	"strings"
	"unicode"
)

// ScoredChunk is a chunk of the active document with its relevance to a question.
type ScoredChunk struct {
	Index int
	Text  string
	Score float64
}

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"do": {}, "does": {}, "for": {}, "from": {}, "how": {}, "in": {}, "is": {}, "it": {},
	"of": {}, "on": {}, "or": {}, "that": {}, "the": {}, "this": {}, "to": {}, "was": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "who": {}, "why": {}, "with": {},
}

// Terms lowercases text and splits it into words, dropping stop words and single letters.
func Terms(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Rank scores every chunk by how many question terms it contains, weighted by
// term rarity across chunks, and returns the best k in document order.
// When nothing matches, the first k chunks are returned so short documents still
// reach the model.
func Rank(question string, chunks []string, k int) []ScoredChunk {
	if k <= 0 || len(chunks) == 0 {
		return nil
	}
	if k > len(chunks) {
		k = len(chunks)
	}

	query := unique(Terms(question))

	chunkTerms := make([]map[string]int, len(chunks))
	docFreq := make(map[string]int, len(query))
	for i, c := range chunks {
		counts := make(map[string]int)
		for _, t := range Terms(c) {
			counts[t]++
		}
		chunkTerms[i] = counts
		for _, q := range query {
			if counts[q] > 0 {
				docFreq[q]++
			}
		}
	}

	scored := make([]ScoredChunk, len(chunks))
	for i, c := range chunks {
		var score float64
		for _, q := range query {
			tf := chunkTerms[i][q]
			if tf == 0 {
				continue
			}
			idf := 1 + float64(len(chunks))/float64(docFreq[q])
			score += float64(tf) * idf
		}
		scored[i] = ScoredChunk{Index: i, Text: c, Score: score}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	top := scored[:k]

	sort.Slice(top, func(a, b int) bool {
		return top[a].Index < top[b].Index
	})
	return top
}

func unique(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
