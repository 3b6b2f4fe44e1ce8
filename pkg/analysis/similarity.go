package analysis

import (
	"math"
	"sort"
)

// documentKeywords returns a document's top frequent non-stop-word terms,
// used as the cheap similarity signature for Jaccard clustering.
const keywordsPerDocument = 5

// CosineSimilarity computes the normalized dot product of two vectors.
// Returns 0 when either vector has zero norm.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// JaccardSimilarity computes |intersection| / |union| over two keyword sets.
func JaccardSimilarity(a, b []string) float64 {
	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}

	intersection := 0
	for t := range setB {
		if setA[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func documentKeywords(doc *Document) []string {
	counts, _ := termCounts(doc.fullText())

	type termCount struct {
		term  string
		count int
	}
	candidates := make([]termCount, 0, len(counts))
	for term, c := range counts {
		if len(term) < minTermLength || len(term) > maxTermLength || isStopWord(term) {
			continue
		}
		candidates = append(candidates, termCount{term, c})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].term < candidates[j].term
	})

	if len(candidates) > keywordsPerDocument {
		candidates = candidates[:keywordsPerDocument]
	}

	keywords := make([]string, len(candidates))
	for i, c := range candidates {
		keywords[i] = c.term
	}
	return keywords
}
