package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	// Vocabulary bounds
	maxVocabularySize = 1000
	minTermLength     = 3
	maxTermLength     = 19

	// Corpus keyword ranking cap
	maxTopKeywords = 50
)

var tokenPattern = regexp.MustCompile(`\W+`)

// Vocabulary is the ordered term set shared by every vector of one analysis
// run. Immutable once built.
type Vocabulary struct {
	Terms []string
	index map[string]int
}

// Keyword is one entry of the corpus-wide keyword ranking.
type Keyword struct {
	Term  string
	Score float64
}

// Tokenize lower-cases text and splits it on non-word boundaries.
func Tokenize(text string) []string {
	fields := tokenPattern.Split(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// termCounts counts token occurrences and reports the total token count.
func termCounts(text string) (map[string]int, int) {
	tokens := Tokenize(text)
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	return counts, len(tokens)
}

// BuildVocabulary selects the shared term set for a document corpus: terms
// appearing in more than one document, with length bounds applied, ordered by
// document frequency descending and truncated to the vocabulary cap. Ordering
// ties break on the term itself so the result is deterministic.
func BuildVocabulary(docs []*Document) *Vocabulary {
	docFreq := make(map[string]int)
	for _, doc := range docs {
		counts, _ := termCounts(doc.fullText())
		for term := range counts {
			if len(term) < minTermLength || len(term) > maxTermLength {
				continue
			}
			docFreq[term]++
		}
	}

	terms := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df > 1 {
			terms = append(terms, term)
		}
	}

	sort.Slice(terms, func(i, j int) bool {
		if docFreq[terms[i]] != docFreq[terms[j]] {
			return docFreq[terms[i]] > docFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > maxVocabularySize {
		terms = terms[:maxVocabularySize]
	}

	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}
	return &Vocabulary{Terms: terms, index: index}
}

// Size returns the number of terms in the vocabulary.
func (v *Vocabulary) Size() int {
	return len(v.Terms)
}

// Vectorize computes the TF-IDF vector of one document, aligned to the
// vocabulary's term order.
func Vectorize(doc *Document, allDocs []*Document, vocab *Vocabulary) []float64 {
	counts, total := termCounts(doc.fullText())

	// Document frequencies over the whole corpus, restricted to the vocabulary
	docFreq := make(map[string]int, vocab.Size())
	for _, other := range allDocs {
		otherCounts, _ := termCounts(other.fullText())
		for _, term := range vocab.Terms {
			if otherCounts[term] > 0 {
				docFreq[term]++
			}
		}
	}

	vector := make([]float64, vocab.Size())
	if total == 0 {
		return vector
	}

	for i, term := range vocab.Terms {
		tf := float64(counts[term]) / float64(total)
		df := docFreq[term]
		if df < 1 {
			df = 1
		}
		idf := math.Log(float64(len(allDocs)) / float64(df))
		vector[i] = tf * idf
	}
	return vector
}

// VectorizeAll computes every document's vector against a shared corpus
// frequency table, avoiding the per-document recount of Vectorize.
func VectorizeAll(docs []*Document, vocab *Vocabulary) [][]float64 {
	perDoc := make([]map[string]int, len(docs))
	totals := make([]int, len(docs))
	docFreq := make(map[string]int, vocab.Size())

	for i, doc := range docs {
		counts, total := termCounts(doc.fullText())
		perDoc[i] = counts
		totals[i] = total
		for _, term := range vocab.Terms {
			if counts[term] > 0 {
				docFreq[term]++
			}
		}
	}

	vectors := make([][]float64, len(docs))
	for i := range docs {
		vector := make([]float64, vocab.Size())
		if totals[i] > 0 {
			for j, term := range vocab.Terms {
				tf := float64(perDoc[i][term]) / float64(totals[i])
				df := docFreq[term]
				if df < 1 {
					df = 1
				}
				vector[j] = tf * math.Log(float64(len(docs))/float64(df))
			}
		}
		vectors[i] = vector
	}
	return vectors
}

// TopKeywords ranks content-bearing terms across the whole corpus by TF-IDF,
// excluding stop words. This ranking is independent of any per-document
// vector and feeds keyword suggestions and corpus statistics.
func TopKeywords(docs []*Document) []Keyword {
	if len(docs) == 0 {
		return nil
	}

	corpusCounts := make(map[string]int)
	docFreq := make(map[string]int)
	totalTokens := 0

	for _, doc := range docs {
		counts, total := termCounts(doc.fullText())
		totalTokens += total
		for term, c := range counts {
			if len(term) < minTermLength || len(term) > maxTermLength || isStopWord(term) {
				continue
			}
			corpusCounts[term] += c
			docFreq[term]++
		}
	}
	if totalTokens == 0 {
		return nil
	}

	keywords := make([]Keyword, 0, len(corpusCounts))
	for term, count := range corpusCounts {
		tf := float64(count) / float64(totalTokens)
		df := docFreq[term]
		if df < 1 {
			df = 1
		}
		idf := math.Log(float64(len(docs)) / float64(df))
		// ln(1) == 0 wipes out terms present in every document; keep a small
		// floor so a one-document corpus still yields a ranking.
		if idf <= 0 {
			idf = 0.01
		}
		keywords = append(keywords, Keyword{Term: term, Score: tf * idf})
	}

	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Score != keywords[j].Score {
			return keywords[i].Score > keywords[j].Score
		}
		return keywords[i].Term < keywords[j].Term
	})

	if len(keywords) > maxTopKeywords {
		keywords = keywords[:maxTopKeywords]
	}
	return keywords
}
