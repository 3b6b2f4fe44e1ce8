package analysis

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func makeDoc(title, body string) *Document {
	return &Document{
		Id:      uuid.New(),
		Title:   title,
		Body:    body,
		SpaceId: uuid.New(),
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"simple", "Hello World", []string{"hello", "world"}},
		{"punctuation", "auth, tokens; and: scopes!", []string{"auth", "tokens", "and", "scopes"}},
		{"empty", "", nil},
		{"symbols only", "--- !!!", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuildVocabulary(t *testing.T) {
	docs := []*Document{
		makeDoc("Auth Guide", "authentication tokens and sessions"),
		makeDoc("Token Reference", "authentication tokens expire quickly"),
		makeDoc("API Overview", "endpoints xy zz"),
	}

	vocab := BuildVocabulary(docs)

	// Terms must appear in more than one document
	if !containsTerm(vocab, "authentication") || !containsTerm(vocab, "tokens") {
		t.Errorf("vocabulary missing shared terms: %v", vocab.Terms)
	}
	// Single-document terms are excluded
	if containsTerm(vocab, "endpoints") {
		t.Errorf("vocabulary should not contain single-document term 'endpoints'")
	}
	// Length bounds: short tokens never make it in
	if containsTerm(vocab, "xy") || containsTerm(vocab, "zz") {
		t.Errorf("vocabulary should exclude terms shorter than 3 characters")
	}
}

func TestVectorizeIdenticalDocsCosineIsOne(t *testing.T) {
	a := makeDoc("Deployment", "rollout strategies for kubernetes clusters")
	b := makeDoc("Deployment", "rollout strategies for kubernetes clusters")
	c := makeDoc("Cooking", "pasta recipes with tomato sauce kubernetes")

	docs := []*Document{a, b, c}
	vocab := BuildVocabulary(docs)
	vectors := VectorizeAll(docs, vocab)

	sim := CosineSimilarity(vectors[0], vectors[1])
	if math.Abs(sim-1.0) > 1e-9 {
		t.Errorf("identical documents should have cosine similarity 1.0, got %f", sim)
	}
}

func TestCosineSimilarityProperties(t *testing.T) {
	vectors := [][]float64{
		{0.5, 0.1, 0.0, 0.3},
		{0.2, 0.0, 0.7, 0.1},
		{0.0, 0.0, 0.0, 0.0},
		{1.0, 1.0, 1.0, 1.0},
	}

	for i := range vectors {
		for j := range vectors {
			ab := CosineSimilarity(vectors[i], vectors[j])
			ba := CosineSimilarity(vectors[j], vectors[i])
			if ab != ba {
				t.Errorf("cosine similarity not symmetric: sim(%d,%d)=%f sim(%d,%d)=%f", i, j, ab, j, i, ba)
			}
			if ab < -1.0-1e-9 || ab > 1.0+1e-9 {
				t.Errorf("cosine similarity out of bounds: %f", ab)
			}
		}
	}

	// Zero-norm vectors compare as 0
	if sim := CosineSimilarity(vectors[2], vectors[3]); sim != 0 {
		t.Errorf("zero vector similarity = %f, want 0", sim)
	}

	// Mismatched lengths compare as 0 rather than panicking
	if sim := CosineSimilarity([]float64{1, 2}, []float64{1}); sim != 0 {
		t.Errorf("mismatched length similarity = %f, want 0", sim)
	}
}

func TestVectorizeSingleDocument(t *testing.T) {
	doc := makeDoc("Lonely", "a single page corpus")
	docs := []*Document{doc}
	vocab := BuildVocabulary(docs)

	// df>1 filter means a one-document corpus has an empty vocabulary
	if vocab.Size() != 0 {
		t.Errorf("one-document vocabulary size = %d, want 0", vocab.Size())
	}

	vec := Vectorize(doc, docs, vocab)
	if len(vec) != 0 {
		t.Errorf("vector length = %d, want 0", len(vec))
	}
}

func TestTopKeywords(t *testing.T) {
	docs := []*Document{
		makeDoc("Kubernetes Basics", "kubernetes pods and kubernetes services"),
		makeDoc("Kubernetes Networking", "kubernetes ingress routing"),
		makeDoc("Recipes", "pasta pasta pasta tomato"),
	}

	keywords := TopKeywords(docs)
	if len(keywords) == 0 {
		t.Fatal("expected keywords for a non-empty corpus")
	}
	if len(keywords) > 50 {
		t.Errorf("keyword list length %d exceeds cap", len(keywords))
	}

	found := map[string]bool{}
	for i, kw := range keywords {
		found[kw.Term] = true
		if isStopWord(kw.Term) {
			t.Errorf("stop word %q in keyword ranking", kw.Term)
		}
		if i > 0 && keywords[i-1].Score < kw.Score {
			t.Errorf("keywords not sorted by score descending at index %d", i)
		}
	}
	if !found["pasta"] {
		t.Errorf("expected 'pasta' in keywords, got %v", keywords)
	}

	if got := TopKeywords(nil); len(got) != 0 {
		t.Errorf("empty corpus keywords = %v, want empty", got)
	}
}

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"x", "y"}, []string{"x", "y"}, 1.0},
		{"disjoint", []string{"x"}, []string{"y"}, 0.0},
		{"half overlap", []string{"x", "y"}, []string{"y", "z"}, 1.0 / 3.0},
		{"both empty", nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JaccardSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("JaccardSimilarity = %f, want %f", got, tt.want)
			}
			// symmetry
			if got, rev := JaccardSimilarity(tt.a, tt.b), JaccardSimilarity(tt.b, tt.a); got != rev {
				t.Errorf("JaccardSimilarity not symmetric: %f vs %f", got, rev)
			}
		})
	}
}

func containsTerm(v *Vocabulary, term string) bool {
	for _, t := range v.Terms {
		if t == term {
			return true
		}
	}
	return false
}
