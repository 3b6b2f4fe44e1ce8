package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// SuggestionKind classifies which strategy produced a category suggestion.
type SuggestionKind string

const (
	SuggestionContentCluster SuggestionKind = "content-cluster"
	SuggestionSpaceBased     SuggestionKind = "space-based"
	SuggestionKeywordBased   SuggestionKind = "keyword-based"
	SuggestionHierarchyBased SuggestionKind = "hierarchy-based"
)

// Suggestion is a ranked, confidence-scored taxonomy proposal. Read-only
// output, never mutated after creation.
type Suggestion struct {
	Kind       SuggestionKind
	Name       string
	SpaceIds   []uuid.UUID
	Confidence float64
	Reasoning  string
	PageIds    []uuid.UUID
}

// SuggestionInput carries everything the strategies need for one run.
type SuggestionInput struct {
	Documents  []*Document
	Clusters   []Cluster
	Keywords   []Keyword
	SpaceNames map[uuid.UUID]string
	// Semantic selects the cosine-mode confidence formulas; the default is
	// the cheaper Jaccard-mode scoring.
	Semantic bool
}

const (
	maxSuggestions         = 10
	minClusterPages        = 3
	minKeywordMatches      = 3
	keywordStrategyTopN    = 10
	spaceSuggestionScore   = 0.8
	hierarchySuggestionMin = 3
)

// GenerateSuggestions runs every suggestion strategy, merges the results and
// returns them ordered by confidence descending, truncated to the top ten.
// An empty corpus yields an empty list.
func GenerateSuggestions(in SuggestionInput) []Suggestion {
	if len(in.Documents) == 0 {
		return []Suggestion{}
	}

	byId := make(map[uuid.UUID]*Document, len(in.Documents))
	tokenSets := make(map[uuid.UUID]map[string]bool, len(in.Documents))
	for _, doc := range in.Documents {
		byId[doc.Id] = doc
		counts, _ := termCounts(doc.fullText())
		set := make(map[string]bool, len(counts))
		for term := range counts {
			set[term] = true
		}
		tokenSets[doc.Id] = set
	}

	var suggestions []Suggestion
	suggestions = append(suggestions, clusterSuggestions(in, byId)...)
	suggestions = append(suggestions, keywordSuggestions(in, tokenSets)...)
	suggestions = append(suggestions, spaceSuggestions(in, tokenSets)...)
	suggestions = append(suggestions, hierarchySuggestions(in)...)

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func clusterSuggestions(in SuggestionInput, byId map[uuid.UUID]*Document) []Suggestion {
	var out []Suggestion
	for _, cluster := range in.Clusters {
		if len(cluster.PageIds) < minClusterPages || len(cluster.CommonTags) == 0 {
			continue
		}

		tagCount := float64(len(cluster.CommonTags))
		var confidence float64
		if in.Semantic {
			confidence = min(0.95, cluster.Cohesion*0.7+tagCount*0.1)
		} else {
			confidence = min(0.9, tagCount*0.2)
		}

		topTags := cluster.CommonTags
		if len(topTags) > 3 {
			topTags = topTags[:3]
		}

		out = append(out, Suggestion{
			Kind:       SuggestionContentCluster,
			Name:       generateCategoryName(cluster.CommonTags),
			SpaceIds:   clusterSpaces(cluster, byId),
			Confidence: confidence,
			Reasoning: fmt.Sprintf("%d related pages share the topics: %s",
				len(cluster.PageIds), strings.Join(topTags, ", ")),
			PageIds: cluster.PageIds,
		})
	}
	return out
}

func keywordSuggestions(in SuggestionInput, tokenSets map[uuid.UUID]map[string]bool) []Suggestion {
	keywords := in.Keywords
	if len(keywords) == 0 {
		return nil
	}
	if len(keywords) > keywordStrategyTopN {
		keywords = keywords[:keywordStrategyTopN]
	}
	topScore := keywords[0].Score
	if topScore == 0 {
		return nil
	}

	var out []Suggestion
	for _, kw := range keywords {
		var pageIds []uuid.UUID
		spaceSet := make(map[uuid.UUID]bool)
		for _, doc := range in.Documents {
			if tokenSets[doc.Id][kw.Term] {
				pageIds = append(pageIds, doc.Id)
				spaceSet[doc.SpaceId] = true
			}
		}
		if len(pageIds) < minKeywordMatches {
			continue
		}

		out = append(out, Suggestion{
			Kind:       SuggestionKeywordBased,
			Name:       generateCategoryName([]string{kw.Term}),
			SpaceIds:   spaceSetToSlice(spaceSet),
			Confidence: min(0.8, kw.Score/topScore*0.8),
			Reasoning:  fmt.Sprintf("%d pages mention %q prominently", len(pageIds), kw.Term),
			PageIds:    pageIds,
		})
	}
	return out
}

func spaceSuggestions(in SuggestionInput, tokenSets map[uuid.UUID]map[string]bool) []Suggestion {
	bySpace := make(map[uuid.UUID][]uuid.UUID)
	var spaceOrder []uuid.UUID
	for _, doc := range in.Documents {
		if _, seen := bySpace[doc.SpaceId]; !seen {
			spaceOrder = append(spaceOrder, doc.SpaceId)
		}
		bySpace[doc.SpaceId] = append(bySpace[doc.SpaceId], doc.Id)
	}

	var out []Suggestion
	for _, spaceId := range spaceOrder {
		pageIds := bySpace[spaceId]

		// Corpus keywords that co-occur with this space's pages
		var shared []string
		for _, kw := range in.Keywords {
			for _, pageId := range pageIds {
				if tokenSets[pageId][kw.Term] {
					shared = append(shared, kw.Term)
					break
				}
			}
			if len(shared) >= 5 {
				break
			}
		}
		if len(shared) == 0 {
			continue
		}

		name := in.SpaceNames[spaceId]
		if name == "" {
			name = "Untitled Space"
		}

		out = append(out, Suggestion{
			Kind:       SuggestionSpaceBased,
			Name:       name,
			SpaceIds:   []uuid.UUID{spaceId},
			Confidence: spaceSuggestionScore,
			Reasoning: fmt.Sprintf("space %q groups %d pages around: %s",
				name, len(pageIds), strings.Join(shared, ", ")),
			PageIds: pageIds,
		})
	}
	return out
}

func hierarchySuggestions(in SuggestionInput) []Suggestion {
	children := make(map[uuid.UUID][]uuid.UUID)
	for _, doc := range in.Documents {
		if doc.ParentId != nil {
			children[*doc.ParentId] = append(children[*doc.ParentId], doc.Id)
		}
	}

	var out []Suggestion
	for _, doc := range in.Documents {
		kids := children[doc.Id]
		if len(kids) < hierarchySuggestionMin {
			continue
		}

		pageIds := append([]uuid.UUID{doc.Id}, kids...)
		out = append(out, Suggestion{
			Kind:       SuggestionHierarchyBased,
			Name:       doc.Title,
			SpaceIds:   []uuid.UUID{doc.SpaceId},
			Confidence: 0.75,
			Reasoning:  fmt.Sprintf("%q has %d direct sub-pages and reads as a major topic", doc.Title, len(kids)),
			PageIds:    pageIds,
		})
	}
	return out
}

func clusterSpaces(cluster Cluster, byId map[uuid.UUID]*Document) []uuid.UUID {
	set := make(map[uuid.UUID]bool)
	var spaces []uuid.UUID
	for _, pageId := range cluster.PageIds {
		doc := byId[pageId]
		if doc == nil || set[doc.SpaceId] {
			continue
		}
		set[doc.SpaceId] = true
		spaces = append(spaces, doc.SpaceId)
	}
	return spaces
}

func spaceSetToSlice(set map[uuid.UUID]bool) []uuid.UUID {
	spaces := make([]uuid.UUID, 0, len(set))
	for id := range set {
		spaces = append(spaces, id)
	}
	sort.Slice(spaces, func(i, j int) bool { return spaces[i].String() < spaces[j].String() })
	return spaces
}

// categoryFamilies map tag spellings to the display suffix used when a
// multi-tag name falls into a well-known documentation family.
var categoryFamilies = []struct {
	suffix  string
	matches map[string]bool
}{
	{"API", map[string]bool{"api": true, "apis": true, "endpoint": true, "endpoints": true, "rest": true}},
	{"Guides", map[string]bool{"guide": true, "guides": true, "howto": true, "setup": true}},
	{"Tutorials", map[string]bool{"tutorial": true, "tutorials": true, "walkthrough": true}},
	{"Concepts", map[string]bool{"concept": true, "concepts": true, "overview": true, "architecture": true}},
}

// generateCategoryName builds a human-facing category name from cluster tags.
func generateCategoryName(tags []string) string {
	if len(tags) > 3 {
		tags = tags[:3]
	}

	switch len(tags) {
	case 0:
		return "General"
	case 1:
		return capitalize(tags[0])
	}

	for _, family := range categoryFamilies {
		for _, tag := range tags {
			if family.matches[strings.ToLower(tag)] {
				return capitalize(tags[0]) + " " + family.suffix
			}
		}
	}
	return capitalize(tags[0]) + " & " + capitalize(tags[1])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
