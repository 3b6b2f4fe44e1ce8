package analysis

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// RelationshipKind classifies an edge between two pages.
type RelationshipKind string

const (
	RelationshipHierarchical RelationshipKind = "hierarchical"
	RelationshipReference    RelationshipKind = "reference"
	RelationshipCrossLink    RelationshipKind = "cross-link"
)

// Relationship is a directed edge between two pages. The same pair may carry
// several edges of different kinds.
type Relationship struct {
	ParentId uuid.UUID
	ChildId  uuid.UUID
	Kind     RelationshipKind
}

// minSharedEntities is how many case-folded entities two documents must share
// before a reference edge is emitted between them.
const minSharedEntities = 2

var entityPattern = regexp.MustCompile(`\b[A-Z][a-zA-Z]+\b`)

// ExtractRelationships derives hierarchical edges from the parent pointers
// and reference edges from shared entities. Reference edges are directional
// and intentionally not deduplicated against their inverse: a symmetric pair
// yields one edge each way.
func ExtractRelationships(docs []*Document) []Relationship {
	var relationships []Relationship

	for _, doc := range docs {
		if doc.ParentId != nil {
			relationships = append(relationships, Relationship{
				ParentId: *doc.ParentId,
				ChildId:  doc.Id,
				Kind:     RelationshipHierarchical,
			})
		}
	}

	entities := make([]map[string]bool, len(docs))
	for i, doc := range docs {
		entities[i] = extractEntities(doc.fullText())
	}

	for i := range docs {
		for j := range docs {
			if i == j {
				continue
			}
			if sharedEntityCount(entities[i], entities[j]) >= minSharedEntities {
				relationships = append(relationships, Relationship{
					ParentId: docs[i].Id,
					ChildId:  docs[j].Id,
					Kind:     RelationshipReference,
				})
			}
		}
	}
	return relationships
}

// extractEntities pulls capitalized multi-letter tokens out of text and
// case-folds them.
func extractEntities(text string) map[string]bool {
	matches := entityPattern.FindAllString(text, -1)
	set := make(map[string]bool, len(matches))
	for _, m := range matches {
		set[strings.ToLower(m)] = true
	}
	return set
}

func sharedEntityCount(a, b map[string]bool) int {
	count := 0
	for e := range a {
		if b[e] {
			count++
		}
	}
	return count
}
