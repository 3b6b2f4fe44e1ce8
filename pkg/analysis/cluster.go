package analysis

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

const (
	jaccardMergeThreshold = 0.3
	cosineMergeThreshold  = 0.5
	maxClusterTags        = 8
)

// Cluster is a group of semantically related pages. Clusters always hold at
// least two members; single-member groups are discarded.
type Cluster struct {
	Id         string
	PageIds    []uuid.UUID
	CommonTags []string
	Cohesion   float64
}

// ClusterByKeywords groups documents by Jaccard similarity over their top
// keyword sets. Single pass, seed based: each unprocessed document seeds a
// cluster and absorbs every later unprocessed document above the merge
// threshold. Deterministic for a fixed document order; not globally optimal.
func ClusterByKeywords(docs []*Document) []Cluster {
	keywords := make([][]string, len(docs))
	for i, doc := range docs {
		keywords[i] = documentKeywords(doc)
	}

	processed := make([]bool, len(docs))
	var clusters []Cluster

	for i := range docs {
		if processed[i] {
			continue
		}
		processed[i] = true

		members := []int{i}
		for j := i + 1; j < len(docs); j++ {
			if processed[j] {
				continue
			}
			if JaccardSimilarity(keywords[i], keywords[j]) > jaccardMergeThreshold {
				processed[j] = true
				members = append(members, j)
			}
		}

		if len(members) < 2 {
			continue
		}
		clusters = append(clusters, buildCluster(len(clusters), docs, keywords, members, 0))
	}
	return clusters
}

// ClusterByVectors groups documents by cosine similarity over TF-IDF vectors.
// Same seed-based pass as ClusterByKeywords, with cohesion (average pairwise
// similarity) computed per cluster; the result is ordered most cohesive first.
func ClusterByVectors(docs []*Document, vectors [][]float64) []Cluster {
	keywords := make([][]string, len(docs))
	for i, doc := range docs {
		keywords[i] = documentKeywords(doc)
	}

	processed := make([]bool, len(docs))
	var clusters []Cluster

	for i := range docs {
		if processed[i] {
			continue
		}
		processed[i] = true

		members := []int{i}
		for j := i + 1; j < len(docs); j++ {
			if processed[j] {
				continue
			}
			if CosineSimilarity(vectors[i], vectors[j]) > cosineMergeThreshold {
				processed[j] = true
				members = append(members, j)
			}
		}

		if len(members) < 2 {
			continue
		}
		clusters = append(clusters, buildCluster(len(clusters), docs, keywords, members, clusterCohesion(vectors, members)))
	}

	sort.SliceStable(clusters, func(a, b int) bool {
		return clusters[a].Cohesion > clusters[b].Cohesion
	})
	return clusters
}

func buildCluster(ordinal int, docs []*Document, keywords [][]string, members []int, cohesion float64) Cluster {
	pageIds := make([]uuid.UUID, len(members))
	seen := make(map[string]bool)
	var tags []string

	for i, idx := range members {
		pageIds[i] = docs[idx].Id
		for _, kw := range keywords[idx] {
			if seen[kw] || len(tags) >= maxClusterTags {
				continue
			}
			seen[kw] = true
			tags = append(tags, kw)
		}
	}

	return Cluster{
		Id:         fmt.Sprintf("cluster-%d", ordinal),
		PageIds:    pageIds,
		CommonTags: tags,
		Cohesion:   cohesion,
	}
}

// clusterCohesion averages cosine similarity over all member pairs.
func clusterCohesion(vectors [][]float64, members []int) float64 {
	if len(members) < 2 {
		return 0
	}

	var total float64
	pairs := 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			total += CosineSimilarity(vectors[members[i]], vectors[members[j]])
			pairs++
		}
	}
	return total / float64(pairs)
}
