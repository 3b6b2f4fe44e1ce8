package dto

import (
	"github.com/byeager-uptime/docmost/pkg/analysis"

	"github.com/google/uuid"
)

type AnalyzeWorkspaceRequest struct {
	WorkspaceId uuid.UUID   `json:"workspace_id" validate:"required"`
	SpaceIds    []uuid.UUID `json:"space_ids,omitempty"`
	// Semantic selects TF-IDF vector clustering over keyword overlap. When
	// nil the service default from SEMANTIC_ANALYSIS applies.
	Semantic *bool `json:"semantic,omitempty"`
}

type AnalysisStats struct {
	DocumentCount     int `json:"document_count"`
	VocabularySize    int `json:"vocabulary_size"`
	ClusterCount      int `json:"cluster_count"`
	RelationshipCount int `json:"relationship_count"`
}

type AnalysisResult struct {
	WorkspaceId   uuid.UUID               `json:"workspace_id"`
	Suggestions   []analysis.Suggestion   `json:"suggestions"`
	Relationships []analysis.Relationship `json:"relationships"`
	Clusters      []analysis.Cluster      `json:"clusters"`
	Keywords      []string                `json:"keywords"`
	Stats         AnalysisStats           `json:"stats"`
}
