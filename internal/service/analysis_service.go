package service

import (
	"context"
	"fmt"

	"github.com/byeager-uptime/docmost/internal/dto"
	"github.com/byeager-uptime/docmost/internal/pkg/logger"
	"github.com/byeager-uptime/docmost/internal/repository/specification"
	"github.com/byeager-uptime/docmost/internal/repository/unitofwork"
	"github.com/byeager-uptime/docmost/pkg/analysis"

	"github.com/google/uuid"
)

type IAnalysisService interface {
	AnalyzeWorkspace(ctx context.Context, req *dto.AnalyzeWorkspaceRequest) (*dto.AnalysisResult, error)
}

type analysisService struct {
	uowFactory      unitofwork.RepositoryFactory
	log             logger.ILogger
	semanticDefault bool
}

func NewAnalysisService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger, semanticDefault bool) IAnalysisService {
	return &analysisService{
		uowFactory:      uowFactory,
		log:             log,
		semanticDefault: semanticDefault,
	}
}

func (s *analysisService) AnalyzeWorkspace(ctx context.Context, req *dto.AnalyzeWorkspaceRequest) (*dto.AnalysisResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	spaces, err := uow.SpaceRepository().FindAll(ctx,
		specification.ByWorkspaceID{WorkspaceID: req.WorkspaceId},
	)
	if err != nil {
		return nil, fmt.Errorf("loading spaces: %w", err)
	}

	spaceNames := make(map[uuid.UUID]string, len(spaces))
	for _, sp := range spaces {
		spaceNames[sp.Id] = sp.Name
	}

	// Stable input order keeps cluster ids and suggestion ranking
	// deterministic across runs.
	pageSpecs := []specification.Specification{
		specification.ByWorkspaceID{WorkspaceID: req.WorkspaceId},
		specification.OrderBy{Field: "created_at"},
	}
	if len(req.SpaceIds) > 0 {
		pageSpecs = append(pageSpecs, specification.BySpaceIDs{SpaceIDs: req.SpaceIds})
	}
	pages, err := uow.PageRepository().FindAll(ctx, pageSpecs...)
	if err != nil {
		return nil, fmt.Errorf("loading pages: %w", err)
	}

	docs := analysis.NormalizeDocuments(pages)
	vocab := analysis.BuildVocabulary(docs)

	semantic := s.semanticDefault
	if req.Semantic != nil {
		semantic = *req.Semantic
	}

	var clusters []analysis.Cluster
	if semantic {
		vectors := analysis.VectorizeAll(docs, vocab)
		clusters = analysis.ClusterByVectors(docs, vectors)
	} else {
		clusters = analysis.ClusterByKeywords(docs)
	}

	keywords := analysis.TopKeywords(docs)
	relationships := analysis.ExtractRelationships(docs)

	suggestions := analysis.GenerateSuggestions(analysis.SuggestionInput{
		Documents:  docs,
		Clusters:   clusters,
		Keywords:   keywords,
		SpaceNames: spaceNames,
		Semantic:   semantic,
	})

	s.log.Info("analysis", "workspace analyzed", map[string]interface{}{
		"workspace_id":  req.WorkspaceId.String(),
		"documents":     len(docs),
		"clusters":      len(clusters),
		"suggestions":   len(suggestions),
		"relationships": len(relationships),
		"semantic":      semantic,
	})

	keywordTerms := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		keywordTerms = append(keywordTerms, kw.Term)
	}

	return &dto.AnalysisResult{
		WorkspaceId:   req.WorkspaceId,
		Suggestions:   suggestions,
		Relationships: relationships,
		Clusters:      clusters,
		Keywords:      keywordTerms,
		Stats: dto.AnalysisStats{
			DocumentCount:     len(docs),
			VocabularySize:    vocab.Size(),
			ClusterCount:      len(clusters),
			RelationshipCount: len(relationships),
		},
	}, nil
}
