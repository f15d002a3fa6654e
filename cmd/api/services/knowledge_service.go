package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/the-beginners-2025/backend-go/cmd/api/clients/graphclient"
	"github.com/the-beginners-2025/backend-go/cmd/api/clients/ragclient"
	"github.com/the-beginners-2025/backend-go/cmd/api/dto"
	"github.com/the-beginners-2025/backend-go/logger"
	"github.com/the-beginners-2025/backend-go/repositories"
)

// KnowledgeService exposes the knowledge engine's datasets, documents,
// retrieval and the knowledge graph.
type KnowledgeService struct {
	rag        *ragclient.Client
	graph      *graphclient.Client
	statistics *repositories.UserStatisticsRepository
}

func NewKnowledgeService(rag *ragclient.Client, graph *graphclient.Client, statistics *repositories.UserStatisticsRepository) *KnowledgeService {
	return &KnowledgeService{rag: rag, graph: graph, statistics: statistics}
}

func (s *KnowledgeService) Datasets(ctx context.Context) (dto.DatasetsResponseDTO, error) {
	datasets, err := s.rag.ListDatasets(ctx)
	if err != nil {
		return dto.DatasetsResponseDTO{}, err
	}
	result := dto.DatasetsResponseDTO{Datasets: make([]dto.DatasetDTO, 0, len(datasets))}
	for _, ds := range datasets {
		result.Datasets = append(result.Datasets, dto.DatasetDTO{
			ID:            ds.ID,
			Name:          ds.Name,
			DocumentCount: ds.DocumentCount,
			ChunkCount:    ds.ChunkCount,
		})
	}
	return result, nil
}

func (s *KnowledgeService) Documents(ctx context.Context, datasetID string, page, pageSize int) (dto.DocumentsResponseDTO, error) {
	documents, total, err := s.rag.ListDocuments(ctx, datasetID, page, pageSize)
	if err != nil {
		return dto.DocumentsResponseDTO{}, err
	}
	result := dto.DocumentsResponseDTO{
		Documents:     make([]dto.DocumentDTO, 0, len(documents)),
		DocumentCount: total,
		Page:          page,
		PageCount:     ragclient.PageCount(total, pageSize),
		PageSize:      pageSize,
	}
	for _, doc := range documents {
		result.Documents = append(result.Documents, dto.DocumentDTO{
			ID:              doc.ID,
			Name:            doc.Name,
			Size:            doc.Size,
			TokenCount:      doc.TokenCount,
			ChunkCount:      doc.ChunkCount,
			Progress:        doc.Progress,
			ProgressMessage: doc.ProgressMessage,
		})
	}
	return result, nil
}

func (s *KnowledgeService) Chunks(ctx context.Context, datasetID, documentID string, page, pageSize int) (dto.ChunksResponseDTO, error) {
	chunks, total, err := s.rag.ListChunks(ctx, datasetID, documentID, page, pageSize)
	if err != nil {
		return dto.ChunksResponseDTO{}, err
	}
	result := dto.ChunksResponseDTO{
		Chunks:     make([]dto.ChunkDTO, 0, len(chunks)),
		ChunkCount: total,
		Page:       page,
		PageCount:  ragclient.PageCount(total, pageSize),
		PageSize:   pageSize,
	}
	for _, chunk := range chunks {
		result.Chunks = append(result.Chunks, dto.ChunkDTO{
			ID:        chunk.ID,
			Content:   chunk.Content,
			Available: chunk.Available,
		})
	}
	return result, nil
}

// Retrieve runs a semantic search and counts it against the user's
// statistics.
func (s *KnowledgeService) Retrieve(ctx context.Context, userID uuid.UUID, req dto.RetrievalRequestDTO) (dto.RetrievalResponseDTO, error) {
	if err := s.statistics.IncrementKnowledgeBaseSearch(ctx, userID); err != nil {
		logger.ErrorWithFields("failed to count knowledge search", logger.Fields{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
	}

	chunks, err := s.rag.Retrieve(ctx, ragclient.RetrieveRequest{
		Question:               req.Question,
		DatasetIDs:             req.DatasetIDs,
		DocumentIDs:            req.DocumentIDs,
		Page:                   req.Page,
		PageSize:               req.PageSize,
		SimilarityThreshold:    req.SimilarityThreshold,
		VectorSimilarityWeight: req.VectorSimilarityWeight,
		TopK:                   req.TopK,
	})
	if err != nil {
		return dto.RetrievalResponseDTO{}, err
	}

	topK := req.TopK
	if topK == 0 {
		topK = 1024
	}
	result := dto.RetrievalResponseDTO{
		Chunks:    make([]dto.ResultChunkDTO, 0, len(chunks)),
		Page:      req.Page,
		PageCount: ragclient.PageCount(topK, req.PageSize),
		PageSize:  req.PageSize,
	}
	for _, chunk := range chunks {
		result.Chunks = append(result.Chunks, dto.ResultChunkDTO{
			ID:                 chunk.ID,
			Content:            chunk.Content,
			HighlightedContent: chunk.HighlightedContent,
			Similarity:         chunk.Similarity,
			TermSimilarity:     chunk.TermSimilarity,
			VectorSimilarity:   chunk.VectorSimilarity,
		})
	}
	return result, nil
}

// Graph proxies a knowledge graph neighborhood query.
func (s *KnowledgeService) Graph(ctx context.Context, label string, maxDepth, maxNodes int) (dto.GraphResponseDTO, error) {
	graph, err := s.graph.Fetch(ctx, label, maxDepth, maxNodes)
	if err != nil {
		return dto.GraphResponseDTO{}, err
	}

	result := dto.GraphResponseDTO{
		Nodes:       make([]dto.GraphNodeDTO, 0, len(graph.Nodes)),
		Edges:       make([]dto.GraphEdgeDTO, 0, len(graph.Edges)),
		IsTruncated: graph.IsTruncated,
	}
	for _, node := range graph.Nodes {
		result.Nodes = append(result.Nodes, dto.GraphNodeDTO{
			ID:     node.ID,
			Labels: node.Labels,
			Properties: dto.GraphNodePropertiesDTO{
				Description: node.Properties.Description,
				EntityID:    node.Properties.EntityID,
				EntityType:  node.Properties.EntityType,
				FilePath:    node.Properties.FilePath,
				SourceID:    node.Properties.SourceID,
			},
		})
	}
	for _, edge := range graph.Edges {
		result.Edges = append(result.Edges, dto.GraphEdgeDTO{
			ID:     edge.ID,
			Source: edge.Source,
			Target: edge.Target,
			Type:   edge.Type,
			Properties: dto.GraphEdgePropertiesDTO{
				Description: edge.Properties.Description,
				FilePath:    edge.Properties.FilePath,
				Keywords:    edge.Properties.Keywords,
				SourceID:    edge.Properties.SourceID,
				Weight:      edge.Properties.Weight,
			},
		})
	}
	return result, nil
}
