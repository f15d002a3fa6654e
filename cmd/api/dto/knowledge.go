package dto

type DatasetDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
	ChunkCount    int    `json:"chunk_count"`
}

type DatasetsResponseDTO struct {
	Datasets []DatasetDTO `json:"datasets"`
}

type DocumentDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Size            int64   `json:"size"`
	TokenCount      int     `json:"token_count"`
	ChunkCount      int     `json:"chunk_count"`
	Progress        float64 `json:"progress"`
	ProgressMessage string  `json:"progress_message"`
}

type DocumentsResponseDTO struct {
	Documents     []DocumentDTO `json:"documents"`
	DocumentCount int           `json:"document_count"`
	Page          int           `json:"page"`
	PageCount     int           `json:"page_count"`
	PageSize      int           `json:"page_size"`
}

type ChunkDTO struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Available bool   `json:"available"`
}

type ChunksResponseDTO struct {
	Chunks     []ChunkDTO `json:"chunks"`
	ChunkCount int        `json:"chunk_count"`
	Page       int        `json:"page"`
	PageCount  int        `json:"page_count"`
	PageSize   int        `json:"page_size"`
}

type RetrievalRequestDTO struct {
	Page                   int      `json:"page" binding:"required"`
	PageSize               int      `json:"page_size" binding:"required"`
	Question               string   `json:"question" binding:"required"`
	DatasetIDs             []string `json:"dataset_ids" binding:"required"`
	DocumentIDs            []string `json:"document_ids"`
	SimilarityThreshold    float64  `json:"similarity_threshold"`
	VectorSimilarityWeight float64  `json:"vector_similarity_weight"`
	TopK                   int      `json:"top_k"`
}

type ResultChunkDTO struct {
	ID                 string  `json:"id"`
	Content            string  `json:"content"`
	HighlightedContent string  `json:"highlighted_content"`
	Similarity         float64 `json:"similarity"`
	TermSimilarity     float64 `json:"term_similarity"`
	VectorSimilarity   float64 `json:"vector_similarity"`
}

type RetrievalResponseDTO struct {
	Chunks    []ResultChunkDTO `json:"chunks"`
	Page      int              `json:"page"`
	PageCount int              `json:"page_count"`
	PageSize  int              `json:"page_size"`
}

type GraphNodePropertiesDTO struct {
	Description string `json:"description"`
	EntityID    string `json:"entity_id"`
	EntityType  string `json:"entity_type"`
	FilePath    string `json:"file_path"`
	SourceID    string `json:"source_id"`
}

type GraphNodeDTO struct {
	ID         string                 `json:"id"`
	Labels     []string               `json:"labels"`
	Properties GraphNodePropertiesDTO `json:"properties"`
}

type GraphEdgePropertiesDTO struct {
	Description string  `json:"description"`
	FilePath    string  `json:"file_path"`
	Keywords    string  `json:"keywords"`
	SourceID    string  `json:"source_id"`
	Weight      float64 `json:"weight"`
}

type GraphEdgeDTO struct {
	ID         string                 `json:"id"`
	Source     string                 `json:"source"`
	Target     string                 `json:"target"`
	Type       string                 `json:"type"`
	Properties GraphEdgePropertiesDTO `json:"properties"`
}

type GraphResponseDTO struct {
	Nodes       []GraphNodeDTO `json:"nodes"`
	Edges       []GraphEdgeDTO `json:"edges"`
	IsTruncated bool           `json:"is_truncated"`
}
