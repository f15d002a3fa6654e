package dto

// DiagramRequestDTO carries one question/answer pair to visualize.
type DiagramRequestDTO struct {
	UserContent      string `json:"user_content" binding:"required"`
	AssistantContent string `json:"assistant_content" binding:"required"`
}

// MindmapNodeDTO is one node of the parsed mind map tree.
type MindmapNodeDTO struct {
	Text  string           `json:"text"`
	Nodes []MindmapNodeDTO `json:"nodes,omitempty"`
}

type MindmapResponseDTO struct {
	RootNode MindmapNodeDTO `json:"root_node"`
}
