package dto

type ConversationDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ReferenceChunkDTO struct {
	ID           string `json:"id"`
	Content      string `json:"content"`
	DatasetID    string `json:"dataset_id"`
	DocumentID   string `json:"document_id"`
	DocumentName string `json:"document_name"`
}

type MessageDTO struct {
	Role       string              `json:"role"`
	Content    string              `json:"content"`
	References []ReferenceChunkDTO `json:"references"`
}

// ConversationDetailDTO includes the message history fetched from the
// knowledge engine session.
type ConversationDetailDTO struct {
	ConversationDTO
	Messages []MessageDTO `json:"messages"`
}

// ChatRequestDTO starts one streaming chat turn.
type ChatRequestDTO struct {
	Question string `json:"question" binding:"required"`
}
