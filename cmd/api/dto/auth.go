package dto

// RegisterRequestDTO creates a new account.
type RegisterRequestDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequestDTO changes profile fields; empty fields are left
// untouched.
type UpdateUserRequestDTO struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Type      string `json:"type"`
}

// TokenResponseDTO is returned by register and login.
type TokenResponseDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UserStatisticsDTO struct {
	KnowledgeBaseSearchCount int `json:"knowledge_base_search_count"`
	OCRRecognitionCount      int `json:"ocr_recognition_count"`
	ConversationCount        int `json:"conversation_count"`
	FlowChartCount           int `json:"flow_chart_count"`
	MindMapCount             int `json:"mind_map_count"`
}

type UserWithStatisticsDTO struct {
	User       UserDTO           `json:"user"`
	Statistics UserStatisticsDTO `json:"statistics"`
}

type AllUsersResponseDTO struct {
	Users []UserWithStatisticsDTO `json:"users"`
}
