package dto

type OCRResponseDTO struct {
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
}
