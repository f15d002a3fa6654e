package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/the-beginners-2025/backend-go/cmd/api/clients/ocrclient"
	"github.com/the-beginners-2025/backend-go/cmd/api/dto"
	"github.com/the-beginners-2025/backend-go/logger"
	"github.com/the-beginners-2025/backend-go/repositories"
)

// OCRService runs formula recognition and counts usage.
type OCRService struct {
	ocr        *ocrclient.Client
	statistics *repositories.UserStatisticsRepository
}

func NewOCRService(ocr *ocrclient.Client, statistics *repositories.UserStatisticsRepository) *OCRService {
	return &OCRService{ocr: ocr, statistics: statistics}
}

// Recognize converts an image of mathematical notation to LaTeX.
// turbo selects the faster, lower accuracy model.
func (s *OCRService) Recognize(ctx context.Context, userID uuid.UUID, image []byte, turbo bool) (dto.OCRResponseDTO, error) {
	if err := s.statistics.IncrementOCRRecognition(ctx, userID); err != nil {
		logger.ErrorWithFields("failed to count ocr recognition", logger.Fields{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
	}

	var result ocrclient.Result
	var err error
	if turbo {
		result, err = s.ocr.RecognizeTurbo(ctx, image)
	} else {
		result, err = s.ocr.Recognize(ctx, image)
	}
	if err != nil {
		return dto.OCRResponseDTO{}, err
	}
	return dto.OCRResponseDTO{Content: result.Content, Confidence: result.Confidence}, nil
}
