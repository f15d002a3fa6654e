package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/the-beginners-2025/backend-go/models"
)

type UserStatisticsRepository struct {
	db *sql.DB
}

func NewUserStatisticsRepository(db *sql.DB) *UserStatisticsRepository {
	return &UserStatisticsRepository{db: db}
}

func (r *UserStatisticsRepository) Find(ctx context.Context, userID uuid.UUID) (models.UserStatistics, error) {
	var s models.UserStatistics
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, knowledge_base_search_count, ocr_recognition_count,
		        conversation_count, flow_chart_count, mind_map_count
		 FROM user_statistics WHERE user_id = $1`, userID).
		Scan(&s.UserID, &s.KnowledgeBaseSearchCount, &s.OCRRecognitionCount,
			&s.ConversationCount, &s.FlowChartCount, &s.MindMapCount)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserStatistics{}, ErrNotFound
	}
	if err != nil {
		return models.UserStatistics{}, err
	}
	return s, nil
}

func (r *UserStatisticsRepository) IncrementKnowledgeBaseSearch(ctx context.Context, userID uuid.UUID) error {
	return r.increment(ctx, userID, "knowledge_base_search_count")
}

func (r *UserStatisticsRepository) IncrementOCRRecognition(ctx context.Context, userID uuid.UUID) error {
	return r.increment(ctx, userID, "ocr_recognition_count")
}

func (r *UserStatisticsRepository) IncrementConversation(ctx context.Context, userID uuid.UUID) error {
	return r.increment(ctx, userID, "conversation_count")
}

func (r *UserStatisticsRepository) IncrementFlowChart(ctx context.Context, userID uuid.UUID) error {
	return r.increment(ctx, userID, "flow_chart_count")
}

func (r *UserStatisticsRepository) IncrementMindMap(ctx context.Context, userID uuid.UUID) error {
	return r.increment(ctx, userID, "mind_map_count")
}

// increment upserts so counters survive users created before the
// statistics table existed. column comes from the fixed method set
// above, never from user input.
func (r *UserStatisticsRepository) increment(ctx context.Context, userID uuid.UUID, column string) error {
	query := fmt.Sprintf(
		`INSERT INTO user_statistics (user_id, %[1]s) VALUES ($1, 1)
		 ON CONFLICT (user_id) DO UPDATE SET %[1]s = user_statistics.%[1]s + 1`, column)
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
