package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/the-beginners-2025/backend-go/cmd/api/auth"
	"github.com/the-beginners-2025/backend-go/cmd/api/dto"
	"github.com/the-beginners-2025/backend-go/models"
	"github.com/the-beginners-2025/backend-go/repositories"
)

// AuthService covers registration, login and profile management.
type AuthService struct {
	users      *repositories.UserRepository
	statistics *repositories.UserStatisticsRepository
	jwt        *auth.JWTManager
}

func NewAuthService(users *repositories.UserRepository, statistics *repositories.UserStatisticsRepository, jwt *auth.JWTManager) *AuthService {
	return &AuthService{users: users, statistics: statistics, jwt: jwt}
}

func userToDTO(user models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        user.ID.String(),
		Email:     user.Email,
		Nickname:  user.Nickname,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
		Type:      user.Type,
	}
}

func statisticsToDTO(stats models.UserStatistics) dto.UserStatisticsDTO {
	return dto.UserStatisticsDTO{
		KnowledgeBaseSearchCount: stats.KnowledgeBaseSearchCount,
		OCRRecognitionCount:      stats.OCRRecognitionCount,
		ConversationCount:        stats.ConversationCount,
		FlowChartCount:           stats.FlowChartCount,
		MindMapCount:             stats.MindMapCount,
	}
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequestDTO) (dto.TokenResponseDTO, error) {
	if len(req.Password) < auth.MinPasswordLength {
		return dto.TokenResponseDTO{}, ErrPasswordTooShort
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return dto.TokenResponseDTO{}, err
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Nickname:     req.Nickname,
		Type:         models.UserTypeUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return dto.TokenResponseDTO{}, ErrEmailTaken
		}
		return dto.TokenResponseDTO{}, err
	}

	token, err := s.jwt.Sign(user.ID)
	if err != nil {
		return dto.TokenResponseDTO{}, err
	}
	return dto.TokenResponseDTO{Token: token, User: userToDTO(user)}, nil
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequestDTO) (dto.TokenResponseDTO, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return dto.TokenResponseDTO{}, ErrInvalidCredentials
	}
	if err != nil {
		return dto.TokenResponseDTO{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return dto.TokenResponseDTO{}, ErrInvalidCredentials
	}

	token, err := s.jwt.Sign(user.ID)
	if err != nil {
		return dto.TokenResponseDTO{}, err
	}
	return dto.TokenResponseDTO{Token: token, User: userToDTO(user)}, nil
}

func (s *AuthService) Me(user models.User) dto.UserDTO {
	return userToDTO(user)
}

func (s *AuthService) Update(ctx context.Context, userID uuid.UUID, req dto.UpdateUserRequestDTO) (dto.UserDTO, error) {
	passwordHash := ""
	if req.Password != "" {
		if len(req.Password) < auth.MinPasswordLength {
			return dto.UserDTO{}, ErrPasswordTooShort
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return dto.UserDTO{}, err
		}
		passwordHash = hash
	}

	if err := s.users.UpdateProfile(ctx, userID, req.Nickname, req.Email, passwordHash); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return dto.UserDTO{}, ErrEmailTaken
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return dto.UserDTO{}, ErrNotFound
		}
		return dto.UserDTO{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return dto.UserDTO{}, err
	}
	return userToDTO(user), nil
}

func (s *AuthService) Statistics(ctx context.Context, userID uuid.UUID) (dto.UserStatisticsDTO, error) {
	stats, err := s.statistics.Find(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		// legacy accounts created before the statistics table
		return dto.UserStatisticsDTO{}, nil
	}
	if err != nil {
		return dto.UserStatisticsDTO{}, err
	}
	return statisticsToDTO(stats), nil
}

// AllUsers returns every account with its usage counters. Admin only;
// the gate lives in the middleware.
func (s *AuthService) AllUsers(ctx context.Context) (dto.AllUsersResponseDTO, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return dto.AllUsersResponseDTO{}, err
	}

	result := dto.AllUsersResponseDTO{Users: make([]dto.UserWithStatisticsDTO, 0, len(users))}
	for _, user := range users {
		stats, err := s.statistics.Find(ctx, user.ID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return dto.AllUsersResponseDTO{}, err
		}
		result.Users = append(result.Users, dto.UserWithStatisticsDTO{
			User:       userToDTO(user),
			Statistics: statisticsToDTO(stats),
		})
	}
	return result, nil
}
