package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/the-beginners-2025/backend-go/cmd/api/dto"
	"github.com/the-beginners-2025/backend-go/cmd/api/middleware"
	"github.com/the-beginners-2025/backend-go/cmd/api/services"
	"github.com/the-beginners-2025/backend-go/logger"
)

// RegisterHandler godoc
// @Summary      Register a new account
// @Description  Creates a user, its statistics row and returns a signed token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequestDTO  true  "registration payload"
// @Success      200  {object}  dto.TokenResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /auth/register [post]
func RegisterHandler(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.RegisterRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body"})
			return
		}

		resp, err := authSvc.Register(c.Request.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrPasswordTooShort):
				c.JSON(http.StatusBadRequest, gin.H{"error": "password_too_short"})
			case errors.Is(err, services.ErrEmailTaken):
				c.JSON(http.StatusBadRequest, gin.H{"error": "email_already_registered"})
			default:
				logger.ErrorWithFields("registration failed", logger.Fields{"error": err.Error()})
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			}
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// LoginHandler godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequestDTO  true  "credentials"
// @Success      200  {object}  dto.TokenResponseDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Router       /auth/login [post]
func LoginHandler(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.LoginRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body"})
			return
		}

		resp, err := authSvc.Login(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_email_or_password"})
				return
			}
			logger.ErrorWithFields("login failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// MeHandler godoc
// @Summary      Current account profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Router       /auth/me [get]
func MeHandler(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)
		c.JSON(http.StatusOK, authSvc.Me(user))
	}
}

// UpdateMeHandler godoc
// @Summary      Update profile
// @Description  Changes nickname, email and/or password. Empty fields are left untouched.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateUserRequestDTO  true  "fields to change"
// @Success      200  {object}  dto.UserDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /auth/me [put]
func UpdateMeHandler(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)

		var req dto.UpdateUserRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body"})
			return
		}

		resp, err := authSvc.Update(c.Request.Context(), user.ID, req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrPasswordTooShort):
				c.JSON(http.StatusBadRequest, gin.H{"error": "password_too_short"})
			case errors.Is(err, services.ErrEmailTaken):
				c.JSON(http.StatusBadRequest, gin.H{"error": "email_already_registered"})
			default:
				logger.ErrorWithFields("profile update failed", logger.Fields{"error": err.Error()})
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			}
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// StatisticsHandler godoc
// @Summary      Current account usage counters
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserStatisticsDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Router       /auth/statistics [get]
func StatisticsHandler(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)

		resp, err := authSvc.Statistics(c.Request.Context(), user.ID)
		if err != nil {
			logger.ErrorWithFields("statistics lookup failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// AllUsersHandler godoc
// @Summary      List every account with usage counters
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.AllUsersResponseDTO
// @Failure      403  {object}  dto.ErrorResponseDTO
// @Router       /auth [get]
func AllUsersHandler(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := authSvc.AllUsers(c.Request.Context())
		if err != nil {
			logger.ErrorWithFields("user listing failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
