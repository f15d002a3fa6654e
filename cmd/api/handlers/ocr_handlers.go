package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/the-beginners-2025/backend-go/cmd/api/middleware"
	"github.com/the-beginners-2025/backend-go/cmd/api/services"
	"github.com/the-beginners-2025/backend-go/logger"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// readImageUpload validates and reads the multipart "file" field.
func readImageUpload(c *gin.Context) ([]byte, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_required"})
		return nil, false
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_type_not_allowed"})
		return nil, false
	}
	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_name_not_allowed"})
		return nil, false
	}
	if !allowedImageExtensions[strings.ToLower(filepath.Ext(header.Filename))] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_type_not_allowed"})
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return nil, false
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_is_empty"})
		return nil, false
	}
	return data, true
}

func ocrHandler(svc *services.OCRService, turbo bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)

		image, ok := readImageUpload(c)
		if !ok {
			return
		}

		resp, err := svc.Recognize(c.Request.Context(), user.ID, image, turbo)
		if err != nil {
			logger.ErrorWithFields("ocr recognition failed", logger.Fields{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// NormalOCRHandler godoc
// @Summary      Recognize a formula image
// @Tags         ocr
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "jpg/jpeg/png image"
// @Success      200  {object}  dto.OCRResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /ocr/normal [post]
func NormalOCRHandler(svc *services.OCRService) gin.HandlerFunc {
	return ocrHandler(svc, false)
}

// TurboOCRHandler godoc
// @Summary      Recognize a formula image with the fast model
// @Tags         ocr
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "jpg/jpeg/png image"
// @Success      200  {object}  dto.OCRResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /ocr/turbo [post]
func TurboOCRHandler(svc *services.OCRService) gin.HandlerFunc {
	return ocrHandler(svc, true)
}
