package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/pge-app/incidents-api/internal/errors"
	"github.com/pge-app/incidents-api/internal/storage"
)

// PhotoHandler accepts base64 photo uploads and hands them to the external
// object store.
type PhotoHandler struct {
	store storage.PhotoStore
}

// NewPhotoHandler creates a new PhotoHandler. store may be nil when no
// storage backend is configured.
func NewPhotoHandler(store storage.PhotoStore) *PhotoHandler {
	return &PhotoHandler{store: store}
}

// Upload stores a photo and returns its public URL.
func (h *PhotoHandler) Upload(c *gin.Context) {
	type UploadPhotoRequest struct {
		FileName      string `json:"fileName" binding:"required"`
		ContentType   string `json:"contentType"`
		Base64Content string `json:"base64Content" binding:"required"`
	}

	var req UploadPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Cuerpo de la solicitud inválido")
		return
	}

	if h.store == nil {
		apierrors.ServiceUnavailable(c, storage.ErrNotConfigured.Error())
		return
	}

	photoURL, err := h.store.Upload(c.Request.Context(), req.FileName, req.ContentType, req.Base64Content)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidUpload):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, storage.ErrNotConfigured):
			apierrors.ServiceUnavailable(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"photoUrl": photoURL,
		"message":  "Foto subida correctamente",
		"success":  true,
	})
}
