package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/pge-app/incidents-api/internal/errors"
	"github.com/pge-app/incidents-api/internal/repository"
)

// CategoryHandler serves the category reference list and the batch icon
// update.
type CategoryHandler struct {
	categoryRepo repository.CategoryRepository
	iconBaseURL  string
}

// NewCategoryHandler creates a new CategoryHandler. iconBaseURL is the public
// object-storage prefix the batch icon update points categories at.
func NewCategoryHandler(categoryRepo repository.CategoryRepository, iconBaseURL string) *CategoryHandler {
	return &CategoryHandler{
		categoryRepo: categoryRepo,
		iconBaseURL:  iconBaseURL,
	}
}

// List returns all categories with their icon URLs.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryRepo.List()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// UpdateIcons rewrites every category icon URL from the configured storage
// base URL (<base>/<nombre>.png).
func (h *CategoryHandler) UpdateIcons(c *gin.Context) {
	if h.iconBaseURL == "" {
		apierrors.ServiceUnavailable(c, "Almacenamiento de iconos no configurado")
		return
	}

	updated, err := h.categoryRepo.UpdateIconURLs(h.iconBaseURL)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "URLs de iconos actualizadas correctamente.",
		"updated": updated,
	})
}
