package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/pge-app/incidents-api/internal/errors"
	"github.com/pge-app/incidents-api/internal/repository"
)

// ReferenceHandler serves the static role and incident-state tables.
type ReferenceHandler struct {
	refRepo repository.ReferenceRepository
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(refRepo repository.ReferenceRepository) *ReferenceHandler {
	return &ReferenceHandler{refRepo: refRepo}
}

// ListRoles returns all roles ordered by id.
func (h *ReferenceHandler) ListRoles(c *gin.Context) {
	roles, err := h.refRepo.ListRoles()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, roles)
}

// ListStates returns all incident states ordered by id.
func (h *ReferenceHandler) ListStates(c *gin.Context) {
	states, err := h.refRepo.ListStates()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, states)
}
