package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pge-app/incidents-api/internal/dto"
	apierrors "github.com/pge-app/incidents-api/internal/errors"
	"github.com/pge-app/incidents-api/internal/services"
)

// UserHandler coordinates user administration HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// List returns all users with their role names.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	views := make([]dto.UserView, len(users))
	for i, user := range users {
		views[i] = dto.ToUserView(user)
	}
	c.JSON(http.StatusOK, views)
}

// Create registers a user with an explicit role id (admin-side creation).
func (h *UserHandler) Create(c *gin.Context) {
	type CreateUserRequest struct {
		FirstName string `json:"nombre" binding:"required"`
		LastName  string `json:"apellido"`
		Email     string `json:"email" binding:"required,email"`
		Username  string `json:"username" binding:"required"`
		Password  string `json:"password" binding:"required"`
		RoleID    uint   `json:"rolId" binding:"required"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Cuerpo de la solicitud inválido")
		return
	}

	user, err := h.userService.Create(services.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		RoleID:    req.RoleID,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID})
}

// Get returns one user profile with its role name.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(id)
	if err != nil {
		respondUserNotFound(c, id, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserProfile(*user))
}

// Update applies a partial profile update with email/username uniqueness
// checks.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		FirstName *string `json:"nombre"`
		LastName  *string `json:"apellido"`
		Username  *string `json:"username"`
		Email     *string `json:"email"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Cuerpo de la solicitud inválido")
		return
	}

	if _, err := h.userService.UpdateProfile(id, services.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
	}); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondUserNotFound(c, id, err)
			return
		}
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Perfil actualizado correctamente"})
}

// Delete removes the account and every incident it owns.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(id); err != nil {
		respondUserNotFound(c, id, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cuenta eliminada correctamente"})
}

// ChangeRole assigns the role matching the requested name
// (case-insensitive). Unknown roles fail without mutating the user.
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	type ChangeRoleRequest struct {
		Role string `json:"rol" binding:"required"`
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Cuerpo de la solicitud inválido")
		return
	}

	user, err := h.userService.ChangeRole(id, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondUserNotFound(c, id, err)
			return
		}
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Rol del usuario %s actualizado a '%s'.", user.FirstName, user.Role.Name),
	})
}

func respondUserNotFound(c *gin.Context, id uint, err error) {
	if errors.Is(err, services.ErrUserNotFound) {
		apierrors.NotFound(c, fmt.Sprintf("Usuario con ID %d no encontrado", id))
		return
	}
	apierrors.InternalError(c, "")
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrRoleNotFound),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
