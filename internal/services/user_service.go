package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pge-app/incidents-api/internal/models"
	"github.com/pge-app/incidents-api/internal/repository"
)

var (
	ErrUsernameTaken = errors.New("ya existe un usuario con ese nombre de usuario")
	ErrInvalidRole   = errors.New("rolId inválido; valores permitidos: 1 (vecino), 2 (administrador)")
	ErrRoleNotFound  = errors.New("rol no encontrado")
)

// UserService handles user administration: listing, admin-side creation with
// an explicit role, profile edits, role changes, and account deletion.
type UserService struct {
	userRepo repository.UserRepository
	refRepo  repository.ReferenceRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, refRepo repository.ReferenceRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		refRepo:  refRepo,
	}
}

// List returns all users with their roles.
func (s *UserService) List() ([]models.User, error) {
	return s.userRepo.List()
}

// Get retrieves a user by ID with its role.
func (s *UserService) Get(id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(id, "Role")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUserInput represents admin-side user creation with an explicit role.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
	RoleID    uint
}

// Create validates the role reference and uniqueness constraints, then
// stores the user with a bcrypt password hash.
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	exists, err := s.refRepo.RoleExists(input.RoleID)
	if err != nil {
		return nil, fmt.Errorf("failed to check role: %w", err)
	}
	if !exists {
		return nil, ErrInvalidRole
	}

	if taken, err := s.userRepo.EmailTaken(input.Email, 0); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, ErrEmailTaken
	}

	if taken, err := s.userRepo.UsernameTaken(input.Username, 0); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
		RoleID:       input.RoleID,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpdateProfileInput is the profile patch: every field is optional and only
// present fields are applied.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Username  *string
	Email     *string
}

// UpdateProfile applies the patch field-by-field with uniqueness checks on
// email and username.
func (s *UserService) UpdateProfile(id uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		taken, err := s.userRepo.EmailTaken(*input.Email, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	if input.Username != nil && *input.Username != user.Username {
		taken, err := s.userRepo.UsernameTaken(*input.Username, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, ErrUsernameTaken
		}
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// ChangeRole looks up the target role by case-insensitive name and assigns
// it. Unknown roles fail without mutating the user.
func (s *UserService) ChangeRole(id uint, roleName string) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	role, err := s.refRepo.FindRoleByName(roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrRoleNotFound, strings.ToLower(strings.TrimSpace(roleName)))
		}
		return nil, fmt.Errorf("failed to look up role: %w", err)
	}

	user.RoleID = role.ID
	user.Role = *role
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return user, nil
}

// Delete removes the user and every incident they own, atomically.
func (s *UserService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	if err := s.userRepo.DeleteWithIncidents(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
