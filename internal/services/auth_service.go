package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pge-app/incidents-api/internal/constants"
	"github.com/pge-app/incidents-api/internal/models"
	"github.com/pge-app/incidents-api/internal/repository"
)

var (
	ErrEmailTaken           = errors.New("ya existe un usuario registrado con ese email")
	ErrInvalidCredentials   = errors.New("credenciales inválidas")
	ErrWrongPassword        = errors.New("la contraseña actual es incorrecta")
	ErrPasswordTooShort     = errors.New("la contraseña es demasiado corta")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrRoleRowMissing       = errors.New("el rol requerido no existe en la base de datos")
	ErrFailedToHashPassword = errors.New("no se pudo procesar la contraseña")
)

// AuthService handles registration, login, and password changes. Passwords
// are stored as bcrypt hashes; the login failure response never distinguishes
// an unknown email from a wrong password.
type AuthService struct {
	userRepo repository.UserRepository
	refRepo  repository.ReferenceRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, refRepo repository.ReferenceRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		refRepo:  refRepo,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
}

// RegisterCitizen creates a user with the "vecino" role. The role row must
// exist; its absence is a hard failure, not a silent default.
func (s *AuthService) RegisterCitizen(input RegisterInput) (*models.User, error) {
	return s.register(input, constants.RoleNameCitizen)
}

// RegisterAdmin creates a user with the "administrador" role.
func (s *AuthService) RegisterAdmin(input RegisterInput) (*models.User, error) {
	return s.register(input, constants.RoleNameAdmin)
}

func (s *AuthService) register(input RegisterInput, roleName string) (*models.User, error) {
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	taken, err := s.userRepo.EmailTaken(strings.TrimSpace(input.Email), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	role, err := s.refRepo.FindRoleByName(roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRoleRowMissing, roleName)
		}
		return nil, fmt.Errorf("failed to look up role: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        strings.TrimSpace(input.Email),
		Username:     strings.TrimSpace(input.Username),
		PasswordHash: string(hashedPassword),
		RoleID:       role.ID,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.Role = *role
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ChangePasswordInput holds the fields of a password change request.
type ChangePasswordInput struct {
	Email       string
	OldPassword string
	NewPassword string
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(input ChangePasswordInput) error {
	if len(input.NewPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID with its role.
func (s *AuthService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(id, "Role")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
