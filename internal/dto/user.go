package dto

import (
	"time"

	"github.com/pge-app/incidents-api/internal/models"
)

// UserView is the list projection (id, name, email, role name).
type UserView struct {
	ID        uint   `json:"id"`
	FirstName string `json:"nombre"`
	Email     string `json:"email"`
	Role      string `json:"rol"`
}

// UserProfile is the full profile projection for GET /users/:id.
type UserProfile struct {
	ID        uint   `json:"id"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"rol"`
}

// SessionView is the login response: profile plus login time. Replaces the
// original client-held "current user" blob; the authoritative user id lives
// in the server-side session.
type SessionView struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"nombre"`
	LastName  string    `json:"apellido"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"rol"`
	LoginTime time.Time `json:"loginTime"`
}

// ToUserView converts a User (with Role preloaded) to its list projection.
func ToUserView(user models.User) UserView {
	return UserView{
		ID:        user.ID,
		FirstName: user.FirstName,
		Email:     user.Email,
		Role:      user.Role.Name,
	}
}

// ToUserProfile converts a User (with Role preloaded) to its profile projection.
func ToUserProfile(user models.User) UserProfile {
	return UserProfile{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role.Name,
	}
}

// ToSessionView converts an authenticated User (with Role preloaded) to the
// login response.
func ToSessionView(user models.User, loginTime time.Time) SessionView {
	return SessionView{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Username:  user.Username,
		Role:      user.Role.Name,
		LoginTime: loginTime,
	}
}
