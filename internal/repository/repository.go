package repository

import (
	"time"

	"github.com/pge-app/incidents-api/internal/models"
)

// BBoxFilter is an axis-aligned WGS84 rectangle (map viewport).
type BBoxFilter struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// NearFilter selects incidents within Radius of a center point, as measured
// by the spatial engine's distance function on the stored SRID.
type NearFilter struct {
	Lat    float64
	Lon    float64
	Radius float64
}

// IncidentFilter holds the optional predicates of an incident search. Every
// field is independently optional; absent fields add no constraint. BBox and
// Near are mutually exclusive spatial modes.
//
// When Page and PageSize are set the search is page-based and the total
// filtered count is computed before paging; otherwise Limit caps the result
// ("most recent N").
type IncidentFilter struct {
	CategoryID *uint
	From       *time.Time
	To         *time.Time
	BBox       *BBoxFilter
	Near       *NearFilter
	Limit      int
	Page       int
	PageSize   int
}

// Paged reports whether the filter requests page-based pagination.
func (f IncidentFilter) Paged() bool {
	return f.Page > 0 && f.PageSize > 0
}

// IncidentRepository defines the interface for incident data access
type IncidentRepository interface {
	// Create creates a new incident
	Create(incident *models.Incident) error

	// FindByID finds an incident by ID with optional preloading
	FindByID(id uint, preload ...string) (*models.Incident, error)

	// List retrieves incidents matching the filter, newest first. The count
	// is the total filtered size for paged searches and len(result) otherwise.
	List(filter IncidentFilter) ([]models.Incident, int64, error)

	// Update updates an incident
	Update(incident *models.Incident) error

	// Delete hard-deletes an incident
	Delete(id uint) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID with optional preloading
	FindByID(id uint, preload ...string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List lists all users with their roles
	List() ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// DeleteWithIncidents removes the user and all incidents they own in a
	// single transaction.
	DeleteWithIncidents(id uint) error

	// EmailTaken reports whether another user already holds the email
	EmailTaken(email string, excludeID uint) (bool, error)

	// UsernameTaken reports whether another user already holds the username
	UsernameTaken(username string, excludeID uint) (bool, error)
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// List lists all categories ordered by id
	List() ([]models.Category, error)

	// UpdateIconURLs rewrites every category icon URL from a base URL,
	// returning the number of categories updated.
	UpdateIconURLs(baseURL string) (int, error)
}

// ReferenceRepository provides the static role and incident-state tables.
type ReferenceRepository interface {
	// ListRoles lists all roles ordered by id
	ListRoles() ([]models.Role, error)

	// ListStates lists all incident states ordered by id
	ListStates() ([]models.IncidentState, error)

	// FindRoleByName finds a role by case-insensitive name
	FindRoleByName(name string) (*models.Role, error)

	// RoleExists reports whether a role id exists
	RoleExists(id uint) (bool, error)

	// StateExists reports whether a state id exists
	StateExists(id uint) (bool, error)
}
