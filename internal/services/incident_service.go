package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pge-app/incidents-api/internal/constants"
	"github.com/pge-app/incidents-api/internal/geom"
	"github.com/pge-app/incidents-api/internal/models"
	"github.com/pge-app/incidents-api/internal/repository"
)

var (
	ErrIncidentNotFound = errors.New("incidencia no encontrada")
	ErrInvalidState     = errors.New("estadoId inválido")
)

// IncidentService handles incident reporting, spatial search, partial
// updates, and state changes.
type IncidentService struct {
	incidentRepo repository.IncidentRepository
	refRepo      repository.ReferenceRepository
}

// NewIncidentService creates a new IncidentService.
func NewIncidentService(incidentRepo repository.IncidentRepository, refRepo repository.ReferenceRepository) *IncidentService {
	return &IncidentService{
		incidentRepo: incidentRepo,
		refRepo:      refRepo,
	}
}

// CreateIncidentInput represents a new citizen report.
type CreateIncidentInput struct {
	UserID      uint
	CategoryID  uint
	Description *string
	Lat         float64
	Lon         float64
	PhotoURL    *string
}

// Create stores a new incident. State is always the default new-incident
// state and the timestamp is server-assigned UTC now.
func (s *IncidentService) Create(input CreateIncidentInput) (*models.Incident, error) {
	incident := &models.Incident{
		UserID:      input.UserID,
		CategoryID:  input.CategoryID,
		Description: input.Description,
		Location:    geom.NewPoint(input.Lon, input.Lat),
		PhotoURL:    input.PhotoURL,
		StateID:     constants.DefaultIncidentStateID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.incidentRepo.Create(incident); err != nil {
		return nil, fmt.Errorf("failed to create incident: %w", err)
	}

	return incident, nil
}

// Get retrieves an incident with its joined user, category, and state.
func (s *IncidentService) Get(id uint) (*models.Incident, error) {
	incident, err := s.incidentRepo.FindByID(id, "User", "Category", "State")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncidentNotFound
		}
		return nil, fmt.Errorf("failed to find incident: %w", err)
	}
	return incident, nil
}

// SearchBBox returns the most recent incidents intersecting the viewport.
func (s *IncidentService) SearchBBox(bbox repository.BBoxFilter, limit int) ([]models.Incident, error) {
	if limit <= 0 {
		limit = constants.DefaultBBoxLimit
	}
	incidents, _, err := s.incidentRepo.List(repository.IncidentFilter{
		BBox:  &bbox,
		Limit: limit,
	})
	return incidents, err
}

// SearchNear returns the most recent incidents within radius of the center.
func (s *IncidentService) SearchNear(near repository.NearFilter, limit int) ([]models.Incident, error) {
	if limit <= 0 {
		limit = constants.DefaultNearLimit
	}
	incidents, _, err := s.incidentRepo.List(repository.IncidentFilter{
		Near:  &near,
		Limit: limit,
	})
	return incidents, err
}

// Filter runs the combined category/date/radius search with page-based
// pagination, returning the page and the total filtered count.
func (s *IncidentService) Filter(filter repository.IncidentFilter) ([]models.Incident, int64, error) {
	return s.incidentRepo.List(filter)
}

// UpdateIncidentInput is the incident patch: every field is optional and only
// present fields are applied. Location changes require both coordinates.
type UpdateIncidentInput struct {
	CategoryID  *uint
	Description *string
	PhotoURL    *string
	StateID     *uint
	Lat         *float64
	Lon         *float64
}

// Update applies the patch field-by-field in a single save. A state change is
// validated against the reference table before any mutation.
func (s *IncidentService) Update(id uint, input UpdateIncidentInput) (*models.Incident, error) {
	incident, err := s.incidentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncidentNotFound
		}
		return nil, fmt.Errorf("failed to find incident: %w", err)
	}

	if input.StateID != nil {
		exists, err := s.refRepo.StateExists(*input.StateID)
		if err != nil {
			return nil, fmt.Errorf("failed to check state: %w", err)
		}
		if !exists {
			return nil, ErrInvalidState
		}
		incident.StateID = *input.StateID
	}

	if input.CategoryID != nil {
		incident.CategoryID = *input.CategoryID
	}
	if input.Description != nil {
		incident.Description = input.Description
	}
	if input.PhotoURL != nil {
		incident.PhotoURL = input.PhotoURL
	}
	if input.Lat != nil && input.Lon != nil {
		incident.Location = geom.NewPoint(*input.Lon, *input.Lat)
	}

	if err := s.incidentRepo.Update(incident); err != nil {
		return nil, fmt.Errorf("failed to update incident: %w", err)
	}

	return incident, nil
}

// SetState moves the incident to the given state. Transitions are
// unconstrained; the only rule is that the target id exists in the reference
// table. Re-applying the current state succeeds.
func (s *IncidentService) SetState(id uint, stateID uint) error {
	incident, err := s.incidentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIncidentNotFound
		}
		return fmt.Errorf("failed to find incident: %w", err)
	}

	exists, err := s.refRepo.StateExists(stateID)
	if err != nil {
		return fmt.Errorf("failed to check state: %w", err)
	}
	if !exists {
		return ErrInvalidState
	}

	incident.StateID = stateID
	if err := s.incidentRepo.Update(incident); err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}
	return nil
}

// Delete hard-deletes an incident.
func (s *IncidentService) Delete(id uint) error {
	if _, err := s.incidentRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIncidentNotFound
		}
		return fmt.Errorf("failed to find incident: %w", err)
	}

	if err := s.incidentRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}
	return nil
}
