package dto

import (
	"time"

	"github.com/pge-app/incidents-api/internal/models"
	"github.com/pge-app/incidents-api/internal/utils"
)

// IncidentView is the map-pin projection: denormalized state name and
// category icon, coordinates as named lat/lon fields.
type IncidentView struct {
	ID          uint      `json:"id"`
	CategoryID  uint      `json:"categoriaId"`
	Description *string   `json:"descripcion"`
	PhotoURL    *string   `json:"fotoUrl"`
	State       string    `json:"estado"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Timestamp   time.Time `json:"timestamp"`
	IconURL     *string   `json:"iconoUrl"`
}

// IncidentDetail additionally joins the reporting user's name and email.
type IncidentDetail struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"userId"`
	CategoryID   uint      `json:"categoriaId"`
	CategoryName string    `json:"categoriaNombre"`
	Description  *string   `json:"descripcion"`
	PhotoURL     *string   `json:"fotoUrl"`
	State        string    `json:"estado"`
	StateID      uint      `json:"estadoId"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	Timestamp    time.Time `json:"timestamp"`
	UserName     string    `json:"usuarioNombre"`
	UserEmail    string    `json:"usuarioEmail"`
}

// IncidentListResponse is the page-based list envelope.
type IncidentListResponse struct {
	Incidents  []IncidentView           `json:"incidencias"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToIncidentView converts an Incident (with State and Category preloaded)
// to its map-pin projection.
func ToIncidentView(inc models.Incident) IncidentView {
	view := IncidentView{
		ID:          inc.ID,
		CategoryID:  inc.CategoryID,
		Description: inc.Description,
		PhotoURL:    inc.PhotoURL,
		State:       inc.State.Name,
		Timestamp:   inc.CreatedAt,
		IconURL:     inc.Category.IconURL,
	}
	if inc.Location != nil {
		view.Lat = inc.Location.Lat
		view.Lon = inc.Location.Lon
	}
	return view
}

// ToIncidentViews converts a slice of incidents.
func ToIncidentViews(incidents []models.Incident) []IncidentView {
	views := make([]IncidentView, len(incidents))
	for i, inc := range incidents {
		views[i] = ToIncidentView(inc)
	}
	return views
}

// ToIncidentDetail converts an Incident with State, Category, and User
// preloaded.
func ToIncidentDetail(inc models.Incident) IncidentDetail {
	detail := IncidentDetail{
		ID:           inc.ID,
		UserID:       inc.UserID,
		CategoryID:   inc.CategoryID,
		CategoryName: inc.Category.Name,
		Description:  inc.Description,
		PhotoURL:     inc.PhotoURL,
		State:        inc.State.Name,
		StateID:      inc.StateID,
		Timestamp:    inc.CreatedAt,
		UserName:     inc.User.FirstName + " " + inc.User.LastName,
		UserEmail:    inc.User.Email,
	}
	if inc.Location != nil {
		detail.Lat = inc.Location.Lat
		detail.Lon = inc.Location.Lon
	}
	return detail
}
