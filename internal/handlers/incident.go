package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pge-app/incidents-api/internal/dto"
	apierrors "github.com/pge-app/incidents-api/internal/errors"
	"github.com/pge-app/incidents-api/internal/repository"
	"github.com/pge-app/incidents-api/internal/services"
	"github.com/pge-app/incidents-api/internal/utils"
)

// IncidentHandler coordinates incident-related HTTP handlers.
type IncidentHandler struct {
	incidentService *services.IncidentService
	exportService   *services.ExportService
}

// NewIncidentHandler creates a new IncidentHandler.
func NewIncidentHandler(incidentService *services.IncidentService, exportService *services.ExportService) *IncidentHandler {
	return &IncidentHandler{
		incidentService: incidentService,
		exportService:   exportService,
	}
}

// Create reports a new incident. State is forced to "nueva" and the
// timestamp is server-assigned.
func (h *IncidentHandler) Create(c *gin.Context) {
	type CreateIncidentRequest struct {
		UserID      uint     `json:"userId" binding:"required"`
		CategoryID  uint     `json:"categoriaId" binding:"required"`
		Description *string  `json:"descripcion"`
		Lat         *float64 `json:"lat" binding:"required"`
		Lon         *float64 `json:"lon" binding:"required"`
		PhotoURL    *string  `json:"fotoUrl"`
	}

	var req CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Cuerpo de la solicitud inválido")
		return
	}

	incident, err := h.incidentService.Create(services.CreateIncidentInput{
		UserID:      req.UserID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Lat:         *req.Lat,
		Lon:         *req.Lon,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": incident.ID})
}

// ListBBox returns the most recent incidents intersecting the map viewport.
func (h *IncidentHandler) ListBBox(c *gin.Context) {
	minLon, ok := floatQuery(c, "minLon")
	if !ok {
		return
	}
	minLat, ok := floatQuery(c, "minLat")
	if !ok {
		return
	}
	maxLon, ok := floatQuery(c, "maxLon")
	if !ok {
		return
	}
	maxLat, ok := floatQuery(c, "maxLat")
	if !ok {
		return
	}

	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}

	incidents, err := h.incidentService.SearchBBox(repository.BBoxFilter{
		MinLon: minLon,
		MinLat: minLat,
		MaxLon: maxLon,
		MaxLat: maxLat,
	}, limit)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToIncidentViews(incidents))
}

// ListNear returns the most recent incidents within radius of a center point.
func (h *IncidentHandler) ListNear(c *gin.Context) {
	lat, ok := floatQuery(c, "lat")
	if !ok {
		return
	}
	lon, ok := floatQuery(c, "lon")
	if !ok {
		return
	}
	radius, ok := floatQuery(c, "radius")
	if !ok {
		return
	}

	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}

	incidents, err := h.incidentService.SearchNear(repository.NearFilter{
		Lat:    lat,
		Lon:    lon,
		Radius: radius,
	}, limit)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToIncidentViews(incidents))
}

// Get returns one incident with joined user, category, and state names.
func (h *IncidentHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	incident, err := h.incidentService.Get(id)
	if err != nil {
		respondIncidentError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIncidentDetail(*incident))
}

// Filter runs the combined category/date/radius search with page-based
// pagination.
func (h *IncidentHandler) Filter(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	filter.Page = params.Page
	filter.PageSize = params.PageSize

	incidents, total, err := h.incidentService.Filter(filter)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.IncidentListResponse{
		Incidents:  dto.ToIncidentViews(incidents),
		Pagination: utils.NewPaginationResponse(params, total),
	})
}

// Update applies a partial update to the mutable incident fields. Location is
// only replaced when both coordinates are present.
func (h *IncidentHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	type UpdateIncidentRequest struct {
		CategoryID  *uint    `json:"categoriaId"`
		Description *string  `json:"descripcion"`
		PhotoURL    *string  `json:"fotoUrl"`
		StateID     *uint    `json:"estadoId"`
		Lat         *float64 `json:"lat"`
		Lon         *float64 `json:"lon"`
	}

	var req UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Cuerpo de la solicitud inválido")
		return
	}

	if _, err := h.incidentService.Update(id, services.UpdateIncidentInput{
		CategoryID:  req.CategoryID,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		StateID:     req.StateID,
		Lat:         req.Lat,
		Lon:         req.Lon,
	}); err != nil {
		respondIncidentError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Incidencia actualizada correctamente."})
}

// SetStatus moves an incident to the state given as a bare id in the body.
// Re-applying the current state succeeds.
func (h *IncidentHandler) SetStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var stateID uint
	if err := c.ShouldBindJSON(&stateID); err != nil {
		apierrors.BadRequest(c, "EstadoId inválido")
		return
	}

	if err := h.incidentService.SetState(id, stateID); err != nil {
		respondIncidentError(c, id, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete hard-deletes an incident.
func (h *IncidentHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.incidentService.Delete(id); err != nil {
		respondIncidentError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Incidencia %d eliminada correctamente.", id)})
}

// Export streams the filtered incident set as a CSV (default) or XLSX
// attachment.
func (h *IncidentHandler) Export(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	// Exports ignore the spatial filter: the contract is category + date only.
	filter.Near = nil

	file, err := h.exportService.Export(filter, c.Query("format"))
	if err != nil {
		if errors.Is(err, services.ErrUnknownExportFormat) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// parseFilter reads the shared categoriaId/desde/hasta/lat/lon/radius query
// parameters. The radius mode only engages when all three of lat, lon, and
// radius are present, matching the combined-filter contract.
func parseFilter(c *gin.Context) (repository.IncidentFilter, bool) {
	var filter repository.IncidentFilter

	if raw := c.Query("categoriaId"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apierrors.BadRequest(c, "categoriaId inválido")
			return filter, false
		}
		id := uint(v)
		filter.CategoryID = &id
	}

	from, ok := dateQuery(c, "desde")
	if !ok {
		return filter, false
	}
	filter.From = from

	to, ok := dateQuery(c, "hasta")
	if !ok {
		return filter, false
	}
	filter.To = to

	latRaw, lonRaw, radiusRaw := c.Query("lat"), c.Query("lon"), c.Query("radius")
	if latRaw != "" && lonRaw != "" && radiusRaw != "" {
		lat, ok := floatQuery(c, "lat")
		if !ok {
			return filter, false
		}
		lon, ok := floatQuery(c, "lon")
		if !ok {
			return filter, false
		}
		radius, ok := floatQuery(c, "radius")
		if !ok {
			return filter, false
		}
		filter.Near = &repository.NearFilter{Lat: lat, Lon: lon, Radius: radius}
	}

	limit, ok := intQuery(c, "limit")
	if !ok {
		return filter, false
	}
	filter.Limit = limit
	return filter, true
}

func respondIncidentError(c *gin.Context, id uint, err error) {
	switch {
	case errors.Is(err, services.ErrIncidentNotFound):
		apierrors.NotFound(c, fmt.Sprintf("Incidencia con ID %d no encontrada", id))
	case errors.Is(err, services.ErrInvalidState):
		apierrors.BadRequest(c, "EstadoId inválido")
	default:
		apierrors.InternalError(c, "")
	}
}

// floatQuery parses a required float query parameter, answering 400 itself
// when the value is missing or malformed.
func floatQuery(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		apierrors.BadRequest(c, fmt.Sprintf("Parámetro %q inválido", name))
		return 0, false
	}
	return v, true
}

// intQuery parses an optional int query parameter, answering 400 when a
// value is present but malformed.
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		apierrors.BadRequest(c, fmt.Sprintf("Parámetro %q inválido", name))
		return 0, false
	}
	return v, true
}

// dateQuery parses an optional timestamp query parameter, accepting RFC 3339
// or a bare date.
func dateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	apierrors.BadRequest(c, fmt.Sprintf("Parámetro %q inválido", name))
	return nil, false
}

// idParam parses the :id path parameter, answering 400 on malformed input.
func idParam(c *gin.Context) (uint, bool) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apierrors.BadRequest(c, "ID inválido")
		return 0, false
	}
	return uint(v), true
}
