package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/pge-app/incidents-api/internal/models"
	"github.com/pge-app/incidents-api/internal/repository"
)

var ErrUnknownExportFormat = errors.New("formato de exportación desconocido")

// Export formats.
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

const exportDateLayout = "2006-01-02 15:04:05"

// Column order is part of the export contract.
var exportHeader = []string{"Id", "Categoria", "Descripcion", "Estado", "Latitud", "Longitud", "Fecha"}

// ExportFile is a rendered export ready to be served as an attachment.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders filtered incident sets as CSV or XLSX downloads.
type ExportService struct {
	incidentRepo repository.IncidentRepository
}

// NewExportService creates a new ExportService.
func NewExportService(incidentRepo repository.IncidentRepository) *ExportService {
	return &ExportService{incidentRepo: incidentRepo}
}

// Export runs the category/date filter (no pagination: exports are the whole
// filtered set, newest first) and renders it in the requested format.
func (s *ExportService) Export(filter repository.IncidentFilter, format string) (*ExportFile, error) {
	if format == "" {
		format = ExportFormatCSV
	}

	incidents, _, err := s.incidentRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch incidents: %w", err)
	}

	rows := make([][]string, 0, len(incidents))
	for _, inc := range incidents {
		rows = append(rows, exportRow(inc))
	}

	switch format {
	case ExportFormatCSV:
		return renderCSV(rows)
	case ExportFormatXLSX:
		return renderXLSX(rows)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExportFormat, format)
	}
}

func exportRow(inc models.Incident) []string {
	description := ""
	if inc.Description != nil {
		description = *inc.Description
	}
	lat, lon := "", ""
	if inc.Location != nil {
		lat = strconv.FormatFloat(inc.Location.Lat, 'f', -1, 64)
		lon = strconv.FormatFloat(inc.Location.Lon, 'f', -1, 64)
	}
	return []string{
		strconv.FormatUint(uint64(inc.ID), 10),
		inc.Category.Name,
		description,
		inc.State.Name,
		lat,
		lon,
		inc.CreatedAt.Format(exportDateLayout),
	}
}

func renderCSV(rows [][]string) (*ExportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv rows: %w", err)
	}

	return &ExportFile{
		Content:     buf.Bytes(),
		ContentType: "text/csv",
		Filename:    "incidencias.csv",
	}, nil
}

func renderXLSX(rows [][]string) (*ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Incidencias"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	writeRow := func(rowIdx int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		return f.SetSheetRow(sheet, cell, &row)
	}

	if err := writeRow(1, exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write xlsx header: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return nil, fmt.Errorf("failed to write xlsx row: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render xlsx: %w", err)
	}

	return &ExportFile{
		Content:     buf.Bytes(),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Filename:    "incidencias.xlsx",
	}, nil
}
