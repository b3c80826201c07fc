package geom

import (
	"context"
	"database/sql/driver"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

const SRID = 4326

const (
	wkbPoint     = 1
	ewkbSRIDFlag = 0x20000000
)

// Point is a WGS84 geographic point stored in a single PostGIS
// geometry(Point,4326) column. Coordinates are lon/lat order on the wire
// (X=lon, Y=lat), matching the envelope and ST_MakePoint argument order.
type Point struct {
	Lon float64
	Lat float64
}

func NewPoint(lon, lat float64) *Point {
	return &Point{Lon: lon, Lat: lat}
}

// GormDataType implements schema.GormDataTypeInterface.
func (Point) GormDataType() string {
	return "geometry"
}

// GormDBDataType maps the column type per dialect. Non-postgres dialects
// (the in-memory SQLite used by handler tests) store the EWKT text form.
func (Point) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return fmt.Sprintf("geometry(Point,%d)", SRID)
	}
	return "text"
}

// GormValue writes the point through the spatial engine on postgres and as
// EWKT text everywhere else.
func (p Point) GormValue(_ context.Context, db *gorm.DB) clause.Expr {
	if db.Dialector.Name() == "postgres" {
		return clause.Expr{
			SQL:  fmt.Sprintf("ST_SetSRID(ST_MakePoint(?, ?), %d)", SRID),
			Vars: []interface{}{p.Lon, p.Lat},
		}
	}
	return clause.Expr{SQL: "?", Vars: []interface{}{p.EWKT()}}
}

// EWKT renders the extended well-known-text form, e.g.
// "SRID=4326;POINT(-64.19 -31.42)".
func (p Point) EWKT() string {
	return fmt.Sprintf("SRID=%d;POINT(%v %v)", SRID, p.Lon, p.Lat)
}

// Value implements driver.Valuer for the rare paths that bypass GormValue.
func (p Point) Value() (driver.Value, error) {
	return p.EWKT(), nil
}

// Scan accepts the hex-encoded EWKB postgis returns for geometry columns,
// raw EWKB bytes, or the EWKT text fallback written on non-postgres dialects.
func (p *Point) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return p.scanString(string(v))
	case string:
		return p.scanString(v)
	default:
		return fmt.Errorf("geom: cannot scan %T into Point", value)
	}
}

func (p *Point) scanString(s string) error {
	if strings.HasPrefix(s, "SRID=") || strings.HasPrefix(s, "POINT") {
		return p.parseEWKT(s)
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("geom: value is neither EWKT nor hex EWKB: %w", err)
	}
	return p.parseEWKB(data)
}

func (p *Point) parseEWKT(s string) error {
	if i := strings.Index(s, ";"); i >= 0 {
		s = s[i+1:]
	}
	var lon, lat float64
	if _, err := fmt.Sscanf(s, "POINT(%f %f)", &lon, &lat); err != nil {
		return fmt.Errorf("geom: malformed point text %q: %w", s, err)
	}
	p.Lon, p.Lat = lon, lat
	return nil
}

func (p *Point) parseEWKB(data []byte) error {
	if len(data) < 21 {
		return fmt.Errorf("geom: EWKB too short (%d bytes)", len(data))
	}
	var order binary.ByteOrder = binary.LittleEndian
	if data[0] == 0 {
		order = binary.BigEndian
	}
	geomType := order.Uint32(data[1:5])
	offset := 5
	if geomType&ewkbSRIDFlag != 0 {
		geomType &^= ewkbSRIDFlag
		offset += 4 // skip the embedded SRID
	}
	if geomType != wkbPoint {
		return fmt.Errorf("geom: unexpected geometry type %d, want point", geomType)
	}
	if len(data) < offset+16 {
		return fmt.Errorf("geom: truncated point payload")
	}
	p.Lon = math.Float64frombits(order.Uint64(data[offset : offset+8]))
	p.Lat = math.Float64frombits(order.Uint64(data[offset+8 : offset+16]))
	return nil
}
