package geom

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeEWKB(lon, lat float64, withSRID bool) string {
	buf := make([]byte, 0, 25)
	buf = append(buf, 1) // little endian
	geomType := uint32(wkbPoint)
	if withSRID {
		geomType |= ewkbSRIDFlag
	}
	buf = binary.LittleEndian.AppendUint32(buf, geomType)
	if withSRID {
		buf = binary.LittleEndian.AppendUint32(buf, SRID)
	}
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(lon))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(lat))
	return hex.EncodeToString(buf)
}

func TestPointScanHexEWKB(t *testing.T) {
	var p Point
	require.NoError(t, p.Scan(encodeEWKB(-64.19, -31.42, true)))
	assert.InDelta(t, -64.19, p.Lon, 1e-9)
	assert.InDelta(t, -31.42, p.Lat, 1e-9)
}

func TestPointScanEWKBWithoutSRID(t *testing.T) {
	var p Point
	require.NoError(t, p.Scan([]byte(encodeEWKB(12.5, 41.9, false))))
	assert.InDelta(t, 12.5, p.Lon, 1e-9)
	assert.InDelta(t, 41.9, p.Lat, 1e-9)
}

func TestPointEWKTRoundTrip(t *testing.T) {
	orig := NewPoint(-64.19, -31.42)

	var parsed Point
	require.NoError(t, parsed.Scan(orig.EWKT()))
	assert.Equal(t, orig.Lon, parsed.Lon)
	assert.Equal(t, orig.Lat, parsed.Lat)
}

func TestPointScanRejectsGarbage(t *testing.T) {
	var p Point
	assert.Error(t, p.Scan("not-a-geometry"))
	assert.Error(t, p.Scan(42))
	// LINESTRING wkb type id is 2
	buf := make([]byte, 21)
	buf[0] = 1
	binary.LittleEndian.PutUint32(buf[1:5], 2)
	assert.Error(t, p.Scan(hex.EncodeToString(buf)))
}
