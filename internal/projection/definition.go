// =============================================================================
// Coordinate Converter - Projection Definitions
// =============================================================================
//
// This module describes the coordinate systems the converter supports. Each
// Definition carries display metadata (name, EPSG code, axis labels), the
// numeric output convention and the PROJ pipeline used to reach the common
// geodetic pivot (WGS84 longitude/latitude in radians).
//
// SUPPORTED SYSTEMS:
//   R  RT90 2.5 gon V   (EPSG:3021)  Y / X      integer meters
//   S  SWEREF 99 TM     (EPSG:3006)  N / E      integer meters
//   W  WGS 84           (EPSG:4326)  LAT / LONG real degrees
//
// =============================================================================

package projection

import (
	"math"
	"strconv"
)

// =============================================================================
// NUMERIC FORMAT
// =============================================================================

// Format is the numeric convention used when writing a coordinate value.
type Format int

const (
	// IntegerFormat writes whole units, truncated toward zero.
	IntegerFormat Format = iota

	// RealFormat writes the shortest decimal text that reads back to the
	// same float64.
	RealFormat
)

// Format renders v according to the convention.
func (f Format) Format(v float64) string {
	switch f {
	case IntegerFormat:
		return strconv.FormatInt(int64(math.Trunc(v)), 10)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// String returns the convention name used in logs.
func (f Format) String() string {
	switch f {
	case IntegerFormat:
		return "integer"
	case RealFormat:
		return "real"
	default:
		return "unknown"
	}
}

// =============================================================================
// DEFINITION
// =============================================================================

// Definition is an immutable description of one supported coordinate system.
// Definitions are built once by NewRegistry and shared read-only.
type Definition struct {
	// ID is the short selection code: "R", "S" or "W".
	ID string

	// Key is the long-form name used in invocation names, e.g. "rt90".
	Key string

	// Name is the display name, e.g. "RT90".
	Name string

	// Description is a one-line human readable description.
	Description string

	// EPSG is the EPSG registry code of the system.
	EPSG string

	// YLabel is the header label of the first output coordinate column.
	YLabel string

	// XLabel is the header label of the second output coordinate column.
	XLabel string

	// Format is the numeric convention of values in this system.
	Format Format

	// Pipeline is the PROJ definition mapping native coordinates (forward)
	// to WGS84 geodetic longitude/latitude in radians.
	Pipeline string

	handle Handle
}

// Handle returns the transform handle opened for this definition.
func (d *Definition) Handle() Handle {
	return d.handle
}

// =============================================================================
// CATALOG
// =============================================================================

// catalog returns fresh copies of the supported definitions in listing order.
//
// RT90 is expressed directly on GRS80 with Lantmäteriet's fitted Gauss-Krüger
// parameters, so no separate datum shift step is needed.
func catalog() []*Definition {
	return []*Definition{
		{
			ID:          "R",
			Key:         "rt90",
			Name:        "RT90",
			Description: "Rikets koordinatsystem 1990, Sweden's old standard",
			EPSG:        "3021",
			YLabel:      "Y",
			XLabel:      "X",
			Format:      IntegerFormat,
			Pipeline: "+proj=pipeline " +
				"+step +inv +proj=tmerc +lat_0=0 +lon_0=15.806284529 " +
				"+k=1.00000561024 +x_0=1500064.274 +y_0=-667.711 +ellps=GRS80",
		},
		{
			ID:          "S",
			Key:         "sweref99",
			Name:        "SWEREF99",
			Description: "Swedish Reference Frame 1999, Lantmäteriverket, ETRS89",
			EPSG:        "3006",
			YLabel:      "N",
			XLabel:      "E",
			Format:      IntegerFormat,
			Pipeline: "+proj=pipeline " +
				"+step +inv +proj=utm +zone=33 +ellps=GRS80",
		},
		{
			ID:          "W",
			Key:         "wgs84",
			Name:        "WGS84",
			Description: "World Geodetic System, GPS, Google Maps",
			EPSG:        "4326",
			YLabel:      "LAT",
			XLabel:      "LONG",
			Format:      RealFormat,
			Pipeline:    "+proj=unitconvert +xy_in=deg +xy_out=rad",
		},
	}
}
