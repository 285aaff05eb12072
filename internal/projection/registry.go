// =============================================================================
// Coordinate Converter - Projection Registry
// =============================================================================
//
// The registry is the fixed catalog of supported coordinate systems. It is
// constructed once at startup, opens one transform handle per entry and is
// read-only afterwards, so it can be shared freely.
//
// LOOKUP KEYS:
//   - Short code: "R", "S", "W"
//   - Long name:  "rt90", "sweref99", "wgs84"
//   Both are matched case-insensitively.
//
// =============================================================================

package projection

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/coordconv/internal/types"
)

// =============================================================================
// TRANSFORM HANDLES
// =============================================================================

// Handle converts between a system's native coordinates and the geodetic
// pivot (WGS84 longitude/latitude in radians).
type Handle interface {
	// ToGeodetic maps native (u, v) to (lon, lat) radians.
	ToGeodetic(u, v float64) (lon, lat float64, err error)

	// FromGeodetic maps (lon, lat) radians to native (u, v).
	FromGeodetic(lon, lat float64) (u, v float64, err error)
}

// Opener opens a Handle from a PROJ definition string.
type Opener interface {
	Open(definition string) (Handle, error)
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry is the immutable catalog of supported coordinate systems.
type Registry struct {
	defs  []*Definition
	index map[string]*Definition
}

// NewRegistry builds the catalog and opens a handle for every entry.
//
// PARAMETERS:
//   - opener: Creates transform handles (see internal/geodesy).
//
// RETURNS:
//   - The registry, or a ConfigurationError if any handle cannot be opened.
func NewRegistry(opener Opener) (*Registry, error) {
	defs := catalog()
	r := &Registry{
		defs:  defs,
		index: make(map[string]*Definition, len(defs)*2),
	}

	for _, d := range defs {
		h, err := opener.Open(d.Pipeline)
		if err != nil {
			return nil, fmt.Errorf("%w: open %s (EPSG:%s): %w", types.ErrConfiguration, d.Name, d.EPSG, err)
		}
		d.handle = h
		r.index[strings.ToLower(d.ID)] = d
		r.index[d.Key] = d
	}

	return r, nil
}

// Lookup resolves a short code or long name to its Definition.
func (r *Registry) Lookup(id string) (*Definition, error) {
	if d, ok := r.index[strings.ToLower(strings.TrimSpace(id))]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: unknown projection %q (want one of %s)", types.ErrConfiguration, id, r.choices())
}

// All returns the definitions in listing order.
func (r *Registry) All() []*Definition {
	out := make([]*Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// List writes one line per definition.
//
// FORMAT:
//
//	R  RT90      Rikets koordinatsystem 1990, Sweden's old standard (EPSG:3021)
func (r *Registry) List(w io.Writer) error {
	for _, d := range r.defs {
		if _, err := fmt.Fprintf(w, "%s  %-10s%s (EPSG:%s)\n", d.ID, d.Name, d.Description, d.EPSG); err != nil {
			return err
		}
	}
	return nil
}

// FromInvocation infers the source and destination systems from the name the
// program was invoked under, e.g. "/usr/local/bin/rt90_wgs84".
//
// The base name is cut at the first "." and split on "_". When at least one of
// the first two parts is a known long name, both must resolve; otherwise the
// name carries no hint and ok is false.
func (r *Registry) FromInvocation(name string) (src, dst *Definition, ok bool, err error) {
	base := filepath.Base(name)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}

	parts := strings.Split(base, "_")
	if len(parts) < 2 {
		return nil, nil, false, nil
	}

	from, to := strings.ToLower(parts[0]), strings.ToLower(parts[1])
	_, knownFrom := r.byKey(from)
	_, knownTo := r.byKey(to)
	if !knownFrom && !knownTo {
		return nil, nil, false, nil
	}

	src, known := r.byKey(from)
	if !known {
		return nil, nil, false, fmt.Errorf("%w: invocation name %q: unknown system %q", types.ErrConfiguration, name, parts[0])
	}
	dst, known = r.byKey(to)
	if !known {
		return nil, nil, false, fmt.Errorf("%w: invocation name %q: unknown system %q", types.ErrConfiguration, name, parts[1])
	}

	return src, dst, true, nil
}

// byKey matches long names only.
func (r *Registry) byKey(key string) (*Definition, bool) {
	for _, d := range r.defs {
		if d.Key == key {
			return d, true
		}
	}
	return nil, false
}

func (r *Registry) choices() string {
	names := make([]string, 0, len(r.defs)*2)
	for _, d := range r.defs {
		names = append(names, d.ID, d.Key)
	}
	return strings.Join(names, ", ")
}

// =============================================================================
// TRANSFORM
// =============================================================================

// Transform converts a coordinate from src to dst.
//
// The pair is passed Y first: y is treated as the easting/longitude input and
// x as the northing/latitude input of the source system. The result comes back
// as (easting or longitude, northing or latitude) of the destination.
//
// Any handle failure or non-finite result is reported as ErrTransform.
func Transform(src, dst *Definition, y, x float64) (e, n float64, err error) {
	lon, lat, err := src.handle.ToGeodetic(y, x)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s to geodetic: %w", types.ErrTransform, src.Name, err)
	}
	if !finite(lon, lat) {
		return 0, 0, fmt.Errorf("%w: %s coordinate (%v, %v) outside valid domain", types.ErrTransform, src.Name, y, x)
	}

	e, n, err = dst.handle.FromGeodetic(lon, lat)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: geodetic to %s: %w", types.ErrTransform, dst.Name, err)
	}
	if !finite(e, n) {
		return 0, 0, fmt.Errorf("%w: %s cannot represent (%v, %v)", types.ErrTransform, dst.Name, y, x)
	}

	return e, n, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
