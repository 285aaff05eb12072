// =============================================================================
// Coordinate Converter - Geodesy Adapter
// =============================================================================
//
// This module wraps the PROJ library (through github.com/pebbe/proj/v5) and
// provides the transform handles used by the projection registry.
//
// Every handle is a PROJ pipeline whose forward direction maps a system's
// native coordinates to WGS84 geodetic longitude/latitude in radians. A
// conversion between two systems is therefore:
//
//   source.Fwd(y, x) -> (lon, lat) -> destination.Inv(lon, lat) -> (e, n)
//
// REQUIREMENTS:
//   PROJ version 5 or later must be installed (libproj + headers), since the
//   binding is built with cgo.
//
// =============================================================================

package geodesy

import (
	"errors"
	"fmt"

	"github.com/pebbe/proj/v5"

	"github.com/ginjaninja78/coordconv/internal/projection"
)

var errContextClosed = errors.New("geodesy context is closed")

// Context owns a PROJ context and every handle opened from it.
// It is not safe for concurrent use.
type Context struct {
	ctx *proj.Context
}

// NewContext creates a PROJ context.
func NewContext() *Context {
	return &Context{ctx: proj.NewContext()}
}

// Open creates a transform handle from a PROJ definition string.
// Open implements projection.Opener.
func (c *Context) Open(definition string) (projection.Handle, error) {
	if c.ctx == nil {
		return nil, errContextClosed
	}
	pj, err := c.ctx.Create(definition)
	if err != nil {
		return nil, fmt.Errorf("proj create: %w", err)
	}
	return &handle{pj: pj}, nil
}

// Close destroys the context and every handle opened from it.
func (c *Context) Close() {
	if c.ctx != nil {
		c.ctx.Close()
		c.ctx = nil
	}
}

// LibraryVersion reports the version of the linked PROJ library.
func LibraryVersion() string {
	return proj.Info().Version
}

// handle adapts a PROJ object to projection.Handle.
type handle struct {
	pj *proj.PJ
}

func (h *handle) ToGeodetic(u, v float64) (float64, float64, error) {
	lon, lat, _, _, err := h.pj.Trans(proj.Fwd, u, v, 0, 0)
	if err != nil {
		return 0, 0, err
	}
	return lon, lat, nil
}

func (h *handle) FromGeodetic(lon, lat float64) (float64, float64, error) {
	u, v, _, _, err := h.pj.Trans(proj.Inv, lon, lat, 0, 0)
	if err != nil {
		return 0, 0, err
	}
	return u, v, nil
}
