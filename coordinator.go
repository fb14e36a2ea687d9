package floorplan

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tdewolff/floorplan/clip"
	"github.com/tdewolff/floorplan/transact"
)

// Coordinator rebuilds the derived topology of layers and roofs with the polygon kernel. It runs synchronously inside the commit of a request; it never transacts entities itself, so the caller must transact a layer or roof before rebuilding it.
type Coordinator struct {
	doc    *Document
	opts   clip.Options
	logger *slog.Logger
}

// NewCoordinator returns a coordinator over the entities of doc.
func NewCoordinator(doc *Document, opts clip.Options, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		doc:    doc,
		opts:   opts,
		logger: logger,
	}
}

// kernelError maps errors of the polygon kernel onto the error categories of package transact.
func kernelError(err error, format string, args ...any) error {
	switch {
	case errors.Is(err, clip.ErrResource), errors.Is(err, clip.ErrSolutionReleased):
		return transact.KernelResourcef(err, format, args...)
	case errors.Is(err, clip.ErrInvalidRing), errors.Is(err, clip.ErrCoordinateRange):
		return fmt.Errorf("%w: %s: %w", transact.ErrValidation, fmt.Sprintf(format, args...), err)
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Solids returns the solid members of a layer in z-order.
func (c *Coordinator) Solids(l *Layer) ([]Solid, error) {
	solids := make([]Solid, 0, len(l.Members))
	for _, id := range l.Members {
		s, err := c.doc.Solid(id)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", l.ID(), err)
		}
		solids = append(solids, s)
	}
	return solids, nil
}

// RebuildLayer derives the faces and holes of a layer. First the outlines of all solid members are united, then the union is subtracted from the layer's boundary to find the holes. Without a boundary, the holes are the gaps that the union encloses.
func (c *Coordinator) RebuildLayer(l *Layer) error {
	solids, err := c.Solids(l)
	if err != nil {
		return err
	}
	outlines := make([]clip.Ring, 0, len(solids))
	for _, s := range solids {
		outlines = append(outlines, s.Outline().Ring())
	}

	union, err := clip.Boolean(outlines, nil, clip.Union, c.opts)
	if err != nil {
		return kernelError(err, "union of layer %s", l.ID())
	}

	var holes []clip.Ring
	if len(l.Boundary) != 0 {
		diff, err := clip.Boolean([]clip.Ring{l.Boundary.Ring()}, union.Rings(), clip.Difference, c.opts)
		if err != nil {
			return kernelError(err, "holes of layer %s", l.ID())
		}
		holes = diff.Rings()
	} else {
		for _, hole := range union.Holes() {
			holes = append(holes, reversed(hole))
		}
	}

	l.Faces = polylinesFromRings(union.Rings())
	l.Holes = polylinesFromRings(holes)
	c.logger.Debug("rebuild layer", "layer", l.ID(), "solids", len(solids), "faces", len(l.Faces), "holes", len(l.Holes))
	return nil
}

// reversed returns r in opposite direction, starting at the same point.
func reversed(r clip.Ring) clip.Ring {
	q := make(clip.Ring, 0, len(r))
	if 0 < len(r) {
		q = append(q, r[0])
	}
	for i := len(r) - 1; 0 < i; i-- {
		q = append(q, r[i])
	}
	return q
}

// RebuildRoof derives the faces and holes of a roof: the faces are the contour minus the union of the openings and the holes are the parts of the openings inside the contour.
func (c *Coordinator) RebuildRoof(r *Roof) error {
	contour := []clip.Ring{r.Contour.Ring()}
	openings := polylinesToRings(r.Openings)

	faces, err := clip.Boolean(contour, openings, clip.Difference, c.opts)
	if err != nil {
		return kernelError(err, "faces of roof %s", r.ID())
	}
	holes, err := clip.Boolean(contour, openings, clip.Intersection, c.opts)
	if err != nil {
		return kernelError(err, "holes of roof %s", r.ID())
	}

	r.Faces = polylinesFromRings(faces.Rings())
	r.Holes = polylinesFromRings(holes.Rings())
	c.logger.Debug("rebuild roof", "roof", r.ID(), "faces", len(r.Faces), "holes", len(r.Holes))
	return nil
}
