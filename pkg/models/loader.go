package models

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/taigrr/cgwork/pkg/math3d"
	"github.com/taigrr/cgwork/pkg/scene"
)

// ErrUnsupportedObject marks a record skipped because of its geometry kind.
var ErrUnsupportedObject = errors.New("models: unsupported object kind")

// ErrMalformedObject marks a record the source could not decode.
var ErrMalformedObject = errors.New("models: malformed object")

// Options configure a Loader.
type Options struct {
	// Logger receives skip warnings and per-figure summaries. Nil discards.
	Logger *slog.Logger
	// ComputeNormals derives plane normals for polygons that arrive
	// without one.
	ComputeNormals bool
}

// Report describes the outcome of one load.
type Report struct {
	Objects  int
	Polygons int
	Points   int

	// Warnings are records that were skipped on purpose.
	Warnings []error
	// Errors are malformed records. Their siblings were still loaded.
	Errors []error
}

// Err joins the recorded errors.
func (r *Report) Err() error {
	return errors.Join(r.Errors...)
}

// Context carries the state of one load through the call chain.
type Context struct {
	World  *scene.World
	Figure *scene.Figure
	Report *Report
	Logger *slog.Logger

	computeNormals bool
}

// Loader builds figures from sources.
type Loader struct {
	opts Options
}

// NewLoader creates a loader with the given options.
func NewLoader(opts Options) *Loader {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{opts: opts}
}

// Load reads src to the end into a new figure named name and appends it to
// world. A source error aborts the load and leaves world untouched;
// malformed or unsupported records are recorded in the report instead.
func (l *Loader) Load(world *scene.World, name string, src Source) (*scene.Figure, *Report, error) {
	ctx := &Context{
		World:          world,
		Figure:         scene.NewFigure(name),
		Report:         &Report{},
		Logger:         l.opts.Logger.With("figure", name),
		computeNormals: l.opts.ComputeNormals,
	}

	for i := 0; ; i++ {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, ctx.Report, fmt.Errorf("load %s: record %d: %w", name, i, err)
		}
		ctx.loadObject(i, rec)
	}

	if err := world.AddFigure(ctx.Figure); err != nil {
		return nil, ctx.Report, fmt.Errorf("load %s: %w", name, err)
	}
	ctx.Logger.Info("figure loaded",
		"objects", ctx.Report.Objects,
		"polygons", ctx.Report.Polygons,
		"points", ctx.Report.Points,
		"warnings", len(ctx.Report.Warnings),
		"errors", len(ctx.Report.Errors),
	)
	return ctx.Figure, ctx.Report, nil
}

func (ctx *Context) loadObject(idx int, rec *ObjectRecord) {
	if rec.Err != nil {
		ctx.Report.Errors = append(ctx.Report.Errors,
			fmt.Errorf("object %d (%s): %w", idx, rec.Name, rec.Err))
		ctx.Logger.Error("skipping malformed object", "object", rec.Name, "err", rec.Err)
		return
	}
	if rec.Kind != KindPolygonal {
		ctx.Report.Warnings = append(ctx.Report.Warnings,
			fmt.Errorf("object %d (%s): %w: %s", idx, rec.Name, ErrUnsupportedObject, rec.Kind))
		ctx.Logger.Warn("skipping non-polygonal object", "object", rec.Name, "kind", rec.Kind)
		return
	}

	obj := scene.NewObject()
	obj.Attributes = rec.Attributes
	if obj.Attributes.Name == "" {
		obj.Attributes.Name = rec.Name
	}
	for j := range rec.Polygons {
		if err := ctx.loadPolygon(obj, &rec.Polygons[j]); err != nil {
			ctx.Report.Errors = append(ctx.Report.Errors,
				fmt.Errorf("object %d (%s) polygon %d: %w", idx, rec.Name, j, err))
			ctx.Logger.Error("skipping polygon", "object", rec.Name, "polygon", j, "err", err)
		}
	}

	_ = ctx.Figure.AddObject(obj)
	ctx.Report.Objects++
}

// loadPolygon validates rec before touching the object so that a rejected
// polygon leaves no trace in the scene.
func (ctx *Context) loadPolygon(obj *scene.Object, rec *PolygonRecord) error {
	if len(rec.Vertices) == 0 {
		return scene.ErrEmptyPolygon
	}

	p := obj.NewPolygon()
	for _, v := range rec.Vertices {
		pt := scene.NewPoint(v.Coord.X, v.Coord.Y, v.Coord.Z)
		if v.HasNormal {
			pt.Normal = math3d.Direction(v.Normal)
			pt.HasNormal = true
		}
		p.AddPoint(pt)
	}
	ctx.Report.Polygons++
	ctx.Report.Points += len(rec.Vertices)

	switch {
	case rec.HasPlane:
		p.SetPlaneNormal(rec.Plane)
	case ctx.computeNormals:
		if !p.ComputeNormal() {
			ctx.Logger.Debug("degenerate polygon has no normal", "points", p.Len())
		}
	}
	return nil
}
