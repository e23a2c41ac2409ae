// Package models turns model sources into scene figures. A Source yields
// one ObjectRecord at a time; the Loader builds the scene hierarchy from
// them and reports what it had to skip.
package models

import (
	"fmt"
	"io"

	"github.com/taigrr/cgwork/pkg/math3d"
	"github.com/taigrr/cgwork/pkg/scene"
)

// Kind classifies the geometry of an ObjectRecord.
type Kind int

const (
	KindPolygonal Kind = iota
	// KindUnsupported covers geometry the scene cannot hold, such as
	// curves, surfaces, points and lines.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindPolygonal:
		return "polygonal"
	case KindUnsupported:
		return "unsupported"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// VertexRecord is one vertex as delivered by a source.
type VertexRecord struct {
	Coord     math3d.Vec3
	Normal    math3d.Vec3
	HasNormal bool
}

// PolygonRecord is one polygon as delivered by a source.
type PolygonRecord struct {
	Vertices []VertexRecord
	Plane    math3d.Vec3
	HasPlane bool
}

// ObjectRecord is one object as delivered by a source. A source that could
// not decode an object sets Err and leaves Polygons empty; the rest of the
// source is still readable.
type ObjectRecord struct {
	Name       string
	Kind       Kind
	Polygons   []PolygonRecord
	Attributes scene.Attributes
	Err        error
}

// Source yields object records until it returns io.EOF.
type Source interface {
	Next() (*ObjectRecord, error)
}

// SliceSource serves records from memory.
type SliceSource struct {
	records []ObjectRecord
	next    int
}

// NewSliceSource creates a source over records.
func NewSliceSource(records ...ObjectRecord) *SliceSource {
	return &SliceSource{records: records}
}

// Next returns the next record or io.EOF.
func (s *SliceSource) Next() (*ObjectRecord, error) {
	if s.next >= len(s.records) {
		return nil, io.EOF
	}
	rec := &s.records[s.next]
	s.next++
	return rec, nil
}
