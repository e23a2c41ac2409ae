package models

import (
	"github.com/taigrr/cgwork/pkg/math3d"
	"github.com/taigrr/cgwork/pkg/render"
)

// boxFaces lists each face of a box as indices into render.BoxCorners,
// counter-clockwise seen from outside, with its outward normal.
var boxFaces = [6]struct {
	corners [4]int
	normal  math3d.Vec3
}{
	{[4]int{0, 3, 2, 1}, math3d.V3(0, 0, -1)},
	{[4]int{4, 5, 6, 7}, math3d.V3(0, 0, 1)},
	{[4]int{0, 1, 5, 4}, math3d.V3(0, -1, 0)},
	{[4]int{3, 7, 6, 2}, math3d.V3(0, 1, 0)},
	{[4]int{1, 2, 6, 5}, math3d.V3(1, 0, 0)},
	{[4]int{0, 4, 7, 3}, math3d.V3(-1, 0, 0)},
}

// Box returns a polygonal record for the axis-aligned box [lo, hi] with
// one quad per face. Faces carry plane normals and every vertex carries its
// face normal.
func Box(name string, lo, hi math3d.Vec3) ObjectRecord {
	corners := render.BoxCorners(lo.Min(hi), lo.Max(hi))
	rec := ObjectRecord{Name: name, Kind: KindPolygonal}
	for _, face := range boxFaces {
		poly := PolygonRecord{Plane: face.normal, HasPlane: true}
		for _, i := range face.corners {
			poly.Vertices = append(poly.Vertices, VertexRecord{
				Coord:     corners[i],
				Normal:    face.normal,
				HasNormal: true,
			})
		}
		rec.Polygons = append(rec.Polygons, poly)
	}
	return rec
}

// Cube returns a box of the given edge length centered at the origin.
func Cube(name string, size float64) ObjectRecord {
	h := size / 2
	return Box(name, math3d.V3(-h, -h, -h), math3d.V3(h, h, h))
}
