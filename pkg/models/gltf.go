package models

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/cgwork/pkg/math3d"
	"github.com/taigrr/cgwork/pkg/render"
	"github.com/taigrr/cgwork/pkg/scene"
)

// GLTFSource yields one ObjectRecord per mesh primitive of a glTF document.
// Triangle lists, strips and fans become triangles; points and lines are
// reported as unsupported.
type GLTFSource struct {
	doc  *gltf.Document
	mesh int
	prim int
}

// NewGLTFSource creates a source over an already decoded document.
func NewGLTFSource(doc *gltf.Document) *GLTFSource {
	return &GLTFSource{doc: doc}
}

// OpenGLTF opens a .gltf or .glb file.
func OpenGLTF(path string) (*GLTFSource, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return NewGLTFSource(doc), nil
}

// LoadGLTF loads the file at path as one figure named after the file.
func LoadGLTF(world *scene.World, path string, opts Options) (*scene.Figure, *Report, error) {
	src, err := OpenGLTF(path)
	if err != nil {
		return nil, nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewLoader(opts).Load(world, name, src)
}

// Next returns the record for the next primitive or io.EOF. A primitive that
// cannot be decoded comes back with Err set instead of failing the source.
func (s *GLTFSource) Next() (*ObjectRecord, error) {
	for s.mesh < len(s.doc.Meshes) {
		m := s.doc.Meshes[s.mesh]
		if s.prim >= len(m.Primitives) {
			s.mesh++
			s.prim = 0
			continue
		}

		name := m.Name
		if name == "" {
			name = fmt.Sprintf("mesh%d", s.mesh)
		}
		if len(m.Primitives) > 1 {
			name = fmt.Sprintf("%s/%d", name, s.prim)
		}

		prim := m.Primitives[s.prim]
		s.prim++

		rec := &ObjectRecord{
			Name:       name,
			Kind:       KindPolygonal,
			Attributes: s.attributes(name, prim),
		}
		if err := s.primitive(rec, prim); err != nil {
			rec.Polygons = nil
			rec.Err = fmt.Errorf("%w: %w", ErrMalformedObject, err)
		}
		return rec, nil
	}
	return nil, io.EOF
}

// primitive fills rec with the triangles of prim. Any error means the
// primitive's accessors are inconsistent and rec must be discarded.
func (s *GLTFSource) primitive(rec *ObjectRecord, prim *gltf.Primitive) error {
	switch prim.Mode {
	case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
	default:
		rec.Kind = KindUnsupported
		return nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return fmt.Errorf("no %s attribute", gltf.POSITION)
	}
	posAcc, err := s.accessor(posIdx)
	if err != nil {
		return err
	}
	positions, err := modeler.ReadPosition(s.doc, posAcc, nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normAcc, err := s.accessor(normIdx)
		if err != nil {
			return err
		}
		normals, err = modeler.ReadNormal(s.doc, normAcc, nil)
		if err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		idxAcc, err := s.accessor(*prim.Indices)
		if err != nil {
			return err
		}
		indices, err = modeler.ReadIndices(s.doc, idxAcc, nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		// No indices, vertices are used in order
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for _, tri := range triangulate(prim.Mode, indices) {
		poly := PolygonRecord{Vertices: make([]VertexRecord, 0, 3)}
		for _, idx := range tri {
			if int(idx) >= len(positions) {
				return fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
			}
			p := positions[idx]
			v := VertexRecord{Coord: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))}
			if int(idx) < len(normals) {
				n := normals[idx]
				v.Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))
				v.HasNormal = true
			}
			poly.Vertices = append(poly.Vertices, v)
		}
		rec.Polygons = append(rec.Polygons, poly)
	}
	return nil
}

func (s *GLTFSource) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(s.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range (%d accessors)", idx, len(s.doc.Accessors))
	}
	return s.doc.Accessors[idx], nil
}

// triangulate expands list, strip and fan index streams into triangles,
// keeping counter-clockwise winding.
func triangulate(mode gltf.PrimitiveMode, indices []uint32) [][3]uint32 {
	var tris [][3]uint32
	switch mode {
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(indices); i++ {
			if i%2 == 0 {
				tris = append(tris, [3]uint32{indices[i], indices[i+1], indices[i+2]})
			} else {
				tris = append(tris, [3]uint32{indices[i+1], indices[i], indices[i+2]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(indices); i++ {
			tris = append(tris, [3]uint32{indices[0], indices[i], indices[i+1]})
		}
	default:
		for i := 0; i+2 < len(indices); i += 3 {
			tris = append(tris, [3]uint32{indices[i], indices[i+1], indices[i+2]})
		}
	}
	return tris
}

// attributes maps the primitive's material onto object attributes.
func (s *GLTFSource) attributes(name string, prim *gltf.Primitive) scene.Attributes {
	attrs := scene.Attributes{Name: name}
	if prim.Material == nil || *prim.Material >= len(s.doc.Materials) {
		return attrs
	}

	mat := s.doc.Materials[*prim.Material]
	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		return attrs
	}

	c := pbr.BaseColorFactorOrDefault()
	attrs.Color = render.FromUnit(c[0], c[1], c[2], 1)
	attrs.HasColor = true
	if mat.AlphaMode != gltf.AlphaOpaque {
		attrs.Transparency = 1 - c[3]
	}
	if pbr.BaseColorTexture != nil {
		attrs.Texture = s.textureName(pbr.BaseColorTexture.Index)
	}
	return attrs
}

func (s *GLTFSource) textureName(idx int) string {
	if idx < 0 || idx >= len(s.doc.Textures) {
		return ""
	}
	tex := s.doc.Textures[idx]
	if tex.Source == nil || *tex.Source >= len(s.doc.Images) {
		return tex.Name
	}
	img := s.doc.Images[*tex.Source]
	if img.URI != "" && !img.IsEmbeddedResource() {
		return img.URI
	}
	return img.Name
}
