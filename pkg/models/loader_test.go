package models

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/taigrr/cgwork/pkg/math3d"
	"github.com/taigrr/cgwork/pkg/scene"
)

type failingSource struct {
	records []ObjectRecord
	err     error
}

func (s *failingSource) Next() (*ObjectRecord, error) {
	if len(s.records) == 0 {
		return nil, s.err
	}
	rec := &s.records[0]
	s.records = s.records[1:]
	return rec, nil
}

func TestLoadCube(t *testing.T) {
	w := scene.NewWorld()
	fig, report, err := NewLoader(Options{}).Load(w, "cube", NewSliceSource(Cube("cube", 1)))
	if err != nil {
		t.Fatal(err)
	}

	if report.Objects != 1 || report.Polygons != 6 || report.Points != 24 {
		t.Errorf("report = %+v, want 1 object, 6 polygons, 24 points", report)
	}
	if len(report.Warnings) != 0 || report.Err() != nil {
		t.Errorf("unexpected warnings %v or errors %v", report.Warnings, report.Err())
	}

	want := scene.NewBoundingBox(math3d.V3(-0.5, -0.5, -0.5), math3d.V3(0.5, 0.5, 0.5))
	for name, got := range map[string]scene.BoundingBox{"figure": fig.Bounds(), "world": w.Bounds()} {
		if got.Min != want.Min || got.Max != want.Max {
			t.Errorf("%s bounds = %v..%v, want ±0.5", name, got.Min, got.Max)
		}
	}
	if len(w.Figures()) != 1 || w.Figures()[0] != fig {
		t.Error("figure not appended to the world")
	}
	if fig.Name != "cube" || fig.Objects()[0].Attributes.Name != "cube" {
		t.Errorf("names = %q / %q", fig.Name, fig.Objects()[0].Attributes.Name)
	}
}

func TestLoadSkipsUnsupported(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	w := scene.NewWorld()
	src := NewSliceSource(
		Cube("first", 1),
		ObjectRecord{Name: "curve", Kind: KindUnsupported},
		Cube("last", 2),
	)
	fig, report, err := NewLoader(Options{Logger: logger}).Load(w, "mixed", src)
	if err != nil {
		t.Fatal(err)
	}

	if len(fig.Objects()) != 2 {
		t.Fatalf("objects = %d, want 2", len(fig.Objects()))
	}
	if fig.Objects()[1].Attributes.Name != "last" {
		t.Errorf("second object = %q, want last", fig.Objects()[1].Attributes.Name)
	}
	if len(report.Warnings) != 1 || !errors.Is(report.Warnings[0], ErrUnsupportedObject) {
		t.Errorf("warnings = %v, want one ErrUnsupportedObject", report.Warnings)
	}
	if !strings.Contains(buf.String(), "skipping non-polygonal object") {
		t.Errorf("warning not logged: %s", buf.String())
	}
}

func TestLoadEmptyPolygon(t *testing.T) {
	rec := Cube("holey", 1)
	rec.Polygons = append(rec.Polygons[:2], append([]PolygonRecord{{}}, rec.Polygons[2:]...)...)

	w := scene.NewWorld()
	fig, report, err := NewLoader(Options{}).Load(w, "holey", NewSliceSource(rec))
	if err != nil {
		t.Fatal(err)
	}

	if !errors.Is(report.Err(), scene.ErrEmptyPolygon) {
		t.Errorf("report errors = %v, want ErrEmptyPolygon", report.Err())
	}
	if !strings.Contains(report.Err().Error(), "polygon 2") {
		t.Errorf("error %q does not name the polygon", report.Err())
	}
	if got := fig.Objects()[0].Len(); got != 6 {
		t.Errorf("polygons loaded = %d, want 6", got)
	}
	for i, p := range fig.Objects()[0].Polygons() {
		if p.Len() == 0 {
			t.Errorf("polygon %d is empty", i)
		}
	}
}

func TestLoadSourceErrorIsFatal(t *testing.T) {
	boom := errors.New("truncated file")
	src := &failingSource{records: []ObjectRecord{Cube("a", 1)}, err: boom}

	w := scene.NewWorld()
	fig, _, err := NewLoader(Options{}).Load(w, "broken", src)
	if !errors.Is(err, boom) {
		t.Fatalf("Load() = %v, want %v", err, boom)
	}
	if fig != nil {
		t.Error("failed load returned a figure")
	}
	if !w.IsEmpty() || !w.Bounds().IsEmpty() {
		t.Error("failed load modified the world")
	}
}

func TestLoadNormals(t *testing.T) {
	tri := ObjectRecord{
		Name: "tri",
		Polygons: []PolygonRecord{{Vertices: []VertexRecord{
			{Coord: math3d.V3(0, 0, 0)},
			{Coord: math3d.V3(1, 0, 0)},
			{Coord: math3d.V3(0, 1, 0), Normal: math3d.V3(0, 0, 1), HasNormal: true},
		}}},
	}

	tests := []struct {
		name    string
		compute bool
		want    scene.NormalKind
	}{
		{"left alone", false, scene.NormalNone},
		{"computed", true, scene.NormalComputed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fig, _, err := NewLoader(Options{ComputeNormals: tc.compute}).
				Load(scene.NewWorld(), "tri", NewSliceSource(tri))
			if err != nil {
				t.Fatal(err)
			}
			p := fig.Objects()[0].Polygons()[0]
			if _, kind := p.PlaneNormal(); kind != tc.want {
				t.Errorf("normal kind = %v, want %v", kind, tc.want)
			}
			pts := p.Points()
			if pts[0].HasNormal || !pts[2].HasNormal {
				t.Error("vertex normals not carried through")
			}
		})
	}

	t.Run("source plane wins", func(t *testing.T) {
		fig, _, err := NewLoader(Options{ComputeNormals: true}).
			Load(scene.NewWorld(), "cube", NewSliceSource(Cube("cube", 1)))
		if err != nil {
			t.Fatal(err)
		}
		n, kind := fig.Objects()[0].Polygons()[1].PlaneNormal()
		if kind != scene.NormalFromSource || n != math3d.V3(0, 0, 1) {
			t.Errorf("normal = %v (%v), want +Z from source", n, kind)
		}
	})
}

func TestSliceSource(t *testing.T) {
	src := NewSliceSource(Cube("a", 1), Cube("b", 1))
	var names []string
	for {
		rec, err := src.Next()
		if err != nil {
			break
		}
		names = append(names, rec.Name)
	}
	if strings.Join(names, ",") != "a,b" {
		t.Errorf("records = %v, want [a b]", names)
	}
}

func TestBoxFacesPointOutward(t *testing.T) {
	rec := Box("box", math3d.V3(2, 2, 2), math3d.V3(-1, -1, -1))

	for i, poly := range rec.Polygons {
		p := scene.NewPolygon()
		for _, v := range poly.Vertices {
			p.AddPoint(scene.NewPoint(v.Coord.X, v.Coord.Y, v.Coord.Z))
		}
		if !p.ComputeNormal() {
			t.Fatalf("face %d is degenerate", i)
		}
		n, _ := p.PlaneNormal()
		if n.Distance(poly.Plane) > 1e-12 {
			t.Errorf("face %d winding normal %v, plane %v", i, n, poly.Plane)
		}
	}
}
