package scene

import (
	"math"
	"strings"
	"testing"
)

const cubeFaceOBJ = `
# a single quad with explicit normals
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`

func TestReadOBJQuad(t *testing.T) {
	mesh, err := ReadOBJ(strings.NewReader(cubeFaceOBJ))
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}

	if mesh.Name != "quad" {
		t.Errorf("Name = %q, want quad", mesh.Name)
	}

	if got := mesh.TriangleCount(); got != 2 {
		t.Fatalf("TriangleCount = %d, want 2 for a quad", got)
	}

	// all corners share the same normal, dedup keeps 4 vertices
	if got := len(mesh.Vertices); got != 4 {
		t.Errorf("vertex count = %d, want 4", got)
	}

	for i, v := range mesh.Vertices {
		if v.Normal != [3]float32{0, 0, 1} {
			t.Errorf("vertex %d normal = %v, want +z", i, v.Normal)
		}
	}
}

func TestReadOBJNegativeIndices(t *testing.T) {
	const src = `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`

	mesh, err := ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}

	if got := mesh.TriangleCount(); got != 1 {
		t.Fatalf("TriangleCount = %d, want 1", got)
	}

	if mesh.Vertices[mesh.Indices[0]].Pos != [3]float32{0, 0, 0} {
		t.Errorf("relative indices resolved to the wrong vertices")
	}
}

func TestReadOBJComputesMissingNormals(t *testing.T) {
	const src = `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

	mesh, err := ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}

	for i, v := range mesh.Vertices {
		if math.Abs(float64(v.Normal[2])-1) > 1e-5 {
			t.Errorf("vertex %d normal = %v, want computed +z", i, v.Normal)
		}
	}
}

func TestReadOBJErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"no faces", "v 0 0 0\nv 1 0 0\nv 0 1 0\n"},
		{"index out of range", "v 0 0 0\nf 1 2 3\n"},
		{"short position", "v 1 2\n"},
		{"bad number", "v a b c\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
	}

	for _, tc := range cases {
		if _, err := ReadOBJ(strings.NewReader(tc.src)); err == nil {
			t.Errorf("%s: parse succeeded, want error", tc.name)
		}
	}
}

func TestMergeRebasesIndices(t *testing.T) {
	a, err := ReadOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}

	b, err := ReadOBJ(strings.NewReader("v 2 0 0\nv 3 0 0\nv 2 1 0\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}

	merged := Merge(a, b)

	if got := merged.TriangleCount(); got != 2 {
		t.Fatalf("TriangleCount = %d, want 2", got)
	}

	if got := merged.Vertices[merged.Indices[3]].Pos; got != [3]float32{2, 0, 0} {
		t.Errorf("second mesh indices not rebased, first vertex = %v", got)
	}
}

func TestSampleScene(t *testing.T) {
	mesh := Sample()

	if mesh.TriangleCount() == 0 {
		t.Fatalf("sample scene is empty")
	}

	for i, v := range mesh.Vertices {
		length := v.Normal.Length()
		if math.Abs(float64(length)-1) > 1e-2 {
			t.Fatalf("vertex %d normal length = %v, want unit", i, length)
		}
	}
}

func TestSphereBounds(t *testing.T) {
	mesh := Sphere([3]float32{1, 2, 3}, 0.5, 16)

	lo, hi := mesh.Bounds()

	for i := range lo {
		span := float64(hi[i] - lo[i])
		if math.Abs(span-1) > 1e-2 {
			t.Errorf("axis %d span = %v, want ~1 for radius 0.5", i, span)
		}
	}
}
