package scene

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oliverbestmann/earcut-go"
	"github.com/oliverbestmann/glare/glm"
)

// LoadOBJ reads a wavefront object file from disk. Only the geometry
// statements (v, vn, f, o/g) are interpreted; materials and texture
// coordinates are skipped.
func LoadOBJ(path string) (*Mesh, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene file: %w", err)
	}

	defer fp.Close()

	start := time.Now()

	mesh, err := ReadOBJ(fp)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}

	slog.Info("Loaded wavefront scene",
		slog.String("path", path),
		slog.Int("triangles", mesh.TriangleCount()),
		slog.Duration("duration", time.Since(start)))

	return mesh, nil
}

type objParser struct {
	positions []glm.Vec3
	normals   []glm.Vec3

	// vertex deduplication over position/normal index pairs
	lookup map[[2]int32]uint32

	mesh        Mesh
	needNormals bool
}

// ReadOBJ parses a wavefront object stream into a single mesh. Faces
// with more than three corners are triangulated. Vertices without a
// normal reference get a computed smooth normal.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	p := &objParser{lookup: map[[2]int32]uint32{}}

	lineNum := 0
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineNum++

		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}

		if err := p.statement(tokens); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}

	if len(p.mesh.Indices) == 0 {
		return nil, fmt.Errorf("no faces defined")
	}

	if p.needNormals {
		p.mesh.ComputeNormals()
	}

	return &p.mesh, nil
}

func (p *objParser) statement(tokens []string) error {
	switch tokens[0] {
	case "v":
		pos, err := parseVec3(tokens[1:])
		if err != nil {
			return fmt.Errorf("vertex position: %w", err)
		}

		p.positions = append(p.positions, pos)

	case "vn":
		normal, err := parseVec3(tokens[1:])
		if err != nil {
			return fmt.Errorf("vertex normal: %w", err)
		}

		p.normals = append(p.normals, normal)

	case "f":
		if err := p.face(tokens[1:]); err != nil {
			return fmt.Errorf("face: %w", err)
		}

	case "o", "g":
		if p.mesh.Name == "" && len(tokens) > 1 {
			p.mesh.Name = tokens[1]
		}
	}

	// all other statements (mtllib, usemtl, vt, s, ...) are skipped

	return nil
}

func parseVec3(tokens []string) (glm.Vec3, error) {
	if len(tokens) < 3 {
		return glm.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(tokens))
	}

	var vec glm.Vec3

	for i := 0; i < 3; i++ {
		value, err := strconv.ParseFloat(tokens[i], 32)
		if err != nil {
			return glm.Vec3{}, fmt.Errorf("component %d: %w", i, err)
		}

		vec[i] = float32(value)
	}

	return vec, nil
}

func (p *objParser) face(corners []string) error {
	if len(corners) < 3 {
		return fmt.Errorf("needs at least 3 corners, got %d", len(corners))
	}

	indices := make([]uint32, 0, len(corners))

	for _, corner := range corners {
		idx, err := p.vertex(corner)
		if err != nil {
			return err
		}

		indices = append(indices, idx)
	}

	if len(indices) == 3 {
		p.mesh.Indices = append(p.mesh.Indices, indices...)
		return nil
	}

	return p.triangulate(indices)
}

// triangulate converts an n-gon into triangles by projecting it onto
// the plane it spans the most and running ear cutting on the result.
func (p *objParser) triangulate(indices []uint32) error {
	normal := polygonNormal(p.mesh.Vertices, indices)

	// drop the dominant normal axis to flatten the polygon
	drop := 0
	for i := 1; i < 3; i++ {
		if abs32(normal[i]) > abs32(normal[drop]) {
			drop = i
		}
	}

	flat := make([]earcut.Point[float64], 0, len(indices))

	for _, idx := range indices {
		pos := p.mesh.Vertices[idx].Pos

		var xy [2]float64
		n := 0
		for axis := 0; axis < 3; axis++ {
			if axis != drop {
				xy[n] = float64(pos[axis])
				n++
			}
		}

		flat = append(flat, earcut.Point[float64]{X: xy[0], Y: xy[1]})
	}

	_, triangles := earcut.Triangulate(flat, nil)
	if len(triangles) == 0 {
		return fmt.Errorf("degenerate polygon with %d corners", len(indices))
	}

	for _, corner := range triangles {
		p.mesh.Indices = append(p.mesh.Indices, indices[corner])
	}

	return nil
}

// vertex resolves one "v", "v/vt", "v//vn" or "v/vt/vn" face corner
// into a mesh vertex index, deduplicating equal corners.
func (p *objParser) vertex(corner string) (uint32, error) {
	parts := strings.Split(corner, "/")

	posIdx, err := resolveIndex(parts[0], len(p.positions))
	if err != nil {
		return 0, fmt.Errorf("corner %q: %w", corner, err)
	}

	normalIdx := int32(-1)

	if len(parts) == 3 && parts[2] != "" {
		idx, err := resolveIndex(parts[2], len(p.normals))
		if err != nil {
			return 0, fmt.Errorf("corner %q: %w", corner, err)
		}

		normalIdx = idx
	} else {
		p.needNormals = true
	}

	key := [2]int32{posIdx, normalIdx}
	if idx, ok := p.lookup[key]; ok {
		return idx, nil
	}

	vertex := Vertex{Pos: p.positions[posIdx]}
	if normalIdx >= 0 {
		vertex.Normal = p.normals[normalIdx]
	}

	idx := uint32(len(p.mesh.Vertices))
	p.mesh.Vertices = append(p.mesh.Vertices, vertex)
	p.lookup[key] = idx

	return idx, nil
}

// resolveIndex converts a one based wavefront index, possibly negative
// for relative addressing, into a zero based index.
func resolveIndex(token string, count int) (int32, error) {
	value, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("index: %w", err)
	}

	switch {
	case value > 0 && value <= count:
		return int32(value - 1), nil
	case value < 0 && -value <= count:
		return int32(count + value), nil
	default:
		return 0, fmt.Errorf("index %d out of range, have %d elements", value, count)
	}
}

func polygonNormal(vertices []Vertex, indices []uint32) glm.Vec3 {
	// Newell's method, robust for non convex polygons
	var normal glm.Vec3

	for i, idx := range indices {
		curr := vertices[idx].Pos
		next := vertices[indices[(i+1)%len(indices)]].Pos

		normal[0] += (curr[1] - next[1]) * (curr[2] + next[2])
		normal[1] += (curr[2] - next[2]) * (curr[0] + next[0])
		normal[2] += (curr[0] - next[0]) * (curr[1] + next[1])
	}

	return normal
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}

	return v
}
