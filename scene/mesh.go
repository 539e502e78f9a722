// Package scene holds CPU side scene geometry: triangle meshes loaded
// from wavefront files or generated procedurally.
package scene

import (
	"github.com/oliverbestmann/glare/glm"
)

// Vertex layout shared with the tracer shaders.
type Vertex struct {
	Pos    glm.Vec3
	Normal glm.Vec3
}

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the axis aligned min and max corners of the mesh. An
// empty mesh yields two zero vectors.
func (m *Mesh) Bounds() (glm.Vec3, glm.Vec3) {
	if len(m.Vertices) == 0 {
		return glm.Vec3{}, glm.Vec3{}
	}

	lo, hi := m.Vertices[0].Pos, m.Vertices[0].Pos

	for _, v := range m.Vertices[1:] {
		for i := range lo {
			lo[i] = min(lo[i], v.Pos[i])
			hi[i] = max(hi[i], v.Pos[i])
		}
	}

	return lo, hi
}

// Merge appends all meshes into a single mesh, rebasing indices.
func Merge(meshes ...*Mesh) *Mesh {
	merged := &Mesh{}

	for _, m := range meshes {
		base := uint32(len(merged.Vertices))
		merged.Vertices = append(merged.Vertices, m.Vertices...)

		for _, idx := range m.Indices {
			merged.Indices = append(merged.Indices, base+idx)
		}
	}

	return merged
}

// ComputeNormals replaces all vertex normals with area weighted
// averages of the adjacent face normals.
func (m *Mesh) ComputeNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = glm.Vec3{}
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Pos
		b := m.Vertices[m.Indices[i+1]].Pos
		c := m.Vertices[m.Indices[i+2]].Pos

		// cross product length is twice the face area, so summing the
		// raw cross products weights by area
		n := b.Sub(a).Cross(c.Sub(a))

		for _, idx := range m.Indices[i : i+3] {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(n)
		}
	}

	for i := range m.Vertices {
		// vertices referenced only by degenerate faces keep a zero
		// normal instead of NaN
		if n := m.Vertices[i].Normal; n.Dot(n) > 0 {
			m.Vertices[i].Normal = n.Normalize()
		}
	}
}
