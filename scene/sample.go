package scene

import (
	"log/slog"

	"github.com/furui/fastnoiselite-go"
	"github.com/oliverbestmann/glare/glm"
)

// Sample builds the bundled demo scene used when no scene file is
// given: a noise displaced ground patch with a ring of spheres on top.
func Sample() *Mesh {
	terrain := noiseTerrain(64, 16.0)

	meshes := []*Mesh{terrain}

	const sphereCount = 8
	const ringRadius = 4.0

	for i := 0; i < sphereCount; i++ {
		angle := float32(i) / sphereCount * 2 * 3.14159265

		sin, cos := glm.FastSincos(angle)
		center := glm.Vec3{ringRadius * cos, ringRadius * sin, 1.0}

		meshes = append(meshes, Sphere(center, 0.6, 16))
	}

	mesh := Merge(meshes...)
	mesh.Name = "sample"

	slog.Debug("Generated sample scene",
		slog.Int("triangles", mesh.TriangleCount()))

	return mesh
}

// noiseTerrain generates a size x size grid over [-extent/2, extent/2]
// with fractal noise displacement along z.
func noiseTerrain(size int, extent float32) *Mesh {
	noise := fastnoiselite.NewNoise()
	noise.SetNoiseType(fastnoiselite.NoiseTypeOpenSimplex2)
	noise.FractalType = fastnoiselite.FractalTypeFBm

	mesh := &Mesh{Name: "terrain"}

	for row := 0; row <= size; row++ {
		for col := 0; col <= size; col++ {
			x := (float32(col)/float32(size) - 0.5) * extent
			y := (float32(row)/float32(size) - 0.5) * extent

			height := float32(noise.GetNoise2D(
				fastnoiselite.FNLfloat(x),
				fastnoiselite.FNLfloat(y),
			))

			mesh.Vertices = append(mesh.Vertices, Vertex{
				Pos: glm.Vec3{x, y, height},
			})
		}
	}

	stride := uint32(size + 1)

	for row := uint32(0); row < uint32(size); row++ {
		for col := uint32(0); col < uint32(size); col++ {
			a := row*stride + col
			b := a + 1
			c := a + stride
			d := c + 1

			mesh.Indices = append(mesh.Indices, a, b, c, b, d, c)
		}
	}

	mesh.ComputeNormals()

	return mesh
}

// Sphere generates a latitude/longitude sphere with the given number
// of segments per ring.
func Sphere(center glm.Vec3, radius float32, segments int) *Mesh {
	mesh := &Mesh{Name: "sphere"}

	rings := segments / 2

	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) / float32(rings) * 3.14159265
		sinPhi, cosPhi := glm.FastSincos(phi)

		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) / float32(segments) * 2 * 3.14159265
			sinTheta, cosTheta := glm.FastSincos(theta)

			normal := glm.Vec3{sinPhi * cosTheta, sinPhi * sinTheta, cosPhi}

			mesh.Vertices = append(mesh.Vertices, Vertex{
				Pos:    center.Add(normal.MulScalar(radius)),
				Normal: normal,
			})
		}
	}

	stride := uint32(segments + 1)

	for ring := uint32(0); ring < uint32(rings); ring++ {
		for seg := uint32(0); seg < uint32(segments); seg++ {
			a := ring*stride + seg
			b := a + 1
			c := a + stride
			d := c + 1

			mesh.Indices = append(mesh.Indices, a, b, c, b, d, c)
		}
	}

	return mesh
}
