package assets

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex matches VertexIn of the particle render shader (stride 32).
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// Quad is a unit square in the XY plane facing +Z.
func Quad() *Mesh {
	return &Mesh{
		Name: "quad",
		Vertices: []Vertex{
			{Position: [3]float32{-0.5, -0.5, 0}, Normal: [3]float32{0, 0, 1}, UV: [2]float32{0, 1}},
			{Position: [3]float32{0.5, -0.5, 0}, Normal: [3]float32{0, 0, 1}, UV: [2]float32{1, 1}},
			{Position: [3]float32{0.5, 0.5, 0}, Normal: [3]float32{0, 0, 1}, UV: [2]float32{1, 0}},
			{Position: [3]float32{-0.5, 0.5, 0}, Normal: [3]float32{0, 0, 1}, UV: [2]float32{0, 0}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Cube is a unit cube with flat-shaded faces.
func Cube() *Mesh {
	faces := []struct{ n, u, v mgl32.Vec3 }{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	m := &Mesh{Name: "cube"}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for i, c := range corners {
			p := f.n.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1])).Mul(0.5)
			m.Vertices = append(m.Vertices, Vertex{Position: p, Normal: f.n, UV: uvs[i]})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Octahedron has eight flat-shaded faces and reads well at particle scale
// from any direction.
func Octahedron() *Mesh {
	axes := []mgl32.Vec3{{1, 0, 0}, {0, 0, 1}, {-1, 0, 0}, {0, 0, -1}}
	m := &Mesh{Name: "octahedron"}
	for _, pole := range []mgl32.Vec3{{0, 0.5, 0}, {0, -0.5, 0}} {
		for i := range axes {
			a := axes[i].Mul(0.5)
			b := axes[(i+1)%len(axes)].Mul(0.5)
			n := a.Sub(pole).Cross(b.Sub(pole)).Normalize()
			// Counter-clockwise seen from outside.
			if n.Dot(pole.Add(a).Add(b)) < 0 {
				n = n.Mul(-1)
				a, b = b, a
			}
			base := uint32(len(m.Vertices))
			m.Vertices = append(m.Vertices,
				Vertex{Position: pole, Normal: n, UV: [2]float32{0.5, 0}},
				Vertex{Position: a, Normal: n, UV: [2]float32{0, 1}},
				Vertex{Position: b, Normal: n, UV: [2]float32{1, 1}},
			)
			m.Indices = append(m.Indices, base, base+1, base+2)
		}
	}
	return m
}
