package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/ember/emberrt/rt/core"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBuiltinMeshes(t *testing.T) {
	c := NewCatalog(nil)
	for _, name := range []string{"quad", "cube", "octahedron"} {
		m, err := c.Mesh(&core.MeshRef{Collection: BuiltinCollection, Mesh: name})
		require.NoError(t, err, name)
		assert.Zero(t, len(m.Indices)%3, name)
		for _, idx := range m.Indices {
			assert.Less(t, int(idx), len(m.Vertices), name)
		}
	}
}

func TestDefaultMeshIsOctahedron(t *testing.T) {
	m, err := NewCatalog(nil).Mesh(nil)
	require.NoError(t, err)
	assert.Equal(t, "octahedron", m.Name)
	assert.Len(t, m.Indices, 24)
}

func TestOctahedronNormalsPointOutward(t *testing.T) {
	m := Octahedron()
	for i := 0; i < len(m.Indices); i += 3 {
		a := mgl32.Vec3(m.Vertices[m.Indices[i]].Position)
		b := mgl32.Vec3(m.Vertices[m.Indices[i+1]].Position)
		c := mgl32.Vec3(m.Vertices[m.Indices[i+2]].Position)
		n := mgl32.Vec3(m.Vertices[m.Indices[i]].Normal)
		centroid := a.Add(b).Add(c)
		assert.Greater(t, n.Dot(centroid), float32(0))
		assert.Greater(t, b.Sub(a).Cross(c.Sub(a)).Dot(n), float32(0))
	}
}

func TestMissingMesh(t *testing.T) {
	_, err := NewCatalog(nil).Mesh(&core.MeshRef{Collection: "props", Mesh: "rock"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMaterialFromFS(t *testing.T) {
	files := fstest.MapFS{
		"sparks/ember.png": &fstest.MapFile{Data: encodePNG(t, 8, 4, color.RGBA{R: 255, A: 255})},
	}
	c := NewCatalog(files)

	img, err := c.Material(&core.MaterialRef{Collection: "sparks", Material: "ember.png"})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(3, 2))

	again, err := c.Material(&core.MaterialRef{Collection: "sparks", Material: "ember.png"})
	require.NoError(t, err)
	assert.Same(t, img, again)
}

func TestMissingMaterial(t *testing.T) {
	c := NewCatalog(fstest.MapFS{})
	_, err := c.Material(&core.MaterialRef{Collection: "sparks", Material: "none.png"})
	assert.ErrorIs(t, err, ErrNotFound)

	white, err := c.Material(nil)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, white.RGBAAt(0, 0))
}

func TestDecodeMaterialDownsamples(t *testing.T) {
	img, err := DecodeMaterial(bytes.NewReader(encodePNG(t, 1024, 256, color.White)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, MaxMaterialSize, 128), img.Bounds())
}

func TestDecodeMaterialRejectsGarbage(t *testing.T) {
	_, err := DecodeMaterial(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}
