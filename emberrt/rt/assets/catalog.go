// Package assets resolves the mesh and material references of emitters.
package assets

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path"

	"github.com/gekko3d/ember/emberrt/rt/core"
)

const BuiltinCollection = "builtin"

var ErrNotFound = errors.New("asset not found")

// DefaultMesh is drawn for emitters without a mesh reference.
var DefaultMesh = core.MeshRef{Collection: BuiltinCollection, Mesh: "octahedron"}

type Library interface {
	Mesh(ref *core.MeshRef) (*Mesh, error)
	Material(ref *core.MaterialRef) (*image.RGBA, error)
}

// Catalog serves the built-in meshes plus any registered ones, and loads
// materials from <collection>/<material> inside its file system.
type Catalog struct {
	files     fs.FS
	meshes    map[string]*Mesh
	materials map[string]*image.RGBA
	white     *image.RGBA
}

// NewCatalog reads materials from files, which may be nil when only the
// built-in assets are needed.
func NewCatalog(files fs.FS) *Catalog {
	c := &Catalog{
		files:     files,
		meshes:    make(map[string]*Mesh),
		materials: make(map[string]*image.RGBA),
		white:     White(),
	}
	c.AddMesh(BuiltinCollection, Quad())
	c.AddMesh(BuiltinCollection, Cube())
	c.AddMesh(BuiltinCollection, Octahedron())
	return c
}

func (c *Catalog) AddMesh(collection string, m *Mesh) {
	c.meshes[path.Join(collection, m.Name)] = m
}

func (c *Catalog) Mesh(ref *core.MeshRef) (*Mesh, error) {
	if ref == nil || ref.Mesh == "" {
		ref = &DefaultMesh
	}
	key := path.Join(ref.Collection, ref.Mesh)
	m, ok := c.meshes[key]
	if !ok {
		return nil, fmt.Errorf("%w: mesh %s", ErrNotFound, key)
	}
	return m, nil
}

// Material returns the decoded texels, caching them by reference.
func (c *Catalog) Material(ref *core.MaterialRef) (*image.RGBA, error) {
	if ref == nil || ref.Material == "" {
		return c.white, nil
	}
	key := path.Join(ref.Collection, ref.Material)
	if img, ok := c.materials[key]; ok {
		return img, nil
	}
	if c.files == nil {
		return nil, fmt.Errorf("%w: material %s", ErrNotFound, key)
	}

	f, err := c.files.Open(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: material %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("open material %s: %w", key, err)
	}
	defer f.Close()

	img, err := DecodeMaterial(f)
	if err != nil {
		return nil, fmt.Errorf("material %s: %w", key, err)
	}
	c.materials[key] = img
	return img, nil
}
