package loader

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
)

// maxNodeDepth bounds the scene graph walk so a malformed file with a cycle terminates.
const maxNodeDepth = 64

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
// Bounds come from the POSITION accessor min/max values, which glTF requires,
// so no vertex buffers are decoded.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Load(path string) (common.Bounds, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return common.Bounds{}, fmt.Errorf("open gltf: %w", err)
	}
	return documentBounds(doc)
}

func (b *gltfLoaderBackendImpl) LoadReader(r io.Reader) (common.Bounds, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return common.Bounds{}, fmt.Errorf("decode gltf: %w", err)
	}
	return documentBounds(doc)
}

// documentBounds walks the default scene and unions every mesh's bounds in world space.
func documentBounds(doc *gltf.Document) (common.Bounds, error) {
	bounds := common.EmptyBounds()
	for _, root := range sceneRoots(doc) {
		bounds = bounds.Union(nodeBounds(doc, root, mgl64.Ident4(), 0))
	}
	if bounds.IsEmpty() {
		return bounds, ErrNoGeometry
	}
	return bounds, nil
}

// sceneRoots returns the root nodes of the default scene, falling back to the
// first scene and then to every node that is nobody's child.
func sceneRoots(doc *gltf.Document) []int {
	var roots []int
	switch {
	case doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes):
		for _, n := range doc.Scenes[int(*doc.Scene)].Nodes {
			roots = append(roots, int(n))
		}
	case len(doc.Scenes) > 0:
		for _, n := range doc.Scenes[0].Nodes {
			roots = append(roots, int(n))
		}
	default:
		isChild := make(map[int]bool)
		for _, node := range doc.Nodes {
			for _, c := range node.Children {
				isChild[int(c)] = true
			}
		}
		for i := range doc.Nodes {
			if !isChild[i] {
				roots = append(roots, i)
			}
		}
	}
	return roots
}

func nodeBounds(doc *gltf.Document, index int, parent mgl64.Mat4, depth int) common.Bounds {
	bounds := common.EmptyBounds()
	if depth > maxNodeDepth || index < 0 || index >= len(doc.Nodes) {
		return bounds
	}
	node := doc.Nodes[index]
	world := parent.Mul4(nodeMatrix(node))

	if node.Mesh != nil && int(*node.Mesh) < len(doc.Meshes) {
		bounds = bounds.Union(meshBounds(doc, doc.Meshes[int(*node.Mesh)]).Transform(world))
	}
	for _, c := range node.Children {
		bounds = bounds.Union(nodeBounds(doc, int(c), world, depth+1))
	}
	return bounds
}

// nodeMatrix returns the node's local transform. An explicit matrix wins over TRS.
func nodeMatrix(node *gltf.Node) mgl64.Mat4 {
	m := mgl64.Mat4(node.MatrixOrDefault())
	if m != mgl64.Ident4() {
		return m
	}
	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	rotation := mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}}.Normalize()
	return mgl64.Translate3D(t[0], t[1], t[2]).
		Mul4(rotation.Mat4()).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

func meshBounds(doc *gltf.Document, mesh *gltf.Mesh) common.Bounds {
	bounds := common.EmptyBounds()
	for _, prim := range mesh.Primitives {
		idx, ok := prim.Attributes[gltf.POSITION]
		if !ok || int(idx) >= len(doc.Accessors) {
			continue
		}
		acc := doc.Accessors[int(idx)]
		if len(acc.Min) < 3 || len(acc.Max) < 3 {
			continue
		}
		bounds = bounds.
			Extend(mgl64.Vec3{acc.Min[0], acc.Min[1], acc.Min[2]}).
			Extend(mgl64.Vec3{acc.Max[0], acc.Max[1], acc.Max[2]})
	}
	return bounds
}
