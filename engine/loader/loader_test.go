package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoNodeScene has a unit cube mesh instanced twice: once translated to +X by 10,
// once scaled by 2 under a parent node.
const twoNodeScene = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0, 1]}],
  "nodes": [
    {"mesh": 0, "translation": [10, 0, 0]},
    {"children": [2]},
    {"mesh": 0, "scale": [2, 2, 2]}
  ],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
  "accessors": [{
    "componentType": 5126,
    "count": 8,
    "type": "VEC3",
    "min": [-1, -1, -1],
    "max": [1, 1, 1]
  }]
}`

const noMeshScene = `{
  "asset": {"version": "2.0"},
  "nodes": [{"translation": [1, 2, 3]}]
}`

func TestLoader_LoadReader(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	b, err := l.LoadReader("cubes", strings.NewReader(twoNodeScene))
	require.NoError(t, err)

	assertVec3(t, mgl64.Vec3{-2, -2, -2}, b.Min)
	assertVec3(t, mgl64.Vec3{11, 2, 2}, b.Max)

	cached, ok := l.Get("cubes")
	require.True(t, ok)
	assert.Equal(t, b, cached)
}

func TestLoader_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubes.gltf")
	require.NoError(t, os.WriteFile(path, []byte(twoNodeScene), 0o644))

	l := NewLoader(BackendTypeGLTF)
	b, err := l.Load(path)
	require.NoError(t, err)
	assertVec3(t, mgl64.Vec3{4.5, 0, 0}, b.Center())

	models := l.Models()
	assert.Len(t, models, 1)
	assert.Contains(t, models, path)
}

func TestLoader_NoGeometry(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	_, err := l.LoadReader("empty", strings.NewReader(noMeshScene))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoGeometry)

	_, ok := l.Get("empty")
	assert.False(t, ok)
}

func TestLoader_UnsupportedExtension(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	_, err := l.Load("model.obj")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file extension")
}

func TestLoader_MissingFile(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	_, err := l.Load(filepath.Join(t.TempDir(), "missing.glb"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load")
}

func TestLoader_WithModelSkipsBackend(t *testing.T) {
	known := common.EmptyBounds().Extend(mgl64.Vec3{1, 1, 1}).Extend(mgl64.Vec3{-1, -1, -1})
	l := NewLoader(BackendTypeGLTF, WithModel("known.gltf", known))

	b, err := l.Load("known.gltf")
	require.NoError(t, err)
	assert.Equal(t, known, b)
}

func TestSceneRoots_FallbackToParentlessNodes(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	// no scenes: node 0 is the only root, node 1 is its child
	doc := `{
  "asset": {"version": "2.0"},
  "nodes": [
    {"children": [1], "translation": [0, 5, 0]},
    {"mesh": 0}
  ],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
  "accessors": [{"componentType": 5126, "count": 2, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 1]}]
}`
	b, err := l.LoadReader("orphan", strings.NewReader(doc))
	require.NoError(t, err)
	assertVec3(t, mgl64.Vec3{0, 5, 0}, b.Min)
	assertVec3(t, mgl64.Vec3{1, 6, 1}, b.Max)
}

func assertVec3(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-9, "component %d", i)
	}
}

func TestLoader_LoadAll(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 5)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("cubes%d.gltf", i))
		require.NoError(t, os.WriteFile(paths[i], []byte(twoNodeScene), 0o644))
	}

	l := NewLoader(BackendTypeGLTF, WithWorkers(2))
	defer l.Close()

	results, err := l.LoadAll(paths)
	require.NoError(t, err)
	require.Len(t, results, len(paths))
	for i, b := range results {
		assertVec3(t, mgl64.Vec3{4.5, 0, 0}, b.Center())
		cached, ok := l.Get(paths[i])
		require.True(t, ok)
		assert.Equal(t, b, cached)
	}
}

func TestLoader_LoadAllJoinsErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "cubes.gltf")
	require.NoError(t, os.WriteFile(good, []byte(twoNodeScene), 0o644))
	empty := filepath.Join(dir, "empty.gltf")
	require.NoError(t, os.WriteFile(empty, []byte(noMeshScene), 0o644))
	missing := filepath.Join(dir, "missing.glb")

	l := NewLoader(BackendTypeGLTF, WithWorkers(1))
	defer l.Close()

	results, err := l.LoadAll([]string{missing, good, empty})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoGeometry)
	assert.Contains(t, err.Error(), "missing.glb")

	require.Len(t, results, 3)
	assert.Equal(t, common.Bounds{}, results[0])
	assertVec3(t, mgl64.Vec3{11, 2, 2}, results[1].Max)
	assert.Equal(t, common.Bounds{}, results[2])
}

func TestLoader_LoadAllEmpty(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	defer l.Close()

	results, err := l.LoadAll(nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestLoader_LoadAllAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubes.gltf")
	require.NoError(t, os.WriteFile(path, []byte(twoNodeScene), 0o644))

	l := NewLoader(BackendTypeGLTF)
	_, err := l.LoadAll([]string{path})
	require.NoError(t, err)

	l.Close()
	l.Close()

	_, err = l.LoadAll([]string{path})
	assert.ErrorIs(t, err, ErrLoaderClosed)

	// the cache and single loads keep working
	_, ok := l.Get(path)
	assert.True(t, ok)
	_, err = l.Load(path)
	assert.NoError(t, err)
}
