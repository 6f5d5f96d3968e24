package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-orbit/common"
)

// loaderBackend defines the generic interface for reading model bounds from files or streams.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load reads the model at path and returns the bounds of its default scene.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - common.Bounds: the world-space bounds
	//   - error: error if loading fails
	Load(path string) (common.Bounds, error)

	// LoadReader reads a model from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//
	// Returns:
	//   - common.Bounds: the world-space bounds
	//   - error: error if loading fails
	LoadReader(r io.Reader) (common.Bounds, error)
}
