package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/rs/zerolog"
)

// ErrNoGeometry is returned when a model file contains no mesh with position bounds.
var ErrNoGeometry = errors.New("model has no positioned geometry")

// ErrLoaderClosed is returned by LoadAll after Close.
var ErrLoaderClosed = errors.New("loader is closed")

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	logger zerolog.Logger

	boundsCache map[string]common.Bounds

	backend loaderBackend

	// pool runs LoadAll fan-out. Created on first use and kept until Close.
	poolMu  sync.Mutex
	pool    worker.DynamicWorkerPool
	workers int
	closed  bool
}

// Loader reads model files and reports their world-space bounds, which the
// viewer uses to place the orbit target and distance. Results are cached by
// path or by the name given to LoadReader.
type Loader interface {
	// Load reads a model file and caches its bounds.
	// The backend is selected based on the file extension (.gltf/.glb → glTF backend).
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - common.Bounds: the world-space bounds of the default scene
	//   - error: error if loading fails or the model has no geometry
	Load(path string) (common.Bounds, error)

	// LoadReader reads a model from a stream and caches its bounds by name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing glTF JSON or GLB data
	//
	// Returns:
	//   - common.Bounds: the world-space bounds of the default scene
	//   - error: error if loading fails or the model has no geometry
	LoadReader(name string, r io.Reader) (common.Bounds, error)

	// Get retrieves cached bounds by name.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - common.Bounds: the cached bounds
	//   - bool: false if nothing is cached under name
	Get(name string) (common.Bounds, bool)

	// LoadAll loads several model files in parallel on the loader's worker pool.
	// Every path is attempted; failures are joined into the returned error.
	//
	// Parameters:
	//   - paths: the model file paths
	//
	// Returns:
	//   - []common.Bounds: bounds in the order of paths, zero for failed entries
	//   - error: the joined load errors, or ErrLoaderClosed
	LoadAll(paths []string) ([]common.Bounds, error)

	// Models returns a copy of the cache.
	//
	// Returns:
	//   - map[string]common.Bounds: all cached bounds keyed by name
	Models() map[string]common.Bounds

	// Close stops the worker pool. The cache stays readable and Load still works.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:          sync.RWMutex{},
		logger:      zerolog.Nop(),
		boundsCache: make(map[string]common.Bounds),
		workers:     max(runtime.NumCPU()-1, 1),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (common.Bounds, error) {
	if cached, ok := l.Get(path); ok {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return common.Bounds{}, err
	}

	bounds, err := backend.Load(path)
	if err != nil {
		return common.Bounds{}, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.store(path, bounds)
	return bounds, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (common.Bounds, error) {
	if cached, ok := l.Get(name); ok {
		return cached, nil
	}
	if l.backend == nil {
		return common.Bounds{}, fmt.Errorf("loader: no backend configured")
	}

	bounds, err := l.backend.LoadReader(r)
	if err != nil {
		return common.Bounds{}, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	l.store(name, bounds)
	return bounds, nil
}

func (l *loader) LoadAll(paths []string) ([]common.Bounds, error) {
	results := make([]common.Bounds, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	pool, err := l.workerPool()
	if err != nil {
		return nil, err
	}

	// the pool has no per-batch barrier, so a WaitGroup marks the end of this batch
	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: path,
			Do: func() (any, error) {
				defer wg.Done()
				results[i], errs[i] = l.Load(path)
				return nil, errs[i]
			},
		})
	}
	wg.Wait()

	return results, errors.Join(errs...)
}

func (l *loader) Close() {
	l.poolMu.Lock()
	defer l.poolMu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	if l.pool != nil {
		l.pool.Stop()
		l.pool = nil
	}
}

// workerPool returns the fan-out pool, starting it on first use.
func (l *loader) workerPool() (worker.DynamicWorkerPool, error) {
	l.poolMu.Lock()
	defer l.poolMu.Unlock()
	if l.closed {
		return nil, ErrLoaderClosed
	}
	if l.pool == nil {
		l.pool = worker.NewDynamicWorkerPool(l.workers, 64, 1*time.Second)
		l.logger.Debug().Int("workers", l.workers).Msg("loader pool started")
	}
	return l.pool, nil
}

func (l *loader) Get(name string) (common.Bounds, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.boundsCache[name]
	return b, ok
}

func (l *loader) Models() map[string]common.Bounds {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]common.Bounds, len(l.boundsCache))
	for k, v := range l.boundsCache {
		result[k] = v
	}
	return result
}

func (l *loader) store(name string, bounds common.Bounds) {
	l.mu.Lock()
	l.boundsCache[name] = bounds
	l.mu.Unlock()

	l.logger.Debug().
		Str("model", name).
		Floats64("min", bounds.Min[:]).
		Floats64("max", bounds.Max[:]).
		Msg("model bounds loaded")
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		if l.backend == nil {
			return nil, fmt.Errorf("loader: no backend configured for %q", ext)
		}
		return l.backend, nil
	default:
		return nil, fmt.Errorf("loader: unsupported file extension %q", ext)
	}
}
