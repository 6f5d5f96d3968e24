package loader

import (
	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/rs/zerolog"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithModel is an option builder that pre-populates the cache with known bounds.
//
// Parameters:
//   - key: the cache key for the model
//   - bounds: the model bounds
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, bounds common.Bounds) LoaderBuilderOption {
	return func(l *loader) {
		l.boundsCache[key] = bounds
	}
}

// WithLogger sets the logger used to report loaded bounds.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger zerolog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		l.logger = logger
	}
}

// WithWorkers sets how many models LoadAll reads at once.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n < 1 {
			n = 1
		}
		l.workers = n
	}
}
