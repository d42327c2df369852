package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the configuration at path and translates it into the
	// format-agnostic model. A path that does not exist yields Default().
	Load(ctx context.Context, path string) (*Model, error)
}

// Writer persists a model in a format-specific way.
type Writer interface {
	Write(ctx context.Context, path string, m *Model) error
}
