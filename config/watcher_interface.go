package config

// Watcher is the configuration source the server subscribes to. The
// fsnotify-backed ConfigWatcher implements it in production; tests
// substitute a mock.
type Watcher interface {
	// GetCurrentConfig returns the most recently accepted configuration.
	GetCurrentConfig() *Config

	// Subscribe returns a channel receiving each accepted reload.
	Subscribe() <-chan *Config

	// Close stops watching.
	Close() error
}
