package platform

import (
	"log/slog"

	"github.com/aretw0/shelf/pkg/core"
)

// Adapter names understood by Init.
const (
	AdapterFS     = "fs"
	AdapterMemory = "memory"
	AdapterSQLite = "sqlite"
)

// Option defines a functional option for configuring a shelf.
type Option func(*options)

type options struct {
	medium    core.Medium
	logger    *slog.Logger
	adapter   string
	config    map[string]any
	storeOpts []core.StoreOption
}

func defaultOptions() *options {
	return &options{
		logger:  slog.Default(),
		adapter: AdapterFS,
		config:  make(map[string]any),
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAutoInit enables automatic initialization of the shelf directory.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithVersioning commits every write to git (fs adapter).
// Left unset, versioning is detected from the presence of .git.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["versioned"] = enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for tests).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist makes Init fail when the target directory is missing.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly refuses every write at the medium.
func WithReadOnly(readOnly bool) Option {
	return func(o *options) {
		o.config["read_only"] = readOnly
	}
}

// WithDevSafety controls the dev sandbox. When enabled (default), runs under
// `go run` or `go test` are redirected into the system temp directory.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithSystemDir sets the marker directory of a filesystem shelf (default ".shelf").
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithWatcherErrorHandler receives runtime errors from the filesystem watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithLogger sets the logger for the shelf and its medium.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMedium injects a ready medium, skipping adapter construction.
func WithMedium(m core.Medium) Option {
	return func(o *options) {
		o.medium = m
	}
}

// WithAdapter selects the storage adapter: "fs" (default), "memory" or "sqlite".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithIDStrategy selects "timestamp" (default) or "uuid" ids.
func WithIDStrategy(name string) Option {
	return func(o *options) {
		o.config["id_strategy"] = name
	}
}

// WithSaveMode selects replace (default) or patch semantics for Save.
func WithSaveMode(mode core.SaveMode) Option {
	return WithStoreOptions(core.WithSaveMode(mode))
}

// WithTimestamps stamps createdAt and updatedAt on records.
func WithTimestamps(enabled bool) Option {
	return WithStoreOptions(core.WithTimestamps(enabled))
}

// WithSerializedWrites toggles the per-namespace write lock.
func WithSerializedWrites(enabled bool) Option {
	return WithStoreOptions(core.WithSerializedWrites(enabled))
}

// WithEventBuffer sets the buffer size of each Watch subscription.
func WithEventBuffer(size int) Option {
	return WithStoreOptions(core.WithEventBuffer(size))
}

// WithFavoritesNamespace moves favorite markers to another namespace.
func WithFavoritesNamespace(ns string) Option {
	return WithStoreOptions(core.WithFavoritesNamespace(ns))
}

// WithStoreOptions passes raw options through to core.NewStore.
func WithStoreOptions(opts ...core.StoreOption) Option {
	return func(o *options) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}
