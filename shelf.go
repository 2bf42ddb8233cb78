package shelf

import (
	"context"
	"log/slog"

	"github.com/aretw0/shelf/internal/platform"
	"github.com/aretw0/shelf/pkg/core"
	"github.com/aretw0/shelf/pkg/typed"
)

// Version of the library and the shelf CLI.
const Version = "0.4.0"

// --- Types ---

// Store is the keyed collection store.
type Store = core.Store

// Record is a single JSON object stored in a namespace.
type Record = core.Record

// Collection is a public alias for the typed collection.
type Collection[T any] = typed.Collection[T]

// Document is a public alias for the typed single-object namespace.
type Document[T any] = typed.Document[T]

// --- Configuration ---

// Option defines a functional option for configuring a shelf.
type Option = platform.Option

// Adapter names.
const (
	AdapterFS     = platform.AdapterFS
	AdapterMemory = platform.AdapterMemory
	AdapterSQLite = platform.AdapterSQLite
)

// WithAutoInit creates the shelf directory (and git repository) when missing.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables git versioning of the fs adapter.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the shelf directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly refuses every write.
func WithReadOnly(readOnly bool) Option {
	return platform.WithReadOnly(readOnly)
}

// WithDevSafety toggles the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithLogger sets the logger for the store and its medium.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithMedium allows injecting a custom storage medium.
func WithMedium(m core.Medium) Option {
	return platform.WithMedium(m)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSystemDir sets the hidden directory name (e.g. ".shelf").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithWatcherErrorHandler receives runtime errors from the fs watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithEventBuffer sets the buffer size of each Watch subscription.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithIDStrategy selects "timestamp" or "uuid" record ids.
func WithIDStrategy(name string) Option {
	return platform.WithIDStrategy(name)
}

// WithSaveMode selects replace or patch semantics for Save.
func WithSaveMode(mode core.SaveMode) Option {
	return platform.WithSaveMode(mode)
}

// WithTimestamps stamps createdAt and updatedAt on records.
func WithTimestamps(enabled bool) Option {
	return platform.WithTimestamps(enabled)
}

// WithSerializedWrites toggles the per-namespace write lock.
func WithSerializedWrites(enabled bool) Option {
	return platform.WithSerializedWrites(enabled)
}

// WithFavoritesNamespace moves favorite markers to another namespace.
func WithFavoritesNamespace(ns string) Option {
	return platform.WithFavoritesNamespace(ns)
}

// --- Factory ---

// New opens a Store.
func New(uri string, opts ...Option) (*core.Store, error) {
	return platform.New(uri, opts...)
}

// Init prepares the medium explicitly.
func Init(uri string, opts ...Option) (core.Medium, error) {
	return platform.Init(uri, opts...)
}

// --- Typed Factories ---

// NewCollection binds a typed collection to a namespace of an existing store.
func NewCollection[T any](store *core.Store, ns string) *typed.Collection[T] {
	return typed.New[T](store, ns)
}

// OpenCollection opens a store and binds a typed collection to ns.
func OpenCollection[T any](uri, ns string, opts ...Option) (*typed.Collection[T], error) {
	store, err := New(uri, opts...)
	if err != nil {
		return nil, err
	}
	return typed.New[T](store, ns), nil
}

// NewDocument binds a typed single-object namespace with defaults.
func NewDocument[T any](store *core.Store, ns string, defaults T) (*typed.Document[T], error) {
	return typed.NewDocument[T](store, ns, defaults)
}

// --- Operations ---

// History returns the change history of a namespace on a versioned shelf.
func History(uri, ns string, opts ...Option) ([]string, error) {
	return platform.History(uri, ns, opts...)
}

// --- Safety & Utils ---

// ResolvePath determines the actual shelf path based on the dev sandbox rules.
func ResolvePath(userPath string, forceTemp bool) string {
	return platform.ResolvePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a shelf root indicator.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// --- Change reasons ---

const (
	ChangeTypeFeat     = platform.ChangeTypeFeat
	ChangeTypeFix      = platform.ChangeTypeFix
	ChangeTypeDocs     = platform.ChangeTypeDocs
	ChangeTypeRefactor = platform.ChangeTypeRefactor
	ChangeTypeChore    = platform.ChangeTypeChore
)

// FormatChangeReason builds a Conventional Commit message.
func FormatChangeReason(ctype, scope, subject, body string) string {
	return platform.FormatChangeReason(ctype, scope, subject, body)
}

// AppendFooter appends the shelf footer to an arbitrary message.
func AppendFooter(msg string) string {
	return platform.AppendFooter(msg)
}

// WithReason attaches a change reason to ctx for versioned media.
func WithReason(ctx context.Context, reason string) context.Context {
	return platform.WithReason(ctx, reason)
}
