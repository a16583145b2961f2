package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")
)

var (
	// ErrStreamCorrupted is returned when the encoded stream does not match what the decoder expects.
	ErrStreamCorrupted = zerr.New("cache stream corrupted")

	// ErrDanglingReference is returned when a back-reference names an identity that was never registered.
	ErrDanglingReference = zerr.New("back-reference to unregistered identity")

	// ErrUnsupportedType is returned when no codec can encode a value of the given type.
	ErrUnsupportedType = zerr.New("unsupported type")

	// ErrTypeNotFound is returned when a class name cannot be resolved by the selected type loader.
	ErrTypeNotFound = zerr.New("type not found")

	// ErrUnsupportedStreamOperation is returned when a legacy hook uses an object stream
	// operation that the cache cannot emulate.
	ErrUnsupportedStreamOperation = zerr.New("unsupported object stream operation")

	// ErrIncompatibleEntry is returned when a cache entry was produced by another format or version.
	ErrIncompatibleEntry = zerr.New("incompatible cache entry")

	// ErrWriterClosed is returned when writing to a closed cache writer.
	ErrWriterClosed = zerr.New("cache writer closed")

	// ErrReplaceFailed is returned when a write-replace hook fails.
	ErrReplaceFailed = zerr.New("write replace failed")

	// ErrResolveFailed is returned when a read-resolve hook fails.
	ErrResolveFailed = zerr.New("read resolve failed")

	// ErrLambdaNotDeserializable is returned when a serialized lambda's capturing type cannot rebuild it.
	ErrLambdaNotDeserializable = zerr.New("serialized lambda cannot be deserialized")

	// ErrClosureBodyNotFound is returned when a closure is called with an undefined body.
	ErrClosureBodyNotFound = zerr.New("closure body not defined")

	// ErrTransformNotFound is returned when a file transform name is not registered.
	ErrTransformNotFound = zerr.New("file transform not registered")

	// ErrProviderValue is returned when a file provider yields a value that is not a path set.
	ErrProviderValue = zerr.New("provider value is not a file set")
)

var (
	// ErrScopeLocked is returned when modifying the class path of a locked scope.
	ErrScopeLocked = zerr.New("class loader scope is locked")

	// ErrProjectNotFound is returned when a project path cannot be resolved.
	ErrProjectNotFound = zerr.New("project not found")

	// ErrProblemsReported is returned when a pass recorded problems and problems are configured to fail.
	ErrProblemsReported = zerr.New("configuration cache problems were reported")
)

var (
	// ErrEntryNotFound is returned when a cache entry does not exist.
	ErrEntryNotFound = zerr.New("cache entry not found")

	// ErrStoreCreateFailed is returned when the cache directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create cache directory")

	// ErrStoreReadFailed is returned when a cache entry cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read cache entry")

	// ErrStoreWriteFailed is returned when a cache entry cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write cache entry")

	// ErrStoreRemoveFailed is returned when a cache entry cannot be removed.
	ErrStoreRemoveFailed = zerr.New("failed to remove cache entry")

	// ErrStoreMetaFailed is returned when entry metadata cannot be encoded or decoded.
	ErrStoreMetaFailed = zerr.New("failed to process cache entry metadata")

	// ErrConfigReadFailed is returned when the configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a configuration value is not recognized.
	ErrInvalidConfig = zerr.New("invalid configuration")
)

// Sentinels lists every error above. A failure rebuilt from its messages is rooted at the
// sentinel with the same message, so errors.Is still matches it.
func Sentinels() []error {
	return []error{
		ErrTaskAlreadyExists, ErrMissingDependency, ErrCycleDetected, ErrTaskNotFound,
		ErrStreamCorrupted, ErrDanglingReference, ErrUnsupportedType, ErrTypeNotFound,
		ErrUnsupportedStreamOperation, ErrIncompatibleEntry, ErrWriterClosed, ErrReplaceFailed,
		ErrResolveFailed, ErrLambdaNotDeserializable, ErrClosureBodyNotFound, ErrTransformNotFound,
		ErrProviderValue, ErrScopeLocked, ErrProjectNotFound, ErrProblemsReported,
		ErrEntryNotFound, ErrStoreCreateFailed, ErrStoreReadFailed, ErrStoreWriteFailed,
		ErrStoreRemoveFailed, ErrStoreMetaFailed, ErrConfigReadFailed, ErrConfigParseFailed,
		ErrInvalidConfig,
	}
}
