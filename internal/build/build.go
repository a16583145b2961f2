// Package build holds build-time information.
package build

// These variables are overwritten by linker flags.
var (
	// Version is the application version. It is also recorded as the producer of every cache entry.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)
