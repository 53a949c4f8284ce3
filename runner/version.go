package runner

// Build metadata, injected via -ldflags
var (
	// Version is the current application version
	Version = "dev"

	// BuildDate is the timestamp of the build
	BuildDate = "unknown"

	// Commit is the git commit hash
	Commit = "none"
)
