package version

var (
	// Version is the semantic version (injected at build time).
	Version = "dev"
	// Commit is the git commit SHA (injected at build time).
	Commit = "unknown"
	// BuildDate is the build timestamp (injected at build time).
	BuildDate = "unknown"
)

// Name is the binary/service name used in banners and logs.
const Name = "rds-lifecycle-operator"

// Info returns formatted version information.
func Info() string {
	return Version + " (" + Commit + ", built " + BuildDate + ")"
}

// Banner returns "<name> <info>", as printed by `operator version` and GET /.
func Banner() string {
	return Name + " " + Info()
}
