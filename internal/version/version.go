package version

// Version is set at build time with -ldflags "-X ...version.Version=...".
var Version = "0.1.0-dev"

// GitCommit is set at build time.
var GitCommit = ""

// String returns the version with the commit, when known.
func String() string {
	if GitCommit == "" {
		return Version
	}
	return Version + " (" + GitCommit + ")"
}
