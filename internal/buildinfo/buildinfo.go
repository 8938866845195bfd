// Package buildinfo carries version identifiers stamped in at link time.
package buildinfo

// Set via -ldflags "-X flowplan/internal/buildinfo.Version=..." at build.
var (
	Version = "dev"
	Commit  = ""
	BuiltAt = ""
)

func String() string {
	s := Version
	if Commit != "" {
		s += " (" + Commit + ")"
	}
	return s
}

func Info() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"builtAt": BuiltAt,
	}
}
