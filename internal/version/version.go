package version

// Version is the build version of argo-equity, set with
// -ldflags "-X github.com/rxtech-lab/argo-equity/internal/version.Version=1.2.3".
// "main" marks a development build.
var Version = "main"

// StateSchemaVersion is written into every persisted strategy state.
const StateSchemaVersion = "1.0.0"

// GetVersion returns the build version.
func GetVersion() string {
	return Version
}
