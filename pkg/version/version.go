package version

// Version is the application version, overridable at build time via
// -ldflags "-X github.com/taxhub/admin-backend/pkg/version.Version=...".
var Version = "v1.0.0"

// Get returns the current version of the application
func Get() string {
	return Version
}
