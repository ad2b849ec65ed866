package version

// Version is the version of the imeji CLI. It is set at build time with
// -ldflags "-X github.com/hashicorp-forge/imeji/internal/version.Version=...".
var Version = "0.1.0-dev"
