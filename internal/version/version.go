package version

// Version is the server version, overridden at build time via
// -ldflags "-X github.com/gloomdelve/server/internal/version.Version=...".
var Version = "dev"
