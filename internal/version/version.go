// Package version holds the release version reported by the /version endpoint
// and the CLI --version flag.
package version

const Version = "0.1.0"
