// Package version holds the application version stamped into builds.
package version

// Version is the current application version.
const Version = "1.0.0"
