// Package version exposes the build version injected at link time:
//
//	go build -ldflags "-X github.com/tripdesk/tripdesk/internal/shared/version.Current=v1.4.0"
package version

import "strings"

// Current is the running build. Development builds report "dev".
var Current = "dev"

// Normalize ensures version string has "v" prefix.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" || version == "dev" {
		return version
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// String returns the normalized current version.
func String() string {
	return Normalize(Current)
}
