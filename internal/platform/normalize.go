package platform

import "strings"

// archAliases maps kernel and vendor architecture names to GOARCH names.
var archAliases = map[string]string{
	"x86_64":  "amd64",
	"x64":     "amd64",
	"aarch64": "arm64",
	"i386":    "386",
	"i686":    "386",
	"x86":     "386",
	"armv7l":  "arm",
}

// normalizeArch converts architecture names to GOARCH form. Unknown names are
// returned lowercased rather than rejected: the SDK runs on a JVM and does not
// care about the host architecture.
func normalizeArch(arch string) string {
	a := strings.ToLower(strings.TrimSpace(arch))
	if canonical, ok := archAliases[a]; ok {
		return canonical
	}
	return a
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}
