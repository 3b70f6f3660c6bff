// Package platform detects the host OS and architecture for the Flex SDK
// installer.
//
// The detected Info decides which launcher naming convention the binary
// catalog uses (.bat/.exe on Windows, extension-less shell scripts
// elsewhere) and is exposed read-only to the Lua manifest as the global
// "platform" table. Host details come from runtime and gopsutil; when
// gopsutil cannot answer, detection falls back to runtime values only.
package platform

import (
	"context"
	"strings"
)

// Info contains platform detection information.
type Info struct {
	OS         string // "linux", "darwin", "windows"
	Arch       string // normalized: "amd64", "arm64", "386", ...
	ArchRaw    string // original GOARCH
	KernelArch string // kernel machine name, e.g. "x86_64" (empty if unknown)
	Platform   string // distro or product name, e.g. "ubuntu", "darwin"
	Version    string // platform version, e.g. "22.04"
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsAMD64 returns true if the architecture is amd64.
func (i *Info) IsAMD64() bool {
	return i.Arch == "amd64"
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == "arm64"
}

// LauncherExtensions returns the file extensions SDK launchers carry on this
// platform, in lookup order. An empty string means "no extension".
func (i *Info) LauncherExtensions() []string {
	if i.IsWindows() {
		return []string{".bat", ".exe"}
	}
	return []string{""}
}

// String returns a short human-readable description, e.g. "linux/amd64 (ubuntu 22.04)".
func (i *Info) String() string {
	var b strings.Builder
	b.WriteString(i.OS)
	b.WriteString("/")
	b.WriteString(i.Arch)
	if i.Platform != "" && i.Platform != i.OS {
		b.WriteString(" (")
		b.WriteString(i.Platform)
		if i.Version != "" {
			b.WriteString(" ")
			b.WriteString(i.Version)
		}
		b.WriteString(")")
	}
	return b.String()
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// Static is a Detector that always returns the same Info. Tests and the
// manifest parser use it to pin a platform.
type Static struct {
	Info *Info
}

// Detect returns a copy of the pinned Info.
func (s Static) Detect(ctx context.Context) (*Info, error) {
	if s.Info == nil {
		return &Info{}, nil
	}
	info := *s.Info
	return &info, nil
}
