package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Host returns the OS and architecture of the running binary without
// consulting the kernel or distribution.
func Host() *Info {
	return &Info{
		OS:      runtime.GOOS,
		Arch:    normalizeArch(runtime.GOARCH),
		ArchRaw: runtime.GOARCH,
	}
}

// Detect performs platform detection and returns platform information.
// OS and architecture come from runtime; kernel architecture and the
// platform name/version come from gopsutil. gopsutil failures are not fatal:
// the corresponding fields stay empty. A cancelled context is fatal.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := Host()

	if kernelArch, err := host.KernelArch(); err == nil {
		info.KernelArch = kernelArch
	}

	platform, _, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	info.Platform = normalizePlatform(platform)
	info.Version = normalizePlatform(version)

	return info, nil
}
