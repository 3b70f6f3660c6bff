//go:build unix

package binary

import "golang.org/x/sys/unix"

const ownerExec = unix.S_IXUSR
