//go:build !unix

package binary

const ownerExec = 0o100
