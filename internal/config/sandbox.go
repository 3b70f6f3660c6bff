package config

import (
	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals are removed from every manifest VM: anything that reaches
// the process, the filesystem, or loads further code.
var blockedGlobals = []string{
	"os",
	"io",
	"require",
	"module",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"debug",
	"package",
}

// sandboxLuaVM strips a Lua VM down to the pure libraries (string, table,
// math and the basic functions). Manifests stay declarative.
func sandboxLuaVM(L *lua.LState) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a Lua VM with sandboxing applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
