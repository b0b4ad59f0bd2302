package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM strips everything from the VM that reaches outside it:
// process control (os), file access (io), code loading (require, dofile,
// loadfile, load, loadstring) and the debug library. Raw table access and
// metatable functions go too, so the read-only platform table stays
// read-only.
//
// string, table and math remain, as do the basic functions (type,
// tostring, tonumber, pairs, ipairs, next, select, error, pcall).
func sandboxLuaVM(L *lua.LState) {
	for _, name := range []string{
		"os",
		"io",
		"require",
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"module",
		"debug",
		"package",
		"rawset",
		"rawget",
		"rawequal",
		"setmetatable",
		"getmetatable",
		"setfenv",
		"getfenv",
		"collectgarbage",
	} {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a new Lua VM with sandboxing applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize:       256,
		IncludeGoStackTrace: false,
	})
	sandboxLuaVM(L)
	return L
}
