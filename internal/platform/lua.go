package platform

import (
	"errors"

	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable defines the read-only global "platform" in L so that
// configuration code can branch on the host. It must run before the config
// is evaluated.
//
//	platform.tag          "linux64", "mac64", "win32"
//	platform.os_family    "linux", "mac", "win"
//	platform.when(c, v)   v if c is truthy, else nil
func InjectPlatformTable(L *lua.LState, info *Info) error {
	if info == nil {
		return errors.New("platform: nil info")
	}
	tag := info.Tag()

	fields := L.NewTable()
	for name, value := range map[string]lua.LValue{
		"os":          lua.LString(info.OS),
		"arch":        lua.LString(info.Arch),
		"arch_raw":    lua.LString(info.ArchRaw),
		"kernel_arch": lua.LString(info.KernelArch),
		"tag":         lua.LString(tag.String()),
		"os_family":   lua.LString(tag.OS.String()),
		"bits":        lua.LString(tag.Bits),
		"is_linux":    lua.LBool(info.IsLinux()),
		"is_macos":    lua.LBool(info.IsMacOS()),
		"is_windows":  lua.LBool(info.IsWindows()),
		"is_64bit":    lua.LBool(info.Is64Bit()),
		"distro":      distroValue(L, info),
		"when":        L.NewFunction(luaWhen),
	} {
		fields.RawSetString(name, value)
	}

	L.SetGlobal("platform", readOnly(L, "platform", fields))
	return nil
}

func distroValue(L *lua.LState, info *Info) lua.LValue {
	d := info.GetDistro()
	if d == nil {
		return lua.LNil
	}
	t := L.NewTable()
	t.RawSetString("id", lua.LString(d.ID))
	t.RawSetString("family", lua.LString(d.Family))
	t.RawSetString("version", lua.LString(d.Version))
	return readOnly(L, "platform.distro", t)
}

func luaWhen(L *lua.LState) int {
	if lua.LVAsBool(L.Get(1)) {
		L.Push(L.Get(2))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

// readOnly wraps t in an empty proxy whose metatable reads through to t and
// raises on assignment. __metatable hides the metatable from scripts.
func readOnly(L *lua.LState, name string, t *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	mt.RawSetString("__index", t)
	mt.RawSetString("__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("%s is read-only", name)
		return 0
	}))
	mt.RawSetString("__metatable", lua.LString("locked"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}
