package config

import "time"

// Lua schema field names and globals
const (
	luaGlobalConfig     = "driverfetch"
	luaFieldRegistry    = "registry"
	luaFieldInsecureTLS = "insecure_tls"
	luaFieldRetries     = "retries"
	luaFieldTimeouts    = "timeouts"
	luaFieldProcess     = "process"
	luaFieldNetwork     = "network"
	luaFieldLog         = "log"
	luaFieldLevel       = "level"
	luaFieldDevelopment = "development"
	luaFieldBrowsers    = "browsers"
	luaFieldCommand     = "command"
	luaFieldCommands    = "commands"
	luaFieldTimeout     = "timeout"
)

// Limits applied while reading config files.
const (
	// MaxConfigSize is the largest config file that will be parsed.
	MaxConfigSize = 1 << 20

	// DefaultParseTimeout bounds Lua evaluation when the context has no
	// deadline.
	DefaultParseTimeout = 5 * time.Second
)
