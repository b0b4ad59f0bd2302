// Package config loads driverfetch settings from a Lua file and the
// environment.
//
// # Overview
//
// Settings are resolved in three layers, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. The Lua config file ($DRIVERFETCH_CONFIG, or config.lua under the
//     user config directory)
//  3. DRIVERFETCH_* environment variables (ApplyEnv)
//
// A missing config file is not an error. The merged result is validated
// once, after the environment has been applied.
//
// # Lua Sandbox
//
// Config files run in a gopher-lua VM with os, io, module loading, debug,
// raw table access and metatable functions removed. string, table and math
// are available. Evaluation is bounded by the context deadline, or by
// DefaultParseTimeout when the context has none.
//
// The platform package injects a read-only `platform` table so one file
// can serve several machines:
//
//	driverfetch = {
//	  timeouts = { process = platform.is_windows and 20 or 10 },
//	}
//
// # Schema
//
//	driverfetch = {
//	  registry = "https://chromedriver.storage.googleapis.com",
//	  insecure_tls = false,            -- archive downloads only
//	  retries = 0,                     -- extra attempts on 5xx/429/transport errors
//	  timeouts = {
//	    process = 10,                  -- seconds per version command
//	    network = 60,                  -- seconds per HTTP request
//	  },
//	  log = { level = "info", development = false },
//	  browsers = {
//	    msedge = {
//	      command = { "/opt/microsoft/msedge/msedge", "--version" },
//	      timeout = 5,
//	    },
//	    chromium = {
//	      commands = {
//	        { "/snap/bin/chromium", "--version" },
//	        { "chromium", "--version" },
//	      },
//	    },
//	  },
//	}
//
// Unknown fields are ignored. Wrongly typed fields are reported as
// *ValidationError; Lua errors as *ParseError.
//
// # Environment
//
//	DRIVERFETCH_CONFIG           path of the Lua file
//	DRIVERFETCH_REGISTRY         registry base URL
//	DRIVERFETCH_INSECURE_TLS     true/false
//	DRIVERFETCH_RETRIES          integer
//	DRIVERFETCH_PROCESS_TIMEOUT  Go duration, e.g. 15s
//	DRIVERFETCH_NETWORK_TIMEOUT  Go duration
//	DRIVERFETCH_LOG_LEVEL        debug, info, warn, error
//	DRIVERFETCH_LOG_DEV          true/false
package config
