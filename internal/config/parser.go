package config

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/browser"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/logging"
	"github.com/ZebulonRouseFrantzich/driverfetch/internal/platform"
)

// Parser represents a Lua config parser with platform detection.
type Parser struct {
	detector platform.Detector
	logger   logging.Logger
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector leaves the platform table undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector, logger: logging.Nop()}
}

// WithLogger sets the logger used for parse diagnostics.
func (p *Parser) WithLogger(l logging.Logger) *Parser {
	p.logger = logging.OrNop(l)
	return p
}

// ParseFile reads and parses a config file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > MaxConfigSize {
		return nil, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s is %d bytes, maximum is %d", path, info.Size(), MaxConfigSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	p.logger.Debug("parsing config file", "path", path, "bytes", len(data))
	return p.ParseString(ctx, string(data))
}

// ParseString parses a Lua config from a string. Fields the code does not
// set keep their Default values. The result is validated.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	L.SetContext(ctx)
	if err := L.DoString(luaCode); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ParseError{Message: "config evaluation aborted", Detail: ctxErr.Error(), Err: ctxErr}
		}
		return nil, &ParseError{Message: "Lua syntax error", Detail: err.Error(), Err: err}
	}

	cfg, err := extractConfig(L)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// extractConfig reads the global "driverfetch" table over the defaults.
// An absent table is allowed and yields the defaults.
func extractConfig(L *lua.LState) (*Config, error) {
	cfg := Default()

	root := L.GetGlobal(luaGlobalConfig)
	if root.Type() == lua.LTNil {
		return cfg, nil
	}
	table, ok := root.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid '%s' table", luaGlobalConfig),
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}

	if err := getString(table, luaFieldRegistry, luaFieldRegistry, &cfg.Registry); err != nil {
		return nil, err
	}
	if err := getBool(table, luaFieldInsecureTLS, luaFieldInsecureTLS, &cfg.InsecureTLS); err != nil {
		return nil, err
	}
	if err := getInt(table, luaFieldRetries, luaFieldRetries, &cfg.Retries); err != nil {
		return nil, err
	}

	if t, err := getTable(table, luaFieldTimeouts, luaFieldTimeouts); err != nil {
		return nil, err
	} else if t != nil {
		if err := getSeconds(t, luaFieldProcess, "timeouts.process", &cfg.Timeouts.Process); err != nil {
			return nil, err
		}
		if err := getSeconds(t, luaFieldNetwork, "timeouts.network", &cfg.Timeouts.Network); err != nil {
			return nil, err
		}
	}

	if t, err := getTable(table, luaFieldLog, luaFieldLog); err != nil {
		return nil, err
	} else if t != nil {
		if err := getString(t, luaFieldLevel, "log.level", &cfg.Log.Level); err != nil {
			return nil, err
		}
		if err := getBool(t, luaFieldDevelopment, "log.development", &cfg.Log.Development); err != nil {
			return nil, err
		}
	}

	if t, err := getTable(table, luaFieldBrowsers, luaFieldBrowsers); err != nil {
		return nil, err
	} else if t != nil {
		browsers, err := extractBrowsers(t)
		if err != nil {
			return nil, err
		}
		cfg.Browsers = browsers
	}

	return cfg, nil
}

// extractBrowsers reads browsers.<family> entries. Family names go through
// browser.ParseFamily, so "edge" lands on msedge.
func extractBrowsers(table *lua.LTable) (map[browser.Family]BrowserConfig, error) {
	out := map[browser.Family]BrowserConfig{}
	var firstErr error

	table.ForEach(func(key, value lua.LValue) {
		if firstErr != nil {
			return
		}
		name, ok := key.(lua.LString)
		if !ok {
			firstErr = &ValidationError{Field: luaFieldBrowsers, Message: fmt.Sprintf("keys must be browser names, got %s", key.Type())}
			return
		}
		field := luaFieldBrowsers + "." + string(name)

		family, err := browser.ParseFamily(string(name))
		if err != nil {
			firstErr = &ValidationError{Field: field, Message: err.Error()}
			return
		}
		entry, ok := value.(*lua.LTable)
		if !ok {
			firstErr = &ValidationError{Field: field, Message: fmt.Sprintf("expected table, got %s", value.Type())}
			return
		}

		bc := BrowserConfig{}
		if err := getSeconds(entry, luaFieldTimeout, field+".timeout", &bc.Timeout); err != nil {
			firstErr = err
			return
		}

		if v := entry.RawGetString(luaFieldCommand); v != lua.LNil {
			argv, err := stringList(v, field+".command")
			if err != nil {
				firstErr = err
				return
			}
			bc.Commands = append(bc.Commands, argv)
		}
		if v := entry.RawGetString(luaFieldCommands); v != lua.LNil {
			list, ok := v.(*lua.LTable)
			if !ok {
				firstErr = &ValidationError{Field: field + ".commands", Message: fmt.Sprintf("expected table, got %s", v.Type())}
				return
			}
			for i := 1; i <= list.Len(); i++ {
				argv, err := stringList(list.RawGetInt(i), fmt.Sprintf("%s.commands[%d]", field, i-1))
				if err != nil {
					firstErr = err
					return
				}
				bc.Commands = append(bc.Commands, argv)
			}
		}

		out[family] = bc
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// stringList converts a Lua array of strings to argv. Nil holes from
// platform conditionals are skipped.
func stringList(v lua.LValue, field string) ([]string, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return nil, &ValidationError{Field: field, Message: fmt.Sprintf("expected list of strings, got %s", v.Type())}
	}
	var out []string
	for i := 1; i <= t.MaxN(); i++ {
		item := t.RawGetInt(i)
		switch item.Type() {
		case lua.LTNil:
			continue
		case lua.LTString:
			out = append(out, item.String())
		default:
			return nil, &ValidationError{Field: fmt.Sprintf("%s[%d]", field, i-1), Message: fmt.Sprintf("expected string, got %s", item.Type())}
		}
	}
	return out, nil
}

func typeError(field string, want string, got lua.LValue) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("expected %s, got %s", want, got.Type())}
}

func getTable(t *lua.LTable, key, field string) (*lua.LTable, error) {
	v := t.RawGetString(key)
	switch tv := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case *lua.LTable:
		return tv, nil
	default:
		return nil, typeError(field, "table", v)
	}
}

func getString(t *lua.LTable, key, field string, dst *string) error {
	v := t.RawGetString(key)
	if v == lua.LNil {
		return nil
	}
	s, ok := v.(lua.LString)
	if !ok {
		return typeError(field, "string", v)
	}
	*dst = string(s)
	return nil
}

func getBool(t *lua.LTable, key, field string, dst *bool) error {
	v := t.RawGetString(key)
	if v == lua.LNil {
		return nil
	}
	b, ok := v.(lua.LBool)
	if !ok {
		return typeError(field, "boolean", v)
	}
	*dst = bool(b)
	return nil
}

func getInt(t *lua.LTable, key, field string, dst *int) error {
	v := t.RawGetString(key)
	if v == lua.LNil {
		return nil
	}
	n, ok := v.(lua.LNumber)
	if !ok {
		return typeError(field, "number", v)
	}
	f := float64(n)
	if f != math.Trunc(f) {
		return &ValidationError{Field: field, Message: fmt.Sprintf("expected integer, got %v", f)}
	}
	*dst = int(f)
	return nil
}

// getSeconds reads a number of seconds, fractions allowed.
func getSeconds(t *lua.LTable, key, field string, dst *time.Duration) error {
	v := t.RawGetString(key)
	if v == lua.LNil {
		return nil
	}
	n, ok := v.(lua.LNumber)
	if !ok {
		return typeError(field, "number of seconds", v)
	}
	*dst = time.Duration(float64(n) * float64(time.Second))
	return nil
}

// FormatError formats a config error for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
