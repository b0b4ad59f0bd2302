package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Generator generates Lua configuration code from a Config.
type Generator struct {
	indent string
	now    func() time.Time
}

// NewGenerator creates a new Lua config generator.
func NewGenerator() *Generator {
	return &Generator{
		indent: "  ",
		now:    time.Now,
	}
}

// Generate renders config as a Lua file that ParseString reads back to an
// equal Config. Browsers without overrides are emitted as commented
// examples so the file documents every option.
func (g *Generator) Generate(config *Config) (string, error) {
	if config == nil {
		return "", fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer

	buf.WriteString("-- driverfetch configuration\n")
	buf.WriteString("-- Generated: ")
	buf.WriteString(g.now().Format(time.RFC3339))
	buf.WriteString("\n--\n")
	buf.WriteString("-- The read-only `platform` table describes this machine, e.g.\n")
	buf.WriteString("--   platform.is_linux, platform.tag (\"linux64\"), platform.when(cond, value)\n")
	buf.WriteString("-- Environment variables DRIVERFETCH_* override values set here.\n\n")

	fmt.Fprintf(&buf, "%s = {\n", luaGlobalConfig)
	g.field(&buf, 1, luaFieldRegistry, g.quoteLuaString(config.Registry))
	g.field(&buf, 1, luaFieldInsecureTLS, strconv.FormatBool(config.InsecureTLS))
	g.field(&buf, 1, luaFieldRetries, strconv.Itoa(config.Retries))
	buf.WriteString("\n")

	g.open(&buf, 1, luaFieldTimeouts, "seconds")
	g.field(&buf, 2, luaFieldProcess, seconds(config.Timeouts.Process))
	g.field(&buf, 2, luaFieldNetwork, seconds(config.Timeouts.Network))
	g.close(&buf, 1)
	buf.WriteString("\n")

	g.open(&buf, 1, luaFieldLog, "")
	g.field(&buf, 2, luaFieldLevel, g.quoteLuaString(config.Log.Level))
	g.field(&buf, 2, luaFieldDevelopment, strconv.FormatBool(config.Log.Development))
	g.close(&buf, 1)
	buf.WriteString("\n")

	g.open(&buf, 1, luaFieldBrowsers, "replace the built-in version commands")
	families := config.browserFamilies()
	for _, f := range families {
		bc := config.Browsers[f]
		g.open(&buf, 2, f.String(), "")
		if len(bc.Commands) > 0 {
			g.writeLine(&buf, 3, luaFieldCommands+" = {")
			for _, argv := range bc.Commands {
				g.writeLine(&buf, 4, g.stringList(argv)+",")
			}
			g.writeLine(&buf, 3, "},")
		}
		if bc.Timeout > 0 {
			g.field(&buf, 3, luaFieldTimeout, seconds(bc.Timeout))
		}
		g.close(&buf, 2)
	}
	if len(families) == 0 {
		g.writeLine(&buf, 2, "-- msedge = {")
		g.writeLine(&buf, 2, `--   command = { "/opt/microsoft/msedge/msedge", "--version" },`)
		g.writeLine(&buf, 2, "--   timeout = 5,")
		g.writeLine(&buf, 2, "-- },")
	}
	g.close(&buf, 1)

	buf.WriteString("}\n")
	return buf.String(), nil
}

func (g *Generator) writeLine(buf *bytes.Buffer, depth int, s string) {
	buf.WriteString(strings.Repeat(g.indent, depth))
	buf.WriteString(s)
	buf.WriteString("\n")
}

func (g *Generator) field(buf *bytes.Buffer, depth int, key, value string) {
	g.writeLine(buf, depth, key+" = "+value+",")
}

func (g *Generator) open(buf *bytes.Buffer, depth int, key, comment string) {
	line := key + " = {"
	if comment != "" {
		line += " -- " + comment
	}
	g.writeLine(buf, depth, line)
}

func (g *Generator) close(buf *bytes.Buffer, depth int) {
	g.writeLine(buf, depth, "},")
}

func (g *Generator) stringList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = g.quoteLuaString(s)
	}
	return "{ " + strings.Join(quoted, ", ") + " }"
}

// seconds renders d as a Lua number of seconds.
func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// quoteLuaString quotes a string for Lua, handling special characters.
func (g *Generator) quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // Escape backslashes first
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}
