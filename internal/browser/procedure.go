package browser

import (
	"strings"

	"github.com/ZebulonRouseFrantzich/driverfetch/internal/platform"
)

// Procedure is an ordered list of candidate commands. Each command is an
// argv slice; the first element is resolved through PATH unless it is a path.
type Procedure struct {
	Commands [][]string
}

// String renders the candidates the way a user would type them, joined by
// " || ".
func (p Procedure) String() string {
	parts := make([]string, 0, len(p.Commands))
	for _, argv := range p.Commands {
		parts = append(parts, commandLine(argv))
	}
	return strings.Join(parts, " || ")
}

type key struct {
	os     platform.OSFamily
	family Family
}

const (
	regChrome   = `HKEY_CURRENT_USER\Software\Google\Chrome\BLBeacon`
	regEdge     = `HKEY_CURRENT_USER\SOFTWARE\Microsoft\Edge\BLBeacon`
	regChromium = `HKLM\SOFTWARE\Wow6432Node\Microsoft\Windows\CurrentVersion\Uninstall\Google Chrome`
)

func regQuery(k string) []string {
	return []string{"reg", "query", k, "/v", "version"}
}

func macApp(name string) []string {
	return []string{"/Applications/" + name + ".app/Contents/MacOS/" + name, "--version"}
}

// procedures holds the built-in introspection commands. Edge on Linux has no
// entry.
var procedures = map[key]Procedure{
	{platform.Windows, Chrome}:       {Commands: [][]string{regQuery(regChrome)}},
	{platform.Windows, Chromium}:     {Commands: [][]string{regQuery(regChromium)}},
	{platform.Windows, EdgeChromium}: {Commands: [][]string{regQuery(regEdge)}},

	{platform.Linux, Chrome}: {Commands: [][]string{
		{"google-chrome", "--version"},
		{"google-chrome-stable", "--version"},
	}},
	{platform.Linux, Chromium}: {Commands: [][]string{
		{"chromium", "--version"},
		{"chromium-browser", "--version"},
	}},

	{platform.Mac, Chrome}:       {Commands: [][]string{macApp("Google Chrome")}},
	{platform.Mac, Chromium}:     {Commands: [][]string{macApp("Chromium")}},
	{platform.Mac, EdgeChromium}: {Commands: [][]string{macApp("Microsoft Edge")}},
}

// Overrides replaces the built-in commands for a family on every OS.
type Overrides map[Family][][]string

// Lookup returns the procedure for an OS and browser family. Overrides take
// precedence over the built-in table; the boolean is false when neither has
// an entry.
func Lookup(os platform.OSFamily, f Family, overrides Overrides) (Procedure, bool) {
	if cmds, ok := overrides[f]; ok && len(cmds) > 0 {
		return Procedure{Commands: cloneCommands(cmds)}, true
	}
	p, ok := procedures[key{os, f}]
	if !ok {
		return Procedure{}, false
	}
	return Procedure{Commands: cloneCommands(p.Commands)}, true
}

func cloneCommands(cmds [][]string) [][]string {
	out := make([][]string, 0, len(cmds))
	for _, argv := range cmds {
		if len(argv) == 0 {
			continue
		}
		out = append(out, append([]string(nil), argv...))
	}
	return out
}

// commandLine quotes arguments containing spaces so the rendered command can
// be pasted into a shell.
func commandLine(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		if strings.ContainsAny(a, " \t") {
			parts[i] = `"` + a + `"`
		} else {
			parts[i] = a
		}
	}
	return strings.Join(parts, " ")
}
