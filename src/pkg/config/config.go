package config

import (
	"encoding/json"
	"errors"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
SectionInitializer receives the raw JSON of one top-level config section.

raw is nil when the section is absent from the file, in which case the
package keeps its defaults.
*/
type SectionInitializer func(raw json.RawMessage) (e *xerr.Error)

var (
	sectionsMu sync.Mutex
	sections   = map[string]SectionInitializer{}
)

/*
RegisterSection makes a package's config reachable from the config file under
the given top-level key. Packages call it from init().
*/
func RegisterSection(name string, initializer SectionInitializer) {
	sectionsMu.Lock()
	defer sectionsMu.Unlock()
	sections[name] = initializer
}

/*
InitializeConfig loads .env (when present), reads the JSON config file and
hands every registered section to its package. A missing config file is not
fatal: every package keeps its default config. Any other failure exits.
*/
func InitializeConfig(configPath string) {
	e := LoadConfig(configPath)
	e.QuitIf(xerr.ErrorTypeError)
}

/*
LoadConfig is InitializeConfig without the exit, used by tests and by
programs that want to handle the error themselves.
*/
func LoadConfig(configPath string) (e *xerr.Error) {
	envErr := godotenv.Load()
	if envErr != nil {
		tl.Log(tl.Verbose, palette.CyanDim, "%s file is %s, using process environment only", ".env", "not loaded")
	}

	raw := map[string]json.RawMessage{}
	content, readErr := os.ReadFile(configPath)
	switch {
	case errors.Is(readErr, os.ErrNotExist):
		tl.Log(tl.Warning, palette.Yellow, "Config file '%s' is %s, keeping default values everywhere", configPath, "missing")
	case readErr != nil:
		return xerr.NewError(readErr, "read config file", configPath)
	default:
		unmarshalErr := json.Unmarshal(content, &raw)
		if unmarshalErr != nil {
			return xerr.NewError(unmarshalErr, "parse config file", configPath)
		}
		tl.Log(tl.Info, palette.Green, "Loaded config file '%s' with %s sections", configPath, len(raw))
	}

	sectionsMu.Lock()
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sectionsMu.Unlock()
	sort.Strings(names)

	for _, name := range names {
		sectionsMu.Lock()
		initializer := sections[name]
		sectionsMu.Unlock()

		e = initializer(raw[name])
		if e != nil {
			return e
		}
	}

	sectionsMu.Lock()
	defer sectionsMu.Unlock()
	for name := range raw {
		if _, known := sections[name]; !known {
			tl.Log(tl.Warning, palette.YellowDim, "Config section '%s' is %s by this program", name, "not used")
		}
	}
	return nil
}

/*
DecodeSection unmarshals a raw section into a fresh *T. It returns nil, nil
when the section is absent so callers can pass the result straight to their
InitializeConfig.
*/
func DecodeSection[T any](name string, raw json.RawMessage) (section *T, e *xerr.Error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	section = new(T)
	err := json.Unmarshal(raw, section)
	if err != nil {
		return nil, xerr.NewError(err, "parse config section", name)
	}
	return section, nil
}

// CheckIfEnvVarsPresent warns about every unset variable. Missing secrets only matter to the features that use them.
func CheckIfEnvVarsPresent(names ...string) (missing []string) {
	for _, name := range names {
		if strings.TrimSpace(os.Getenv(name)) == "" {
			missing = append(missing, name)
			tl.Log(tl.Warning, palette.Yellow, "Environment variable %s is %s", name, "not set")
		}
	}
	return missing
}

/*
GetPackageName returns the name of the package that called it, taken from
the directory of the caller's import path (e.g. "echo-middleware").
*/
func GetPackageName() string {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return "unknown"
	}
	function := runtime.FuncForPC(pc)
	if function == nil {
		return "unknown"
	}
	return packageFromFuncName(function.Name())
}

func packageFromFuncName(funcName string) string {
	lastSlash := strings.LastIndex(funcName, "/")
	rest := funcName[lastSlash+1:]
	dot := strings.Index(rest, ".")
	if dot < 0 {
		return rest
	}
	return rest[:dot]
}
