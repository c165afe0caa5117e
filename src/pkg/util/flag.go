package util

import (
	"os"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

var (
	RequiredFlags     = map[*string]string{}
	RequiredFileFlags = map[*string]string{}
)

// RequiredFlag(inputPtr, "--input"), can also use -input and input
func RequiredFlag(flagPointer *string, cliName string) {
	RequiredFlags[flagPointer] = normalizeFlagName(cliName)
}

// RequiredFileFlag is RequiredFlag plus a check that the value points at an existing file or directory.
func RequiredFileFlag(flagPointer *string, cliName string) {
	RequiredFileFlags[flagPointer] = normalizeFlagName(cliName)
}

func normalizeFlagName(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "--") {
		return s
	}
	if strings.HasPrefix(s, "-") {
		// single dash → double dash
		return "-" + s
	}
	return "--" + s
}

/*
MissingFlags returns the CLI names of every required flag that is empty and
every required file flag whose path does not exist.
*/
func MissingFlags() (missing []string) {
	for flagPointer, cliName := range RequiredFlags {
		if flagPointer == nil || strings.TrimSpace(*flagPointer) == "" {
			tl.Log(tl.Warning, palette.YellowBold, "%s parameter is %s", cliName, "required")
			missing = append(missing, cliName)
		}
	}
	for flagPointer, cliName := range RequiredFileFlags {
		if flagPointer == nil || strings.TrimSpace(*flagPointer) == "" {
			tl.Log(tl.Warning, palette.YellowBold, "%s parameter is %s", cliName, "required")
			missing = append(missing, cliName)
			continue
		}
		_, statErr := os.Stat(*flagPointer)
		if statErr != nil {
			tl.Log(tl.Warning, palette.YellowBold, "%s points to '%s' which is %s", cliName, *flagPointer, "not readable")
			missing = append(missing, cliName)
		}
	}
	return missing
}

// EnsureFlags logs every missing required flag and exits(1) if any were missing.
func EnsureFlags() {
	if len(MissingFlags()) > 0 {
		os.Exit(1)
	}
}
