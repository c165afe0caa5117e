package backend

import (
	"encoding/json"
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/config"
)

type Config struct {
	BaseURL               string `json:"base_url,omitempty"`
	HealthTimeoutSeconds  int    `json:"health_timeout_seconds,omitempty"`
	ExtractTimeoutSeconds int    `json:"extract_timeout_seconds,omitempty"`
	AnalyzeTimeoutSeconds int    `json:"analyze_timeout_seconds,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		BaseURL:               "http://localhost:5000",
		HealthTimeoutSeconds:  5,
		ExtractTimeoutSeconds: 60,
		AnalyzeTimeoutSeconds: 180, // analysis runs a model on the image
	}
}

// create config with default values before config gets initialized
var Cfg Config = DefaultValueConfig()

func init() {
	config.RegisterSection("backend", func(raw json.RawMessage) (e *xerr.Error) {
		localConfig, e := config.DecodeSection[Config]("backend", raw)
		if e != nil {
			return e
		}
		InitializeConfig(localConfig)
		return nil
	})
}

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "backend", "not provided", "default backend config")
		return
	}

	defaultConfig := DefaultValueConfig()
	Cfg = *localConfig

	tl.ApplyDefaults(&Cfg, defaultConfig, func(field string, defVal any) {
		tl.Log(
			tl.Info, palette.Purple,
			"%s field is %s in %s configuration. Using default value: %v",
			field, "missing", config.GetPackageName(), tl.PrettyForStderr(defVal),
		)
	})

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "backend", "provided", "local backend config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}
