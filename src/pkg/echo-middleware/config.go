package echomw

import (
	"encoding/json"
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/config"
)

type Config struct {
	Address             string   `json:"address,omitempty"`
	Port                int      `json:"port,omitempty"`
	MiddlewareRateLimit int      `json:"middleware_rate_limit,omitempty"`
	MiddlewareBurst     int      `json:"middleware_burst,omitempty"`
	BodyLimit           string   `json:"body_limit,omitempty"`
	RequireBearerToken  bool     `json:"require_bearer_token,omitempty"`
	AllowedOrigins      []string `json:"allowed_origins,omitempty"`
	ChartCacheSize      int      `json:"chart_cache_size,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		Address:             "127.0.0.1",
		Port:                8401,
		MiddlewareRateLimit: 3,
		MiddlewareBurst:     50,
		BodyLimit:           "16M", // statement photos from phones
		AllowedOrigins:      []string{"*"},
		ChartCacheSize:      256,
	}
}

// create config with default values before config gets initialized
var Cfg Config = DefaultValueConfig() // this one we use to access config values from anywhere

func init() {
	config.RegisterSection("server", func(raw json.RawMessage) (e *xerr.Error) {
		localConfig, e := config.DecodeSection[Config]("server", raw)
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
	// If not provided - just use defaultConfig
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "server", "not provided", "default server config")
		return
	}

	defaultConfig := DefaultValueConfig() // Default values to replace some values with during config initialization

	// If local Config is provided - use it
	Cfg = *localConfig

	tl.ApplyDefaults(&Cfg, defaultConfig, func(field string, defVal any) {
		tl.Log(
			tl.Info, palette.Purple,
			"%s field is %s in %s configuration. Using default value: %v",
			field, "missing", config.GetPackageName(), tl.PrettyForStderr(defVal),
		)
	})

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "server", "provided", "local server config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}

// ListenAddress is host:port for echo.Start.
func (c Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}
