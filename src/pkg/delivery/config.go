package delivery

import (
	"encoding/json"
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/config"
)

type Config struct {
	OutputDir     string `json:"output_dir,omitempty"`
	EmailProvider string `json:"email_provider,omitempty"`
	EmailSender   string `json:"email_sender,omitempty"`
	EmailSubject  string `json:"email_subject,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		OutputDir:     "./out",
		EmailProvider: "mailgun",
		EmailSubject:  "Your credit card statement analysis",
	}
}

// create config with default values before config gets initialized
var Cfg Config = DefaultValueConfig()

func init() {
	config.RegisterSection("delivery", func(raw json.RawMessage) (e *xerr.Error) {
		localConfig, e := config.DecodeSection[Config]("delivery", raw)
		if e != nil {
			return e
		}
		InitializeConfig(localConfig)
		return nil
	})
}

// InitializeConfig replaces missing values of localConfig with the defaults. nil keeps the defaults.
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "delivery", "not provided", "default delivery config")
		return
	}

	Cfg = *localConfig
	tl.ApplyDefaults(&Cfg, DefaultValueConfig(), func(field string, defVal any) {
		tl.Log(
			tl.Info, palette.Purple,
			"%s field is %s in %s configuration. Using default value: %v",
			field, "missing", config.GetPackageName(), tl.PrettyForStderr(defVal),
		)
	})

	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}
