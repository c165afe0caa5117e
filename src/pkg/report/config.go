package report

import (
	"encoding/json"
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/config"
	"statement-analyzer/src/pkg/report/layout"
)

type Config struct {
	PageWidth        float64 `json:"page_width,omitempty"`
	PageHeight       float64 `json:"page_height,omitempty"`
	Margin           float64 `json:"margin,omitempty"`
	ChartHeight      float64 `json:"chart_height,omitempty"`
	ChartWidthPx     int     `json:"chart_width_px,omitempty"`
	ChartHeightPx    int     `json:"chart_height_px,omitempty"`
	ChartSupersample int     `json:"chart_supersample,omitempty"`
	Title            string  `json:"title,omitempty"`
	Footer           string  `json:"footer,omitempty"`
	Author           string  `json:"author,omitempty"`
	FontFamily       string  `json:"font_family,omitempty"`
}

func DefaultValueConfig() Config {
	page := layout.A4()
	return Config{
		PageWidth:        page.Width,
		PageHeight:       page.Height,
		Margin:           page.Margin,
		ChartHeight:      layout.DefaultChartHeight,
		ChartWidthPx:     800,
		ChartHeightPx:    400,
		ChartSupersample: 2,
		Title:            layout.DefaultTitle,
		Footer:           layout.DefaultFooter,
		Author:           "Credit Card AI Analyzer",
		FontFamily:       "Helvetica",
	}
}

// create config with default values before config gets initialized
var Cfg Config = DefaultValueConfig()

func init() {
	config.RegisterSection("report", func(raw json.RawMessage) (e *xerr.Error) {
		localConfig, e := config.DecodeSection[Config]("report", raw)
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
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "report", "not provided", "default report config")
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

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "report", "provided", "local report config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}

func (c Config) Page() layout.PageSpec {
	return layout.PageSpec{Width: c.PageWidth, Height: c.PageHeight, Margin: c.Margin}
}
