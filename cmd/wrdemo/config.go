package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jessevdk/go-flags"
)

// config holds every demo setting. Values come from the defaults, then the
// TOML file named by --config, then the remaining flags.
type config struct {
	Config string `long:"config" description:"TOML file with default settings" toml:"-"`

	Scene      string `long:"scene" choice:"test1" choice:"test2" description:"reference scene to build" toml:"scene"`
	Width      int    `long:"width" description:"device width in pixels" toml:"width"`
	Height     int    `long:"height" description:"device height in pixels" toml:"height"`
	Output     string `long:"output" short:"o" description:"PNG file to write; empty to skip" toml:"output"`
	Font       string `long:"font" description:"font file for text runs; Go Regular when empty" toml:"font"`
	FontParser string `long:"font-parser" description:"font parser (ximage or gotext)" toml:"font_parser"`
	Image      string `long:"image" description:"image file for image primitives; a generated checkerboard when empty" toml:"image"`
	Listen     string `long:"listen" description:"serve the inspector on this address after rendering" toml:"listen"`
	LogLevel   string `long:"log-level" description:"debug, info, warn or error" toml:"log_level"`
}

func defaultConfig() config {
	return config{
		Scene:    "test1",
		Width:    1024,
		Height:   1024,
		Output:   "wrdemo.png",
		LogLevel: "info",
	}
}

// loadConfig resolves the configuration for args (without the program name).
func loadConfig(args []string) (config, error) {
	var pre struct {
		Config string `long:"config"`
	}
	if _, err := flags.NewParser(&pre, flags.IgnoreUnknown).ParseArgs(args); err != nil {
		return config{}, err
	}

	cfg := defaultConfig()
	if pre.Config != "" {
		md, err := toml.DecodeFile(pre.Config, &cfg)
		if err != nil {
			return config{}, fmt.Errorf("wrdemo: config %s: %w", pre.Config, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return config{}, fmt.Errorf("wrdemo: config %s: unknown keys %v", pre.Config, undecoded)
		}
	}

	if _, err := flags.NewParser(&cfg, flags.HelpFlag|flags.PassDoubleDash).ParseArgs(args); err != nil {
		return config{}, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return config{}, fmt.Errorf("wrdemo: invalid size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Scene != "test1" && cfg.Scene != "test2" {
		return config{}, fmt.Errorf("wrdemo: unknown scene %q", cfg.Scene)
	}
	return cfg, nil
}

func (c config) level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel)))
	return l, err
}
