// Package config resolves runtime settings for the overlay tools from command-line
// flags, BOARD_OVERLAY_* environment variables and an optional .env file, in that order
// of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/board-overlay-mcp/internal/imaging"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "BOARD_OVERLAY_"

// envFile is the dotenv file loaded before flags are parsed. A missing file is not an error.
var envFile = ".env"

// Config holds every tunable of the overlay engine and its hosts.
type Config struct {
	LogLevel string

	EdgeThreshold  float64
	OverlayAlpha   float64
	OutlineColor   string
	OutlineWidth   float64
	HighlightColor string
	HighlightWidth float64

	TooltipOffset int
	TooltipMargin int

	// Viewer inputs; the MCP server takes paths per request instead.
	ImagePath  string
	ResultPath string
}

// Default returns the reference settings.
func Default() Config {
	return Config{
		LogLevel:       "info",
		EdgeThreshold:  10,
		OverlayAlpha:   0.5,
		OutlineColor:   "#FFFFFF",
		OutlineWidth:   2,
		HighlightColor: "#00FF00",
		HighlightWidth: 4,
		TooltipOffset:  15,
		TooltipMargin:  10,
	}
}

// Parse builds a Config for the program called name from args (without the program name).
func Parse(name string, args []string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg, err := fromEnv(Default())
	if err != nil {
		return Config{}, err
	}

	flags := newFlagSet(name, &cfg)
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// PrintDefaults writes the usage line of every flag Parse accepts to w.
func PrintDefaults(w io.Writer, name string) {
	cfg := Default()
	flags := newFlagSet(name, &cfg)
	flags.SetOutput(w)
	flags.PrintDefaults()
}

func newFlagSet(name string, cfg *Config) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Float64Var(&cfg.EdgeThreshold, "edge-threshold", cfg.EdgeThreshold, "Edge hit tolerance in image pixels")
	flags.Float64Var(&cfg.OverlayAlpha, "overlay-alpha", cfg.OverlayAlpha, "Opacity of the spotlight shade (0-1)")
	flags.StringVar(&cfg.OutlineColor, "outline-color", cfg.OutlineColor, "Board outline colour")
	flags.Float64Var(&cfg.OutlineWidth, "outline-width", cfg.OutlineWidth, "Board outline width")
	flags.StringVar(&cfg.HighlightColor, "highlight-color", cfg.HighlightColor, "Highlighted board outline colour")
	flags.Float64Var(&cfg.HighlightWidth, "highlight-width", cfg.HighlightWidth, "Highlighted board outline width")
	flags.IntVar(&cfg.TooltipOffset, "tooltip-offset", cfg.TooltipOffset, "Tooltip distance from the pointer")
	flags.IntVar(&cfg.TooltipMargin, "tooltip-margin", cfg.TooltipMargin, "Tooltip distance from the container edge")
	flags.StringVar(&cfg.ImagePath, "image", cfg.ImagePath, "Photograph to display (viewer only)")
	flags.StringVar(&cfg.ResultPath, "result", cfg.ResultPath, "Analysis result JSON for the photograph (viewer only)")
	return flags
}

// fromEnv overrides cfg with any BOARD_OVERLAY_* variables that are set.
func fromEnv(cfg Config) (Config, error) {
	var errs []error

	str := func(key string, dst *string) {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}
	float := func(key string, dst *float64) {
		v := os.Getenv(EnvPrefix + key)
		if v == "" {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err))
			return
		}
		*dst = f
	}
	integer := func(key string, dst *int) {
		v := os.Getenv(EnvPrefix + key)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err))
			return
		}
		*dst = n
	}

	str("LOG_LEVEL", &cfg.LogLevel)
	float("EDGE_THRESHOLD", &cfg.EdgeThreshold)
	float("OVERLAY_ALPHA", &cfg.OverlayAlpha)
	str("OUTLINE_COLOR", &cfg.OutlineColor)
	float("OUTLINE_WIDTH", &cfg.OutlineWidth)
	str("HIGHLIGHT_COLOR", &cfg.HighlightColor)
	float("HIGHLIGHT_WIDTH", &cfg.HighlightWidth)
	integer("TOOLTIP_OFFSET", &cfg.TooltipOffset)
	integer("TOOLTIP_MARGIN", &cfg.TooltipMargin)
	str("IMAGE", &cfg.ImagePath)
	str("RESULT", &cfg.ResultPath)

	return cfg, errors.Join(errs...)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.EdgeThreshold < 0 {
		return fmt.Errorf("edge threshold must not be negative, got %g", c.EdgeThreshold)
	}
	if c.OverlayAlpha < 0 || c.OverlayAlpha > 1 {
		return fmt.Errorf("overlay alpha must be between 0 and 1, got %g", c.OverlayAlpha)
	}
	if c.OutlineWidth <= 0 || c.HighlightWidth <= 0 {
		return fmt.Errorf("outline widths must be positive, got %g and %g", c.OutlineWidth, c.HighlightWidth)
	}
	if _, err := imaging.ParseColor(c.OutlineColor); err != nil {
		return fmt.Errorf("outline color: %w", err)
	}
	if _, err := imaging.ParseColor(c.HighlightColor); err != nil {
		return fmt.Errorf("highlight color: %w", err)
	}
	if c.TooltipOffset < 0 || c.TooltipMargin < 0 {
		return fmt.Errorf("tooltip offset and margin must not be negative")
	}
	return nil
}

// Level converts LogLevel to a slog level.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return l, nil
}

// Logger returns a text logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
