package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	got, err := Parse("test", nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got != Default() {
		t.Errorf("got %+v, want defaults %+v", got, Default())
	}
	if got.EdgeThreshold != 10 || got.OverlayAlpha != 0.5 {
		t.Errorf("unexpected reference values: threshold %g, alpha %g", got.EdgeThreshold, got.OverlayAlpha)
	}
}

func TestParse_Precedence(t *testing.T) {
	t.Setenv(EnvPrefix+"EDGE_THRESHOLD", "6")
	t.Setenv(EnvPrefix+"HIGHLIGHT_COLOR", "#FF0000")
	t.Setenv(EnvPrefix+"TOOLTIP_MARGIN", "4")

	got, err := Parse("test", []string{"-edge-threshold", "3", "-image", "photo.jpg"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got.EdgeThreshold != 3 {
		t.Errorf("flag should win over env: got threshold %g", got.EdgeThreshold)
	}
	if got.HighlightColor != "#FF0000" {
		t.Errorf("env should override default: got %s", got.HighlightColor)
	}
	if got.TooltipMargin != 4 {
		t.Errorf("got tooltip margin %d, want 4", got.TooltipMargin)
	}
	if got.ImagePath != "photo.jpg" {
		t.Errorf("got image path %q", got.ImagePath)
	}
}

func TestParse_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.env")
	if err := os.WriteFile(path, []byte("BOARD_OVERLAY_OUTLINE_WIDTH=3.5\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	old := envFile
	envFile = path
	t.Cleanup(func() {
		envFile = old
		os.Unsetenv(EnvPrefix + "OUTLINE_WIDTH")
	})

	got, err := Parse("test", nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got.OutlineWidth != 3.5 {
		t.Errorf("got outline width %g, want 3.5 from .env", got.OutlineWidth)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		want string
	}{
		{"bad env number", map[string]string{"EDGE_THRESHOLD": "ten"}, nil, "EDGE_THRESHOLD"},
		{"alpha out of range", nil, []string{"-overlay-alpha", "1.5"}, "overlay alpha"},
		{"negative threshold", nil, []string{"-edge-threshold", "-1"}, "edge threshold"},
		{"bad colour", nil, []string{"-outline-color", "#XYZ"}, "outline color"},
		{"zero width", nil, []string{"-highlight-width", "0"}, "widths"},
		{"bad level", nil, []string{"-log-level", "loud"}, "log level"},
		{"unknown flag", nil, []string{"-nope"}, "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(EnvPrefix+k, v)
			}
			_, err := Parse("test", tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := Config{LogLevel: tt.in}.Level()
		if err != nil {
			t.Fatalf("Level(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Level(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger(t *testing.T) {
	var sb strings.Builder
	log := Config{LogLevel: "warn"}.Logger(&sb)

	log.Info("hidden")
	log.Warn("shown", "board", 2)

	out := sb.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "board=2") {
		t.Errorf("missing warn record: %s", out)
	}
}

func TestPrintDefaults_ListsEveryFlag(t *testing.T) {
	var buf bytes.Buffer
	PrintDefaults(&buf, "test")
	out := buf.String()

	for _, name := range []string{
		"log-level", "edge-threshold", "overlay-alpha", "outline-color", "outline-width",
		"highlight-color", "highlight-width", "tooltip-offset", "tooltip-margin", "image", "result",
	} {
		if !strings.Contains(out, "-"+name) {
			t.Errorf("usage is missing -%s", name)
		}
	}
	if !strings.Contains(out, "#00FF00") {
		t.Errorf("usage should show defaults, got:\n%s", out)
	}
}
