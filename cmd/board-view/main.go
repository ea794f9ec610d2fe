package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/ironsheep/board-overlay-mcp/internal/config"
	"github.com/ironsheep/board-overlay-mcp/internal/detection"
	"github.com/ironsheep/board-overlay-mcp/internal/imaging"
	"github.com/ironsheep/board-overlay-mcp/internal/interaction"
	"github.com/ironsheep/board-overlay-mcp/internal/render"
	"github.com/ironsheep/board-overlay-mcp/internal/tooltip"
	"github.com/ironsheep/board-overlay-mcp/internal/viewer"
)

func main() {
	cfg, err := config.Parse("board-view", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "board-view: %v\n", err)
		os.Exit(2)
	}
	log := cfg.Logger(os.Stderr)

	if cfg.ImagePath == "" || cfg.ResultPath == "" {
		log.Error("both -image and -result are required")
		os.Exit(2)
	}

	img, err := imaging.NewImageCache().Load(cfg.ImagePath)
	if err != nil {
		log.Error("loading image failed", "error", err)
		os.Exit(1)
	}
	result, err := detection.LoadFile(cfg.ResultPath)
	if err != nil {
		log.Error("loading analysis result failed", "error", err)
		os.Exit(1)
	}
	for _, problem := range result.Validate() {
		log.Warn("analysis payload problem", "problem", problem)
	}

	style, err := render.StyleFromConfig(cfg)
	if err != nil {
		log.Error("invalid style", "error", err)
		os.Exit(1)
	}

	ctrl := interaction.New(render.NewSceneRenderer(style), interaction.OptionsFrom(cfg))
	if err := ctrl.SetSource(img, result); err != nil {
		log.Error("initial render failed", "error", err)
		os.Exit(1)
	}

	panel, err := tooltip.NewPanel(13)
	if err != nil {
		log.Error("loading tooltip font failed", "error", err)
		os.Exit(1)
	}
	defer panel.Close()

	v, err := viewer.New(ctrl, panel, log)
	if err != nil {
		log.Error("creating viewer failed", "error", err)
		os.Exit(1)
	}

	log.Info("viewer started", "image", cfg.ImagePath, "boards", len(result.Boards))
	if err := viewer.Run(v, "Board overlay - "+cfg.ImagePath); err != nil {
		log.Error("viewer stopped", "error", err)
		os.Exit(1)
	}
}
