package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/board-overlay-mcp/internal/config"
	"github.com/ironsheep/board-overlay-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("board-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("board-mcp - MCP server for inspecting detected wooden boards on a photo")
			fmt.Println()
			fmt.Println("Usage: board-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v          Print version information")
			fmt.Println("  --help, -h             Print this help message")
			config.PrintDefaults(os.Stdout, "board-mcp")
			fmt.Println()
			fmt.Println("Every option can also be set as BOARD_OVERLAY_<NAME> in the environment or a .env file,")
			fmt.Println("e.g. BOARD_OVERLAY_LOG_LEVEL=debug.")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	cfg, err := config.Parse("board-mcp", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "board-mcp: %v\n", err)
		os.Exit(2)
	}

	// Logging goes to stderr; stdout is for MCP protocol
	log := cfg.Logger(os.Stderr)
	log.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := srv.Run(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
