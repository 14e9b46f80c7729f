package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/square-hough/internal/config"
	"github.com/ironsheep/square-hough/internal/server"
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
			fmt.Printf("square-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("square-mcp - MCP server for square detection in camera frames")
			fmt.Println()
			fmt.Println("Usage: square-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Println("  SQUARE_MCP_LOG_LEVEL=debug        Enable debug logging")
			fmt.Println("  SQUARE_LENGTH=80                  Default square edge length")
			fmt.Println("  SQUARE_MIN_LENGTH, SQUARE_MAX_LENGTH  Edge length range (default: length)")
			fmt.Println("  SQUARE_SCORE_MIN=90               Minimum votes to report a square")
			fmt.Println("  SQUARE_SCORE_MAX=0                Maximum votes (0 = no maximum)")
			fmt.Println("  SQUARE_LIMIT=10                   Maximum squares reported")
			fmt.Println("  SQUARE_CANNY_LOW=23, SQUARE_CANNY_HIGH=20  Edge thresholds")
			fmt.Println("  SQUARE_BLUR_RADIUS=3              Blur before edge detection")
			fmt.Println("  SQUARE_STRATEGY=adaptive          exhaustive or adaptive")
			fmt.Println("  SQUARE_BUDGET=15000               Adaptive sampler probes")
			fmt.Println("  SQUARE_SEED=1                     Adaptive sampler seed")
			fmt.Println("  SQUARE_LEGACY_LEFT_COLUMN=false   Skip left-side votes like the first release")
			fmt.Println("  SQUARE_OVERFLOW_GUARD=legacy      legacy, uint64 or a number")
			fmt.Println("  SQUARE_CROP=x1,y1,x2,y2           Region of interest")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.Debug() {
		log.Printf("Square MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Defaults: length=%v strategy=%s score>=%d limit=%d", cfg.Length, cfg.Strategy, cfg.ScoreMin, cfg.Limit)
	}

	server.Version = Version
	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
