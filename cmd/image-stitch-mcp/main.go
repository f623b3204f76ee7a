package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/ironsheep/image-stitch-mcp/internal/config"
	"github.com/ironsheep/image-stitch-mcp/internal/imaging"
	"github.com/ironsheep/image-stitch-mcp/internal/server"
	"github.com/ironsheep/image-stitch-mcp/internal/stitch"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var errUsage = errors.New("usage: image-stitch-mcp stitch <-v|-h> image1 image2 output")

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-stitch-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  OpenCV stitcher: %v\n", stitch.OpenCVAvailable)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	stitch.SetLogger(logger)

	if len(os.Args) > 1 && os.Args[1] == "stitch" {
		if err := runStitch(cfg, os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			if errors.Is(err, errUsage) {
				os.Exit(2)
			}
			os.Exit(1)
		}
		return
	}

	if level <= slog.LevelDebug {
		log.Printf("Image Stitch MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	server.Version = Version
	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("image-stitch-mcp - MCP server for stitching overlapping images")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  image-stitch-mcp [options]")
	fmt.Println("  image-stitch-mcp stitch <-v|-h> image1 image2 output")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  stitch           Join two images vertically (-v) or horizontally (-h)")
	fmt.Println("                   and write the result to output as PNG")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=path      Configuration file (default ./image-stitch.yml)\n", config.EnvConfigPath)
	fmt.Printf("  %s=debug  Log level: debug, info, warn, error\n", config.EnvLogLevel)
	fmt.Println()
	fmt.Println("Without a command the server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

// runStitch implements the stitch command: two inputs, one direction flag,
// one PNG output.
func runStitch(cfg *config.Config, args []string, stdout io.Writer) error {
	if len(args) != 4 {
		return errUsage
	}

	var axis stitch.Axis
	switch args[0] {
	case "-v":
		axis = stitch.Vertical
	case "-h":
		axis = stitch.Horizontal
	default:
		return fmt.Errorf("%w: unknown direction %q", errUsage, args[0])
	}

	ctx := context.Background()
	bufs, err := imaging.DecodeAll(ctx, args[1:3], cfg.DecodeWorkers)
	if err != nil {
		return errors.New(stitch.Describe(nil, err))
	}

	engine := stitch.NewEngine(cfg.StitchOptions())
	res, err := engine.ReduceContext(ctx, bufs, axis)
	if err != nil {
		return errors.New(stitch.Describe(nil, err))
	}

	if _, err := imaging.SavePNG(res.Image, args[3]); err != nil {
		return fmt.Errorf("failed to save %s: %w", args[3], err)
	}
	fmt.Fprintln(stdout, stitch.Describe(res, nil))
	return nil
}
