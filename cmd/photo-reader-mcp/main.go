package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ironsheep/photo-reader-mcp/internal/server"
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
			fmt.Printf("photo-reader-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("photo-reader-mcp - MCP server for photo and camera raw acquisition")
			fmt.Println()
			fmt.Println("Usage: photo-reader-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  PHOTO_READER_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  PHOTO_READER_THUMB_WORKERS=N    Parallel decodes for folder thumbnails (default: CPUs)")
			fmt.Println("  PHOTO_READER_THUMB_SIZE=N       Default folder thumbnail long side (default: 100)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	opts := server.Options{
		Debug:             os.Getenv("PHOTO_READER_LOG_LEVEL") == "debug",
		Version:           Version,
		ThumbnailWorkers:  envInt("PHOTO_READER_THUMB_WORKERS"),
		ThumbnailLongSide: envInt("PHOTO_READER_THUMB_SIZE"),
	}
	if opts.Debug {
		log.Printf("Photo Reader MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New(opts)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// envInt reads a positive integer from the environment. Unset or invalid
// values yield zero, which selects the server default.
func envInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Ignoring %s=%q: want a positive integer", name, v)
		return 0
	}
	return n
}
