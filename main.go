package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/anatolykoptev/repnote/internal/crm"
)

const version = "1.0.0"

func main() {
	// Load .env
	loadDotenv(".env")

	cfg := crm.Init()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServe(cfg)
	case "check":
		runCheck(cfg)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `repnote - conversational CRM assistant for field reps

Usage:
  repnote serve [--port PORT] [--stdio]   Run the assistant (HTTP or MCP stdio)
  repnote check [--json] MESSAGE...       One-shot message through the agent
`)
}

// hasFlag checks if a flag exists in os.Args.
func hasFlag(flag string) bool {
	for _, a := range os.Args[2:] {
		if a == flag {
			return true
		}
	}
	return false
}

// getFlagValue returns the value after a flag (--flag value).
func getFlagValue(flag string) string {
	args := os.Args[2:]
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
		// Handle --flag=value
		if strings.HasPrefix(a, flag+"=") {
			return strings.TrimPrefix(a, flag+"=")
		}
	}
	return ""
}
