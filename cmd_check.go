package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/anatolykoptev/repnote/internal/crm"
	"github.com/anatolykoptev/repnote/internal/extract"
)

// runCheck sends one message through the agent loop and prints the reply.
// Useful for smoke-testing the model gateway and tool wiring from a shell.
func runCheck(cfg crm.Config) {
	asJSON := hasFlag("--json")

	var words []string
	for _, a := range os.Args[2:] {
		if strings.HasPrefix(a, "--") {
			continue
		}
		words = append(words, a)
	}
	message := strings.Join(words, " ")
	if message == "" {
		fmt.Fprintln(os.Stderr, "usage: repnote check [--json] MESSAGE...")
		os.Exit(1)
	}

	// Keep stdout clean for the reply.
	logWriter := io.Writer(os.Stderr)
	if asJSON {
		logWriter = io.Discard
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: slog.LevelWarn})))

	stack, err := buildAgentStack(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer stack.Close()

	res, err := stack.loop.Process(context.Background(), message)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}

	if asJSON {
		out := map[string]any{
			"response": extract.DisplayText(res.History),
			"data":     struct{}{},
		}
		if rec, ok := extract.FromHistory(res.History); ok {
			out["data"] = rec
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Println(extract.DisplayText(res.History))
	if rec, ok := extract.FromHistory(res.History); ok {
		data, _ := json.MarshalIndent(rec, "", "  ")
		fmt.Println(string(data))
	}
}
