package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/repnote/internal/agent"
	"github.com/anatolykoptev/repnote/internal/crm"
	"github.com/anatolykoptev/repnote/internal/provider"
	"github.com/anatolykoptev/repnote/internal/store"
	"github.com/anatolykoptev/repnote/internal/toolreg"
)

// agentStack holds all components needed to run the agent loop.
type agentStack struct {
	store    *store.Store
	desk     *crm.Desk
	registry *toolreg.Registry
	llm      provider.Provider
	loop     *agent.Loop
}

// buildAgentStack wires storage, the CRM desk, the tool registry and the
// model gateway into a ready agent loop.
func buildAgentStack(cfg crm.Config) (*agentStack, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	lex := crm.DefaultLexicon()
	if cfg.LexiconPath != "" {
		loaded, err := crm.LoadLexicon(cfg.LexiconPath)
		if err != nil {
			slog.Warn("lexicon load failed, using built-in keywords",
				slog.String("path", cfg.LexiconPath), slog.Any("error", err))
		} else {
			lex = loaded
		}
	}

	desk := crm.NewDesk(st, lex)

	registry := toolreg.NewRegistry()
	toolreg.RegisterAll(registry, desk)
	slog.Info("tool registry initialized", slog.Int("tools", len(registry.List())))

	var llm provider.Provider = provider.NewOpenAI(cfg.LLMURL, cfg.LLMAPIKey, cfg.LLMModel)
	if cfg.LLMRetries > 0 {
		llm = provider.NewWithRetry(llm, cfg.LLMRetries)
	}

	loop := agent.NewLoop(llm, registry, cfg.MaxToolTurns, agent.BuildSystemPrompt(cfg.SystemPrompt))

	return &agentStack{
		store:    st,
		desk:     desk,
		registry: registry,
		llm:      llm,
		loop:     loop,
	}, nil
}

// Close releases the stack's resources.
func (s *agentStack) Close() {
	if err := s.store.Close(); err != nil {
		slog.Warn("store close failed", slog.Any("error", err))
	}
}

// buildMCPServer creates an MCP server and registers the CRM tools, so the
// same catalog the agent uses is callable by external MCP clients.
func buildMCPServer(desk *crm.Desk) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "repnote",
		Version: version,
	}, nil)
	registerTools(server, desk)
	return server
}

// buildMCPHTTPHandler returns a streamable HTTP handler for the given MCP server.
func buildMCPHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{Stateless: true})
}

// healthHandler returns a simple JSON health endpoint handler.
func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"repnote","version":"%s"}`, version)
	}
}

// startHTTPServer runs srv in a goroutine and shuts it down when ctx is done.
// Returns after shutdown completes.
func startHTTPServer(ctx context.Context, srv *http.Server) {
	go func() {
		slog.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx) //nolint:errcheck
	slog.Info("stopped")
}
