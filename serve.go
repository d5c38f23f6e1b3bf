package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anatolykoptev/repnote/internal/bus"
	"github.com/anatolykoptev/repnote/internal/chat"
	"github.com/anatolykoptev/repnote/internal/crm"
	"github.com/anatolykoptev/repnote/internal/telegram"
)

func runServe(cfg crm.Config) {
	stdio := hasFlag("--stdio")

	logWriter := os.Stdout
	if stdio {
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	stack, err := buildAgentStack(cfg)
	if err != nil {
		logger.Error("startup failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer stack.Close()

	server := buildMCPServer(stack.desk)
	logger.Info("repnote server", slog.Int("tools", len(stack.registry.List())))

	if stdio {
		logger.Info("running in stdio mode")
		if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
			logger.Error("stdio server failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	// HTTP mode
	port := cfg.HTTPPort
	if p := getFlagValue("--port"); p != "" {
		port = p
	}

	sigCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mcpHandler := buildMCPHTTPHandler(server)

	mx := http.NewServeMux()
	mx.Handle("/mcp", mcpHandler)
	mx.Handle("/mcp/", mcpHandler)
	mx.HandleFunc("GET /health", healthHandler())
	mx.Handle("GET /metrics", promhttp.Handler())
	chat.NewServer(stack.loop, cfg.CORSOrigins).Register(mx)

	// Telegram channel, if configured.
	if cfg.TelegramToken != "" {
		msgBus := bus.New()
		defer msgBus.Close()

		tg, err := telegram.New(cfg.TelegramToken, cfg.TelegramAllowed, msgBus)
		if err != nil {
			logger.Error("telegram startup failed", slog.Any("error", err))
			os.Exit(1)
		}
		tg.Start(sigCtx)
		go runMessageLoop(sigCtx, msgBus, stack)
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mx,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	startHTTPServer(sigCtx, srv)
}
