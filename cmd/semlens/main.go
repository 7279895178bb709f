package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/semlens/semlens/internal/mcp"
	"github.com/semlens/semlens/internal/server"
	"github.com/semlens/semlens/pkg/engine"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file (optional)")
	httpAddr := flag.String("http-addr", "", "Listen address for the REST API, overrides the config file (e.g. :9265)")
	mcpMode := flag.Bool("mcp", false, "Serve MCP tools on stdio instead of HTTP")

	flag.Parse()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		slog.Error("could not load configuration", "error", err)
		os.Exit(1)
	}
	if *httpAddr != "" {
		cfg.HTTP.Addr = *httpAddr
	}
	if token := os.Getenv("SEMLENS_AUTH_TOKEN"); token != "" {
		cfg.HTTP.AuthToken = token
	}

	eng, err := engine.New(cfg.EngineOptions())
	if err != nil {
		slog.Error("could not create engine", "error", err)
		os.Exit(1)
	}

	// MCP mode: stdio transport, no HTTP. Logs go to stderr by default, so
	// slog does not corrupt the protocol stream.
	if *mcpMode {
		mcpServer := mcp.NewMCPServer(eng)
		if err := mcpServer.Run(context.Background(), &sdkmcp.StdioTransport{}); err != nil {
			slog.Error("MCP server stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	srv, err := server.NewServer(eng, cfg)
	if err != nil {
		slog.Error("could not create server", "error", err)
		os.Exit(1)
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(); err != nil {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	<-shutdownChan

	srv.Shutdown()
}
