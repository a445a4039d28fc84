package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-appsec/jsondecoder/jsondecoder/config"
	"github.com/go-appsec/jsondecoder/jsondecoder/decoder"
	"github.com/go-appsec/jsondecoder/jsondecoder/httpmsg"
)

const shutdownTimeout = 10 * time.Second

// Server is the jsondecoder MCP server.
type Server struct {
	cfg     *config.Config
	mcpPort int

	// one factory serves every tab, so force mode is shared across clients
	factory *decoder.Factory
	tabs    *tabStore

	mcpServer  *mcpServer
	started    chan struct{}
	shutdownCh chan struct{}
}

// NewServer loads configuration and prepares the decoder core.
// Precedence for the port: CLI flag > config file > default.
func NewServer(flags MCPServerFlags) (*Server, error) {
	cfg, err := config.LoadOrDefault(flags.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	s := &Server{
		cfg:        cfg,
		mcpPort:    cfg.MCPPort,
		factory:    decoder.NewFactory(httpmsg.RawAnalyzer{}, cfg.Rules()),
		tabs:       newTabStore(maxOpenTabs),
		started:    make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
	if flags.MCPPort != 0 {
		s.mcpPort = flags.MCPPort
	}
	return s, nil
}

// WaitTillStarted blocks until the server has started.
func (s *Server) WaitTillStarted() {
	<-s.started
}

// Run starts the MCP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	log.Printf("jsondecoder MCP server starting (version=%s)", config.Version)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	s.mcpServer = newMCPServer(s)
	err := s.mcpServer.Start(s.mcpPort)
	close(s.started)
	if err != nil {
		return fmt.Errorf("failed to start MCP server: %w", err)
	}
	log.Printf("MCP server listening on http://%s/mcp", s.mcpServer.Addr())

	select {
	case <-ctx.Done():
		log.Printf("context cancelled, initiating shutdown")
	case sig := <-sigCh:
		log.Printf("received signal %v, initiating shutdown", sig)
	case <-s.shutdownCh:
		log.Printf("shutdown requested")
	}

	return s.shutdown()
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.mcpServer != nil {
		if err := s.mcpServer.Close(ctx); err != nil {
			log.Printf("MCP server shutdown error: %v", err)
		}
	}

	log.Printf("jsondecoder MCP server stopped (open tabs=%d)", s.tabs.Count())
	return nil
}

// RequestShutdown initiates server shutdown.
func (s *Server) RequestShutdown() {
	select {
	case <-s.shutdownCh:
		// already shutting down
	default:
		close(s.shutdownCh)
	}
}
