package mcp

import (
	"context"
	"fmt"
	"time"

	"mcs-forecast/internal/portfolio"
	"mcs-forecast/internal/simulation"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	serverName    = "mcs-forecast"
	serverVersion = "0.2.0"
)

// PortfolioLoader returns the current portfolio. It is called once per tool call so
// edits to the portfolio file apply without a restart.
type PortfolioLoader func() (*portfolio.Portfolio, error)

// EngineFactory builds a simulation engine; extra options are appended to the configured ones.
type EngineFactory func(opts ...simulation.Option) *simulation.Engine

// Server exposes the forecasting engine as MCP tools.
type Server struct {
	load      PortfolioLoader
	newEngine EngineFactory
	timeout   time.Duration
	limiter   *rate.Limiter
	now       func() time.Time
}

// NewServer creates a new MCP server. A zero timeout disables the per-call deadline.
func NewServer(load PortfolioLoader, newEngine EngineFactory, timeout time.Duration) *Server {
	if newEngine == nil {
		newEngine = simulation.NewEngine
	}
	return &Server{
		load:      load,
		newEngine: newEngine,
		timeout:   timeout,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		now:       time.Now,
	}
}

// SetRateLimit caps simulations to perSecond calls per second with the given burst.
// A non-positive rate removes the limit.
func (s *Server) SetRateLimit(perSecond float64, burst int) {
	if perSecond <= 0 {
		s.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	s.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
}

// MCPServer builds the protocol server with all tools registered.
func (s *Server) MCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	s.registerTools(server)
	return server
}

// Start serves MCP over stdio until the client disconnects or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	log.Info().Str("version", serverVersion).Msg("Starting MCP server on stdio")
	return s.MCPServer().Run(ctx, &mcp.StdioTransport{})
}

// begin bounds a simulation by the call timeout and waits for the rate limiter.
func (s *Server) begin(ctx context.Context) (context.Context, context.CancelFunc, error) {
	var cancel context.CancelFunc
	if s.timeout <= 0 {
		ctx, cancel = context.WithCancel(ctx)
	} else {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("too many forecast requests: %w", err)
	}
	return ctx, cancel, nil
}
