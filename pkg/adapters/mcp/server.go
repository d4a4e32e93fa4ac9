package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/bayesnet"
	"github.com/aretw0/bayesnet/internal/presentation/graph"
	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/ports"
)

// NetworksURI is the resource listing every registered network.
const NetworksURI = "bayesnet://networks"

// AskArgs are the arguments of the ask tool.
type AskArgs struct {
	Network   string         `json:"network"`
	Query     string         `json:"query"`
	Evidence  map[string]any `json:"evidence,omitempty"`
	Algorithm string         `json:"algorithm,omitempty"`
	Samples   int            `json:"samples,omitempty"`
}

// AskResponse wraps a posterior with the id of the tool call that produced it.
type AskResponse struct {
	RequestID string            `json:"request_id" jsonschema_description:"Identifier of this tool call"`
	Posterior *domain.Posterior `json:"posterior" jsonschema_description:"The estimated distribution over the query variables"`
}

// NetworkArgs names a network.
type NetworkArgs struct {
	Network string `json:"network"`
}

// DescribeResponse is the structure of a network plus its Mermaid diagram.
type DescribeResponse struct {
	Network domain.NetworkInfo `json:"network" jsonschema_description:"Variables, domains, parents and topological order"`
	Mermaid string             `json:"mermaid" jsonschema_description:"Mermaid flowchart of the network"`
}

// Server wraps a QueryEngine and exposes it as an MCP Server.
type Server struct {
	engine    ports.QueryEngine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. A nil logger discards.
func NewServer(engine ports.QueryEngine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("bayesnet-mcp", strings.TrimSpace(bayesnet.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_networks
	s.mcpServer.AddTool(mcp.NewTool("list_networks",
		mcp.WithDescription("List the available Bayesian networks with their variables and domains."),
	), s.handleListNetworks)

	// TOOL: describe_network
	describeTool := mcp.NewTool("describe_network",
		mcp.WithDescription("Describe one network: variables, domains, parents, topological order and a Mermaid diagram."),
		mcp.WithString("network", mcp.Required(), mcp.Description("Network name, as returned by list_networks")),
		mcp.WithOutputSchema[DescribeResponse](),
	)
	s.mcpServer.AddTool(describeTool, mcp.NewStructuredToolHandler(s.handleDescribe))

	// TOOL: ask
	askTool := mcp.NewTool("ask",
		mcp.WithDescription("Estimate P(query | evidence) by sampling. Returns one probability per combination of query values."),
		mcp.WithString("network", mcp.Required(), mcp.Description("Network name")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Comma-separated query variable names, e.g. \"Burglary\"")),
		mcp.WithObject("evidence", mcp.Description("Observed values by variable name, e.g. {\"JohnCalls\": \"true\"}")),
		mcp.WithString("algorithm", mcp.Description("prior, rejection, likelihood or gibbs (default from server config)"),
			mcp.Enum("prior", "rejection", "likelihood", "gibbs")),
		mcp.WithNumber("samples", mcp.Description("Number of samples (default from server config)")),
		mcp.WithOutputSchema[AskResponse](),
	)
	s.mcpServer.AddTool(askTool, mcp.NewStructuredToolHandler(s.handleAsk))

	// TOOL: sample
	sampleTool := mcp.NewTool("sample",
		mcp.WithDescription("Draw one complete event from a network's joint distribution."),
		mcp.WithString("network", mcp.Required(), mcp.Description("Network name")),
	)
	s.mcpServer.AddTool(sampleTool, mcp.NewStructuredToolHandler(s.handleSample))
}

func (s *Server) handleListNetworks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := s.engine.Networks()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, err := json.Marshal(infos)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest, args NetworkArgs) (DescribeResponse, error) {
	info, err := s.engine.Describe(args.Network)
	if err != nil {
		return DescribeResponse{}, fmt.Errorf("describe failed: %w", err)
	}
	return DescribeResponse{Network: info, Mermaid: graph.GenerateMermaid(info, nil)}, nil
}

func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest, args AskArgs) (AskResponse, error) {
	id := uuid.NewString()
	q := domain.Query{
		Network:   args.Network,
		Query:     domain.ParseNames(args.Query),
		Algorithm: args.Algorithm,
		Samples:   args.Samples,
	}
	if len(args.Evidence) > 0 {
		q.Evidence = make(map[string]string, len(args.Evidence))
		for name, v := range args.Evidence {
			q.Evidence[name] = fmt.Sprint(v)
		}
	}

	posterior, err := s.engine.Ask(ctx, q)
	if err != nil {
		level := slog.LevelWarn
		if !isUsageError(err) {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "MCP Ask failed", "request_id", id, "network", args.Network, "error", err)
		return AskResponse{}, fmt.Errorf("ask failed: %w", err)
	}
	return AskResponse{RequestID: id, Posterior: posterior}, nil
}

func (s *Server) handleSample(ctx context.Context, request mcp.CallToolRequest, args NetworkArgs) (map[string]string, error) {
	event, err := s.engine.Sample(ctx, args.Network)
	if err != nil {
		return nil, fmt.Errorf("sample failed: %w", err)
	}
	return event, nil
}

func isUsageError(err error) bool {
	for _, target := range []error{
		domain.ErrNetworkNotFound, domain.ErrUnknownVariable, domain.ErrValueOutOfDomain,
		domain.ErrEmptyQuery, domain.ErrDuplicateVariable, domain.ErrInvalidSampleCount,
		domain.ErrUnknownAlgorithm, domain.ErrEvidenceNotSupported, domain.ErrNoEvidenceSupport,
		domain.ErrChainStuck,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *Server) registerResources() {
	// EXPOSE: bayesnet://networks
	s.mcpServer.AddResource(mcp.NewResource(NetworksURI, "Available Bayesian Networks",
		mcp.WithMIMEType("application/json"),
	), s.readNetworks)
}

func (s *Server) readNetworks(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	infos, err := s.engine.Networks()
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}
	jsonBytes, err := json.Marshal(infos)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      NetworksURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
