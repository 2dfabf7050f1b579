// Package mcpserver exposes Hermes's six operations as JSON-RPC tools
// over the Model Context Protocol, via github.com/modelcontextprotocol/go-sdk.
// It is a thin translation layer: every handler validates its input and
// delegates straight to internal/service.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hermeskg/hermes/internal/pointer"
	"github.com/hermeskg/hermes/internal/service"
	"github.com/hermeskg/hermes/pkg/version"
)

func pointerWindow(since string) pointer.Window {
	return pointer.Window{Since: since}
}

// Server bridges an AI coding assistant to one project's Service over
// JSON-RPC.
type Server struct {
	mcp     *mcp.Server
	svc     *service.Service
	logger  *slog.Logger
}

// New constructs a Server wrapping svc and registers every tool.
func New(svc *service.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		svc:    svc,
		logger: logger,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "hermes",
			Version: version.Version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Serve runs the server over stdio until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index",
		Description: "Runs the ingestion pipeline over the project root and returns the ingestion report.",
	}, s.handleIndex)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search",
		Description: "Pointer-based retrieval: returns compact references (path, line range, summary, relevance) instead of raw file content, saving tokens over traditional RAG.",
	}, s.handleSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "fetch",
		Description: "Fetches the full source body a prior search pointer refers to, by node id.",
	}, s.handleFetch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "fact",
		Description: "Records a temporal fact (architecture, api_contract, decision, error_pattern, constraint, or learning) about the project.",
	}, s.handleFact)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "facts",
		Description: "Lists active temporal facts, optionally filtered by type.",
	}, s.handleFacts)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "stats",
		Description: "Reports cumulative token-savings accounting over a window (\"Nh\", \"Nd\", or \"all\").",
	}, s.handleStats)
}

// IndexInput takes no parameters; indexing always runs over the
// project root the server was opened against.
type IndexInput struct{}

// IndexOutput mirrors the ingestion report.
type IndexOutput struct {
	TotalFiles   int      `json:"total_files"`
	Indexed      int      `json:"indexed"`
	Skipped      int      `json:"skipped"`
	Errors       int      `json:"errors"`
	NodesCreated int      `json:"nodes_created"`
	Removed      int      `json:"removed"`
	ErrorLog     []string `json:"error_log,omitempty"`
}

func (s *Server) handleIndex(ctx context.Context, _ *mcp.CallToolRequest, _ IndexInput) (*mcp.CallToolResult, IndexOutput, error) {
	report, err := s.svc.Index(ctx)
	if err != nil {
		return nil, IndexOutput{}, fmt.Errorf("index: %w", err)
	}
	return nil, IndexOutput{
		TotalFiles:   report.TotalFiles,
		Indexed:      report.Indexed,
		Skipped:      report.Skipped,
		Errors:       report.Errors,
		NodesCreated: report.NodesCreated,
		Removed:      report.Removed,
		ErrorLog:     report.ErrorLog,
	}, nil
}

// SearchInput is the search tool's input.
type SearchInput struct {
	Query     string `json:"query" jsonschema:"the search query"`
	SessionID string `json:"session_id,omitempty" jsonschema:"caller-chosen session id for accounting"`
}

// SearchOutput is a PointerResponse: pointers plus their token accounting.
type SearchOutput struct {
	Pointers   []PointerOutput  `json:"pointers"`
	Accounting AccountingOutput `json:"accounting"`
}

// PointerOutput is one search hit.
type PointerOutput struct {
	ID        string  `json:"id"`
	Source    string  `json:"source"`
	Chunk     string  `json:"chunk"`
	Lines     string  `json:"lines"`
	Relevance float64 `json:"relevance"`
	Summary   string  `json:"summary"`
	NodeType  string  `json:"node_type"`
}

// AccountingOutput is one query's token accounting.
type AccountingOutput struct {
	PointerTokens       int     `json:"pointer_tokens"`
	FetchedTokens       int     `json:"fetched_tokens"`
	Total               int     `json:"total"`
	TraditionalEstimate int     `json:"traditional_estimate"`
	SavingsPct          float64 `json:"savings_pct"`
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	if input.Query == "" {
		return nil, SearchOutput{}, fmt.Errorf("query is required")
	}

	resp, err := s.svc.Search(ctx, input.SessionID, input.Query)
	if err != nil {
		return nil, SearchOutput{}, fmt.Errorf("search: %w", err)
	}

	out := SearchOutput{
		Pointers: make([]PointerOutput, 0, len(resp.Pointers)),
		Accounting: AccountingOutput{
			PointerTokens:       resp.Accounting.PointerTokens,
			FetchedTokens:       resp.Accounting.FetchedTokens,
			Total:               resp.Accounting.Total,
			TraditionalEstimate: resp.Accounting.TraditionalEstimate,
			SavingsPct:          resp.Accounting.SavingsPct,
		},
	}
	for _, p := range resp.Pointers {
		out.Pointers = append(out.Pointers, PointerOutput{
			ID: p.ID, Source: p.Source, Chunk: p.Chunk, Lines: p.Lines,
			Relevance: p.Relevance, Summary: p.Summary, NodeType: p.NodeType,
		})
	}
	return nil, out, nil
}

// FetchInput is the fetch tool's input.
type FetchInput struct {
	NodeID    string `json:"node_id" jsonschema:"the pointer id returned by search"`
	SessionID string `json:"session_id,omitempty" jsonschema:"caller-chosen session id for accounting"`
}

// FetchOutput is a FetchResponse: full body and token count.
type FetchOutput struct {
	Found         bool   `json:"found"`
	Body          string `json:"body,omitempty"`
	TokenEstimate int    `json:"token_estimate,omitempty"`
}

func (s *Server) handleFetch(ctx context.Context, _ *mcp.CallToolRequest, input FetchInput) (*mcp.CallToolResult, FetchOutput, error) {
	if input.NodeID == "" {
		return nil, FetchOutput{}, fmt.Errorf("node_id is required")
	}

	result, err := s.svc.Fetch(ctx, input.SessionID, input.NodeID)
	if err != nil {
		return nil, FetchOutput{}, fmt.Errorf("fetch: %w", err)
	}
	if !result.Found {
		return nil, FetchOutput{Found: false}, nil
	}
	return nil, FetchOutput{Found: true, Body: result.Body, TokenEstimate: result.TokenEstimate}, nil
}

// FactInput is the fact tool's input.
type FactInput struct {
	Type            string `json:"type" jsonschema:"architecture, api_contract, decision, error_pattern, constraint, or learning"`
	Content         string `json:"content" jsonschema:"the assertion to record"`
	NodeID          string `json:"node_id,omitempty"`
	SourceReference string `json:"source_reference,omitempty"`
}

// FactOutput acknowledges a recorded fact.
type FactOutput struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (s *Server) handleFact(ctx context.Context, _ *mcp.CallToolRequest, input FactInput) (*mcp.CallToolResult, FactOutput, error) {
	if input.Content == "" {
		return nil, FactOutput{}, fmt.Errorf("content is required")
	}

	id, err := s.svc.Fact(ctx, input.Type, input.Content, input.NodeID, input.SourceReference)
	if err != nil {
		return nil, FactOutput{}, fmt.Errorf("fact: %w", err)
	}
	return nil, FactOutput{ID: id, Status: "recorded"}, nil
}

// FactsInput optionally filters by fact type.
type FactsInput struct {
	Type string `json:"type,omitempty"`
}

// FactsOutput lists active facts.
type FactsOutput struct {
	Facts []FactEntry `json:"facts"`
}

// FactEntry is one fact row.
type FactEntry struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Content         string `json:"content"`
	NodeID          string `json:"node_id,omitempty"`
	SourceReference string `json:"source_reference,omitempty"`
}

func (s *Server) handleFacts(ctx context.Context, _ *mcp.CallToolRequest, input FactsInput) (*mcp.CallToolResult, FactsOutput, error) {
	facts, err := s.svc.ActiveFacts(ctx, input.Type)
	if err != nil {
		return nil, FactsOutput{}, fmt.Errorf("facts: %w", err)
	}

	out := FactsOutput{Facts: make([]FactEntry, 0, len(facts))}
	for _, f := range facts {
		out.Facts = append(out.Facts, FactEntry{
			ID: f.ID, Type: string(f.FactType), Content: f.Content,
			NodeID: f.NodeID, SourceReference: f.SourceReference,
		})
	}
	return nil, out, nil
}

// StatsInput optionally scopes the accounting window.
type StatsInput struct {
	Since string `json:"since,omitempty" jsonschema:"\"Nh\", \"Nd\", or \"all\""`
}

// StatsOutput is the windowed accounting summary.
type StatsOutput struct {
	Queries             int     `json:"queries"`
	PointerTokens       int     `json:"pointer_tokens"`
	FetchedTokens       int     `json:"fetched_tokens"`
	TraditionalEstimate int     `json:"traditional_estimate"`
	SavedTokens         int     `json:"saved_tokens"`
	SavingsPct          float64 `json:"savings_pct"`
}

func (s *Server) handleStats(ctx context.Context, _ *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.svc.Stats(ctx, pointerWindow(input.Since))
	if err != nil {
		return nil, StatsOutput{}, fmt.Errorf("stats: %w", err)
	}
	return nil, StatsOutput{
		Queries: stats.Queries, PointerTokens: stats.PointerTokens, FetchedTokens: stats.FetchedTokens,
		TraditionalEstimate: stats.TraditionalEstimate, SavedTokens: stats.SavedTokens, SavingsPct: stats.SavingsPct,
	}, nil
}
