// Package service is Hermes's core coordinator: it owns the store, graph,
// search engine, ingestion pipeline, accounting journal, and temporal
// fact store for one project, and exposes the six operations the CLI and
// the MCP server both dispatch to.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hermeskg/hermes/internal/embed"
	"github.com/hermeskg/hermes/internal/graph"
	"github.com/hermeskg/hermes/internal/hashtrack"
	"github.com/hermeskg/hermes/internal/ingest"
	"github.com/hermeskg/hermes/internal/pointer"
	"github.com/hermeskg/hermes/internal/search"
	"github.com/hermeskg/hermes/internal/store"
	"github.com/hermeskg/hermes/internal/temporal"
)

// smartTopK is the top-K used by the external search tool in SMART mode.
const smartTopK = 10

// Service coordinates every Hermes subsystem for a single project.
type Service struct {
	Store     *store.Store
	Graph     *graph.Graph
	Engine    *search.Engine
	Accounts  *pointer.Accountant
	Facts     *temporal.Store
	projectID string
	root      string
	logger    *slog.Logger
}

// Options configures Open.
type Options struct {
	ProjectID string
	Root      string
	DBPath    string // empty opens an in-memory store
	Embedder  embed.Embedder // nil uses the hash-based scheme
	Logger    *slog.Logger
}

// Open opens the project's store, rebuilds the in-memory graph index, and
// wires every subsystem together. Failure here is fatal to the caller,
// per the initialization error policy.
func Open(ctx context.Context, opts Options) (*Service, error) {
	s, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	g, err := graph.New(ctx, s)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("build graph: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		Store:     s,
		Graph:     g,
		Engine:    search.NewEngine(g, opts.Embedder),
		Accounts:  pointer.NewAccountant(s, opts.ProjectID),
		Facts:     temporal.New(s, opts.ProjectID),
		projectID: opts.ProjectID,
		root:      opts.Root,
		logger:    logger,
	}, nil
}

// Close releases the underlying store handle.
func (s *Service) Close() error {
	return s.Store.Close()
}

// Index runs one full ingestion pass over the project root and
// invalidates the search caches, so subsequent queries never see stale
// results from before the reindex.
func (s *Service) Index(ctx context.Context) (*ingest.Report, error) {
	tracker := hashtrack.New(s.Store, s.projectID)
	pipeline := ingest.New(s.Graph, tracker, s.projectID, s.root, s.logger)

	report, err := pipeline.Run(ctx)
	s.Engine.InvalidateCaches()
	return report, err
}

// Search runs the tiered hybrid search in SMART mode (top-K 10) and
// journals the query's token accounting under sessionID.
func (s *Service) Search(ctx context.Context, sessionID, query string) (*pointer.Response, error) {
	outcome, err := s.Engine.Search(ctx, s.projectID, query, smartTopK)
	if err != nil {
		return nil, err
	}

	if err := s.Accounts.RecordQuery(ctx, sessionID, query, outcome.Response.Accounting); err != nil {
		s.logger.Warn("record query accounting failed", "error", err)
	}
	return &outcome.Response, nil
}

// FetchResult is the full body plus bookkeeping for one fetched node.
type FetchResult struct {
	NodeID        string
	Body          string
	TokenEstimate int
	Found         bool
}

// Fetch loads nodeID's full source content and folds its token estimate
// into sessionID's accounting row, so "hermes stats" reflects fetched
// tokens alongside pointer tokens.
func (s *Service) Fetch(ctx context.Context, sessionID, nodeID string) (*FetchResult, error) {
	body, node, err := s.Engine.Fetch(ctx, s.projectID, nodeID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return &FetchResult{NodeID: nodeID, Found: false}, nil
	}

	tokens := pointer.EstimateTokens(body)
	if err := s.Accounts.RecordFetch(ctx, sessionID, tokens); err != nil {
		s.logger.Warn("record fetch accounting failed", "error", err)
	}
	return &FetchResult{
		NodeID:        nodeID,
		Body:          body,
		TokenEstimate: tokens,
		Found:         true,
	}, nil
}

// Fact appends one temporal fact and returns its generated ID.
func (s *Service) Fact(ctx context.Context, factType, content, nodeID, sourceReference string) (string, error) {
	return s.Facts.AddFact(ctx, factType, content, nodeID, sourceReference)
}

// ActiveFacts returns the active facts, optionally filtered by type.
func (s *Service) ActiveFacts(ctx context.Context, factType string) ([]*temporal.Fact, error) {
	return s.Facts.GetActiveFacts(ctx, factType)
}

// Stats aggregates the accounting journal over window w.
func (s *Service) Stats(ctx context.Context, w pointer.Window) (pointer.Stats, error) {
	return s.Accounts.CumulativeStats(ctx, w)
}
