package pointer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hermeskg/hermes/internal/herrors"
	"github.com/hermeskg/hermes/internal/store"
)

// Accountant is the per-query journal: an append-only record of every
// query's token accounting, plus windowed aggregation.
type Accountant struct {
	store     *store.Store
	projectID string
}

// NewAccountant constructs an Accountant scoped to projectID.
func NewAccountant(s *store.Store, projectID string) *Accountant {
	return &Accountant{store: s, projectID: projectID}
}

// RecordQuery appends one journal row.
func (a *Accountant) RecordQuery(ctx context.Context, sessionID, queryText string, acc Accounting) error {
	_, err := a.store.DB().ExecContext(ctx, `
		INSERT INTO accounting (project_id, session_id, query_text, pointer_tokens, fetched_tokens, traditional_est, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.projectID, sessionID, queryText, acc.PointerTokens, acc.FetchedTokens, acc.TraditionalEstimate, time.Now().UTC())
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("record query: %w", err))
	}
	return nil
}

// RecordFetch folds fetchedTokens into the most recently journaled query
// for sessionID, so a fetch's token cost rolls into the same row the
// preceding search call wrote rather than starting a new, query-less row.
// A session with no prior recorded query has nothing to fold into, and
// is silently a no-op.
func (a *Accountant) RecordFetch(ctx context.Context, sessionID string, fetchedTokens int) error {
	if sessionID == "" {
		return nil
	}
	_, err := a.store.DB().ExecContext(ctx, `
		UPDATE accounting SET fetched_tokens = fetched_tokens + ?
		WHERE id = (
			SELECT id FROM accounting WHERE project_id = ? AND session_id = ?
			ORDER BY id DESC LIMIT 1
		)`, fetchedTokens, a.projectID, sessionID)
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("record fetch: %w", err))
	}
	return nil
}

// Stats is a windowed aggregate over the journal.
type Stats struct {
	Queries             int
	PointerTokens        int
	FetchedTokens        int
	TraditionalEstimate  int
	SavedTokens          int
	SavingsPct           float64
}

// Window selects which journal rows CumulativeStats aggregates: "" or
// "all" means every row for the project; a non-empty sessionID further
// restricts to one session; since is "Nh", "Nd", or "all"/"" for no
// wall-clock filter.
type Window struct {
	SessionID string
	Since     string
}

// CumulativeStats aggregates the journal over window w:
// cumulativeSavingsTokens = max(0, sum(traditional_est) - sum(pointer_tokens + fetched_tokens)),
// savingsPct = saved / traditionalEstimate * 100 when traditionalEstimate > 0.
func (a *Accountant) CumulativeStats(ctx context.Context, w Window) (Stats, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(pointer_tokens),0), COALESCE(SUM(fetched_tokens),0), COALESCE(SUM(traditional_est),0)
		FROM accounting WHERE project_id = ?`
	args := []any{a.projectID}

	if w.SessionID != "" {
		query += " AND session_id = ?"
		args = append(args, w.SessionID)
	}

	cutoff, err := parseSince(w.Since)
	if err != nil {
		return Stats{}, err
	}
	if cutoff != nil {
		query += " AND created_at >= ?"
		args = append(args, *cutoff)
	}

	var queries, ptr, fetched, trad int
	row := a.store.DB().QueryRowContext(ctx, query, args...)
	if err := row.Scan(&queries, &ptr, &fetched, &trad); err != nil {
		return Stats{}, herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("aggregate accounting: %w", err))
	}

	total := ptr + fetched
	saved := trad - total
	if saved < 0 {
		saved = 0
	}
	var pct float64
	if trad > 0 {
		pct = float64(saved) / float64(trad) * 100
	}

	return Stats{
		Queries:             queries,
		PointerTokens:       ptr,
		FetchedTokens:       fetched,
		TraditionalEstimate: trad,
		SavedTokens:         saved,
		SavingsPct:          pct,
	}, nil
}

// parseSince parses "Nh", "Nd", "all", or "" into a cutoff time, nil
// meaning no filter.
func parseSince(since string) (*time.Time, error) {
	since = strings.TrimSpace(since)
	if since == "" || since == "all" {
		return nil, nil
	}

	unit := since[len(since)-1]
	numPart := since[:len(since)-1]
	n, err := strconv.Atoi(numPart)
	if err != nil {
		return nil, herrors.New(herrors.ErrCodeInvalidInput, "invalid since window: "+since, err)
	}

	var d time.Duration
	switch unit {
	case 'h':
		d = time.Duration(n) * time.Hour
	case 'd':
		d = time.Duration(n) * 24 * time.Hour
	default:
		return nil, herrors.New(herrors.ErrCodeInvalidInput, "invalid since window: "+since, nil)
	}

	cutoff := time.Now().UTC().Add(-d)
	return &cutoff, nil
}
