package harness

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/dbcheck/internal/dbassert"
	"github.com/roach88/dbcheck/internal/snapshot"
	"github.com/roach88/dbcheck/internal/store"
	"github.com/roach88/dbcheck/internal/table"
)

// Options configures a scenario execution. The zero value is usable.
type Options struct {
	// Logger receives progress records. Defaults to a discard logger.
	Logger *slog.Logger

	// RunIDs generates the run id when the scenario sets none.
	// Defaults to UUIDv7Generator.
	RunIDs RunIDGenerator
}

// Harness holds the state of one scenario execution.
type Harness struct {
	store  *store.Store
	logger *slog.Logger

	// Keyed by lower-cased table name.
	starts    map[string]*table.Table
	startErrs map[string]error
	ends      map[string]*table.Table
	changes   map[string][]dbassert.Change
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Open the scenario database (fresh in-memory unless one is named)
// 2. Run the setup script
// 3. Record the start point of every table a change check reads
// 4. Run the changes script
// 5. Evaluate every check against the end point
//
// A failing check is recorded in the result and does not stop the run.
// An error is returned only when the scenario cannot be executed at all.
func Run(ctx context.Context, scenario *Scenario, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var runID string
	switch {
	case scenario.RunID != "":
		runID = NewFixedRunIDGenerator(scenario.RunID).Generate()
	case opts.RunIDs != nil:
		runID = opts.RunIDs.Generate()
	default:
		runID = UUIDv7Generator{}.Generate()
	}
	logger = logger.With("scenario", scenario.Name, "run_id", runID)

	st, err := store.Open(scenario.Database, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:     st,
		logger:    logger,
		starts:    make(map[string]*table.Table),
		startErrs: make(map[string]error),
		ends:      make(map[string]*table.Table),
		changes:   make(map[string][]dbassert.Change),
	}

	if scenario.Setup != "" {
		if err := st.Exec(ctx, scenario.Setup); err != nil {
			return nil, fmt.Errorf("failed to execute setup: %w", err)
		}
		logger.Debug("setup executed")
	}

	if err := h.recordStartPoints(ctx, scenario); err != nil {
		return nil, err
	}

	if scenario.Changes != "" {
		if err := st.Exec(ctx, scenario.Changes); err != nil {
			return nil, fmt.Errorf("failed to execute changes: %w", err)
		}
		logger.Debug("changes executed")
	}

	result := NewResult(runID, scenario.Name)
	for i, c := range scenario.Checks {
		outcome := CheckOutcome{Index: i, Type: c.Type, Table: c.Table, Pass: true}
		if err := h.evaluate(ctx, c); err != nil {
			outcome.Pass = false
			outcome.Message = err.Error()
		}
		result.AddOutcome(outcome)
		logger.Debug("check evaluated", "check", c.Type, "index", i, "table", c.Table, "pass", outcome.Pass)
	}

	logger.Info("scenario executed", "pass", result.Pass, "checks", len(result.Checks), "failed", len(result.Errors))
	return result, nil
}

// recordStartPoints loads the start point of every table read by a change
// check. The start snapshot, when present, is the start point of its table.
func (h *Harness) recordStartPoints(ctx context.Context, scenario *Scenario) error {
	if scenario.StartSnapshot != "" {
		t, err := snapshot.ReadFile(scenario.StartSnapshot)
		if err != nil {
			return fmt.Errorf("failed to read start snapshot: %w", err)
		}
		h.starts[key(t.Name)] = t
		h.logger.Debug("start point read", "table", t.Name, "snapshot", scenario.StartSnapshot)
	}

	for _, c := range scenario.Checks {
		if !c.IsChange() {
			continue
		}
		k := key(c.Table)
		if _, ok := h.starts[k]; ok {
			continue
		}
		if _, ok := h.startErrs[k]; ok {
			continue
		}
		t, err := h.store.LoadTable(ctx, c.Table)
		if err != nil {
			// Reported by each change check of the table.
			h.startErrs[k] = fmt.Errorf("start point: %w", err)
			continue
		}
		h.starts[k] = t
		h.logger.Debug("start point recorded", "table", c.Table, "rows", t.RowCount())
	}
	return nil
}

// endPoint returns the current contents of a table, loaded once per run.
func (h *Harness) endPoint(ctx context.Context, name string) (*table.Table, error) {
	k := key(name)
	if t, ok := h.ends[k]; ok {
		return t, nil
	}
	t, err := h.store.LoadTable(ctx, name)
	if err != nil {
		return nil, err
	}
	h.ends[k] = t
	return t, nil
}

// changesOf returns the changes of a table between its start and end point.
func (h *Harness) changesOf(ctx context.Context, name string) ([]dbassert.Change, error) {
	k := key(name)
	if c, ok := h.changes[k]; ok {
		return c, nil
	}
	if err := h.startErrs[k]; err != nil {
		return nil, err
	}
	start, ok := h.starts[k]
	if !ok {
		return nil, fmt.Errorf("no start point for table %s", name)
	}
	end, err := h.endPoint(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("end point: %w", err)
	}
	changes, err := dbassert.ComputeChanges(start, end)
	if err != nil {
		return nil, err
	}
	h.changes[k] = changes
	return changes, nil
}

func key(name string) string {
	return strings.ToLower(name)
}
