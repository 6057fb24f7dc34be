package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/costa-amore/JiraUtil-sub000/internal/fixture"
	"github.com/costa-amore/JiraUtil-sub000/internal/issuekey"
	"github.com/costa-amore/JiraUtil-sub000/internal/model"
)

// ErrIssueNotFound is returned for a key the sandbox does not hold.
var ErrIssueNotFound = errors.New("issue not found in sandbox")

// SQLiteStore implements Store using a local SQLite database.
type SQLiteStore struct {
	db        *sqlx.DB
	logger    *slog.Logger
	connected bool
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Connect checks that the database is reachable.
func (s *SQLiteStore) Connect(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging sandbox: %w", err)
	}
	s.connected = true
	return nil
}

// issueRow mirrors one row of the issues table.
type issueRow struct {
	Key       string `db:"key"`
	Summary   string `db:"summary"`
	Status    string `db:"status"`
	IssueType string `db:"issue_type"`
	ParentKey string `db:"parent_key"`
	Rank      string `db:"rank"`
}

func (r issueRow) fixtureIssue() model.FixtureIssue {
	rank := r.Rank
	if rank == "" {
		rank = model.DefaultRank
	}
	return model.FixtureIssue{
		Key:       r.Key,
		Summary:   r.Summary,
		Status:    r.Status,
		IssueType: r.IssueType,
		ParentKey: r.ParentKey,
		Rank:      rank,
	}
}

// IssuesByLabel returns the issues carrying label in insertion order.
func (s *SQLiteStore) IssuesByLabel(
	ctx context.Context,
	label string,
) ([]model.FixtureIssue, error) {
	if !s.connected {
		return nil, fixture.ErrNotConnected
	}

	var rows []issueRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT i.key, i.summary, i.status, i.issue_type, i.parent_key, i.rank
		FROM issues i
		JOIN issue_labels l ON l.issue_key = i.key
		WHERE l.label = ?
		ORDER BY i.seq`, label)
	if err != nil {
		return nil, fmt.Errorf("querying issues with label %q: %w", label, err)
	}

	issues := make([]model.FixtureIssue, 0, len(rows))
	for _, r := range rows {
		issues = append(issues, r.fixtureIssue())
	}
	return issues, nil
}

// TransitionIssue moves the issue to status. When transitions are
// configured a matching one must lead from the current status; without
// any configured transition every status is reachable.
func (s *SQLiteStore) TransitionIssue(ctx context.Context, key, status string) error {
	if !s.connected {
		return fixture.ErrNotConnected
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	if err := tx.GetContext(ctx, &current, "SELECT status FROM issues WHERE key = ?", key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrIssueNotFound, key)
		}
		return fmt.Errorf("reading status of %s: %w", key, err)
	}

	var configured int
	if err := tx.GetContext(ctx, &configured, "SELECT COUNT(*) FROM transitions"); err != nil {
		return fmt.Errorf("counting transitions: %w", err)
	}

	target := strings.TrimSpace(status)
	if configured > 0 {
		var t struct {
			Name string `db:"name"`
			To   string `db:"status_to"`
		}
		err := tx.GetContext(ctx, &t, `
			SELECT name, status_to FROM transitions
			WHERE status_from = ? COLLATE NOCASE AND status_to = ? COLLATE NOCASE
			LIMIT 1`, current, target)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %q from %q on %s", fixture.ErrNoTransition, target, current, key)
		}
		if err != nil {
			return fmt.Errorf("looking up transition for %s: %w", key, err)
		}
		s.logger.Debug("sandbox transition", "key", key, "transition", t.Name)
		target = t.To
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE issues SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?",
		target, key,
	); err != nil {
		return fmt.Errorf("updating status of %s: %w", key, err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO status_history (issue_key, status_from, status_to) VALUES (?, ?, ?)",
		key, current, target,
	); err != nil {
		return fmt.Errorf("recording status change of %s: %w", key, err)
	}

	return tx.Commit()
}

// Labels returns the summary and labels of one issue.
func (s *SQLiteStore) Labels(ctx context.Context, key string) (model.IssueLabels, error) {
	if !s.connected {
		return model.IssueLabels{}, fixture.ErrNotConnected
	}

	var summary string
	if err := s.db.GetContext(ctx, &summary, "SELECT summary FROM issues WHERE key = ?", key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.IssueLabels{}, fmt.Errorf("%w: %s", ErrIssueNotFound, key)
		}
		return model.IssueLabels{}, fmt.Errorf("reading issue %s: %w", key, err)
	}

	labels, err := s.labels(ctx, s.db, key)
	if err != nil {
		return model.IssueLabels{}, err
	}

	return model.IssueLabels{Key: key, Summary: summary, Labels: labels}, nil
}

// SetLabels replaces the label set of one issue.
func (s *SQLiteStore) SetLabels(ctx context.Context, key string, labels []string) error {
	if !s.connected {
		return fixture.ErrNotConnected
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.GetContext(ctx, &exists, "SELECT COUNT(*) FROM issues WHERE key = ?", key); err != nil {
		return fmt.Errorf("checking issue %s: %w", key, err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", ErrIssueNotFound, key)
	}

	if err := replaceLabels(ctx, tx, key, labels); err != nil {
		return err
	}
	return tx.Commit()
}

// UpsertIssues inserts or replaces a batch of issues with their labels.
// New issues are appended to the discovery order; existing issues keep
// their position.
func (s *SQLiteStore) UpsertIssues(ctx context.Context, issues []SandboxIssue) error {
	if len(issues) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO issues (key, summary, status, issue_type, parent_key, rank, seq)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM issues))
		ON CONFLICT(key) DO UPDATE SET
			summary = excluded.summary,
			status = excluded.status,
			issue_type = excluded.issue_type,
			parent_key = excluded.parent_key,
			rank = excluded.rank,
			updated_at = CURRENT_TIMESTAMP`

	for _, issue := range issues {
		if strings.TrimSpace(issue.Key) == "" {
			return fmt.Errorf("sandbox issue without key (summary %q)", issue.Summary)
		}
		if !issuekey.Valid(issue.Key) {
			return fmt.Errorf("sandbox issue %q: %w", issue.Key, issuekey.ErrInvalid)
		}
		_, err := tx.ExecContext(ctx, query,
			issue.Key, issue.Summary, issue.Status,
			issue.IssueType, issue.ParentKey, issue.Rank,
		)
		if err != nil {
			return fmt.Errorf("upserting issue %s: %w", issue.Key, err)
		}
		if err := replaceLabels(ctx, tx, issue.Key, issue.Labels); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SetTransitions replaces the configured workflow transitions.
func (s *SQLiteStore) SetTransitions(ctx context.Context, transitions []SandboxTransition) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM transitions"); err != nil {
		return fmt.Errorf("clearing transitions: %w", err)
	}

	for _, t := range transitions {
		name := t.Name
		if name == "" {
			name = fmt.Sprintf("Move to %q", t.To)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO transitions (status_from, name, status_to) VALUES (?, ?, ?)",
			t.From, name, t.To,
		); err != nil {
			return fmt.Errorf("inserting transition %s -> %s: %w", t.From, t.To, err)
		}
	}

	return tx.Commit()
}

// Issue returns one sandbox issue with its labels.
func (s *SQLiteStore) Issue(ctx context.Context, key string) (*SandboxIssue, error) {
	var row issueRow
	err := s.db.GetContext(ctx, &row, `
		SELECT key, summary, status, issue_type, parent_key, rank
		FROM issues WHERE key = ?`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrIssueNotFound, key)
		}
		return nil, fmt.Errorf("getting issue %s: %w", key, err)
	}

	labels, err := s.labels(ctx, s.db, key)
	if err != nil {
		return nil, err
	}

	return &SandboxIssue{
		Key:       row.Key,
		Summary:   row.Summary,
		Status:    row.Status,
		IssueType: row.IssueType,
		ParentKey: row.ParentKey,
		Rank:      row.Rank,
		Labels:    labels,
	}, nil
}

// StatusHistory returns the status changes of one issue, oldest first.
func (s *SQLiteStore) StatusHistory(ctx context.Context, key string) ([]StatusChange, error) {
	var changes []StatusChange
	err := s.db.SelectContext(ctx, &changes, `
		SELECT status_from, status_to FROM status_history
		WHERE issue_key = ? ORDER BY id`, key)
	if err != nil {
		return nil, fmt.Errorf("querying status history of %s: %w", key, err)
	}
	return changes, nil
}

func (s *SQLiteStore) labels(ctx context.Context, q sqlx.QueryerContext, key string) ([]string, error) {
	var labels []string
	err := sqlx.SelectContext(ctx, q, &labels,
		"SELECT label FROM issue_labels WHERE issue_key = ? ORDER BY position", key)
	if err != nil {
		return nil, fmt.Errorf("querying labels of %s: %w", key, err)
	}
	return labels, nil
}

func replaceLabels(ctx context.Context, tx *sqlx.Tx, key string, labels []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM issue_labels WHERE issue_key = ?", key); err != nil {
		return fmt.Errorf("clearing labels of %s: %w", key, err)
	}
	for i, label := range labels {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO issue_labels (issue_key, label, position) VALUES (?, ?, ?)",
			key, label, i,
		); err != nil {
			return fmt.Errorf("adding label %q to %s: %w", label, key, err)
		}
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
