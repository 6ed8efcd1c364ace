package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/tsukumogami/leadgenius/internal/lead"
	"github.com/tsukumogami/leadgenius/internal/llm"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when no search matches the requested id.
var ErrNotFound = errors.New("search not found")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS searches (
		id         TEXT PRIMARY KEY,
		query      TEXT NOT NULL,
		region     TEXT NOT NULL,
		platform   TEXT NOT NULL,
		provider   TEXT NOT NULL,
		model      TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL,
		sources    TEXT NOT NULL DEFAULT '[]',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at)`,
	`CREATE TABLE IF NOT EXISTS leads (
		search_id  TEXT NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		id         TEXT NOT NULL,
		name       TEXT NOT NULL,
		role       TEXT NOT NULL,
		company    TEXT NOT NULL,
		email      TEXT NOT NULL,
		phone      TEXT NOT NULL,
		website    TEXT NOT NULL,
		source     TEXT NOT NULL,
		confidence TEXT NOT NULL,
		PRIMARY KEY (search_id, position)
	)`,
}

// Store is a search history backed by database/sql.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the history database and creates the schema if needed.
// For sqlite, dsn may be a plain file path.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		driver = DriverSQLite
	}

	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("history: postgres requires a DSN (set history_dsn)")
		}
	default:
		return nil, fmt.Errorf("history: unsupported driver %q (expected %s or %s)", driver, DriverSQLite, DriverPostgres)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: ping %s: %w", driver, err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return s, nil
}

func sqliteDSN(dsn string) string {
	if strings.HasPrefix(dsn, "file:") || dsn == ":memory:" {
		return dsn
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dsn)
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// rebind rewrites ? placeholders as $1, $2, ... for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Save stores rec and its leads in one transaction. An empty ID is filled
// with a new UUID and a zero CreatedAt with the current time.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("history: generate id: %w", err)
		}
		rec.ID = id.String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	sources, err := json.Marshal(nonNilSources(rec.Sources))
	if err != nil {
		return fmt.Errorf("history: encode sources: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, s.rebind(
		`INSERT INTO searches (id, query, region, platform, provider, model, created_at, sources, input_tokens, output_tokens)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.Query, rec.Region, rec.Platform.String(), rec.Provider, rec.Model,
		rec.CreatedAt.UnixMilli(), string(sources), rec.Usage.InputTokens, rec.Usage.OutputTokens,
	)
	if err != nil {
		return fmt.Errorf("history: insert search: %w", err)
	}

	insertLead := s.rebind(
		`INSERT INTO leads (search_id, position, id, name, role, company, email, phone, website, source, confidence)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for i, l := range rec.Leads {
		_, err := tx.ExecContext(ctx, insertLead,
			rec.ID, i, l.ID, l.Name, l.Role, l.Company, l.Email, l.Phone, l.Website, l.Source, string(l.Confidence),
		)
		if err != nil {
			return fmt.Errorf("history: insert lead %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: commit: %w", err)
	}
	return nil
}

// List returns the most recent searches first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	query := `SELECT s.id, s.query, s.region, s.platform, s.provider, s.created_at,
		s.input_tokens, s.output_tokens,
		(SELECT COUNT(*) FROM leads l WHERE l.search_id = s.id)
		FROM searches s ORDER BY s.created_at DESC, s.id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum      Summary
			platform string
			created  int64
		)
		if err := rows.Scan(&sum.ID, &sum.Query, &sum.Region, &platform, &sum.Provider, &created,
			&sum.Usage.InputTokens, &sum.Usage.OutputTokens, &sum.LeadCount); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		sum.Platform = parseStoredPlatform(platform)
		sum.CreatedAt = time.UnixMilli(created)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Get returns the search with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, query, region, platform, provider, model, created_at, sources, input_tokens, output_tokens
		 FROM searches WHERE id = ?`), id)
	return s.load(ctx, row)
}

// Latest returns the most recent search, or ErrNotFound when history is
// empty.
func (s *Store) Latest(ctx context.Context) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, query, region, platform, provider, model, created_at, sources, input_tokens, output_tokens
		 FROM searches ORDER BY created_at DESC, id DESC LIMIT 1`)
	return s.load(ctx, row)
}

func (s *Store) load(ctx context.Context, row *sql.Row) (*Record, error) {
	var (
		rec      Record
		platform string
		created  int64
		sources  string
	)
	err := row.Scan(&rec.ID, &rec.Query, &rec.Region, &platform, &rec.Provider, &rec.Model, &created, &sources,
		&rec.Usage.InputTokens, &rec.Usage.OutputTokens)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history: get: %w", err)
	}
	rec.Platform = parseStoredPlatform(platform)
	rec.CreatedAt = time.UnixMilli(created)
	if err := json.Unmarshal([]byte(sources), &rec.Sources); err != nil {
		return nil, fmt.Errorf("history: decode sources: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, name, role, company, email, phone, website, source, confidence
		 FROM leads WHERE search_id = ? ORDER BY position`), rec.ID)
	if err != nil {
		return nil, fmt.Errorf("history: load leads: %w", err)
	}
	defer rows.Close()

	rec.Leads = []lead.Lead{}
	for rows.Next() {
		var (
			l          lead.Lead
			confidence string
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.Role, &l.Company, &l.Email, &l.Phone, &l.Website, &l.Source, &confidence); err != nil {
			return nil, fmt.Errorf("history: scan lead: %w", err)
		}
		l.Confidence = lead.ConfidenceFrom(confidence)
		rec.Leads = append(rec.Leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: load leads: %w", err)
	}
	return &rec, nil
}

// Delete removes a search and its leads, or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM leads WHERE search_id = ?`), id); err != nil {
		return fmt.Errorf("history: delete leads: %w", err)
	}
	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM searches WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("history: delete search: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func parseStoredPlatform(s string) lead.Platform {
	p, err := lead.ParsePlatform(s)
	if err != nil {
		return lead.PlatformAll
	}
	return p
}

func nonNilSources(s []llm.Source) []llm.Source {
	if s == nil {
		return []llm.Source{}
	}
	return s
}
