package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the SQLite connection and hands out repositories bound either
// to the database or to a transaction.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs auto-migration.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer; a single connection keeps pragmas and
	// in-memory databases consistent.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	if err := ensureSequence(db); err != nil {
		drv.Close()
		return nil, err
	}

	return &Store{db: db, drv: drv}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Cards returns the review card repository.
func (s *Store) Cards() *CardRepo { return &CardRepo{q: s.db} }

// Knowledge returns the word knowledge repository.
func (s *Store) Knowledge() *KnowledgeRepo { return &KnowledgeRepo{q: s.db} }

// Content returns the content catalog repository.
func (s *Store) Content() *ContentRepo { return &ContentRepo{q: s.db} }

// Profiles returns the user profile repository.
func (s *Store) Profiles() *ProfileRepo { return &ProfileRepo{q: s.db} }

// Events returns the append-only event repository.
func (s *Store) Events() *EventRepo { return &EventRepo{q: s.db} }

// Stats returns the XP and streak repository.
func (s *Store) Stats() *StatsRepo { return &StatsRepo{q: s.db} }

// Translations returns the translation cache repository.
func (s *Store) Translations() *TranslationRepo { return &TranslationRepo{q: s.db} }

// Tx exposes repositories that share one database transaction.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Cards() *CardRepo          { return &CardRepo{q: t.tx} }
func (t *Tx) Knowledge() *KnowledgeRepo { return &KnowledgeRepo{q: t.tx} }
func (t *Tx) Profiles() *ProfileRepo    { return &ProfileRepo{q: t.tx} }
func (t *Tx) Events() *EventRepo        { return &EventRepo{q: t.tx} }
func (t *Tx) Stats() *StatsRepo         { return &StatsRepo{q: t.tx} }

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise. Repositories obtained from the
// Store must not be used inside fn.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&Tx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. PALABRA_DB environment variable
// 2. $XDG_DATA_HOME/palabra/palabra.db
// 3. ~/.local/share/palabra/palabra.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PALABRA_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "palabra", "palabra.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
