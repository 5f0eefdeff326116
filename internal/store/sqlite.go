package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/felixgeelhaar/recall/internal/settings"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps one database file per group under a data
// directory. Handles are opened lazily and cached for the life of the
// store. Keys collate NOCASE so lookups are case-insensitive.
type SQLiteStore struct {
	dataDir string
	memory  bool
	memID   int64

	mu  sync.Mutex
	dbs map[string]*sql.DB
}

// memorySeq keeps shared-cache in-memory databases distinct across
// store instances in the same process.
var memorySeq atomic.Int64

// NewSQLiteStore creates the data directory if needed and returns an
// empty store. No databases are opened until a group is touched.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if dataDir == "" {
		return nil, errors.New("dataDir must be set")
	}
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &SQLiteStore{dataDir: dataDir, dbs: make(map[string]*sql.DB)}, nil
}

// NewMemoryStore keeps every group database in memory. State lives
// only as long as the store; meant for tests and throwaway sessions.
func NewMemoryStore() *SQLiteStore {
	return &SQLiteStore{memory: true, memID: memorySeq.Add(1), dbs: make(map[string]*sql.DB)}
}

func (s *SQLiteStore) database(group string) (*sql.DB, error) {
	if group == "" {
		return nil, errors.New("group must be set")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.dbs[group]; ok {
		return db, nil
	}

	dsn := filepath.Join(s.dataDir, group+".db")
	if s.memory {
		dsn = fmt.Sprintf("file:mem%d_%s?mode=memory&cache=shared", s.memID, group)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, unavailable("open database", group, err)
	}
	if s.memory {
		// A shared in-memory database disappears when its last
		// connection closes.
		db.SetMaxIdleConns(1)
	}
	s.dbs[group] = db
	return db, nil
}

func unavailable(op, group string, err error) error {
	return fmt.Errorf("%s for group %q: %w", op, group, errors.Join(ErrUnavailable, err))
}

// Init is idempotent: it seeds schema, a small starter factoid set and
// the default settings only when the group has no metadata table yet.
func (s *SQLiteStore) Init(ctx context.Context, group string) error {
	db, err := s.database(group)
	if err != nil {
		return err
	}

	var n int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'metadata'`).Scan(&n)
	if err != nil {
		return unavailable("inspect schema", group, err)
	}
	if n > 0 {
		return nil
	}

	seed := []string{
		`CREATE TABLE metadata (key TEXT PRIMARY KEY COLLATE NOCASE, value TEXT)`,
		`CREATE TABLE factoids (key TEXT PRIMARY KEY COLLATE NOCASE, value TEXT, last_edit TEXT)`,
		`CREATE TABLE karma (key TEXT PRIMARY KEY COLLATE NOCASE, value INTEGER)`,
		`INSERT INTO metadata VALUES('direct', 'no')`,
		`INSERT INTO metadata VALUES('ambient', 'yes')`,
		`INSERT INTO metadata VALUES('verbose', 'no')`,
		`INSERT INTO factoids VALUES('Slack', 'is a cool way to talk to your team', 'by nobody')`,
		`INSERT INTO factoids VALUES('the internet', 'is a great source of cat pictures', 'by nobody')`,
		`INSERT INTO factoids VALUES('licks the bot', 'is <action>exudes a foul oil', 'by nobody')`,
		`INSERT INTO karma VALUES('recall', 42)`,
	}
	for _, stmt := range seed {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return unavailable("initialize schema", group, err)
		}
	}
	return nil
}

// Factoid retries once with a "the " prefix; that is the only fuzzy
// matching in the system.
func (s *SQLiteStore) Factoid(ctx context.Context, group, key string) (string, bool, error) {
	db, err := s.database(group)
	if err != nil {
		return "", false, err
	}

	for _, k := range []string{key, "the " + key} {
		var value string
		err := db.QueryRowContext(ctx, `SELECT value FROM factoids WHERE key = ?`, k).Scan(&value)
		switch {
		case err == nil:
			return value, true, nil
		case errors.Is(err, sql.ErrNoRows):
			continue
		default:
			return "", false, unavailable("get factoid", group, err)
		}
	}
	return "", false, nil
}

func (s *SQLiteStore) SetFactoid(ctx context.Context, group, key, value, lastEdit string) error {
	db, err := s.database(group)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO factoids VALUES(?, ?, ?)`, key, value, lastEdit)
	if err != nil {
		return unavailable("set factoid", group, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteFactoid(ctx context.Context, group, key string) error {
	db, err := s.database(group)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM factoids WHERE key = ?`, key); err != nil {
		return unavailable("delete factoid", group, err)
	}
	return nil
}

func (s *SQLiteStore) CountFactoids(ctx context.Context, group string) (int, error) {
	db, err := s.database(group)
	if err != nil {
		return 0, err
	}
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM factoids`).Scan(&count); err != nil {
		return 0, unavailable("count factoids", group, err)
	}
	return count, nil
}

func (s *SQLiteStore) Karma(ctx context.Context, group, key string) (int, bool, error) {
	db, err := s.database(group)
	if err != nil {
		return 0, false, err
	}
	var value int
	err = db.QueryRowContext(ctx, `SELECT value FROM karma WHERE key = ?`, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, false, nil
	case err != nil:
		return 0, false, unavailable("get karma", group, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) SetKarma(ctx context.Context, group, key string, value int) error {
	db, err := s.database(group)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO karma VALUES(?, ?)`, key, value); err != nil {
		return unavailable("set karma", group, err)
	}
	return nil
}

func (s *SQLiteStore) Setting(ctx context.Context, group, key string) (settings.Value, bool, error) {
	db, err := s.database(group)
	if err != nil {
		return settings.Value{}, false, err
	}
	var raw string
	err = db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return settings.Value{}, false, nil
	case err != nil:
		return settings.Value{}, false, unavailable("get setting", group, err)
	}
	return settings.Decode(raw), true, nil
}

func (s *SQLiteStore) SetSetting(ctx context.Context, group, key string, v settings.Value) error {
	db, err := s.database(group)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO metadata VALUES(?, ?)`, key, v.Encode())
	if err != nil {
		return unavailable("set setting", group, err)
	}
	return nil
}

func (s *SQLiteStore) AllSettings(ctx context.Context, group string) (map[string]settings.Value, error) {
	db, err := s.database(group)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM metadata`)
	if err != nil {
		return nil, unavailable("load settings", group, err)
	}
	defer rows.Close()

	all := make(map[string]settings.Value)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, unavailable("load settings", group, err)
		}
		all[key] = settings.Decode(raw)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("load settings", group, err)
	}
	return all, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for group, db := range s.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.dbs, group)
	}
	return firstErr
}
