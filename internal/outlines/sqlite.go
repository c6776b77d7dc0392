package outlines

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Faultbox/strokeglyph/internal/logger"
)

// SQLiteCache keeps fetched payloads in a local SQLite database and falls
// back to Next on a miss. Misses are not cached.
type SQLiteCache struct {
	db   *sql.DB
	Next Source
}

// OpenSQLiteCache opens or creates the cache database at path.
func OpenSQLiteCache(path string, next Source) (*SQLiteCache, error) {
	if path == "" {
		return nil, errors.New("cache path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS outlines (
		char       TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		strokes    INTEGER NOT NULL,
		fetched_at TEXT NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating outlines table: %w", err)
	}

	logger.Named("outlines").Debug("sqlite cache ready", zap.String("path", path))
	return &SQLiteCache{db: db, Next: next}, nil
}

// Load implements Source.
func (c *SQLiteCache) Load(ctx context.Context, char string) (*Character, error) {
	log := logger.Named("outlines")

	var payload []byte
	err := c.db.QueryRowContext(ctx, `SELECT payload FROM outlines WHERE char = ?`, char).Scan(&payload)
	switch {
	case err == nil:
		ch, derr := Decode(payload)
		if derr == nil {
			log.Debug("cache hit", zap.String("char", char))
			return ch, nil
		}
		// A corrupt row is refetched and overwritten.
		log.Warn("discarding cached payload", zap.String("char", char), zap.Error(derr))
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("querying cache: %w", err)
	}

	if c.Next == nil {
		return nil, &CharacterNotFoundError{Char: char, Source: "sqlite"}
	}
	ch, err := c.Next.Load(ctx, char)
	if err != nil {
		return nil, err
	}
	if err := c.Put(ctx, char, ch); err != nil {
		log.Warn("caching payload failed", zap.String("char", char), zap.Error(err))
	}
	return ch, nil
}

// Put stores ch under char, replacing any previous entry.
func (c *SQLiteCache) Put(ctx context.Context, char string, ch *Character) error {
	data, err := Encode(ch)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO outlines (char, payload, strokes, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(char) DO UPDATE SET payload = excluded.payload, strokes = excluded.strokes, fetched_at = excluded.fetched_at`,
		char, data, len(ch.Strokes), now)
	if err != nil {
		return fmt.Errorf("storing %q: %w", char, err)
	}
	return nil
}

// Len returns the number of cached characters.
func (c *SQLiteCache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outlines`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
