package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"gallerist/internal/config"
)

// ErrLocked is returned by Open when another session holds the cart.
var ErrLocked = errors.New("cart is in use by another gallerist session")

const storeTimeout = 5 * time.Second

// EventKind labels a row in the order history.
type EventKind string

const (
	EventMaterialized EventKind = "materialized"
	EventConfirmed    EventKind = "confirmed"
	EventDiscarded    EventKind = "discarded"
)

// Event is one recorded order outcome.
type Event struct {
	ID        int64     `json:"id"`
	Kind      EventKind `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists cart entries backed by SQLite.
type Store struct {
	db       *sql.DB
	path     string
	lock     *flock.Flock
	lockPath string
}

// Open acquires the state directory lock, connects to the cart database and
// applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.StateDir, "cart.lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cart lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, lockPath)
	}

	dbPath := cfg.CartDatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock, lockPath: lockPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database and releases the lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	if s.lock != nil {
		errs = append(errs, s.lock.Unlock())
	}
	return errors.Join(errs...)
}

// Load returns the persisted entries in insertion order.
func (s *Store) Load(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url, added_at FROM cart_entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry   Entry
			addedAt string
		)
		if err := rows.Scan(&entry.URL, &addedAt); err != nil {
			return nil, fmt.Errorf("scan cart entry: %w", err)
		}
		entry.AddedAt = parseTime(addedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart: %w", err)
	}
	return entries, nil
}

// Append stores entry, ignoring a URL that is already present.
func (s *Store) Append(entry Entry) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cart_entries (url, added_at) VALUES (?, ?) ON CONFLICT(url) DO NOTHING`,
		entry.URL, entry.AddedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert cart entry: %w", err)
	}
	return nil
}

// Delete removes url from the cart.
func (s *Store) Delete(url string) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_entries WHERE url = ?`, url); err != nil {
		return fmt.Errorf("delete cart entry: %w", err)
	}
	return nil
}

// Clear removes every cart entry.
func (s *Store) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_entries`); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// RecordEvent appends an entry to the order history.
func (s *Store) RecordEvent(ctx context.Context, kind EventKind, detail string, itemCount int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cart_events (kind, detail, item_count, created_at) VALUES (?, ?, ?, ?)`,
		string(kind), nullableString(detail), itemCount, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert cart event: %w", err)
	}
	return nil
}

// Events returns the most recent history entries, newest first. A limit of
// zero or less returns everything.
func (s *Store) Events(ctx context.Context, limit int) ([]Event, error) {
	query := `SELECT id, kind, detail, item_count, created_at FROM cart_events ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cart events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			ev        Event
			kind      string
			detail    sql.NullString
			createdAt string
		)
		if err := rows.Scan(&ev.ID, &kind, &detail, &ev.ItemCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan cart event: %w", err)
		}
		ev.Kind = EventKind(kind)
		ev.Detail = detail.String
		ev.CreatedAt = parseTime(createdAt)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart events: %w", err)
	}
	return events, nil
}

// OpenCart opens the store and returns a Cart restored from it that writes
// through on every mutation.
func OpenCart(ctx context.Context, cfg *config.Config) (*Cart, *Store, error) {
	store, err := Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	entries, err := store.Load(ctx)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return New(store, entries...), store, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
