package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrInvalidInput indicates a caller passed a nil or otherwise unusable
// argument.
var ErrInvalidInput = errors.New("vault: invalid input")

// Vault wraps a single *sql.DB, matching the local, single-writer,
// file-based storage style the Chartly2.0 reference repo uses for its
// relational store (one *sql.DB, schema ensured idempotently, every write
// going through one serialized path).
type Vault struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite-backed vault at path and
// ensures its schema exists. An empty path opens an in-memory vault, used
// by tests.
func Open(ctx context.Context, path string) (*Vault, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	// _txlock=immediate makes every transaction (including the ones
	// WithWriteTx opens via database/sql's ordinary BeginTx) acquire
	// SQLite's RESERVED lock up front, giving BEGIN IMMEDIATE semantics
	// without a driver-specific API.
	dsn += "?_txlock=immediate"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("vault: open: %w", err)
	}
	// A vault has exactly one writer at a time (§5); a single open
	// connection makes that explicit and avoids SQLITE_BUSY under the
	// driver's own connection pool.
	db.SetMaxOpenConns(1)

	v := &Vault{db: db}
	if err := v.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return v, nil
}

// Close releases the underlying database handle.
func (v *Vault) Close() error {
	return v.db.Close()
}

func (v *Vault) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS outbound_queue (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			direction TEXT NOT NULL,
			payload BLOB NOT NULL,
			enqueued_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS setup_bundle (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			identity_public_key BLOB NOT NULL,
			identity_secret_key BLOB NOT NULL,
			certificate_form BLOB NOT NULL,
			registration_form BLOB
		)`,
		`CREATE TABLE IF NOT EXISTS mailbox_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			direction TEXT NOT NULL,
			journalist_id TEXT NOT NULL,
			user_key BLOB NOT NULL,
			message BLOB NOT NULL,
			received_at INTEGER NOT NULL,
			read INTEGER NOT NULL,
			is_sent INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := v.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("vault: ensure schema: %w", err)
		}
	}
	return nil
}

// WithWriteTx runs fn inside a BEGIN IMMEDIATE transaction: the lock is
// acquired before fn starts and held until it returns, implementing §5's
// "scoped acquisition" rule (begin, run, commit-or-rollback, never two
// writers interleaved). fn's returned error rolls the transaction back;
// any other error rolls back too.
func (v *Vault) WithWriteTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := v.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("vault: begin write tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(tx)
	return err
}
