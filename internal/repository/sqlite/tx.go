package sqlite

import (
	"context"
	"database/sql"

	"github.com/uma-movies/uma-server/internal/repository"
)

// querier is the subset of database operations shared by *sql.DB and *sql.Tx.
// Repositories run their statements through it so the same code works inside
// and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type txKey struct{}

// withTxContext returns a context carrying the given transaction.
func withTxContext(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// conn returns the ambient transaction from the context if one is active,
// otherwise the database connection itself.
func (db *DB) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db.db
}

// inTx runs fn inside the ambient transaction if one is active, otherwise
// inside a fresh transaction. Aggregate updates use this so a caller-level
// transaction is joined rather than nested.
func (db *DB) inTx(ctx context.Context, fn func(ctx context.Context, q querier) error) error {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx, tx)
	}
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(withTxContext(ctx, tx), tx)
	})
}

// txManager implements repository.TxManager on top of DB.WithTx.
type txManager struct {
	db *DB
}

// NewTxManager creates a transaction manager for the given database.
func NewTxManager(db *DB) repository.TxManager {
	return &txManager{db: db}
}

// WithTx executes fn within a transaction carried on the context.
// Repository calls made with the returned context join the transaction.
func (m *txManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(withTxContext(ctx, tx))
	})
}

var _ repository.TxManager = (*txManager)(nil)
