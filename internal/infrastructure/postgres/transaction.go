package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/transaction"
)

// TxWrapper adapts sqlx.Tx to transaction.Tx.
type TxWrapper struct {
	*sqlx.Tx
}

// Commit maps a serialization failure at commit time to transaction.ErrSerialization.
func (t *TxWrapper) Commit() error {
	return mapError(t.Tx.Commit(), "commit")
}

func (t *TxWrapper) Rollback() error {
	return t.Tx.Rollback()
}

// TxManager starts SERIALIZABLE transactions on a sqlx.DB.
type TxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	tx, err := m.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, mapError(err, "begin")
	}
	return &TxWrapper{Tx: tx}, nil
}

// UnwrapTx returns the sqlx.Tx behind tx, or nil for foreign implementations.
func UnwrapTx(tx transaction.Tx) *sqlx.Tx {
	if wrapper, ok := tx.(*TxWrapper); ok {
		return wrapper.Tx
	}
	return nil
}

// queryer is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// conn returns the transaction carried by ctx, or db outside a transaction.
func conn(ctx context.Context, db *sqlx.DB) queryer {
	if tx, ok := transaction.FromContext(ctx); ok {
		if stx := UnwrapTx(tx); stx != nil {
			return stx
		}
	}
	return db
}

var _ transaction.Manager = (*TxManager)(nil)
