package corpus

import (
	"context"
	"database/sql"
)

// batchWriter groups inserts into transactions of a fixed size so that bulk
// dump imports do not pay per-row commit cost.
type batchWriter struct {
	db      *sql.DB
	tx      *sql.Tx
	pending int
	size    int
}

func newBatchWriter(db *sql.DB, size int) *batchWriter {
	if size <= 0 {
		size = 500
	}
	return &batchWriter{db: db, size: size}
}

// exec runs query inside the current transaction, opening one lazily and
// committing whenever the batch fills up.
func (b *batchWriter) exec(ctx context.Context, query string, args ...any) error {
	if b.tx == nil {
		tx, err := b.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		b.tx = tx
	}
	if _, err := b.tx.Exec(query, args...); err != nil {
		b.tx.Rollback()
		b.tx = nil
		b.pending = 0
		return err
	}
	b.pending++
	if b.pending >= b.size {
		return b.flush()
	}
	return nil
}

// flush commits any open transaction.
func (b *batchWriter) flush() error {
	if b.tx == nil {
		return nil
	}
	err := b.tx.Commit()
	b.tx = nil
	b.pending = 0
	return err
}
