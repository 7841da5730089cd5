package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Postgres stores every entity as a JSONB document in the entities table
// (see migrations/). Update runs inside one SQL transaction and locks the
// rows it reads.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) NewID() string { return newID() }

func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) Get(ctx context.Context, kind Kind, id string) ([]byte, bool, error) {
	return pgView{q: p.db}.Get(ctx, kind, id)
}

func (p *Postgres) Put(ctx context.Context, kind Kind, id string, data []byte) error {
	return pgView{q: p.db}.Put(ctx, kind, id, data)
}

func (p *Postgres) Delete(ctx context.Context, kind Kind, id string) (bool, error) {
	return pgView{q: p.db}.Delete(ctx, kind, id)
}

func (p *Postgres) Scan(ctx context.Context, kind Kind) ([]Record, error) {
	return pgView{q: p.db}.Scan(ctx, kind)
}

func (p *Postgres) Update(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(pgView{q: tx, forUpdate: true}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type pgView struct {
	q         querier
	forUpdate bool
}

func (v pgView) Get(ctx context.Context, kind Kind, id string) ([]byte, bool, error) {
	query := `SELECT data FROM entities WHERE kind = $1 AND id = $2`
	if v.forUpdate {
		query += ` FOR UPDATE`
	}

	var data []byte
	err := v.q.QueryRowContext(ctx, query, string(kind), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s/%s: %w", kind, id, err)
	}
	return data, true, nil
}

func (v pgView) Put(ctx context.Context, kind Kind, id string, data []byte) error {
	_, err := v.q.ExecContext(ctx, `
		INSERT INTO entities (kind, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, id) DO UPDATE SET data = EXCLUDED.data
	`, string(kind), id, string(data))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", kind, id, err)
	}
	return nil
}

func (v pgView) Delete(ctx context.Context, kind Kind, id string) (bool, error) {
	res, err := v.q.ExecContext(ctx,
		`DELETE FROM entities WHERE kind = $1 AND id = $2`,
		string(kind), id,
	)
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", kind, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (v pgView) Scan(ctx context.Context, kind Kind) ([]Record, error) {
	rows, err := v.q.QueryContext(ctx,
		`SELECT id, data FROM entities WHERE kind = $1 ORDER BY created_at`,
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", kind, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Data); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
