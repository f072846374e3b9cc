package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgQuerier is satisfied by both *pgxpool.Pool and pgx.Tx
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const kvTable = "kv_store"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgresStore keeps the namespace in the kv_store table
type PostgresStore struct {
	pool *pgxpool.Pool
	q    pgQuerier
	tx   pgx.Tx
}

// NewPostgresStore creates a store over an open pool. The kv_store table is
// created by the migrations.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, q: pool}
}

// Get implements Store
func (s *PostgresStore) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	sb := psql.Select("value").From(kvTable).Where(squirrel.Eq{"key": key})
	if s.tx != nil {
		sb = sb.Suffix("FOR UPDATE")
	}
	query, args, err := sb.ToSql()
	if err != nil {
		return false, fmt.Errorf("kvstore: build get %q: %w", key, err)
	}

	var data []byte
	if err := s.q.QueryRow(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("kvstore: get %q: %w", key, err)
	}
	return true, decode(key, data, dst)
}

// Set implements Store
func (s *PostgresStore) Set(ctx context.Context, key string, value interface{}) error {
	data, err := encode(key, value)
	if err != nil {
		return err
	}

	query, args, err := psql.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, squirrel.Expr("?::jsonb", string(data)), squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("kvstore: build set %q: %w", key, err)
	}
	if _, err := s.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("kvstore: set %q: %w", key, err)
	}
	return nil
}

// Delete implements Store
func (s *PostgresStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := psql.Delete(kvTable).Where(squirrel.Eq{"key": keys}).ToSql()
	if err != nil {
		return fmt.Errorf("kvstore: build delete: %w", err)
	}
	if _, err := s.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("kvstore: delete %d keys: %w", len(keys), err)
	}
	return nil
}

// Scan implements Store
func (s *PostgresStore) Scan(ctx context.Context, prefix string) ([]Entry, error) {
	query, args, err := psql.Select("key", "value").
		From(kvTable).
		Where(`key LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%").
		OrderBy(`key COLLATE "C"`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("kvstore: build scan %q: %w", prefix, err)
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("kvstore: scan %q: %w", prefix, err)
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("kvstore: scan %q: %w", prefix, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kvstore: scan %q: %w", prefix, err)
	}
	return out, nil
}

// Tx implements Store. A transaction aborted by a deadlock is run again.
func (s *PostgresStore) Tx(ctx context.Context, fn TxFunc) error {
	if s.tx != nil {
		return fn(ctx, s)
	}
	return retryTx(ctx, func() error { return s.runTx(ctx, fn) })
}

func (s *PostgresStore) runTx(ctx context.Context, fn TxFunc) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("kvstore: begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx, &PostgresStore{pool: s.pool, q: tx, tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("kvstore: commit transaction: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
