package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/upper/db/v4"
)

const mysqlSchema = "CREATE TABLE IF NOT EXISTS kv_store (" +
	"`key` VARCHAR(512) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL PRIMARY KEY, " +
	"`value` JSON NOT NULL, " +
	"`updated_at` TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP" +
	")"

// MySQLStore keeps the namespace in a MySQL kv_store table through an
// upper/db session. Keys use a binary collation so prefix matches and
// ordering are byte-wise.
type MySQLStore struct {
	sess db.Session
	inTx bool
}

// NewMySQLStore ensures kv_store exists and returns the store
func NewMySQLStore(ctx context.Context, sess db.Session) (*MySQLStore, error) {
	if _, err := sess.SQL().ExecContext(ctx, mysqlSchema); err != nil {
		return nil, fmt.Errorf("kvstore: create kv_store: %w", err)
	}
	return &MySQLStore{sess: sess}, nil
}

// Get implements Store
func (s *MySQLStore) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	query := "SELECT `value` FROM kv_store WHERE `key` = ?"
	if s.inTx {
		query += " FOR UPDATE"
	}

	row, err := s.sess.SQL().QueryRowContext(ctx, query, key)
	if err != nil {
		return false, fmt.Errorf("kvstore: get %q: %w", key, err)
	}

	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, db.ErrNoMoreRows) {
			return false, nil
		}
		return false, fmt.Errorf("kvstore: get %q: %w", key, err)
	}
	return true, decode(key, data, dst)
}

// Set implements Store
func (s *MySQLStore) Set(ctx context.Context, key string, value interface{}) error {
	data, err := encode(key, value)
	if err != nil {
		return err
	}

	query := "INSERT INTO kv_store (`key`, `value`) VALUES (?, ?) " +
		"ON DUPLICATE KEY UPDATE `value` = VALUES(`value`)"
	if _, err := s.sess.SQL().ExecContext(ctx, query, key, string(data)); err != nil {
		return fmt.Errorf("kvstore: set %q: %w", key, err)
	}
	return nil
}

// Delete implements Store
func (s *MySQLStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", ")
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	query := "DELETE FROM kv_store WHERE `key` IN (" + placeholders + ")"
	if _, err := s.sess.SQL().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("kvstore: delete %d keys: %w", len(keys), err)
	}
	return nil
}

// Scan implements Store
func (s *MySQLStore) Scan(ctx context.Context, prefix string) ([]Entry, error) {
	query := "SELECT `key`, `value` FROM kv_store WHERE LEFT(`key`, ?) = ? ORDER BY `key`"

	rows, err := s.sess.SQL().QueryContext(ctx, query, len(prefix), prefix)
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

// Tx implements Store
func (s *MySQLStore) Tx(ctx context.Context, fn TxFunc) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return retryTx(ctx, func() error {
		return s.sess.TxContext(ctx, func(tx db.Session) error {
			return fn(ctx, &MySQLStore{sess: tx, inTx: true})
		}, nil)
	})
}
