package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newGormTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: opens a fresh database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store, err := NewGormStore(db)
	require.NoError(t, err)
	return store
}

func storesUnderTest(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"gorm":   newGormTestStore(t),
	}
}

func TestStore_GetSetDelete(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var got doc
			found, err := s.Get(ctx, "posts:missing", &got)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, s.Set(ctx, "posts:1", doc{Name: "pintxos", Count: 2}))
			found, err = s.Get(ctx, "posts:1", &got)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, doc{Name: "pintxos", Count: 2}, got)

			require.NoError(t, s.Set(ctx, "posts:1", doc{Name: "pintxos", Count: 3}))
			_, err = s.Get(ctx, "posts:1", &got)
			require.NoError(t, err)
			assert.Equal(t, 3, got.Count)

			require.NoError(t, s.Delete(ctx, "posts:1", "posts:never-existed"))
			found, err = s.Get(ctx, "posts:1", &got)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestStore_ScanIsPrefixScopedAndOrdered(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, k := range []string{"comments:p1:b", "comments:p1:a", "comments:p10:a", "Comments:p1:c", "posts:p1"} {
				require.NoError(t, s.Set(ctx, k, doc{Name: k}))
			}

			entries, err := s.Scan(ctx, "comments:p1:")
			require.NoError(t, err)
			assert.Equal(t, []string{"comments:p1:a", "comments:p1:b"}, Keys(entries))

			docs, err := ScanAll[doc](ctx, s, "comments:")
			require.NoError(t, err)
			assert.Len(t, docs, 3)

			none, err := s.Scan(ctx, "threads:")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestStore_ScanMultiBytePrefix(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, k := range []string{"users:añorga:1", "users:añorga:2", "users:añorgax:3", "users:anorga:4"} {
				require.NoError(t, s.Set(ctx, k, doc{Name: k}))
			}

			entries, err := s.Scan(ctx, "users:añorga:")
			require.NoError(t, err)
			assert.Equal(t, []string{"users:añorga:1", "users:añorga:2"}, Keys(entries))
		})
	}
}

func TestStore_TxRollsBackOnError(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Set(ctx, "threads:t1", doc{Count: 1}))

			boom := errors.New("boom")
			err := s.Tx(ctx, func(ctx context.Context, tx Store) error {
				if err := tx.Set(ctx, "threads:t1", doc{Count: 99}); err != nil {
					return err
				}
				if err := tx.Set(ctx, "thread-upvotes:t1:u1", true); err != nil {
					return err
				}
				return boom
			})
			require.ErrorIs(t, err, boom)

			var got doc
			_, err = s.Get(ctx, "threads:t1", &got)
			require.NoError(t, err)
			assert.Equal(t, 1, got.Count)

			var marker bool
			found, err := s.Get(ctx, "thread-upvotes:t1:u1", &marker)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestStore_TxSeesItsOwnWrites(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Set(ctx, "replies:t1:r1", doc{Name: "r1"}))

			err := s.Tx(ctx, func(ctx context.Context, tx Store) error {
				require.NoError(t, tx.Set(ctx, "replies:t1:r2", doc{Name: "r2"}))
				require.NoError(t, tx.Delete(ctx, "replies:t1:r1"))

				entries, err := tx.Scan(ctx, "replies:t1:")
				require.NoError(t, err)
				assert.Equal(t, []string{"replies:t1:r2"}, Keys(entries))
				return nil
			})
			require.NoError(t, err)

			entries, err := s.Scan(ctx, "replies:t1:")
			require.NoError(t, err)
			assert.Equal(t, []string{"replies:t1:r2"}, Keys(entries))
		})
	}
}

func TestMemoryStore_ConcurrentTxCounterDoesNotDrift(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "posts:p1", doc{}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.Tx(ctx, func(ctx context.Context, tx Store) error {
				var d doc
				if _, err := tx.Get(ctx, "posts:p1", &d); err != nil {
					return err
				}
				d.Count++
				if err := tx.Set(ctx, fmt.Sprintf("upvotes:p1:u%d", i), true); err != nil {
					return err
				}
				return tx.Set(ctx, "posts:p1", d)
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var d doc
	_, err := s.Get(ctx, "posts:p1", &d)
	require.NoError(t, err)
	markers, err := s.Scan(ctx, "upvotes:p1:")
	require.NoError(t, err)
	assert.Equal(t, 50, d.Count)
	assert.Len(t, markers, d.Count)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `reply\_index:50\%\\`, escapeLike(`reply_index:50%\`))
}

func TestPostgresQueriesUseDollarPlaceholders(t *testing.T) {
	query, args, err := psql.Select("key", "value").
		From(kvTable).
		Where(`key LIKE ? ESCAPE '\'`, escapeLike("posts:")+"%").
		OrderBy(`key COLLATE "C"`).
		ToSql()
	require.NoError(t, err)
	assert.Equal(t, `SELECT key, value FROM kv_store WHERE key LIKE $1 ESCAPE '\' ORDER BY key COLLATE "C"`, query)
	assert.Equal(t, []interface{}{"posts:%"}, args)
}

func TestRetryTx(t *testing.T) {
	ctx := context.Background()
	deadlock := fmt.Errorf("kvstore: set: %w", &pgconn.PgError{Code: "40P01"})

	attempts := 0
	err := retryTx(ctx, func() error {
		attempts++
		if attempts < 2 {
			return deadlock
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)

	attempts = 0
	err = retryTx(ctx, func() error {
		attempts++
		return deadlock
	})
	assert.ErrorIs(t, err, deadlock)
	assert.Equal(t, 3, attempts)

	attempts = 0
	boom := errors.New("boom")
	err = retryTx(ctx, func() error {
		attempts++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}
