package kvstore

import (
	"context"

	"github.com/emblabrowall/donosti-guide/internal/pkg/dberrors"
)

// retryTx runs a whole transaction again when the database aborted it for a
// deadlock or serialization conflict
func retryTx(ctx context.Context, run func() error) error {
	var err error
	for attempt := 1; attempt <= dberrors.MaxTxAttempts; attempt++ {
		if err = run(); err == nil || !dberrors.IsRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}
