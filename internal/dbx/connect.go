package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

// maxConnectDelay caps the exponential backoff between ping attempts.
const maxConnectDelay = 30 * time.Second

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Connect opens a pool for driver/dsn and pings it until it answers.
// retries is the number of extra attempts after the first one; zero means
// keep trying until ctx is done.
func Connect(ctx context.Context, driver, dsn string, retries uint64, delay time.Duration) (*sql.DB, error) {
	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if delay <= 0 {
		delay = time.Second
	}
	b := retry.NewExponential(delay)
	b = retry.WithCappedDuration(maxConnectDelay, b)
	if retries > 0 {
		b = retry.WithMaxRetries(retries, b)
	}

	err = retry.Do(ctx, b, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
