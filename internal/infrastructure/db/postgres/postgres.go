package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 5
	retryDelay         = 2 * time.Second
)

// Config captures the settings for establishing a PostgreSQL connection.
type Config struct {
	DSN         string
	Timeout     time.Duration
	MaxAttempts int
}

// Connect opens a GORM handle, retrying while the database comes up, and
// validates connectivity with a ping. Driver errors are translated so
// repositories can match gorm.ErrDuplicatedKey.
func Connect(ctx context.Context, cfg Config) (*gorm.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 1; i <= attempts; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			err = Ping(ctx, db, timeout)
		}
		if err == nil {
			return db, nil
		}
		if i < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}
	return nil, fmt.Errorf("postgres connect after %d attempts: %w", attempts, err)
}

// Ping checks the underlying connection pool.
func Ping(ctx context.Context, db *gorm.DB, timeout time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}

// Migrate creates or updates every table, index and foreign key.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&userModel{},
		&offerModel{},
		&packageModel{},
		&orderModel{},
		&reviewModel{},
	); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
