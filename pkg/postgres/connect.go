package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens a GORM connection over the postgres driver with retry logic
// for reliable startup. Each failed attempt backs off a little longer so a
// fleet restarting together does not hammer the database.
func Connect(ctx context.Context, cfg Config) (*gorm.DB, error) {
	var lastErr error
	for i := range cfg.RetryAttempts {
		db, err := open(ctx, cfg)
		if err == nil {
			return db, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}
	return nil, errors.Join(ErrFailedToOpenDBConnection, lastErr)
}

// MustConnect is like Connect but panics on failure. Use during app init.
func MustConnect(ctx context.Context, cfg Config) *gorm.DB {
	db, err := Connect(ctx, cfg)
	if err != nil {
		panic(err)
	}
	return db
}

func open(ctx context.Context, cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.ConnectionString), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
	sqlDB.SetConnMaxLifetime(cfg.MaxConnLifetime)

	// verify with an actual ping to catch auth and permission issues early
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Join(ErrFailedToPingDB, err)
	}
	return db, nil
}

// Healthcheck returns a ping function suitable for readiness endpoints.
func Healthcheck(db *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
