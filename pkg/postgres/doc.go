// Package postgres opens the GORM database connection backing the
// notification and preference stores.
//
// Config is populated from environment variables via github.com/caarlos0/env;
// Connect retries with linear backoff until the database is reachable and
// verifies the connection with a ping. Schema setup lives with the stores
// themselves (their Migrate methods), keeping this package model-free.
//
//	var cfg postgres.Config
//	// ... env.Parse(&cfg) via pkg/config
//	db := postgres.MustConnect(ctx, cfg)
//	storage := notification.NewGormStorage(db)
package postgres
