package postgres

import "time"

type Config struct {
	ConnectionString string        `env:"PG_CONN_URL,required"`              // ConnectionString is the connection string to the database.
	MaxOpenConns     int           `env:"PG_MAX_OPEN_CONNS" envDefault:"10"` // MaxOpenConns is the maximum number of open connections to the database.
	MaxIdleConns     int           `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`  // MaxIdleConns is the maximum number of idle connections to the database.
	MaxConnIdleTime  time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime  time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`

	RetryAttempts int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`  // RetryAttempts is the number of retry attempts to connect to the database.
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"` // RetryInterval is the interval between retry attempts.
}
