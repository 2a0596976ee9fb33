package postgres

//nolint:revive
import (
	"errors"
	"fieldbook/config"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection splits reads from writes. Booking transactions always run on Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one side of the read/write pair.
type Endpoint struct {
	Name     string
	Host     string
	Port     string
	Username string
	Password string
	Database string
	SSLMode  string
	Timezone string
}

// DSN renders the endpoint as a lib/pq connection URL.
func (e Endpoint) DSN() string {
	query := url.Values{}
	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	if e.Timezone != "" {
		query.Set("timezone", e.Timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.Database,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func New(config *config.Config) *Connection {
	read, write := Endpoints(config)

	return &Connection{
		Read:  mustConnect(read, config),
		Write: mustConnect(write, config),
	}
}

// Endpoints derives the read and write endpoints, applying the database name prefix.
func Endpoints(config *config.Config) (read, write Endpoint) {
	pg := config.DB.Postgres

	read = Endpoint{
		Name:     "read",
		Host:     pg.Read.Host,
		Port:     pg.Read.Port,
		Username: pg.Read.Username,
		Password: pg.Read.Password,
		Database: pg.Prefix + pg.Read.Name,
		SSLMode:  pg.Read.SSLMode,
		Timezone: pg.Read.Timezone,
	}

	write = Endpoint{
		Name:     "write",
		Host:     pg.Write.Host,
		Port:     pg.Write.Port,
		Username: pg.Write.Username,
		Password: pg.Write.Password,
		Database: pg.Prefix + pg.Write.Name,
		SSLMode:  pg.Write.SSLMode,
		Timezone: pg.Write.Timezone,
	}

	return read, write
}

func mustConnect(endpoint Endpoint, config *config.Config) *sqlx.DB {
	db, err := Connect(endpoint, config.DB.Postgres.MaxRetry, time.Duration(config.DB.Postgres.RetryWaitTime)*time.Second)
	if err != nil {
		log.Fatal().Err(err).Str("name", endpoint.Name).Msg("Failed connecting to database")
	}

	return db
}

// Connect retries until the database answers or maxRetry attempts have failed.
func Connect(endpoint Endpoint, maxRetry int, wait time.Duration) (*sqlx.DB, error) {
	err := errors.New("no connection attempt made")

	for attempt := 1; attempt <= max(1, maxRetry); attempt++ {
		var db *sqlx.DB

		db, err = sqlx.Connect("postgres", endpoint.DSN())
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			log.Info().
				Str("name", endpoint.Name).
				Str("host", endpoint.Host).
				Str("dbName", endpoint.Database).
				Msg("Connected to database")

			return db, nil
		}

		log.Error().
			Err(err).
			Str("name", endpoint.Name).
			Str("host", endpoint.Host).
			Int("attempt", attempt).
			Msg("Failed connecting to database, retrying")

		time.Sleep(wait)
	}

	return nil, fmt.Errorf("failed to connect to %s database: %w", endpoint.Name, err)
}
